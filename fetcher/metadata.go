package fetcher

import (
	"context"

	"ewintr.nl/tubescribe/model"
)

type Metadata struct {
	Title     string
	Channel   string
	Thumbnail string
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ytID model.YoutubeVideoID) (Metadata, error)
}

// PlayabilityChecker tells whether a video can be watched at all.
type PlayabilityChecker interface {
	CheckPlayable(ctx context.Context, ytID model.YoutubeVideoID) error
}
