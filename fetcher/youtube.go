package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ewintr.nl/tubescribe/model"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// Youtube fetches metadata through the YouTube Data API.
type Youtube struct {
	Client *youtube.Service
}

func NewYoutube(client *youtube.Service) *Youtube {
	return &Youtube{Client: client}
}

func (y *Youtube) FetchMetadata(ctx context.Context, ytID model.YoutubeVideoID) (Metadata, error) {
	item, err := y.video(ctx, ytID, "snippet")
	if err != nil {
		return Metadata{}, err
	}
	if item.Snippet == nil {
		return Metadata{}, &MetadataError{StatusCode: http.StatusNotFound, Message: "video has no snippet"}
	}

	md := Metadata{
		Title:     item.Snippet.Title,
		Channel:   item.Snippet.ChannelTitle,
		Thumbnail: ytID.ThumbnailURL(),
	}
	if th := item.Snippet.Thumbnails; th != nil {
		switch {
		case th.Maxres != nil:
			md.Thumbnail = th.Maxres.Url
		case th.High != nil:
			md.Thumbnail = th.High.Url
		}
	}

	return md, nil
}

func (y *Youtube) CheckPlayable(ctx context.Context, ytID model.YoutubeVideoID) error {
	item, err := y.video(ctx, ytID, "status")
	if err != nil {
		var mdErr *MetadataError
		if errors.As(err, &mdErr) {
			return fmt.Errorf("%w: %s", ErrNotPlayable, mdErr.Error())
		}
		return err
	}

	st := item.Status
	switch {
	case st == nil:
		return fmt.Errorf("%w: no status", ErrNotPlayable)
	case st.PrivacyStatus == "private":
		return fmt.Errorf("%w: video is private", ErrNotPlayable)
	case st.UploadStatus != "" && st.UploadStatus != "processed":
		return fmt.Errorf("%w: upload status %s", ErrNotPlayable, st.UploadStatus)
	case !st.Embeddable:
		return fmt.Errorf("%w: video is not embeddable", ErrNotPlayable)
	}

	return nil
}

func (y *Youtube) video(ctx context.Context, ytID model.YoutubeVideoID, part string) (*youtube.Video, error) {
	response, err := y.Client.Videos.
		List([]string{part}).
		Id(string(ytID)).
		Context(ctx).
		Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			return nil, &MetadataError{StatusCode: gErr.Code, Message: gErr.Message}
		}
		return nil, fmt.Errorf("could not reach youtube api: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, &MetadataError{StatusCode: http.StatusNotFound, Message: "video not found"}
	}

	return response.Items[0], nil
}
