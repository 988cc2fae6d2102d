package fetcher

import (
	"context"
	"errors"
	"time"

	"ewintr.nl/tubescribe/model"
	"golang.org/x/exp/slog"
)

type Submitter interface {
	Submit(ctx context.Context, rawURL, apiKey string) (*model.Video, error)
}

// Fetcher periodically summarizes the YouTube entries that are unread in a
// feed reader, using the server key. It walks the unread entries in batches
// by entry id and starts over from the oldest once a batch comes back empty,
// so entries it leaves alone never block the ones behind them.
type Fetcher struct {
	cursor     int64
	interval   time.Duration
	feedReader FeedReader
	submitter  Submitter
	apiKey     string
	logger     *slog.Logger
}

func NewFetcher(feedReader FeedReader, submitter Submitter, apiKey string, interval time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		interval:   interval,
		feedReader: feedReader,
		submitter:  submitter,
		apiKey:     apiKey,
		logger:     logger,
	}
}

func (f *Fetcher) Run(ctx context.Context) {
	f.logger.Info("started feed reader", slog.String("interval", f.interval.String()))
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("stopped feed reader")
			return
		case <-ticker.C:
			f.ReadFeeds(ctx)
		}
	}
}

// ReadFeeds handles one batch of unread entries and returns the number of
// videos that were summarized. Entries that are not YouTube videos are left
// alone. YouTube entries are marked read after one attempt, unless the attempt
// failed for lack of a key.
func (f *Fetcher) ReadFeeds(ctx context.Context) int {
	entries, err := f.feedReader.Unread(f.cursor)
	if err != nil {
		f.logger.Error("failed to fetch unread entries", slog.String("error", err.Error()))
		return 0
	}
	f.logger.Info("fetched unread entries", slog.Int("count", len(entries)), slog.Int64("after", f.cursor))
	if len(entries) == 0 {
		f.cursor = 0
		return 0
	}

	var (
		done      int
		attempted []int64
	)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.EntryID > f.cursor {
			f.cursor = entry.EntryID
		}
		if err := ValidateURL(entry.URL); err != nil {
			continue
		}

		video, err := f.submitter.Submit(ctx, entry.URL, f.apiKey)
		if errors.Is(err, ErrCredentialMissing) {
			f.logger.Error("no server key, leaving entry unread", slog.Int64("entry", entry.EntryID))
			continue
		}
		attempted = append(attempted, entry.EntryID)
		if err != nil {
			f.logger.Error("failed to summarize entry", slog.Int64("entry", entry.EntryID), slog.String("title", entry.Title), slog.String("error", err.Error()))
			continue
		}
		done++
		f.logger.Info("summarized entry", slog.Int64("entry", entry.EntryID), slog.String("video", string(video.Reference.ID)))
	}

	if err := f.feedReader.MarkRead(attempted...); err != nil {
		f.logger.Error("failed to mark entries as read", slog.Int("count", len(attempted)), slog.String("error", err.Error()))
	}

	return done
}
