package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"ewintr.nl/tubescribe/model"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

// memFeedReader behaves like a feed reader: it returns at most limit unread
// entries with an id above the cursor, in id order.
type memFeedReader struct {
	entries []FeedEntry
	limit   int
	read    []int64
	err     error
}

func (m *memFeedReader) Unread(afterEntryID int64) ([]FeedEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	isRead := map[int64]bool{}
	for _, id := range m.read {
		isRead[id] = true
	}

	res := []FeedEntry{}
	for _, e := range m.entries {
		if e.EntryID <= afterEntryID || isRead[e.EntryID] {
			continue
		}
		if m.limit > 0 && len(res) == m.limit {
			break
		}
		res = append(res, e)
	}
	return res, nil
}

func (m *memFeedReader) MarkRead(entryIDs ...int64) error {
	m.read = append(m.read, entryIDs...)
	return nil
}

type memSubmitter struct {
	keys []string
	urls []string
	fail map[string]error
}

func (m *memSubmitter) Submit(_ context.Context, rawURL, apiKey string) (*model.Video, error) {
	m.urls = append(m.urls, rawURL)
	m.keys = append(m.keys, apiKey)
	if err, ok := m.fail[rawURL]; ok {
		return nil, err
	}
	ref, err := Reference(rawURL)
	if err != nil {
		return nil, err
	}
	return model.NewVideo(ref), nil
}

func TestFetcherReadFeeds(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("entries", func(t *testing.T) {
		reader := &memFeedReader{entries: []FeedEntry{
			{EntryID: 1, URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
			{EntryID: 2, URL: "https://blog.example.com/post"},
			{EntryID: 3, URL: "https://youtu.be/aaaaaaaaaaa"},
		}}
		sub := &memSubmitter{fail: map[string]error{"https://youtu.be/aaaaaaaaaaa": errors.New("boom")}}
		f := NewFetcher(reader, sub, "server-key", 0, logger)

		assert.Equal(t, 1, f.ReadFeeds(context.Background()))
		assert.Equal(t, []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://youtu.be/aaaaaaaaaaa"}, sub.urls)
		assert.Equal(t, []string{"server-key", "server-key"}, sub.keys)
		assert.Equal(t, []int64{1, 3}, reader.read)
	})

	t.Run("reader error", func(t *testing.T) {
		reader := &memFeedReader{err: errors.New("offline")}
		sub := &memSubmitter{}
		f := NewFetcher(reader, sub, "server-key", 0, logger)

		assert.Equal(t, 0, f.ReadFeeds(context.Background()))
		assert.Empty(t, sub.urls)
		assert.Empty(t, reader.read)
	})

	t.Run("cancelled", func(t *testing.T) {
		reader := &memFeedReader{entries: []FeedEntry{
			{EntryID: 1, URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		}}
		sub := &memSubmitter{}
		f := NewFetcher(reader, sub, "server-key", 0, logger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Equal(t, 0, f.ReadFeeds(ctx))
		assert.Empty(t, sub.urls)
		assert.Empty(t, reader.read)
	})

	t.Run("full batch of other entries", func(t *testing.T) {
		var entries []FeedEntry
		for i := 1; i <= 50; i++ {
			entries = append(entries, FeedEntry{EntryID: int64(i), URL: fmt.Sprintf("https://blog.example.com/%d", i)})
		}
		entries = append(entries, FeedEntry{EntryID: 51, URL: "https://youtu.be/dQw4w9WgXcQ"})
		reader := &memFeedReader{entries: entries, limit: 50}
		sub := &memSubmitter{}
		f := NewFetcher(reader, sub, "server-key", 0, logger)

		var done int
		for i := 0; i < 3; i++ {
			done += f.ReadFeeds(context.Background())
		}
		assert.Equal(t, 1, done)
		assert.Equal(t, []string{"https://youtu.be/dQw4w9WgXcQ"}, sub.urls)
		assert.Equal(t, []int64{51}, reader.read)
	})

	t.Run("starts over after the last batch", func(t *testing.T) {
		reader := &memFeedReader{entries: []FeedEntry{
			{EntryID: 1, URL: "https://blog.example.com/post"},
		}, limit: 50}
		sub := &memSubmitter{}
		f := NewFetcher(reader, sub, "server-key", 0, logger)

		f.ReadFeeds(context.Background())
		assert.Equal(t, int64(1), f.cursor)
		f.ReadFeeds(context.Background())
		assert.Equal(t, int64(0), f.cursor)

		reader.entries = append(reader.entries, FeedEntry{EntryID: 2, URL: "https://youtu.be/dQw4w9WgXcQ"})
		assert.Equal(t, 1, f.ReadFeeds(context.Background()))
	})

	t.Run("no server key", func(t *testing.T) {
		reader := &memFeedReader{entries: []FeedEntry{
			{EntryID: 1, URL: "https://youtu.be/dQw4w9WgXcQ"},
		}}
		sub := &memSubmitter{fail: map[string]error{"https://youtu.be/dQw4w9WgXcQ": ErrCredentialMissing}}
		f := NewFetcher(reader, sub, "", 0, logger)

		assert.Equal(t, 0, f.ReadFeeds(context.Background()))
		assert.Len(t, sub.urls, 1)
		assert.Empty(t, reader.read)
	})
}
