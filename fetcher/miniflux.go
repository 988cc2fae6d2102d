package fetcher

import (
	"fmt"

	"miniflux.app/client"
)

const defaultMinifluxBatch = 50

type MinifluxInfo struct {
	Endpoint   string
	ApiKey     string
	CategoryID int64
	BatchSize  int
}

// Miniflux reads unread entries in id order, one batch at a time, optionally
// limited to one category.
type Miniflux struct {
	client     *client.Client
	categoryID int64
	batchSize  int
}

func NewMiniflux(info MinifluxInfo) *Miniflux {
	batch := info.BatchSize
	if batch <= 0 {
		batch = defaultMinifluxBatch
	}

	return &Miniflux{
		client:     client.New(info.Endpoint, info.ApiKey),
		categoryID: info.CategoryID,
		batchSize:  batch,
	}
}

func (m *Miniflux) Unread(afterEntryID int64) ([]FeedEntry, error) {
	result, err := m.client.Entries(&client.Filter{
		Status:       client.EntryStatusUnread,
		Order:        "id",
		Direction:    "asc",
		Limit:        m.batchSize,
		AfterEntryID: afterEntryID,
		CategoryID:   m.categoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list unread entries: %w", err)
	}

	entries := make([]FeedEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, FeedEntry{
			EntryID: entry.ID,
			FeedID:  entry.FeedID,
			Title:   entry.Title,
			URL:     entry.URL,
		})
	}

	return entries, nil
}

func (m *Miniflux) MarkRead(entryIDs ...int64) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if err := m.client.UpdateEntries(entryIDs, client.EntryStatusRead); err != nil {
		return fmt.Errorf("could not mark %d entries read: %w", len(entryIDs), err)
	}

	return nil
}
