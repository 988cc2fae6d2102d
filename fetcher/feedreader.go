package fetcher

// FeedEntry is an unread item in a feed reader. Only entries linking to a
// YouTube video are summarized.
type FeedEntry struct {
	EntryID int64
	FeedID  int64
	Title   string
	URL     string
}

// FeedReader lists unread entries in ascending id order, starting after the
// given id. A reader may return fewer entries than are unread.
type FeedReader interface {
	Unread(afterEntryID int64) ([]FeedEntry, error)
	MarkRead(entryIDs ...int64) error
}
