package session

import (
	"sync"

	"ewintr.nl/tubescribe/fetcher"
	"ewintr.nl/tubescribe/model"
	"ewintr.nl/tubescribe/summary"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is what a session currently shows. Only one of loading, the result
// or the error is active at a time.
type State struct {
	Status    Status            `json:"status"`
	Seq       uint64            `json:"seq"`
	URL       string            `json:"url,omitempty"`
	Video     *model.VideoInfo  `json:"video,omitempty"`
	Summary   string            `json:"summary,omitempty"`
	Sections  []summary.Section `json:"sections,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorKind fetcher.ErrorKind `json:"kind,omitempty"`
}

// Tracker keeps the display state per session. Every submission gets a
// sequence number from Begin, and a result is only applied when its number
// is still the latest for the session. With a capacity set, the session that
// submitted least recently is dropped when a new one would exceed it.
type Tracker struct {
	mu        sync.Mutex
	states    map[string]*State
	touched   map[string]uint64
	clock     uint64
	capacity  int
	segmenter *summary.Segmenter
}

func NewTracker(segmenter *summary.Segmenter, capacity int) *Tracker {
	return &Tracker{
		states:    map[string]*State{},
		touched:   map[string]uint64{},
		capacity:  capacity,
		segmenter: segmenter,
	}
}

func (t *Tracker) Current(sessionID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[sessionID]
	if !ok {
		return State{Status: StatusIdle}
	}
	return *st
}

// Begin moves the session to loading and returns the sequence number of the
// new submission. The previous result stays in place until the new one
// resolves.
func (t *Tracker) Begin(sessionID, rawURL string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[sessionID]
	if !ok {
		st = &State{}
		t.states[sessionID] = st
	}
	t.clock++
	t.touched[sessionID] = t.clock
	if t.capacity > 0 && len(t.states) > t.capacity {
		t.evictLeastRecent()
	}
	st.Seq++
	st.Status = StatusLoading
	st.URL = rawURL

	return st.Seq
}

// Succeed applies a finished submission when it is still the latest. The
// returned state is that of this submission either way.
func (t *Tracker) Succeed(sessionID string, seq uint64, video *model.Video) (State, bool) {
	info := video.Info
	result := State{
		Status:   StatusSuccess,
		Seq:      seq,
		URL:      video.Reference.URL,
		Video:    &info,
		Summary:  video.Summary,
		Sections: t.segmenter.Segment(video.Summary),
	}

	return result, t.apply(sessionID, result)
}

// Fail applies a failed submission when it is still the latest. The previous
// video and summary are cleared.
func (t *Tracker) Fail(sessionID string, seq uint64, err error) (State, bool) {
	result := State{
		Status:    StatusError,
		Seq:       seq,
		Error:     err.Error(),
		ErrorKind: fetcher.Kind(err),
	}

	return result, t.apply(sessionID, result)
}

func (t *Tracker) apply(sessionID string, result State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[sessionID]
	if !ok || st.Seq != result.Seq {
		return false
	}
	if result.URL == "" {
		result.URL = st.URL
	}
	*st = result

	return true
}

func (t *Tracker) evictLeastRecent() {
	var (
		oldest string
		found  bool
	)
	for id, at := range t.touched {
		if !found || at < t.touched[oldest] {
			oldest, found = id, true
		}
	}
	delete(t.states, oldest)
	delete(t.touched, oldest)
}
