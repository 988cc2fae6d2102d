package process

import (
	"context"
	"errors"
	"io"
	"testing"

	"ewintr.nl/tubescribe/fetcher"
	"ewintr.nl/tubescribe/model"
	"ewintr.nl/tubescribe/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type calls struct {
	order []string
}

type memChecker struct {
	*calls
	err error
}

func (m memChecker) CheckPlayable(_ context.Context, _ model.YoutubeVideoID) error {
	m.order = append(m.order, "playability")
	return m.err
}

type memMetadata struct {
	*calls
	md  fetcher.Metadata
	err error
}

func (m memMetadata) FetchMetadata(_ context.Context, _ model.YoutubeVideoID) (fetcher.Metadata, error) {
	m.order = append(m.order, "metadata")
	return m.md, m.err
}

type memSummary struct {
	*calls
	title   *string
	summary string
	err     error
}

func (m memSummary) FetchSummary(_ context.Context, title, _ string) (string, error) {
	m.order = append(m.order, "summary")
	*m.title = title
	return m.summary, m.err
}

type memVec struct {
	saved []*model.Video
}

func (m *memVec) Save(_ context.Context, video *model.Video) error {
	m.saved = append(m.saved, video)
	return nil
}

func TestPipelineSubmit(t *testing.T) {
	const url = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	md := fetcher.Metadata{Title: "A Talk", Channel: "Some Channel", Thumbnail: "thumb"}

	for _, tc := range []struct {
		name        string
		url         string
		apiKey      string
		playability bool
		checkErr    error
		mdErr       error
		sumErr      error
		expOrder    []string
		expErr      error
		expStatus   model.VideoStatus
		expVec      int
	}{
		{
			name:      "success",
			url:       url,
			apiKey:    "key",
			expOrder:  []string{"metadata", "summary"},
			expStatus: model.StatusReady,
			expVec:    1,
		},
		{
			name:        "success with playability check",
			url:         url,
			apiKey:      "key",
			playability: true,
			expOrder:    []string{"playability", "metadata", "summary"},
			expStatus:   model.StatusReady,
			expVec:      1,
		},
		{
			name:   "invalid url",
			url:    "https://example.com/video",
			apiKey: "key",
			expErr: fetcher.ErrInvalidURL,
		},
		{
			name:   "no identifier",
			url:    "https://www.youtube.com/feed/trending",
			apiKey: "key",
			expErr: fetcher.ErrNoVideoID,
		},
		{
			name:   "missing credential",
			url:    url,
			expErr: fetcher.ErrCredentialMissing,
		},
		{
			name:        "not playable",
			url:         url,
			apiKey:      "key",
			playability: true,
			checkErr:    fetcher.ErrNotPlayable,
			expOrder:    []string{"playability"},
			expErr:      fetcher.ErrNotPlayable,
			expStatus:   model.StatusFailed,
		},
		{
			name:      "metadata failure",
			url:       url,
			apiKey:    "key",
			mdErr:     &fetcher.MetadataError{StatusCode: 404},
			expOrder:  []string{"metadata"},
			expStatus: model.StatusFailed,
		},
		{
			name:      "summary failure",
			url:       url,
			apiKey:    "key",
			sumErr:    fetcher.ErrEmptyGeneration,
			expOrder:  []string{"metadata", "summary"},
			expErr:    fetcher.ErrEmptyGeneration,
			expStatus: model.StatusFailed,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := &calls{}
			var title string
			var checker fetcher.PlayabilityChecker
			if tc.playability {
				checker = memChecker{calls: c, err: tc.checkErr}
			}
			procs := NewProcessors(checker,
				memMetadata{calls: c, md: md, err: tc.mdErr},
				memSummary{calls: c, title: &title, summary: "## Intro\nText", err: tc.sumErr},
			)
			rel := storage.NewMemory(0)
			vec := &memVec{}
			p := NewPipeline(procs, rel, vec, slog.New(slog.NewTextHandler(io.Discard, nil)))

			video, err := p.Submit(context.Background(), tc.url, tc.apiKey)
			assert.Equal(t, tc.expOrder, c.order)
			assert.Len(t, vec.saved, tc.expVec)

			switch {
			case tc.expErr != nil:
				assert.ErrorIs(t, err, tc.expErr)
			case tc.mdErr != nil:
				var mdErr *fetcher.MetadataError
				assert.True(t, errors.As(err, &mdErr))
			default:
				require.NoError(t, err)
				assert.Equal(t, "A Talk", title)
				assert.Equal(t, "## Intro\nText", video.Summary)
				assert.Equal(t, model.VideoInfo{ID: "dQw4w9WgXcQ", Title: "A Talk", Channel: "Some Channel", Thumbnail: "thumb"}, video.Info)
			}

			if tc.expStatus == "" {
				assert.Nil(t, video)
				return
			}
			require.NotNil(t, video)
			assert.Equal(t, tc.expStatus, video.Status)
			stored, err := rel.FindByStatus(tc.expStatus)
			require.NoError(t, err)
			assert.Len(t, stored, 1)
		})
	}
}
