package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOEmbedFetchMetadata(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		body   string
		exp    Metadata
		expErr string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"title":"A Talk","author_name":"Some Channel","thumbnail_url":"https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}`,
			exp:    Metadata{Title: "A Talk", Channel: "Some Channel", Thumbnail: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
		},
		{
			name:   "thumbnail fallback",
			status: http.StatusOK,
			body:   `{"title":"A Talk","author_name":"Some Channel"}`,
			exp:    Metadata{Title: "A Talk", Channel: "Some Channel", Thumbnail: "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `Not Found`,
			expErr: "failed to fetch video info: 404 - Not Found",
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			expErr: "failed to fetch video info: 401 - Unauthorized",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", r.URL.Query().Get("url"))
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			o := NewOEmbed(OEmbedInfo{Endpoint: srv.URL, Client: srv.Client()})
			md, err := o.FetchMetadata(context.Background(), "dQw4w9WgXcQ")
			if tc.expErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expErr, err.Error())
				assert.Equal(t, KindMetadata, Kind(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, md)
		})
	}
}

func TestOEmbedCheckPlayable(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	o := NewOEmbed(OEmbedInfo{Endpoint: srv.URL, Client: srv.Client()})
	assert.NoError(t, o.CheckPlayable(context.Background(), "dQw4w9WgXcQ"))

	status.Store(http.StatusForbidden)
	err := o.CheckPlayable(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNotPlayable)
	assert.Equal(t, KindMetadata, Kind(err))
}
