package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ewintr.nl/tubescribe/fetcher"
	"ewintr.nl/tubescribe/model"
	"ewintr.nl/tubescribe/storage"
	"golang.org/x/exp/slog"
)

type SummaryAPI struct {
	subs      *Submissions
	videoRepo storage.VideoRelRepository
	logger    *slog.Logger
}

func NewSummaryAPI(subs *Submissions, videoRepo storage.VideoRelRepository, logger *slog.Logger) *SummaryAPI {
	return &SummaryAPI{
		subs:      subs,
		videoRepo: videoRepo,
		logger:    logger,
	}
}

func (s *SummaryAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subPath, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodPost && subPath == "":
		s.Submit(w, r)
	case r.Method == http.MethodGet && subPath == "":
		JSON(w, http.StatusOK, s.subs.Current(SessionID(w, r)))
	case r.Method == http.MethodGet && subPath == "history":
		s.History(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the summary api", r.Method, subPath))
	}
}

func (s *SummaryAPI) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.returnErr(r.Context(), w, http.StatusBadRequest, "could not parse request body", err)
		return
	}

	st, err := s.subs.Run(r.Context(), SessionID(w, r), req.URL)
	if err != nil {
		JSON(w, fetcher.StatusCode(err), st)
		return
	}

	JSON(w, http.StatusOK, st)
}

// History lists every ready summary on this server, newest first. It is not
// scoped to the session: summaries made by the feed reader belong to none, and
// the listing carries no credential or session data.
func (s *SummaryAPI) History(w http.ResponseWriter, r *http.Request) {
	videos, err := s.videoRepo.FindByStatus(model.StatusReady)
	if err != nil {
		s.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
		return
	}

	type respVideo struct {
		YoutubeID string    `json:"youtube_id"`
		URL       string    `json:"url"`
		Title     string    `json:"title"`
		Channel   string    `json:"channel"`
		Thumbnail string    `json:"thumbnail"`
		Summary   string    `json:"summary"`
		CreatedAt time.Time `json:"created_at"`
	}
	resp := []respVideo{}
	for _, v := range videos {
		resp = append(resp, respVideo{
			YoutubeID: string(v.Reference.ID),
			URL:       v.Reference.URL,
			Title:     v.Info.Title,
			Channel:   v.Info.Channel,
			Thumbnail: v.Info.Thumbnail,
			Summary:   v.Summary,
			CreatedAt: v.CreatedAt,
		})
	}

	JSON(w, http.StatusOK, resp)
}

func (s *SummaryAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	s.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
