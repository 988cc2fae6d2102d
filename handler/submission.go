package handler

import (
	"context"
	"errors"

	"ewintr.nl/tubescribe/fetcher"
	"ewintr.nl/tubescribe/session"
	"ewintr.nl/tubescribe/storage"
	"golang.org/x/exp/slog"
)

// Submissions connects the web surface to the pipeline. The credential is
// looked up here and handed to the pipeline per call.
type Submissions struct {
	submitter     fetcher.Submitter
	tracker       *session.Tracker
	settings      storage.SettingsRepository
	defaultAPIKey string
	logger        *slog.Logger
}

func NewSubmissions(submitter fetcher.Submitter, tracker *session.Tracker, settings storage.SettingsRepository, defaultAPIKey string, logger *slog.Logger) *Submissions {
	return &Submissions{
		submitter:     submitter,
		tracker:       tracker,
		settings:      settings,
		defaultAPIKey: defaultAPIKey,
		logger:        logger,
	}
}

// Run submits rawURL for the session and returns the state produced by this
// submission. A newer submission of the same session wins the session
// state; the returned state is that of this one regardless. Invalid input is
// rejected without touching the session state.
func (s *Submissions) Run(ctx context.Context, sessionID, rawURL string) (session.State, error) {
	if err := fetcher.ValidateURL(rawURL); err != nil {
		return session.State{Status: session.StatusError, Error: err.Error(), ErrorKind: fetcher.Kind(err)}, err
	}

	seq := s.tracker.Begin(sessionID, rawURL)
	video, err := s.submitter.Submit(ctx, rawURL, s.APIKey(sessionID))
	if err != nil {
		s.logger.Error("submission failed", slog.String("session", sessionID), slog.String("url", rawURL), slog.String("error", err.Error()))
		st, applied := s.tracker.Fail(sessionID, seq, err)
		if !applied {
			s.logger.Info("discarded stale submission", slog.String("session", sessionID), slog.Uint64("seq", seq))
		}
		return st, err
	}

	st, applied := s.tracker.Succeed(sessionID, seq, video)
	if !applied {
		s.logger.Info("discarded stale submission", slog.String("session", sessionID), slog.Uint64("seq", seq))
	}
	return st, nil
}

func (s *Submissions) Current(sessionID string) session.State {
	return s.tracker.Current(sessionID)
}

// APIKey is the key of the session, or the server key when the session has
// none.
func (s *Submissions) APIKey(sessionID string) string {
	key, err := s.settings.APIKey(sessionID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		s.logger.Error("could not read api key", slog.String("session", sessionID), slog.String("error", err.Error()))
	case key != "":
		return key
	}

	return s.defaultAPIKey
}

// HasAPIKey reports whether the session supplied a key of its own.
func (s *Submissions) HasAPIKey(sessionID string) bool {
	key, err := s.settings.APIKey(sessionID)
	return err == nil && key != ""
}
