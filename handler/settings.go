package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ewintr.nl/tubescribe/storage"
	"golang.org/x/exp/slog"
)

// SettingsAPI stores the credential of a session. The key is never sent
// back.
type SettingsAPI struct {
	settings storage.SettingsRepository
	logger   *slog.Logger
}

func NewSettingsAPI(settings storage.SettingsRepository, logger *slog.Logger) *SettingsAPI {
	return &SettingsAPI{
		settings: settings,
		logger:   logger,
	}
}

func (s *SettingsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subPath, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && subPath == "":
		s.Get(w, r)
	case r.Method == http.MethodPut && subPath == "":
		s.Put(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the settings api", r.Method, subPath))
	}
}

func (s *SettingsAPI) Get(w http.ResponseWriter, r *http.Request) {
	key, err := s.settings.APIKey(SessionID(w, r))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("could not read api key", slog.String("error", err.Error()))
		Error(w, http.StatusInternalServerError, "could not read settings", err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"has_api_key": key != ""})
}

func (s *SettingsAPI) Put(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "could not parse request body", err)
		return
	}

	if err := s.settings.SaveAPIKey(SessionID(w, r), strings.TrimSpace(req.APIKey)); err != nil {
		s.logger.Error("could not save api key", slog.String("error", err.Error()))
		Error(w, http.StatusInternalServerError, "could not save settings", err)
		return
	}

	Message(w, http.StatusOK, "settings saved")
}
