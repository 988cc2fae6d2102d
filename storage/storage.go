package storage

import (
	"context"
	"errors"

	"ewintr.nl/tubescribe/model"
)

var ErrNotFound = errors.New("not found")

// SettingsRepository holds the credential a session supplied. The summary
// code never reads it directly; the handler passes the key along per call.
type SettingsRepository interface {
	APIKey(sessionID string) (string, error)
	SaveAPIKey(sessionID, apiKey string) error
}

type VideoRelRepository interface {
	Save(video *model.Video) error
	FindByStatus(statuses ...model.VideoStatus) ([]*model.Video, error)
}

type VideoVecRepository interface {
	Save(ctx context.Context, video *model.Video) error
}
