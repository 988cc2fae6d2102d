package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type VideoStatus string

const (
	StatusNew         VideoStatus = "new"
	StatusChecked     VideoStatus = "checked"
	StatusHasMetadata VideoStatus = "has_metadata"
	StatusReady       VideoStatus = "ready"
	StatusFailed      VideoStatus = "failed"
)

type YoutubeVideoID string

// WatchURL is the canonical watch page of the video.
func (id YoutubeVideoID) WatchURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

// ThumbnailURL is the static thumbnail, used when a metadata source does not
// supply one.
func (id YoutubeVideoID) ThumbnailURL() string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}

type VideoReference struct {
	ID  YoutubeVideoID
	URL string
}

type VideoInfo struct {
	ID        YoutubeVideoID `json:"id"`
	Title     string         `json:"title"`
	Thumbnail string         `json:"thumbnail"`
	Channel   string         `json:"channel"`
}

type Video struct {
	ID        uuid.UUID
	Status    VideoStatus
	Reference VideoReference
	Info      VideoInfo
	Summary   string
	CreatedAt time.Time
}

func NewVideo(ref VideoReference) *Video {
	return &Video{
		ID:        uuid.New(),
		Status:    StatusNew,
		Reference: ref,
		Info:      VideoInfo{ID: ref.ID},
		CreatedAt: time.Now(),
	}
}
