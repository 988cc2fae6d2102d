package storage

import (
	"sort"
	"sync"

	"ewintr.nl/tubescribe/model"
	"github.com/google/uuid"
)

// Memory keeps everything in process. It is used when no database is
// configured.
type Memory struct {
	mu       sync.RWMutex
	apiKeys  map[string]string
	videos   map[uuid.UUID]model.Video
	capacity int
}

func NewMemory(capacity int) *Memory {
	return &Memory{
		apiKeys:  map[string]string{},
		videos:   map[uuid.UUID]model.Video{},
		capacity: capacity,
	}
}

func (m *Memory) APIKey(sessionID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.apiKeys[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	return key, nil
}

func (m *Memory) SaveAPIKey(sessionID, apiKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if apiKey == "" {
		delete(m.apiKeys, sessionID)
		return nil
	}
	m.apiKeys[sessionID] = apiKey
	return nil
}

func (m *Memory) Save(video *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.videos[video.ID] = *video
	if m.capacity > 0 && len(m.videos) > m.capacity {
		m.evictOldest()
	}
	return nil
}

func (m *Memory) FindByStatus(statuses ...model.VideoStatus) ([]*model.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := map[model.VideoStatus]bool{}
	for _, s := range statuses {
		want[s] = true
	}

	videos := []*model.Video{}
	for _, v := range m.videos {
		if !want[v.Status] {
			continue
		}
		video := v
		videos = append(videos, &video)
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})

	return videos, nil
}

func (m *Memory) evictOldest() {
	var (
		oldest uuid.UUID
		found  bool
	)
	for id, v := range m.videos {
		if !found || v.CreatedAt.Before(m.videos[oldest].CreatedAt) {
			oldest, found = id, true
		}
	}
	delete(m.videos, oldest)
}
