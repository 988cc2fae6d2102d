package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ewintr.nl/tubescribe/model"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate/entities/models"
)

const summaryClass = "VideoSummary"

type WeaviateInfo struct {
	Scheme       string
	Host         string
	ApiKey       string
	OpenaiApiKey string
}

// Weaviate indexes finished summaries for semantic search. Only the title and
// the summary are vectorized.
type Weaviate struct {
	client *weaviate.Client
}

func NewWeaviate(info WeaviateInfo) (*Weaviate, error) {
	scheme := info.Scheme
	if scheme == "" {
		scheme = "https"
	}
	config := weaviate.Config{
		Scheme: scheme,
		Host:   info.Host,
		Headers: map[string]string{
			"X-OpenAI-Api-Key": info.OpenaiApiKey,
		},
	}
	if info.ApiKey != "" {
		config.AuthConfig = auth.ApiKey{Value: info.ApiKey}
	}

	c, err := weaviate.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("could not create weaviate client: %w", err)
	}

	return &Weaviate{client: c}, nil
}

// ResetSchema drops the summary class with all its objects and creates it
// again.
func (w *Weaviate) ResetSchema(ctx context.Context) error {
	if err := w.client.Schema().ClassDeleter().WithClassName(summaryClass).Do(ctx); err != nil {
		// a missing class is reported as 400
		var clientErr *fault.WeaviateClientError
		if !errors.As(err, &clientErr) || clientErr.StatusCode != http.StatusBadRequest {
			return fmt.Errorf("could not delete class %s: %w", summaryClass, err)
		}
	}

	if err := w.client.Schema().ClassCreator().WithClass(summaryClassDefinition()).Do(ctx); err != nil {
		return fmt.Errorf("could not create class %s: %w", summaryClass, err)
	}

	return nil
}

func summaryClassDefinition() *models.Class {
	skip := func() map[string]any {
		return map[string]any{"text2vec-openai": map[string]any{"skip": true}}
	}

	return &models.Class{
		Class:       summaryClass,
		Description: "Summaries of YouTube videos",
		Vectorizer:  "text2vec-openai",
		ModuleConfig: map[string]any{
			"text2vec-openai": map[string]any{
				"model":              "ada",
				"modelVersion":       "002",
				"type":               "text",
				"vectorizeClassName": false,
			},
		},
		Properties: []*models.Property{
			{Name: "youtubeId", DataType: []string{"text"}, ModuleConfig: skip()},
			{Name: "url", DataType: []string{"text"}, ModuleConfig: skip()},
			{Name: "channel", DataType: []string{"text"}, ModuleConfig: skip()},
			{Name: "title", DataType: []string{"text"}},
			{Name: "summary", DataType: []string{"text"}},
		},
	}
}

func summaryProperties(video *model.Video) map[string]any {
	return map[string]any{
		"youtubeId": string(video.Reference.ID),
		"url":       video.Reference.URL,
		"channel":   video.Info.Channel,
		"title":     video.Info.Title,
		"summary":   video.Summary,
	}
}

// Save upserts the summary of a ready video. Other videos are ignored.
func (w *Weaviate) Save(ctx context.Context, video *model.Video) error {
	if video.Status != model.StatusReady || video.Summary == "" {
		return nil
	}
	vID := video.ID.String()
	props := summaryProperties(video)

	exists, err := w.client.Data().
		Checker().
		WithID(vID).
		WithClassName(summaryClass).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("could not check summary %s: %w", vID, err)
	}

	if exists {
		if err := w.client.Data().
			Updater().
			WithID(vID).
			WithClassName(summaryClass).
			WithProperties(props).
			Do(ctx); err != nil {
			return fmt.Errorf("could not update summary %s: %w", vID, err)
		}
		return nil
	}

	if _, err := w.client.Data().
		Creator().
		WithClassName(summaryClass).
		WithID(vID).
		WithProperties(props).
		Do(ctx); err != nil {
		return fmt.Errorf("could not create summary %s: %w", vID, err)
	}

	return nil
}
