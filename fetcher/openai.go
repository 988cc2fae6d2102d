package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultOpenAIModel   = "gemini-1.5-pro"
)

const systemPrompt = `You are a helpful assistant that summarizes YouTube videos. You will not add introductory sentences like "This text is about", or "Summary of...". Follow the requested format exactly.`

type OpenAIInfo struct {
	BaseURL string
	Model   string
	Style   PromptStyle
	Config  GenerationConfig
	Client  *http.Client
}

// OpenAI summarizes through any OpenAI compatible chat completion endpoint.
// The client is built per call, since the key belongs to the caller.
type OpenAI struct {
	info OpenAIInfo
}

func NewOpenAI(info OpenAIInfo) *OpenAI {
	if info.BaseURL == "" {
		info.BaseURL = DefaultOpenAIBaseURL
	}
	if info.Model == "" {
		info.Model = DefaultOpenAIModel
	}
	if info.Config == (GenerationConfig{}) {
		info.Config = DefaultGenerationConfig
	}
	if info.Client == nil {
		info.Client = http.DefaultClient
	}

	return &OpenAI{info: info}
}

func (o *OpenAI) FetchSummary(ctx context.Context, title, apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrCredentialMissing
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = o.info.BaseURL
	config.HTTPClient = o.info.Client
	client := openai.NewClientWithConfig(config)

	resp, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       o.info.Model,
			Temperature: float32(o.info.Config.Temperature),
			TopP:        float32(o.info.Config.TopP),
			MaxTokens:   o.info.Config.MaxOutputTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: Prompt(o.info.Style, title),
				},
			},
		})
	if err != nil {
		var (
			apiErr *openai.APIError
			reqErr *openai.RequestError
		)
		switch {
		case errors.As(err, &apiErr):
			return "", &APIError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		case errors.As(err, &reqErr):
			e := &APIError{StatusCode: reqErr.HTTPStatusCode}
			if reqErr.Err != nil {
				e.Message = reqErr.Err.Error()
			}
			return "", e
		}
		return "", fmt.Errorf("failed to fetch summary: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyGeneration
	}

	return resp.Choices[0].Message.Content, nil
}
