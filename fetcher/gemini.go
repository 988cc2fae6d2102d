package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1/models/gemini-1.5-pro:generateContent"

type GeminiInfo struct {
	Endpoint string
	Style    PromptStyle
	Config   GenerationConfig
	Client   *http.Client
}

// Gemini talks to the generateContent REST endpoint directly. The key is
// sent as the key query parameter.
type Gemini struct {
	endpoint string
	style    PromptStyle
	config   GenerationConfig
	client   *http.Client
}

func NewGemini(info GeminiInfo) *Gemini {
	g := &Gemini{
		endpoint: info.Endpoint,
		style:    info.Style,
		config:   info.Config,
		client:   info.Client,
	}
	if g.endpoint == "" {
		g.endpoint = DefaultGeminiEndpoint
	}
	if g.config == (GenerationConfig{}) {
		g.config = DefaultGenerationConfig
	}
	if g.client == nil {
		g.client = http.DefaultClient
	}

	return g
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) FetchSummary(ctx context.Context, title, apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrCredentialMissing
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: Prompt(g.style, title)}}}},
		GenerationConfig: g.config,
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal gemini request: %w", err)
	}

	u := fmt.Sprintf("%s?key=%s", g.endpoint, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not reach gemini endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp geminiErrorResponse
		_ = json.Unmarshal(respBody, &errResp)
		return "", &APIError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
	}

	var gr geminiResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("%w: could not decode response: %v", ErrEmptyGeneration, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 || gr.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrEmptyGeneration
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}
