package fetcher

import (
	"context"
	"fmt"
)

type SummaryFetcher interface {
	FetchSummary(ctx context.Context, title, apiKey string) (string, error)
}

type PromptStyle string

const (
	PromptFlat    PromptStyle = "flat"
	PromptOutline PromptStyle = "outline"
)

// GenerationConfig is passed through to the model unchanged.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

var DefaultGenerationConfig = GenerationConfig{
	Temperature:     0.1,
	MaxOutputTokens: 1500,
	TopP:            0.8,
	TopK:            40,
}

const flatPrompt = `Please provide a concise summary of the following YouTube video:
"%s"

Write three to five short paragraphs, separated by blank lines. Do not use headings or lists.
`

const outlinePrompt = `Please provide a comprehensive summary of the following YouTube video:
"%s"

Follow this specific format EXACTLY:

## Introduction [0:00]
Provide a brief overview of what the video is about.

## Main Content
Break down the video content into 4-6 chronological sections with REALISTIC timestamps, for example:

## [2:15] Topic One
Summarize this section of the video.

## [5:30] Topic Two
Summarize this section of the video.

## Questions Asked
If any questions are asked in the video, list them with realistic timestamps and answers.
Format as: "Q: [10:25] What is the question asked?"
Include the answer directly below each question.

## Key Takeaways
List 3-5 main points or lessons from the video.

IMPORTANT FORMATTING RULES:
- Use REALISTIC timestamps in [MM:SS] format that progress chronologically through the video
- For a typical 10-minute video, start with [0:00] and end around [8:00]-[10:00]
- Each main section MUST start with "## " followed by the heading
- Questions MUST be formatted with "Q: " prefix and timestamp
- Keep paragraphs short and focused
- DO NOT SKIP ANY OF THESE SECTIONS
`

// Prompt builds the instruction for a video title.
func Prompt(style PromptStyle, title string) string {
	if style == PromptFlat {
		return fmt.Sprintf(flatPrompt, title)
	}
	return fmt.Sprintf(outlinePrompt, title)
}
