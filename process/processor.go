package process

import (
	"context"

	"ewintr.nl/tubescribe/fetcher"
	"ewintr.nl/tubescribe/model"
)

// Job is a video on its way through the processors, together with the
// credential of whoever submitted it.
type Job struct {
	Video  *model.Video
	APIKey string
}

type VideoProcessor interface {
	Name() string
	Do(ctx context.Context, job *Job) error
}

type Processors struct {
	procs map[string]VideoProcessor
}

// NewProcessors wires the steps. checker may be nil, which skips the
// playability check.
func NewProcessors(checker fetcher.PlayabilityChecker, mdFetcher fetcher.MetadataFetcher, sumFetcher fetcher.SummaryFetcher) *Processors {
	procs := map[string]VideoProcessor{
		"metadata":   &MetadataProcessor{fetcher: mdFetcher},
		"summarizer": &Summarizer{fetcher: sumFetcher},
	}
	if checker != nil {
		procs["playability"] = &PlayabilityProcessor{checker: checker}
	}

	return &Processors{procs: procs}
}

func (p *Processors) Next(video *model.Video) VideoProcessor {
	switch video.Status {
	case model.StatusNew:
		if proc, ok := p.procs["playability"]; ok {
			return proc
		}
		return p.procs["metadata"]
	case model.StatusChecked:
		return p.procs["metadata"]
	case model.StatusHasMetadata:
		return p.procs["summarizer"]
	}

	return nil
}

type PlayabilityProcessor struct {
	checker fetcher.PlayabilityChecker
}

func (pp *PlayabilityProcessor) Name() string {
	return "playability check"
}

func (pp *PlayabilityProcessor) Do(ctx context.Context, job *Job) error {
	if err := pp.checker.CheckPlayable(ctx, job.Video.Reference.ID); err != nil {
		return err
	}
	job.Video.Status = model.StatusChecked

	return nil
}

type MetadataProcessor struct {
	fetcher fetcher.MetadataFetcher
}

func (mp *MetadataProcessor) Name() string {
	return "metadata fetcher"
}

func (mp *MetadataProcessor) Do(ctx context.Context, job *Job) error {
	md, err := mp.fetcher.FetchMetadata(ctx, job.Video.Reference.ID)
	if err != nil {
		return err
	}
	job.Video.Info = model.VideoInfo{
		ID:        job.Video.Reference.ID,
		Title:     md.Title,
		Channel:   md.Channel,
		Thumbnail: md.Thumbnail,
	}
	job.Video.Status = model.StatusHasMetadata

	return nil
}

type Summarizer struct {
	fetcher fetcher.SummaryFetcher
}

func (s *Summarizer) Name() string {
	return "summarizer"
}

func (s *Summarizer) Do(ctx context.Context, job *Job) error {
	summary, err := s.fetcher.FetchSummary(ctx, job.Video.Info.Title, job.APIKey)
	if err != nil {
		return err
	}
	job.Video.Summary = summary
	job.Video.Status = model.StatusReady

	return nil
}
