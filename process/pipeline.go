package process

import (
	"context"

	"ewintr.nl/tubescribe/fetcher"
	"ewintr.nl/tubescribe/model"
	"ewintr.nl/tubescribe/storage"
	"golang.org/x/exp/slog"
)

type Pipeline struct {
	procs      *Processors
	logger     *slog.Logger
	relStorage storage.VideoRelRepository
	vecStorage storage.VideoVecRepository
}

// NewPipeline creates the submission chain. vecDB may be nil.
func NewPipeline(processors *Processors, relDB storage.VideoRelRepository, vecDB storage.VideoVecRepository, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		procs:      processors,
		relStorage: relDB,
		vecStorage: vecDB,
		logger:     logger,
	}
}

// Submit runs the whole chain for one URL. Input and credential are checked
// before any network call. On a failure after that the returned video holds
// what was gathered so far.
func (p *Pipeline) Submit(ctx context.Context, rawURL, apiKey string) (*model.Video, error) {
	ref, err := fetcher.Reference(rawURL)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fetcher.ErrCredentialMissing
	}

	video := model.NewVideo(ref)
	if err := p.Process(ctx, &Job{Video: video, APIKey: apiKey}); err != nil {
		video.Status = model.StatusFailed
		p.saveRel(video)
		return video, err
	}

	return video, nil
}

func (p *Pipeline) Process(ctx context.Context, job *Job) error {
	video := job.Video
	p.logger.Info("processing video", slog.String("video", string(video.Reference.ID)))
	for {
		next := p.procs.Next(video)
		if next == nil {
			p.logger.Info("no more processors for video", slog.String("video", string(video.Reference.ID)))
			break
		}

		p.logger.Info("processing video", slog.String("video", string(video.Reference.ID)), slog.String("processor", next.Name()))
		if err := next.Do(ctx, job); err != nil {
			p.logger.Error("failed to process video", slog.String("video", string(video.Reference.ID)), slog.String("processor", next.Name()), slog.String("error", err.Error()))
			return err
		}
		p.saveRel(video)
	}

	if p.vecStorage != nil && video.Status == model.StatusReady {
		if err := p.vecStorage.Save(ctx, video); err != nil {
			p.logger.Error("failed to save video in vec db", slog.String("video", string(video.Reference.ID)), slog.String("error", err.Error()))
		}
	}

	return nil
}

// saveRel logs storage errors and carries on.
func (p *Pipeline) saveRel(video *model.Video) {
	if err := p.relStorage.Save(video); err != nil {
		p.logger.Error("failed to save video in rel db", slog.String("video", string(video.Reference.ID)), slog.String("error", err.Error()))
	}
}
