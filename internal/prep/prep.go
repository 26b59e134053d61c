package prep

import (
	"github.com/mgoltzsche/vad-dataprep/internal/overlap"
	"github.com/mgoltzsche/vad-dataprep/pkg/config"
)

func NewSegmenter(cfg config.Configuration) *Segmenter {
	return &Segmenter{
		OutputDir:   cfg.OutputDir,
		Duration:    cfg.SnippetDuration,
		SkipFiles:   cfg.SkipFiles,
		Sampling:    cfg.Sampling,
		Concurrency: cfg.Concurrency,
	}
}

func NewLabeler(cfg config.Configuration) (*Labeler, error) {
	policy, err := overlap.ParseMatchPolicy(cfg.MatchPolicy)
	if err != nil {
		return nil, err
	}

	return &Labeler{
		OutputDir:   cfg.OutputDir,
		ManifestDir: cfg.ManifestFolder(),
		Duration:    cfg.SnippetDuration,
		Mode:        cfg.LabelMode,
		Policy:      policy,
		Frames: overlap.LabelOptions{
			SampleRate:      cfg.LabelSampleRate,
			FrameDuration:   cfg.FrameDuration,
			MinSpeechRatio:  overlap.ParseThreshold(cfg.MinSpeechRatio),
			EmptyFrameCount: cfg.EmptyFrameCount,
		},
	}, nil
}
