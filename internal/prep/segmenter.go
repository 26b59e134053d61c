package prep

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mgoltzsche/vad-dataprep/internal/annotation"
	"github.com/mgoltzsche/vad-dataprep/internal/audio"
	"github.com/mgoltzsche/vad-dataprep/internal/folder"
	"github.com/mgoltzsche/vad-dataprep/internal/segment"
	"github.com/mgoltzsche/vad-dataprep/pkg/config"
)

// Segmenter chops the annotated recordings into snippet files,
// one <key>_trimmed folder per annotation key.
type Segmenter struct {
	OutputDir   string
	Duration    float64
	SkipFiles   []string
	Sampling    config.Sampling
	Concurrency int
}

// Run segments all recordings of the set. A recording that cannot be processed is logged and skipped.
func (s *Segmenter) Run(ctx context.Context, set annotation.Set) (Stats, error) {
	if err := segment.ValidateDuration(s.Duration); err != nil {
		return Stats{}, err
	}

	slog.Info("starting audio segmentation...")
	start := time.Now()

	rng := rand.New(rand.NewSource(s.Sampling.Seed))
	stats := &statsCollector{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Concurrency))

	for _, key := range set.Keys() {
		dir := filepath.Join(s.OutputDir, folder.TrimmedFolderName(key))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = g.Wait()
			return stats.result(), fmt.Errorf("create output folder for trimmed files: %w", err)
		}

		recordings, skipped, err := s.selectRecordings(rng, key, set[key])
		if err != nil {
			_ = g.Wait()
			return stats.result(), fmt.Errorf("select recordings of %s: %w", key, err)
		}
		stats.add(Stats{Skipped: skipped})

		for _, rec := range recordings {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				slog.Debug(fmt.Sprintf("chunking %s into %s", rec.AudioPath, dir))

				n, err := s.chop(gctx, dir, rec)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					slog.Error(fmt.Sprintf("chunking for %s failed due to %s", rec.AudioPath, err))
					stats.add(Stats{Skipped: 1})
					return nil
				}

				slog.Info("chunking done", "recording", rec.Name, "key", key, "snippets", n)
				stats.add(Stats{Recordings: 1, Snippets: n})

				return nil
			})
		}
	}

	err := g.Wait()
	result := stats.result()
	if err != nil {
		return result, fmt.Errorf("segment audio: %w", err)
	}

	slog.Info(fmt.Sprintf("audio segmentation completed in %s: %s", time.Since(start).Round(time.Millisecond), result))

	return result, nil
}

func (s *Segmenter) selectRecordings(rng *rand.Rand, key string, split annotation.Split) ([]annotation.Recording, int, error) {
	var recordings []annotation.Recording
	skipped := 0

	for _, name := range split.Names() {
		rec := split[name]
		if s.isExcluded(rec.AudioPath) {
			slog.Info(fmt.Sprintf("skipping excluded file %s", rec.AudioPath))
			skipped++
			continue
		}
		recordings = append(recordings, rec)
	}

	limit := s.sampleSize(key)
	if limit <= 0 || limit >= len(recordings) {
		return recordings, skipped, nil
	}

	indices, err := folder.SampleIndices(rng, len(recordings), limit)
	if err != nil {
		return nil, 0, err
	}
	sort.Ints(indices)

	sampled := make([]annotation.Recording, len(indices))
	for i, idx := range indices {
		sampled[i] = recordings[idx]
	}

	return sampled, skipped, nil
}

func (s *Segmenter) sampleSize(key string) int {
	switch {
	case strings.HasSuffix(key, "_"+annotation.SplitTrain):
		return s.Sampling.Train
	case strings.HasSuffix(key, "_"+annotation.SplitVal):
		return s.Sampling.Val
	case strings.HasSuffix(key, "_"+annotation.SplitTest):
		return s.Sampling.Test
	default:
		return 0
	}
}

func (s *Segmenter) isExcluded(audioPath string) bool {
	for _, pattern := range s.SkipFiles {
		if pattern != "" && strings.Contains(audioPath, pattern) {
			return true
		}
	}
	return false
}

func (s *Segmenter) chop(ctx context.Context, dir string, rec annotation.Recording) (int, error) {
	samples, sampleRate, err := audio.ReadWavFile(rec.AudioPath)
	if err != nil {
		return 0, err
	}

	snippets, err := segment.Chop(samples, sampleRate, s.Duration)
	if err != nil {
		return 0, err
	}

	n := 0
	for snippet := range snippets {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		path := filepath.Join(dir, segment.FileName(rec.Name, snippet))
		if err := audio.WriteWavFile(path, snippet.Samples, snippet.SampleRate); err != nil {
			return n, err
		}
		n++
	}

	return n, nil
}
