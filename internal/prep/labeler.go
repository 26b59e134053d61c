package prep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgoltzsche/vad-dataprep/internal/annotation"
	"github.com/mgoltzsche/vad-dataprep/internal/folder"
	"github.com/mgoltzsche/vad-dataprep/internal/manifest"
	"github.com/mgoltzsche/vad-dataprep/internal/overlap"
	"github.com/mgoltzsche/vad-dataprep/internal/segment"
	"github.com/mgoltzsche/vad-dataprep/pkg/config"
)

// Labeler labels the snippets within the trimmed folders and writes the manifests.
type Labeler struct {
	OutputDir   string
	ManifestDir string
	Duration    float64
	Mode        string
	Policy      overlap.MatchPolicy
	Frames      overlap.LabelOptions
}

type labeledFolder struct {
	speech     []manifest.Entry
	background []manifest.Entry
	frames     []manifest.Entry
	stats      Stats
}

// Run writes the manifests of every trimmed folder that corresponds to an annotation key of the set.
func (l *Labeler) Run(ctx context.Context, set annotation.Set) (Stats, error) {
	if l.Mode != config.LabelModeSegment && l.Mode != config.LabelModeFrame {
		return Stats{}, fmt.Errorf("unsupported label mode %q provided, supported are %s, %s", l.Mode, config.LabelModeSegment, config.LabelModeFrame)
	}

	dirs, err := folder.TrimmedFolders(l.OutputDir)
	if err != nil {
		return Stats{}, err
	}

	if err := os.MkdirAll(l.ManifestDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create manifest folder: %w", err)
	}

	var stats Stats

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		key, err := folder.AnnotationKey(dir)
		if err != nil {
			slog.Warn(fmt.Sprintf("skipping folder: %s", err))
			continue
		}

		split, ok := set[key]
		if !ok {
			slog.Warn(fmt.Sprintf("skipping folder %s without annotations for key %s", dir, key))
			continue
		}

		result, err := l.labelFolder(dir, split)
		if err != nil {
			return stats, fmt.Errorf("label %s: %w", key, err)
		}

		if err := l.writeManifests(key, result); err != nil {
			return stats, err
		}

		slog.Info("manifests written", "key", key, "stats", result.stats.String())

		stats.Snippets += result.stats.Snippets
		stats.Speech += result.stats.Speech
		stats.Background += result.stats.Background
		stats.Skipped += result.stats.Skipped
	}

	return stats, nil
}

func (l *Labeler) labelFolder(dir string, split annotation.Split) (labeledFolder, error) {
	var result labeledFolder

	files, err := os.ReadDir(dir)
	if err != nil {
		return result, fmt.Errorf("list snippet files: %w", err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".wav") {
			continue
		}

		name, bounds, err := segment.ParseFileName(f.Name())
		if err != nil {
			slog.Warn(err.Error())
			result.stats.Skipped++
			continue
		}

		rec, ok := split[name]
		if !ok {
			slog.Warn(fmt.Sprintf("skipping %s: recording %s is not annotated", f.Name(), name))
			result.stats.Skipped++
			continue
		}

		path := filepath.Join(dir, f.Name())
		result.stats.Snippets++

		if l.Mode == config.LabelModeFrame {
			labels := overlap.LabelFrames(bounds, rec.Segments, l.Frames)
			result.frames = append(result.frames, manifest.NewEntry(path, l.Duration, labels.String(), 0))
			if hasSpeech(labels.Labels) {
				result.stats.Speech++
			} else {
				result.stats.Background++
			}
			continue
		}

		o := overlap.CheckOverlapWithPolicy(bounds, rec.Segments, l.Policy)
		if o.HasOverlap {
			result.speech = append(result.speech, manifest.NewEntry(path, l.Duration, manifest.LabelSpeech, o.Offset))
			result.stats.Speech++
		} else {
			result.background = append(result.background, manifest.NewEntry(path, l.Duration, manifest.LabelBackground, o.Offset))
			result.stats.Background++
		}
	}

	return result, nil
}

func (l *Labeler) writeManifests(key string, result labeledFolder) error {
	if l.Mode == config.LabelModeFrame {
		return manifest.Write(manifest.FramePath(l.ManifestDir, key), result.frames)
	}

	if err := manifest.Write(manifest.SpeechPath(l.ManifestDir, key), result.speech); err != nil {
		return err
	}

	return manifest.Write(manifest.NonSpeechPath(l.ManifestDir, key), result.background)
}

func hasSpeech(labels []int) bool {
	for _, v := range labels {
		if v == 1 {
			return true
		}
	}
	return false
}
