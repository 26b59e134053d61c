package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgoltzsche/vad-dataprep/internal/annotation"
	"github.com/mgoltzsche/vad-dataprep/internal/audio"
	"github.com/mgoltzsche/vad-dataprep/internal/model"
	"github.com/mgoltzsche/vad-dataprep/internal/soundgen"
	"github.com/mgoltzsche/vad-dataprep/pkg/config"
)

type synthOptions struct {
	Dataset    string
	Recordings int
	Duration   time.Duration
	SampleRate int
	Frequency  float64
	MaxSpeech  int
}

func newSynthCommand(cfg *config.Configuration) *cobra.Command {
	opts := synthOptions{
		Dataset:    "synth",
		Recordings: 5,
		Duration:   10 * time.Second,
		SampleRate: 16000,
		Frequency:  440,
		MaxSpeech:  3,
	}

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate an annotated dataset of synthetic recordings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if cfg.AnnotationsDir == "" {
				return fmt.Errorf("no annotations dir specified")
			}
			rng := rand.New(rand.NewSource(cfg.Sampling.Seed))
			return synthesize(filepath.Join(cfg.AnnotationsDir, opts.Dataset), opts, rng)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Dataset, "dataset", opts.Dataset, "name of the dataset folder to create within the annotations dir")
	f.IntVar(&opts.Recordings, "recordings", opts.Recordings, "number of recordings to generate")
	f.DurationVar(&opts.Duration, "duration", opts.Duration, "duration of each recording")
	f.IntVar(&opts.SampleRate, "sample-rate", opts.SampleRate, "sample rate of the generated recordings")
	f.Float64Var(&opts.Frequency, "frequency", opts.Frequency, "frequency of the tone that stands in for speech")
	f.IntVar(&opts.MaxSpeech, "max-speech-intervals", opts.MaxSpeech, "maximum number of speech intervals per recording")

	return cmd
}

// synthesize writes tone-in-silence recordings into dir/audio and annotates them.
// Every fifth recording goes to val and test each, the rest to train.
func synthesize(dir string, opts synthOptions, rng *rand.Rand) error {
	if opts.Recordings <= 0 {
		return fmt.Errorf("invalid recording count %d", opts.Recordings)
	}
	if opts.Duration <= 0 {
		return fmt.Errorf("invalid recording duration %s", opts.Duration)
	}
	if opts.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", opts.SampleRate)
	}

	if err := os.MkdirAll(filepath.Join(dir, "audio"), 0o755); err != nil {
		return fmt.Errorf("create audio folder: %w", err)
	}

	g := &soundgen.Generator{SampleRate: opts.SampleRate}
	splitOrder := []string{annotation.SplitTrain, annotation.SplitTrain, annotation.SplitTrain, annotation.SplitVal, annotation.SplitTest}
	splits := map[string][]annotation.Recording{}

	for i := 0; i < opts.Recordings; i++ {
		name := fmt.Sprintf("%s-%03d", filepath.Base(dir), i)
		path := filepath.Join(dir, "audio", name+".wav")
		speech := randomSpeech(rng, opts.Duration.Seconds(), opts.MaxSpeech)

		if err := audio.WriteWavFile(path, g.Recording(opts.Duration, speech, opts.Frequency), opts.SampleRate); err != nil {
			return err
		}

		split := splitOrder[i%len(splitOrder)]
		splits[split] = append(splits[split], annotation.Recording{Name: name, AudioPath: path, Segments: speech})
	}

	if err := annotation.Save(dir, splits); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("generated %d recordings within %s", opts.Recordings, dir))

	return nil
}

// randomSpeech returns up to n non-overlapping intervals in ascending order, bounds rounded to 10ms.
func randomSpeech(rng *rand.Rand, duration float64, n int) []model.Interval {
	if n <= 0 {
		return nil
	}

	slot := duration / float64(n)
	speech := make([]model.Interval, 0, n)

	for i := 0; i < n; i++ {
		if rng.Intn(4) == 0 {
			continue
		}
		offset := float64(i) * slot
		start := offset + rng.Float64()*slot/2
		end := start + (0.2+rng.Float64()*0.8)*slot/2
		speech = append(speech, model.Interval{
			Start: math.Round(start*100) / 100,
			End:   math.Round(min(end, offset+slot)*100) / 100,
		})
	}

	return speech
}
