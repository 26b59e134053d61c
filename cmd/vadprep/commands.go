package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mgoltzsche/vad-dataprep/internal/annotation"
	"github.com/mgoltzsche/vad-dataprep/internal/cli"
	"github.com/mgoltzsche/vad-dataprep/internal/folder"
	"github.com/mgoltzsche/vad-dataprep/internal/prep"
	"github.com/mgoltzsche/vad-dataprep/pkg/config"
)

const envVarPrefix = "VADPREP_"

func newRootCommand(logOutput io.Writer) *cobra.Command {
	cfg := config.Default()
	configFlag := &config.Flag{}

	root := &cobra.Command{
		Use:           "vadprep",
		Short:         "Prepares labeled audio snippets and manifests to train a voice activity detection model",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.Var(configFlag, "config", "path to the configuration file")
	flags.StringVar(&cfg.AnnotationsDir, "annotations-dir", cfg.AnnotationsDir, "folder containing one annotated dataset per subfolder")
	flags.StringVar(&cfg.PrimaryAnnotationsDir, "primary-annotations-dir", cfg.PrimaryAnnotationsDir, "folder whose datasets provide the val and test splits")
	flags.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "folder the trimmed snippet folders are written to")
	flags.StringVar(&cfg.ManifestDir, "manifest-dir", cfg.ManifestDir, "folder the manifests are written to (defaults to the output dir)")
	flags.Float64Var(&cfg.SnippetDuration, "snippet-duration", cfg.SnippetDuration, "snippet duration in seconds")
	flags.Float64Var(&cfg.FrameDuration, "frame-duration", cfg.FrameDuration, "frame duration in seconds used for frame labels")
	flags.IntVar(&cfg.LabelSampleRate, "label-sample-rate", cfg.LabelSampleRate, "sample rate used to compute frame labels")
	flags.Var(&thresholdValue{value: &cfg.MinSpeechRatio}, "min-speech-ratio", "speech sample fraction a frame must exceed to be labeled as speech")
	flags.StringVar(&cfg.LabelMode, "label-mode", cfg.LabelMode, "label per snippet (segment) or per frame (frame)")
	flags.StringVar(&cfg.MatchPolicy, "match-policy", cfg.MatchPolicy, "speech interval that determines the offset: first (as annotated) or earliest")
	flags.IntVar(&cfg.EmptyFrameCount, "empty-frame-count", cfg.EmptyFrameCount, "number of frame labels emitted for a snippet without speech")
	flags.StringSliceVar(&cfg.SkipFiles, "skip-files", cfg.SkipFiles, "audio files to exclude, matched as substring of the path")
	flags.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "number of recordings processed in parallel")
	flags.IntVar(&cfg.Sampling.Train, "sample-train", cfg.Sampling.Train, "number of train recordings to use per dataset (0 = all)")
	flags.IntVar(&cfg.Sampling.Val, "sample-val", cfg.Sampling.Val, "number of val recordings to use per dataset (0 = all)")
	flags.IntVar(&cfg.Sampling.Test, "sample-test", cfg.Sampling.Test, "number of test recordings to use per dataset (0 = all)")
	flags.Int64Var(&cfg.Sampling.Seed, "seed", cfg.Sampling.Seed, "random seed used to sample recordings")
	setupLogger := cli.AddLogFlags(flags, logOutput)

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := cli.ApplyEnvVars(cmd.Flags(), envVarPrefix); err != nil {
			return err
		}
		setupLogger()
		return cli.ApplyConfigFile(cmd.Flags(), configFlag, &cfg)
	}

	root.AddCommand(
		newSegmentCommand(&cfg),
		newManifestCommand(&cfg),
		newRunCommand(&cfg),
		newCleanCommand(&cfg),
		newSynthCommand(&cfg),
	)

	cli.AddEnvVarUsage(flags, envVarPrefix)

	return root
}

func loadAnnotations(cfg *config.Configuration) (annotation.Set, error) {
	if cfg.AnnotationsDir == "" {
		return nil, fmt.Errorf("no annotations dir specified")
	}
	return annotation.Load(cfg.AnnotationsDir, cfg.PrimaryAnnotationsDir)
}

func newSegmentCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "segment",
		Short: "Chop the annotated recordings into fixed-duration snippets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadAnnotations(cfg)
			if err != nil {
				return err
			}

			_, err = prep.NewSegmenter(*cfg).Run(cmd.Context(), set)
			return err
		},
	}
}

func newManifestCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Label the snippets and write the training manifests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadAnnotations(cfg)
			if err != nil {
				return err
			}

			return writeManifests(cmd, cfg, set)
		},
	}
}

func newRunCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Segment the recordings and write the manifests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadAnnotations(cfg)
			if err != nil {
				return err
			}

			if _, err := prep.NewSegmenter(*cfg).Run(cmd.Context(), set); err != nil {
				return err
			}

			return writeManifests(cmd, cfg, set)
		},
	}
}

func writeManifests(cmd *cobra.Command, cfg *config.Configuration, set annotation.Set) error {
	labeler, err := prep.NewLabeler(*cfg)
	if err != nil {
		return err
	}

	stats, err := labeler.Run(cmd.Context(), set)
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("manifests written to %s: %s", labeler.ManifestDir, stats))

	return nil
}

func newCleanCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the trimmed snippet folders",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			dirs, err := folder.TrimmedFolders(cfg.OutputDir)
			if err != nil {
				return err
			}

			for _, dir := range dirs {
				slog.Info(fmt.Sprintf("removing %s", dir))
				if err := folder.Remove(dir); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
