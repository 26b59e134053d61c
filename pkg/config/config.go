package config

const (
	LabelModeSegment = "segment"
	LabelModeFrame   = "frame"
)

type Configuration struct {
	AnnotationsDir        string   `json:"annotationsDir"`
	PrimaryAnnotationsDir string   `json:"primaryAnnotationsDir,omitempty"`
	OutputDir             string   `json:"outputDir"`
	ManifestDir           string   `json:"manifestDir,omitempty"`
	SnippetDuration       float64  `json:"snippetDuration,omitempty"`
	FrameDuration         float64  `json:"frameDuration,omitempty"`
	LabelSampleRate       int      `json:"labelSampleRate,omitempty"`
	MinSpeechRatio        any      `json:"minSpeechRatio,omitempty"`
	LabelMode             string   `json:"labelMode,omitempty"`
	MatchPolicy           string   `json:"matchPolicy,omitempty"`
	EmptyFrameCount       int      `json:"emptyFrameCount,omitempty"`
	SkipFiles             []string `json:"skipFiles,omitempty"`
	Concurrency           int      `json:"concurrency,omitempty"`
	Sampling              Sampling `json:"sampling,omitempty"`
}

// Sampling limits the number of recordings per split. Zero means all recordings.
type Sampling struct {
	Train int   `json:"train,omitempty"`
	Val   int   `json:"val,omitempty"`
	Test  int   `json:"test,omitempty"`
	Seed  int64 `json:"seed,omitempty"`
}

// Default returns the configuration used when no config file is provided.
func Default() Configuration {
	return Configuration{
		OutputDir:       "output",
		SnippetDuration: 0.63,
		FrameDuration:   0.02,
		LabelSampleRate: 16000,
		LabelMode:       LabelModeSegment,
		MatchPolicy:     "first",
		EmptyFrameCount: 50,
		SkipFiles: []string{
			"R1021_M1947",
			"EN2005a.Headset-3",
			"ES2011c.Headset-2",
		},
		Concurrency: 4,
	}
}

// ManifestFolder returns the folder manifests are written to.
func (c *Configuration) ManifestFolder() string {
	if c.ManifestDir != "" {
		return c.ManifestDir
	}
	return c.OutputDir
}
