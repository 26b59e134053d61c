package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestFromFile(t *testing.T) {
	file := writeFile(t, `
annotationsDir: /data/annotations
labelMode: frame
minSpeechRatio: "0.4"
sampling:
  train: 10
  seed: 42
`)

	cfg, err := FromFile(file)
	require.NoError(t, err)

	expected := Default()
	expected.AnnotationsDir = "/data/annotations"
	expected.LabelMode = LabelModeFrame
	expected.MinSpeechRatio = "0.4"
	expected.Sampling = Sampling{Train: 10, Seed: 42}
	require.Equal(t, expected, cfg)
	require.Equal(t, "output", cfg.ManifestFolder())
}

func TestFromFileErrors(t *testing.T) {
	for _, c := range []struct {
		name    string
		content string
	}{
		{"unknown field", "outputDirectory: out\n"},
		{"wrong type", "concurrency: many\n"},
		{"invalid yaml", "outputDir: [\n"},
		{"unsupported label mode", "labelMode: clip\n"},
		{"non-positive snippet duration", "snippetDuration: 0\n"},
		{"negative concurrency", "concurrency: -1\n"},
		{"negative sample count", "sampling:\n  val: -2\n"},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := FromFile(writeFile(t, c.content))
			require.Error(t, err)
		})
	}

	_, err := FromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "missing file")
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(nil)
	require.NoError(t, err, "empty document")
	require.Equal(t, Default(), cfg)

	cfg, err = Decode([]byte("skipFiles: []\nconcurrency: 1\n"))
	require.NoError(t, err)
	require.Empty(t, cfg.SkipFiles, "file replaces default skip list")
	require.Equal(t, 1, cfg.Concurrency)
	require.Equal(t, 0.63, cfg.SnippetDuration, "default kept")

	_, err = Decode([]byte("labelMode: clip\nconcurrency: -1\n"))
	require.ErrorContains(t, err, "labelMode")
	require.ErrorContains(t, err, "concurrency")
}

func TestManifestFolder(t *testing.T) {
	cfg := Default()
	cfg.ManifestDir = "manifests"
	require.Equal(t, "manifests", cfg.ManifestFolder())
}

func TestFlag(t *testing.T) {
	f := &Flag{}
	_, ok := f.Configuration()
	require.False(t, ok)

	file := writeFile(t, "outputDir: out\n")
	require.NoError(t, f.Set(file))
	require.Equal(t, file, f.String())

	cfg, ok := f.Configuration()
	require.True(t, ok)
	require.Equal(t, "out", cfg.OutputDir)

	require.Error(t, f.Set(writeFile(t, "bogus: true\n")))
	require.Equal(t, file, f.String(), "keeps previous file on error")
}
