package annotation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ami", FileName), `
train:
  - name: ES2002a
    audio_path: audio/ES2002a.wav
    segments: [[1.5, 3.0], [0.5, 1.0]]
  - audio_path: /abs/IS1000a.Mix-Headset.wav
val:
  - audio_path: audio/ES2003a.wav
    segments: [[0, 0.4]]
`)
	writeFile(t, filepath.Join(root, "broken", FileName), "train: [[[")
	writeFile(t, filepath.Join(root, "unrelated", "readme.txt"), "no annotations")
	writeFile(t, filepath.Join(root, "top-level.txt"), "ignored")

	set, err := Load(root, "")
	require.NoError(t, err)

	require.Equal(t, []string{"ami_train", "ami_val"}, set.Keys(), "empty test split should be dropped")
	require.Equal(t, []string{"ES2002a", "IS1000a.Mix-Headset"}, set["ami_train"].Names())
	require.Equal(t, Recording{
		Name:      "ES2002a",
		AudioPath: filepath.Join(root, "ami", "audio", "ES2002a.wav"),
		Segments:  []model.Interval{{Start: 1.5, End: 3.0}, {Start: 0.5, End: 1.0}},
	}, set["ami_train"]["ES2002a"], "segment order should be preserved")
	require.Equal(t, "/abs/IS1000a.Mix-Headset.wav", set["ami_train"]["IS1000a.Mix-Headset"].AudioPath)
	require.Empty(t, set["ami_train"]["IS1000a.Mix-Headset"].Segments)
	require.Equal(t, []model.Interval{{Start: 0, End: 0.4}}, set["ami_val"]["ES2003a"].Segments)
}

func TestLoadWithPrimaryRoot(t *testing.T) {
	root := t.TempDir()
	primary := t.TempDir()
	writeFile(t, filepath.Join(root, "ami", FileName), `
train:
  - audio_path: a.wav
val:
  - audio_path: sampled-val.wav
`)
	writeFile(t, filepath.Join(primary, "ami", FileName), `
train:
  - audio_path: primary-train.wav
val:
  - audio_path: primary-val.wav
test:
  - audio_path: primary-test.wav
`)
	writeFile(t, filepath.Join(primary, "other", FileName), `
test:
  - audio_path: other.wav
`)

	set, err := Load(root, primary)
	require.NoError(t, err)

	require.Equal(t, []string{"ami_test", "ami_train", "ami_val"}, set.Keys())
	require.Equal(t, []string{"a"}, set["ami_train"].Names(), "train split should not be overridden")
	require.Equal(t, []string{"primary-val"}, set["ami_val"].Names())
	require.Equal(t, []string{"primary-test"}, set["ami_test"].Names())
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
	}{
		{name: "unknown field", content: "train:\n  - audio_path: a.wav\n    speakers: 2\n"},
		{name: "malformed segment", content: "train:\n  - audio_path: a.wav\n    segments: [[1, 2, 3]]\n"},
		{name: "missing audio path", content: "train:\n  - name: a\n"},
		{name: "duplicate recording", content: "train:\n  - audio_path: x/a.wav\n  - audio_path: y/a.wav\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "ami", FileName), tc.content)

			_, err := Load(root, "")
			require.Error(t, err, "dataset should be skipped, leaving no annotations")
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing"), "")
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "synth")
	rec := Recording{
		Name:      "tone",
		AudioPath: filepath.Join(dir, "audio", "tone.wav"),
		Segments:  []model.Interval{{Start: 0.25, End: 0.75}},
	}

	require.NoError(t, Save(dir, map[string][]Recording{SplitTrain: {rec}}))

	set, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, Split{"tone": rec}, set["synth_train"])

	require.Error(t, Save(dir, map[string][]Recording{"holdout": {rec}}))
}
