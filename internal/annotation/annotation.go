package annotation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
	"github.com/mgoltzsche/vad-dataprep/internal/segment"
)

// FileName is the name of the annotation file within a dataset folder.
const FileName = "annotations.yaml"

const (
	SplitTrain = "train"
	SplitVal   = "val"
	SplitTest  = "test"
)

// Recording is an audio file with its ground-truth speech intervals.
type Recording struct {
	Name      string
	AudioPath string
	Segments  []model.Interval
}

// Split maps recording names to recordings.
type Split map[string]Recording

// Set maps annotation keys of the form <dataset>_<split> to splits.
type Set map[string]Split

// Key returns the annotation key of a dataset split.
func Key(dataset, split string) string {
	return dataset + "_" + split
}

// Keys returns the set's keys in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Names returns the split's recording names in sorted order.
func (s Split) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type recordingFile struct {
	Name      string      `yaml:"name"`
	AudioPath string      `yaml:"audio_path"`
	Segments  [][]float64 `yaml:"segments"`
}

type datasetFile struct {
	Train []recordingFile `yaml:"train"`
	Val   []recordingFile `yaml:"val"`
	Test  []recordingFile `yaml:"test"`
}

type dataset map[string]Split

// Load reads the annotations of all dataset folders within root.
// When primaryRoot is provided, the val and test splits of datasets found in both roots are taken from primaryRoot.
func Load(root, primaryRoot string) (Set, error) {
	slog.Info(fmt.Sprintf("loading annotations from %s", root))

	datasets, err := loadRoot(root)
	if err != nil {
		return nil, err
	}

	if primaryRoot != "" {
		primary, err := loadRoot(primaryRoot)
		if err != nil {
			return nil, fmt.Errorf("load primary annotations: %w", err)
		}

		for name, ds := range datasets {
			p, ok := primary[name]
			if !ok {
				continue
			}
			ds[SplitVal] = p[SplitVal]
			ds[SplitTest] = p[SplitTest]
		}
	}

	set := Set{}
	for name, ds := range datasets {
		for splitName, split := range ds {
			if len(split) == 0 {
				continue
			}
			set[Key(name, splitName)] = split
		}
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no annotations found within %s", root)
	}

	return set, nil
}

func loadRoot(root string) (map[string]dataset, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list dataset folders: %w", err)
	}

	datasets := map[string]dataset{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		ds, err := loadDataset(filepath.Join(root, e.Name()))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Debug(fmt.Sprintf("skipping folder %s without %s", e.Name(), FileName))
			} else {
				slog.Warn(fmt.Sprintf("%s cannot be converted to annotations: %s", e.Name(), err))
			}
			continue
		}

		datasets[e.Name()] = ds
	}

	return datasets, nil
}

func loadDataset(dir string) (dataset, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw datasetFile
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", FileName, err)
	}

	ds := dataset{}
	for splitName, recordings := range map[string][]recordingFile{
		SplitTrain: raw.Train,
		SplitVal:   raw.Val,
		SplitTest:  raw.Test,
	} {
		split, err := toSplit(dir, recordings)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", splitName, err)
		}
		ds[splitName] = split
	}

	return ds, nil
}

func toSplit(dir string, recordings []recordingFile) (Split, error) {
	split := Split{}

	for i, r := range recordings {
		if r.AudioPath == "" {
			return nil, fmt.Errorf("recording %d: no audio_path specified", i)
		}

		audioPath := r.AudioPath
		if !filepath.IsAbs(audioPath) {
			audioPath = filepath.Join(dir, audioPath)
		}

		name := r.Name
		if name == "" {
			name = segment.BaseName(audioPath)
		}

		if _, ok := split[name]; ok {
			return nil, fmt.Errorf("duplicate recording %q", name)
		}

		segments := make([]model.Interval, len(r.Segments))
		for j, s := range r.Segments {
			if len(s) != 2 {
				return nil, fmt.Errorf("recording %q: segment %d: expected [start, end] but got %v", name, j, s)
			}
			segments[j] = model.Interval{Start: s[0], End: s[1]}
		}

		split[name] = Recording{
			Name:      name,
			AudioPath: audioPath,
			Segments:  segments,
		}
	}

	return split, nil
}

// Save writes the recordings of a dataset, keyed by split name, into the dataset folder.
func Save(dir string, splits map[string][]Recording) error {
	var raw datasetFile
	for splitName, recordings := range splits {
		files := make([]recordingFile, len(recordings))
		for i, r := range recordings {
			audioPath := r.AudioPath
			if rel, err := filepath.Rel(dir, audioPath); err == nil && filepath.IsLocal(rel) {
				audioPath = rel
			}
			segments := make([][]float64, len(r.Segments))
			for j, s := range r.Segments {
				segments[j] = []float64{s.Start, s.End}
			}
			files[i] = recordingFile{Name: r.Name, AudioPath: audioPath, Segments: segments}
		}

		switch splitName {
		case SplitTrain:
			raw.Train = files
		case SplitVal:
			raw.Val = files
		case SplitTest:
			raw.Test = files
		default:
			return fmt.Errorf("unsupported split %q", splitName)
		}
	}

	b, err := yaml.Marshal(&raw)
	if err != nil {
		return fmt.Errorf("marshal annotations: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset folder: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), b, 0o644); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}

	return nil
}
