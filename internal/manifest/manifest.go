package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgoltzsche/vad-dataprep/internal/folder"
)

const (
	LabelSpeech     = "speech"
	LabelBackground = "background"
)

// Entry is a NeMo compliant manifest line.
type Entry struct {
	AudioFilepath string  `json:"audio_filepath"`
	Duration      float64 `json:"duration"`
	Label         string  `json:"label"`
	Text          string  `json:"text"`
	Offset        float64 `json:"offset"`
}

func NewEntry(audioPath string, duration float64, label string, offset float64) Entry {
	return Entry{
		AudioFilepath: audioPath,
		Duration:      duration,
		Label:         label,
		Text:          "_",
		Offset:        offset,
	}
}

func SpeechPath(dir, key string) string {
	return filepath.Join(dir, key+"_speech_manifest.json")
}

func NonSpeechPath(dir, key string) string {
	return filepath.Join(dir, key+"_non_speech_manifest.json")
}

func FramePath(dir, key string) string {
	return filepath.Join(dir, key+"_frame_manifest.json")
}

// Write writes one JSON object per line, replacing an existing file atomically.
func Write(path string, entries []Entry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode manifest entry: %w", err)
		}
	}

	if err := folder.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write manifest %s: %w", filepath.Base(path), err)
	}

	return nil
}

// Read parses a manifest file.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("manifest %s line %d: %w", filepath.Base(path), line, err)
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return entries, nil
}
