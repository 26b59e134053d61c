package segment

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
)

const (
	fileExt        = ".wav"
	boundSeparator = "__"
)

var ErrInvalidFileName = errors.New("invalid snippet file name")

// FileName returns the file name of a snippet of the recording with the given base name,
// e.g. ES2002a__0.63-1.26.wav.
func FileName(base string, s model.Snippet) string {
	return fmt.Sprintf("%s%s%s-%s%s", base, boundSeparator, formatBound(s.Start), formatBound(s.End), fileExt)
}

// BaseName returns the recording name of an audio file path, without directory and extension.
func BaseName(audioPath string) string {
	name := filepath.Base(audioPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ParseFileName extracts the recording name and time bounds from a snippet file name.
func ParseFileName(name string) (string, model.Interval, error) {
	stem, ok := strings.CutSuffix(filepath.Base(name), fileExt)
	if !ok {
		return "", model.Interval{}, fmt.Errorf("%w %q: missing %s extension", ErrInvalidFileName, name, fileExt)
	}

	idx := strings.LastIndex(stem, boundSeparator)
	if idx <= 0 {
		return "", model.Interval{}, fmt.Errorf("%w %q: missing time bounds", ErrInvalidFileName, name)
	}

	bounds := strings.Split(stem[idx+len(boundSeparator):], "-")
	if len(bounds) != 2 {
		return "", model.Interval{}, fmt.Errorf("%w %q: expected <start>-<end>", ErrInvalidFileName, name)
	}

	start, err := strconv.ParseFloat(bounds[0], 64)
	if err != nil {
		return "", model.Interval{}, fmt.Errorf("%w %q: start: %w", ErrInvalidFileName, name, err)
	}

	end, err := strconv.ParseFloat(bounds[1], 64)
	if err != nil {
		return "", model.Interval{}, fmt.Errorf("%w %q: end: %w", ErrInvalidFileName, name, err)
	}

	return stem[:idx], model.Interval{Start: start, End: end}, nil
}

// formatBound keeps at least one decimal place, e.g. 0.0 and 1.0.
func formatBound(v float64) string {
	s := strconv.FormatFloat(round(v, 2), 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
