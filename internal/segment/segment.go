package segment

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
)

var (
	ErrInvalidDuration   = errors.New("snippet duration must be a positive number")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// DerivingSnippets returns the number of snippets an audio of the given duration is split into
// and the duration of the trailing partial region, which becomes its own padded snippet.
func DerivingSnippets(audioDuration, snippetDuration float64) (int, float64) {
	if !(snippetDuration > 0) || audioDuration <= 0 {
		return 0, 0
	}

	count := int(math.Floor(round(audioDuration/snippetDuration, 9)))
	remainder := round(audioDuration-float64(count)*snippetDuration, 6)
	if remainder > 0 {
		count++
	} else {
		remainder = 0
	}

	return count, remainder
}

// Segmenter splits decoded audio into snippets of a fixed duration.
type Segmenter struct {
	Duration float64
}

// Chop returns the snippets of the given mono samples in chronological order.
// Every snippet's buffer holds exactly round(Duration*sampleRate) samples.
func (s *Segmenter) Chop(samples []float64, sampleRate int) (iter.Seq[model.Snippet], error) {
	if err := ValidateDuration(s.Duration); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSampleRate, sampleRate)
	}

	rate := float64(sampleRate)
	duration := s.Duration
	size := int(math.Round(duration * rate))
	count, remainder := DerivingSnippets(float64(len(samples))/rate, duration)

	return func(yield func(model.Snippet) bool) {
		for i := 0; i < count; i++ {
			start := int(math.Round(duration * float64(i) * rate))
			end := int(math.Round(duration * float64(i+1) * rate))

			if i == count-1 && remainder > 0 {
				end = len(samples)
			}
			start = min(start, len(samples))
			end = min(max(end, start), len(samples))

			buf := make([]float64, size)
			copy(buf, samples[start:end])

			snippet := model.Snippet{
				Index:      i,
				Start:      float64(start) / rate,
				End:        float64(end) / rate,
				SampleRate: sampleRate,
				Samples:    buf,
			}

			if !yield(snippet) {
				return
			}
		}
	}, nil
}

func ValidateDuration(d float64) error {
	if !(d > 0) || math.IsInf(d, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidDuration, d)
	}
	return nil
}

// Chop splits samples into snippets of the given duration.
func Chop(samples []float64, sampleRate int, duration float64) (iter.Seq[model.Snippet], error) {
	s := &Segmenter{Duration: duration}
	return s.Chop(samples, sampleRate)
}

// round rounds the exact binary value to the given decimals, sending exact ties to even.
func round(v float64, decimals int) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	return f
}
