package soundgen

import (
	"math"
	"time"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
)

// Generator produces deterministic synthetic signals.
type Generator struct {
	SampleRate int
	Amplitude  float64
}

func (g *Generator) sampleCount(duration time.Duration) int {
	return int(math.Round(duration.Seconds() * float64(g.SampleRate)))
}

func (g *Generator) amplitude() float64 {
	if g.Amplitude <= 0 {
		return 0.5
	}
	return g.Amplitude
}

// Tone returns a sine wave of the given frequency.
func (g *Generator) Tone(frequency float64, duration time.Duration) []float64 {
	data := make([]float64, g.sampleCount(duration))
	for i := range data {
		phase := frequency * float64(i) / float64(g.SampleRate)

		data[i] = math.Sin(2*math.Pi*phase) * g.amplitude()
	}
	return data
}

func (g *Generator) Silence(duration time.Duration) []float64 {
	return make([]float64, g.sampleCount(duration))
}

// Recording returns a signal of the given duration that contains a tone within each of the speech intervals.
func (g *Generator) Recording(duration time.Duration, speech []model.Interval, frequency float64) []float64 {
	data := g.Silence(duration)
	rate := float64(g.SampleRate)

	for _, iv := range speech {
		start := max(0, int(math.Round(iv.Start*rate)))
		end := min(len(data), int(math.Round(iv.End*rate)))
		for i := start; i < end; i++ {
			phase := frequency * float64(i) / rate
			data[i] = math.Sin(2*math.Pi*phase) * g.amplitude()
		}
	}

	return data
}

func Concat(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	data := make([]float64, 0, n)
	for _, p := range parts {
		data = append(data, p...)
	}
	return data
}
