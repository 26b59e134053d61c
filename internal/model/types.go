package model

import "fmt"

// Interval is a time span in seconds.
type Interval struct {
	Start float64
	End   float64
}

func (i Interval) Duration() float64 {
	return i.End - i.Start
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Start, i.End)
}

// Snippet is a fixed-size chunk of a recording.
// Start and End reflect the audio content before padding.
type Snippet struct {
	Index      int
	Start      float64
	End        float64
	SampleRate int
	Samples    []float64
}

func (s Snippet) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

type OverlapResult struct {
	HasOverlap bool
	Offset     float64
}
