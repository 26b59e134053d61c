package overlap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
)

const (
	DefaultSampleRate    = 16000
	DefaultFrameDuration = 0.02
	// DefaultEmptyFrameCount is the number of all-zero labels returned for a target
	// without any intersecting speech, independent of the target's duration.
	DefaultEmptyFrameCount = 50
)

type LabelOptions struct {
	SampleRate    int
	FrameDuration float64
	// MinSpeechRatio is the speech sample fraction a frame must exceed to be labeled 1.
	MinSpeechRatio  float64
	EmptyFrameCount int
}

func (o LabelOptions) withDefaults() LabelOptions {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.FrameDuration <= 0 || math.IsNaN(o.FrameDuration) || math.IsInf(o.FrameDuration, 0) {
		o.FrameDuration = DefaultFrameDuration
	}
	if o.EmptyFrameCount <= 0 {
		o.EmptyFrameCount = DefaultEmptyFrameCount
	}
	if math.IsNaN(o.MinSpeechRatio) || math.IsInf(o.MinSpeechRatio, 0) {
		slog.Warn(fmt.Sprintf("min speech ratio of %v is not a finite number, defaulting to 0", o.MinSpeechRatio))
		o.MinSpeechRatio = 0
	}
	return o
}

// SkippedInterval is a speech interval that could not be marked.
type SkippedInterval struct {
	Interval model.Interval
	Reason   string
}

// FrameLabels holds one 0/1 label per frame in chronological order.
type FrameLabels struct {
	Labels  []int
	Skipped []SkippedInterval
}

// String returns the labels as space-separated tokens.
func (l FrameLabels) String() string {
	var b strings.Builder
	b.Grow(2 * len(l.Labels))
	for i, v := range l.Labels {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// LabelFrames labels each frame of the target interval as speech (1) or non-speech (0)
// based on the fraction of its samples covered by the given speech intervals.
// Malformed speech intervals are skipped and reported instead of failing the call.
func LabelFrames(target model.Interval, refs []model.Interval, opts LabelOptions) FrameLabels {
	opts = opts.withDefaults()
	sampleRate := float64(opts.SampleRate)

	segs := make([]model.Interval, 0, len(refs))
	for _, r := range refs {
		if !(r.End <= target.Start || r.Start >= target.End) {
			segs = append(segs, r)
		}
	}

	if len(segs) == 0 {
		return FrameLabels{Labels: make([]int, opts.EmptyFrameCount)}
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })

	for i := range segs {
		if segs[i].Start < target.Start {
			segs[i].Start = target.Start
		}
		if segs[i].End > target.End {
			segs[i].End = target.End
		}
	}

	n := int((target.End - target.Start) * sampleRate)
	if n < 0 {
		n = 0
	}

	speech := make([]bool, n)
	result := FrameLabels{}

	for _, seg := range segs {
		if reason := markSpeech(speech, seg, target.Start, sampleRate); reason != "" {
			slog.Warn("skipping speech interval", "interval", seg.String(), "target", target.String(), "reason", reason)
			result.Skipped = append(result.Skipped, SkippedInterval{Interval: seg, Reason: reason})
		}
	}

	frameSize := int(math.Round(opts.FrameDuration * sampleRate))
	if frameSize < 1 {
		frameSize = 1
	}

	frameCount := (n + frameSize - 1) / frameSize
	result.Labels = make([]int, frameCount)

	for f := 0; f < frameCount; f++ {
		end := min((f+1)*frameSize, n)
		count := 0
		for _, s := range speech[f*frameSize : end] {
			if s {
				count++
			}
		}
		// the tail of the last frame counts as zero padding
		if float64(count)/float64(frameSize) > opts.MinSpeechRatio {
			result.Labels[f] = 1
		}
	}

	return result
}

// markSpeech sets the samples covered by seg and returns a non-empty reason if it cannot.
// Interior bounds are shifted one sample inward so that boundary samples are covered,
// except for intervals starting at the beginning of the recording.
func markSpeech(speech []bool, seg model.Interval, offset, sampleRate float64) string {
	if !isFinite(seg.Start) || !isFinite(seg.End) {
		return "non-finite bound"
	}
	if seg.Start > seg.End {
		return "start after end"
	}

	leftAbs := 0.0
	if seg.Start != 0 {
		leftAbs = seg.Start*sampleRate - 1
	}
	rightAbs := seg.End * sampleRate

	left := 0.0
	if leftAbs != 0 {
		left = leftAbs - (offset*sampleRate - 1)
	}
	right := rightAbs - offset*sampleRate

	l, r := int(left), int(right)
	if l < 0 {
		return fmt.Sprintf("negative sample index %d", l)
	}
	if r > len(speech) {
		r = len(speech)
	}

	for i := l; i < r; i++ {
		speech[i] = true
	}

	return ""
}

// ParseThreshold converts a configured min speech ratio into a number.
// Values that cannot be converted are logged and yield 0.
func ParseThreshold(v any) float64 {
	var (
		f   float64
		err error
	)

	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}

	if err == nil && !isFinite(f) {
		err = fmt.Errorf("not a finite number")
	}

	if err != nil {
		slog.Warn(fmt.Sprintf("min speech ratio of %v can't be converted to float, defaulting to 0: %s", v, err))
		return 0
	}

	return f
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
