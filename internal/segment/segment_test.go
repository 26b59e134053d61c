package segment

import (
	"math"
	"testing"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
	"github.com/stretchr/testify/require"
)

func TestDerivingSnippets(t *testing.T) {
	for _, tc := range []struct {
		name              string
		audioDuration     float64
		snippetDuration   float64
		expectedCount     int
		expectedRemainder float64
	}{
		{
			name:              "trailing partial snippet",
			audioDuration:     1.5,
			snippetDuration:   0.63,
			expectedCount:     3,
			expectedRemainder: 0.24,
		},
		{
			name:            "exact multiple",
			audioDuration:   1.26,
			snippetDuration: 0.63,
			expectedCount:   2,
		},
		{
			name:            "exact multiple with float error",
			audioDuration:   3 * 0.1,
			snippetDuration: 0.1,
			expectedCount:   3,
		},
		{
			name:              "shorter than a snippet",
			audioDuration:     0.5,
			snippetDuration:   0.63,
			expectedCount:     1,
			expectedRemainder: 0.5,
		},
		{
			name:            "empty audio",
			audioDuration:   0,
			snippetDuration: 0.63,
		},
		{
			name:            "invalid snippet duration",
			audioDuration:   1,
			snippetDuration: 0,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			count, remainder := DerivingSnippets(tc.audioDuration, tc.snippetDuration)
			require.Equal(t, tc.expectedCount, count, "count")
			require.InDelta(t, tc.expectedRemainder, remainder, 1e-9, "remainder")
		})
	}
}

func ramp(n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i+1) / float64(n)
	}
	return samples
}

func collect(t *testing.T, samples []float64, sampleRate int, duration float64) []model.Snippet {
	t.Helper()

	seq, err := Chop(samples, sampleRate, duration)
	require.NoError(t, err)

	var snippets []model.Snippet
	for s := range seq {
		snippets = append(snippets, s)
	}
	return snippets
}

func TestChop(t *testing.T) {
	samples := ramp(24000)

	snippets := collect(t, samples, 16000, 0.63)

	require.Len(t, snippets, 3)

	expectedBounds := []model.Interval{
		{Start: 0, End: 0.63},
		{Start: 0.63, End: 1.26},
		{Start: 1.26, End: 1.5},
	}
	for i, s := range snippets {
		require.Equal(t, i, s.Index, "index")
		require.Equal(t, 16000, s.SampleRate, "sample rate")
		require.Len(t, s.Samples, 10080, "snippet %d samples", i)
		require.InDelta(t, expectedBounds[i].Start, s.Start, 1e-9, "snippet %d start", i)
		require.InDelta(t, expectedBounds[i].End, s.End, 1e-9, "snippet %d end", i)
	}

	require.Equal(t, samples[10080], snippets[1].Samples[0], "first sample of second snippet")
	require.Equal(t, samples[23999], snippets[2].Samples[3839], "last real sample of final snippet")
	for _, v := range snippets[2].Samples[3840:] {
		require.Zero(t, v, "padding")
	}
}

func TestChopFixedLength(t *testing.T) {
	for _, tc := range []struct {
		name       string
		samples    int
		sampleRate int
		duration   float64
	}{
		{name: "non-integer snippet size", samples: 44100, sampleRate: 22050, duration: 0.63},
		{name: "exact multiple", samples: 32000, sampleRate: 16000, duration: 0.5},
		{name: "shorter than a snippet", samples: 100, sampleRate: 8000, duration: 0.63},
		{name: "long recording", samples: 16000*7 + 13, sampleRate: 16000, duration: 0.63},
	} {
		t.Run(tc.name, func(t *testing.T) {
			snippets := collect(t, ramp(tc.samples), tc.sampleRate, tc.duration)
			require.NotEmpty(t, snippets)

			size := int(math.Round(tc.duration * float64(tc.sampleRate)))
			for i, s := range snippets {
				require.Len(t, s.Samples, size, "snippet %d", i)
				if i > 0 {
					require.Equal(t, snippets[i-1].End, s.Start, "snippet %d should start where the previous one ends", i)
				}
			}
			last := snippets[len(snippets)-1]
			require.InDelta(t, float64(tc.samples)/float64(tc.sampleRate), last.End, 1e-9, "end of last snippet")
		})
	}
}

func TestChopEmpty(t *testing.T) {
	require.Empty(t, collect(t, nil, 16000, 0.63))
}

func TestChopStopsEarly(t *testing.T) {
	seq, err := Chop(ramp(48000), 16000, 0.63)
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

func TestChopInvalidArguments(t *testing.T) {
	for _, tc := range []struct {
		name       string
		sampleRate int
		duration   float64
		expected   error
	}{
		{name: "zero duration", sampleRate: 16000, duration: 0, expected: ErrInvalidDuration},
		{name: "negative duration", sampleRate: 16000, duration: -0.63, expected: ErrInvalidDuration},
		{name: "not a number duration", sampleRate: 16000, duration: math.NaN(), expected: ErrInvalidDuration},
		{name: "infinite duration", sampleRate: 16000, duration: math.Inf(1), expected: ErrInvalidDuration},
		{name: "zero sample rate", sampleRate: 0, duration: 0.63, expected: ErrInvalidSampleRate},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Chop(ramp(10), tc.sampleRate, tc.duration)
			require.ErrorIs(t, err, tc.expected)
		})
	}
}
