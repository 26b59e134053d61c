package soundgen

import (
	"testing"
	"time"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
	"github.com/stretchr/testify/require"
)

func TestRecording(t *testing.T) {
	g := &Generator{SampleRate: 16000}

	data := g.Recording(time.Second, []model.Interval{{Start: 0.5, End: 2}}, 440)

	require.Len(t, data, 16000)
	for _, v := range data[:8000] {
		require.Zero(t, v)
	}
	nonZero := 0
	for _, v := range data[8000:] {
		require.LessOrEqual(t, v, 0.5)
		require.GreaterOrEqual(t, v, -0.5)
		if v != 0 {
			nonZero++
		}
	}
	require.Greater(t, nonZero, 7000)
}

func TestConcat(t *testing.T) {
	g := &Generator{SampleRate: 8000}

	data := Concat(g.Silence(250*time.Millisecond), g.Tone(440, 250*time.Millisecond))

	require.Len(t, data, 4000)
}
