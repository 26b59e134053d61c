package audio

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"

	"github.com/mgoltzsche/vad-dataprep/internal/folder"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
	encodeBitDepth   = 16
)

// ReadWavFile decodes a PCM wave file into mono samples within [-1, 1].
func ReadWavFile(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wave file: %w", err)
	}
	defer f.Close()

	samples, sampleRate, err := DecodeWav(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	return samples, sampleRate, nil
}

// DecodeWav decodes PCM wave data into mono samples within [-1, 1].
// Multi-channel audio is downmixed by averaging the channels.
func DecodeWav(r io.ReadSeeker) ([]float64, int, error) {
	decoder := wav.NewDecoder(r)

	decoder.ReadInfo()
	if err := decoder.Err(); err != nil {
		return nil, 0, fmt.Errorf("read wave file headers: %w", err)
	}

	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wave file")
	}

	if decoder.WavAudioFormat != formatPCM && decoder.WavAudioFormat != formatExtensible {
		return nil, 0, fmt.Errorf("unsupported wave audio format %d, expected PCM", decoder.WavAudioFormat)
	}

	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read full pcm buffer: %w", err)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		return nil, 0, fmt.Errorf("wave data with %d channels provided", channels)
	}

	bitDepth := int(decoder.BitDepth)
	scale := math.Pow(2, float64(bitDepth-1))
	bias := 0.0
	if bitDepth == 8 {
		// 8 bit PCM is unsigned
		bias = scale
	}

	samples := make([]float64, len(buffer.Data)/channels)
	for i := range samples {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(buffer.Data[i*channels+c]) - bias
		}
		samples[i] = sum / float64(channels) / scale
	}

	return samples, int(decoder.SampleRate), nil
}

// EncodeWav encodes mono samples within [-1, 1] as 16 bit PCM wave data.
func EncodeWav(samples []float64, sampleRate int) ([]byte, error) {
	scale := math.Pow(2, encodeBitDepth-1)
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(math.Max(-scale, math.Min(scale-1, math.Round(v*scale))))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:           data,
		SourceBitDepth: encodeBitDepth,
	}

	wavFile := &writerseeker.WriterSeeker{}
	encoder := wav.NewEncoder(wavFile, sampleRate, encodeBitDepth, 1, formatPCM)

	if err := encoder.Write(buf); err != nil {
		return nil, fmt.Errorf("encoder write buffer: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}

	b, err := io.ReadAll(wavFile.Reader())
	if err != nil {
		return nil, fmt.Errorf("reading wav into memory: %w", err)
	}

	return b, nil
}

// WriteWavFile writes the samples as wave file, replacing an existing file atomically.
func WriteWavFile(path string, samples []float64, sampleRate int) error {
	b, err := EncodeWav(samples, sampleRate)
	if err != nil {
		return err
	}

	if err := folder.WriteFile(path, b); err != nil {
		return fmt.Errorf("write wave file: %w", err)
	}

	return nil
}
