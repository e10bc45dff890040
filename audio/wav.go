package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/youpy/go-wav"
)

var ErrUnsupportedFormat = errors.New("unsupported wav format")

// Sound is a mono sample loaded from a WAV file.
type Sound struct {
	Samples    []float64
	SampleRate float64
	File       string
}

// Duration is the length of the sound in seconds.
func (s *Sound) Duration() float64 {
	return float64(len(s.Samples)) / s.SampleRate
}

// LoadSound reads the first channel of a WAV file.
func LoadSound(file string) (*Sound, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snd, err := ReadSound(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}
	snd.File = file
	return snd, nil
}

// ReadSound decodes the first channel of a WAV stream.
func ReadSound(r interface {
	io.Reader
	io.ReaderAt
}) (*Sound, error) {
	wr := wav.NewReader(r)
	format, err := wr.Format()
	if err != nil {
		return nil, err
	}
	if format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, ErrUnsupportedFormat
	}
	snd := Sound{SampleRate: float64(format.SampleRate)}
	for {
		samples, err := wr.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, sample := range samples {
			snd.Samples = append(snd.Samples, wr.FloatValue(sample, 0))
		}
	}
	return &snd, nil
}

// WriteWAV encodes mono samples as 16 bit PCM. Samples are clipped to
// [-1, 1].
func WriteWAV(w io.Writer, samples []float64, sampleRate float64) error {
	const scale = 1<<15 - 1
	out := make([]wav.Sample, len(samples))
	for i, x := range samples {
		x = math.Max(-1, math.Min(1, x))
		out[i].Values[0] = int(math.Round(x * scale))
	}
	ww := wav.NewWriter(w, uint32(len(samples)), 1, uint32(sampleRate), 16)
	if err := ww.WriteSamples(out); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}

func WriteWAVFile(file string, samples []float64, sampleRate float64) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Peak returns the largest absolute sample value.
func Peak(samples []float64) float64 {
	var peak float64
	for _, x := range samples {
		peak = math.Max(peak, math.Abs(x))
	}
	return peak
}
