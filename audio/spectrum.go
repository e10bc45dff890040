package audio

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/ktye/fft"
)

// SpectralPeak is a local maximum of a magnitude spectrum.
type SpectralPeak struct {
	Freq      float64
	Magnitude float64
}

// Spectrum returns the Hann-windowed magnitude spectrum of the first size
// samples, zero padded if samples is shorter. Bin k is at k*sampleRate/size.
func Spectrum(samples []float64, size int) ([]float64, error) {
	f, err := fft.New(size)
	if err != nil {
		return nil, fmt.Errorf("fft of size %d: %w", size, err)
	}
	x := make([]complex128, size)
	for i := range x {
		if i >= len(samples) {
			break
		}
		w := (1 - math.Cos(twoPi*float64(i)/float64(size))) / 2
		x[i] = complex(samples[i]*w, 0)
	}
	x = f.Transform(x)
	mag := make([]float64, size/2)
	for k := range mag {
		mag[k] = cmplx.Abs(x[k]) * 2 / float64(size)
	}
	return mag, nil
}

// Peaks returns up to count of the strongest spectral peaks, strongest
// first.
func Peaks(samples []float64, sampleRate float64, size, count int) ([]SpectralPeak, error) {
	mag, err := Spectrum(samples, size)
	if err != nil {
		return nil, err
	}
	var peaks []SpectralPeak
	for k := 1; k < len(mag)-1; k++ {
		if mag[k] > mag[k-1] && mag[k] >= mag[k+1] {
			peaks = append(peaks, SpectralPeak{
				Freq:      float64(k) * sampleRate / float64(size),
				Magnitude: mag[k],
			})
		}
	}
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Magnitude > peaks[j].Magnitude })
	if len(peaks) > count {
		peaks = peaks[:count]
	}
	return peaks, nil
}
