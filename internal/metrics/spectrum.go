package metrics

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Peak is the strongest non-DC component of a sampled trace.
type Peak struct {
	// Frequency in cycles per unit of animation time.
	Frequency float64
	Power     float64
}

// DominantFrequency removes the mean from samples taken every dt and
// returns the bin with the largest magnitude. Fewer than four samples or a
// flat trace yield a zero Peak.
func DominantFrequency(samples []float64, dt float64) Peak {
	n := len(samples)
	if n < 4 || dt <= 0 {
		return Peak{}
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	var best Peak
	for k := 1; k <= n/2; k++ {
		p := cmplx.Abs(spectrum[k])
		if p > best.Power {
			best = Peak{Frequency: float64(k) / (float64(n) * dt), Power: p}
		}
	}
	return best
}
