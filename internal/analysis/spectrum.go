package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/lorenzviz/internal/dynamo"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X_k|^2 for the non-negative frequencies of the
// mean-removed signal.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, len(spec)/2+1)
	for i := range ps {
		a := cmplx.Abs(spec[i])
		ps[i] = a * a
	}
	return ps
}

// DominantFrequency finds the strongest non-zero frequency of one state
// component. The trajectory must be evenly sampled.
func DominantFrequency(tr *dynamo.Trajectory, axis int) float64 {
	if tr.Len() < 4 || axis < 0 || axis >= len(tr.Points[0]) {
		return 0
	}
	dt := tr.Times[1] - tr.Times[0]
	if dt <= 0 {
		return 0
	}

	ps := PowerSpectrum(tr.Component(axis))
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(tr.Len()) * dt)
}
