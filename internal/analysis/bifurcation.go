package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/integrators"
	"github.com/san-kum/lorenzviz/internal/physics"
)

// BifurcationPoint holds the distinct local maxima of z seen for one
// parameter value.
type BifurcationPoint struct {
	Param  float64
	Maxima []float64
}

// Sweep describes a parameter sweep over one Lorenz parameter.
type Sweep struct {
	Param     string // "sigma", "rho" or "beta"
	Min, Max  float64
	Steps     int
	DT        float64
	Transient float64
	Record    float64
}

type tunable interface {
	dynamo.System
	dynamo.Configurable
}

// BifurcationDiagram sweeps one parameter and records the local maxima of z
// after the transient has died out (the Lorenz map). A single maximum means
// a limit cycle, a spread of maxima means chaos. Parameter values are
// integrated in parallel.
func BifurcationDiagram(p physics.Params, x0 dynamo.State, s Sweep) ([]BifurcationPoint, error) {
	if s.Steps < 2 {
		s.Steps = 2
	}
	if !(s.DT > 0) {
		return nil, fmt.Errorf("analysis: sweep dt must be positive, got %g", s.DT)
	}
	if len(x0) != 3 {
		return nil, fmt.Errorf("%w: sweep needs a 3-component state", dynamo.ErrDimensionMismatch)
	}
	if err := physics.NewLorenz(p).SetParam(s.Param, s.Min); err != nil {
		return nil, err
	}

	step := (s.Max - s.Min) / float64(s.Steps-1)
	results := make([]BifurcationPoint, s.Steps)

	dynamo.ParallelFor(s.Steps, 4, func(start, end int) {
		var dyn tunable = physics.NewLorenz(p)
		integ := integrators.NewRK4()
		for i := start; i < end; i++ {
			value := s.Min + float64(i)*step
			_ = dyn.SetParam(s.Param, value)
			results[i] = BifurcationPoint{Param: value, Maxima: zMaxima(dyn, integ, x0, s)}
		}
	})
	return results, nil
}

func zMaxima(dyn dynamo.System, integ dynamo.Integrator, x0 dynamo.State, s Sweep) []float64 {
	x := x0.Clone()
	t := 0.0
	for t < s.Transient {
		x = integ.Step(dyn, x, t, s.DT)
		t += s.DT
	}

	maxima := make([]float64, 0, 16)
	seen := make(map[int64]bool)
	prev, curr := math.NaN(), x[2]
	for t < s.Transient+s.Record {
		x = integ.Step(dyn, x, t, s.DT)
		t += s.DT
		if !x.IsValid() {
			break
		}
		if curr > prev && curr >= x[2] {
			// quantize so a limit cycle reports one value
			key := int64(math.Round(curr * 100))
			if !seen[key] {
				seen[key] = true
				maxima = append(maxima, curr)
			}
		}
		prev, curr = curr, x[2]
	}
	return maxima
}

// BifurcationToASCII plots the sweep with the parameter on the horizontal
// axis.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Maxima {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	grid := blankGrid(width, height)
	for i, p := range data {
		col := i * width / len(data)
		for _, v := range p.Maxima {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				grid[row][col] = '•'
			}
		}
	}
	return joinGrid(grid)
}

func blankGrid(width, height int) [][]rune {
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	return grid
}

func joinGrid(grid [][]rune) string {
	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
