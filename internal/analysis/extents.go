package analysis

import (
	"math"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Extents summarizes the per-axis range of a trajectory.
type Extents struct {
	Min    [3]float64
	Max    [3]float64
	MaxAbs float64
}

func (e Extents) Center() [3]float64 {
	var c [3]float64
	for i := range c {
		c[i] = (e.Min[i] + e.Max[i]) / 2
	}
	return c
}

// Size is the largest side of the bounding box.
func (e Extents) Size() float64 {
	s := 0.0
	for i := range e.Min {
		s = math.Max(s, e.Max[i]-e.Min[i])
	}
	return s
}

func ComputeExtents(tr *dynamo.Trajectory) Extents {
	var e Extents
	if tr.Len() == 0 {
		return e
	}
	for axis := 0; axis < 3; axis++ {
		col := tr.Component(axis)
		e.Min[axis] = floats.Min(col)
		e.Max[axis] = floats.Max(col)
		e.MaxAbs = math.Max(e.MaxAbs, math.Max(math.Abs(e.Min[axis]), math.Abs(e.Max[axis])))
	}
	return e
}

// Bounded reports whether no component of any point exceeds limit in
// magnitude.
func Bounded(tr *dynamo.Trajectory, limit float64) bool {
	return ComputeExtents(tr).MaxAbs <= limit
}
