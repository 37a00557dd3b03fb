package analysis

import (
	"math"

	"github.com/san-kum/lorenzviz/internal/dynamo"
)

// Axis names the components accepted by PhasePortraitToASCII.
var Axis = map[string]int{"x": 0, "y": 1, "z": 2}

// PhasePortraitToASCII projects a trajectory onto two components and draws
// it as a dot plot. Axes are drawn where zero is in view.
func PhasePortraitToASCII(tr *dynamo.Trajectory, xIdx, yIdx, width, height int) string {
	if tr.Len() == 0 || width <= 1 || height <= 1 {
		return ""
	}
	if xIdx < 0 || yIdx < 0 || xIdx >= len(tr.Points[0]) || yIdx >= len(tr.Points[0]) {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range tr.Points {
		minX, maxX = math.Min(minX, p[xIdx]), math.Max(maxX, p[xIdx])
		minY, maxY = math.Min(minY, p[yIdx]), math.Max(maxY, p[yIdx])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := blankGrid(width, height)
	col := func(v float64) int { return int((v - minX) / rangeX * float64(width-1)) }
	row := func(v float64) int { return height - 1 - int((v-minY)/rangeY*float64(height-1)) }

	for _, p := range tr.Points {
		r, c := row(p[yIdx]), col(p[xIdx])
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}
	return joinGrid(grid)
}
