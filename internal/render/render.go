// Package render draws a trajectory as a projected 3D line plot with
// gonum/plot. The desktop window and the render command both go through
// Renderer, so the picture is the same on screen and on disk.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/viz"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	DefaultTitle = "Lorenz System"
	dpi          = 96
	// half-width of the visible image plane; fixed so the frame does not
	// rescale while the camera orbits
	viewBound = 2.4
)

var ErrEmpty = errors.New("render: empty trajectory")

var (
	traceColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	axisColor  = color.RGBA{R: 140, G: 140, B: 140, A: 255}
)

type Renderer struct {
	Camera *viz.Camera
	Width  int
	Height int
	Title  string
}

func New(cam *viz.Camera, width, height int) *Renderer {
	return &Renderer{Camera: cam, Width: width, Height: height, Title: DefaultTitle}
}

// Plot builds the figure: the trajectory as a thin blue line plus the three
// labelled box edges meeting at the minimum corner.
func (r *Renderer) Plot(tr *dynamo.Trajectory) (*plot.Plot, error) {
	if tr.Len() == 0 {
		return nil, ErrEmpty
	}

	p := plot.New()
	p.Title.Text = r.Title
	p.HideAxes()
	p.X.Min, p.X.Max = -viewBound, viewBound
	p.Y.Min, p.Y.Max = -viewBound, viewBound

	pts := viz.FitTrajectory(tr)
	xys := make(plotter.XYs, 0, len(pts))
	for _, v := range pts {
		x, y, _, ok := r.Camera.ProjectPlane(v)
		if !ok {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("%w: every point is behind the camera", ErrEmpty)
	}

	if err := r.addAxes(p); err != nil {
		return nil, err
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(0.5)
	line.LineStyle.Color = traceColor
	p.Add(line)
	return p, nil
}

func (r *Renderer) addAxes(p *plot.Plot) error {
	origin := viz.Vec3{X: -1, Y: -1, Z: -1}
	// fitted space is (x, z, y) so the vertical axis carries z
	tips := []struct {
		end   viz.Vec3
		label string
	}{
		{viz.Vec3{X: 1, Y: -1, Z: -1}, "X"},
		{viz.Vec3{X: -1, Y: -1, Z: 1}, "Y"},
		{viz.Vec3{X: -1, Y: 1, Z: -1}, "Z"},
	}

	ox, oy, _, ok := r.Camera.ProjectPlane(origin)
	if !ok {
		return nil
	}
	labels := plotter.XYLabels{}
	for _, tip := range tips {
		tx, ty, _, ok := r.Camera.ProjectPlane(tip.end)
		if !ok {
			continue
		}
		l, err := plotter.NewLine(plotter.XYs{{X: ox, Y: oy}, {X: tx, Y: ty}})
		if err != nil {
			return err
		}
		l.LineStyle.Color = axisColor
		l.LineStyle.Width = vg.Points(0.75)
		p.Add(l)

		labels.XYs = append(labels.XYs, plotter.XY{X: tx, Y: ty})
		labels.Labels = append(labels.Labels, tip.label)
	}
	if len(labels.Labels) == 0 {
		return nil
	}
	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(lbl)
	return nil
}

func (r *Renderer) canvas(tr *dynamo.Trajectory) (*vgimg.Canvas, error) {
	p, err := r.Plot(tr)
	if err != nil {
		return nil, err
	}
	w := vg.Length(r.Width) * vg.Inch / dpi
	h := vg.Length(r.Height) * vg.Inch / dpi
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))
	return c, nil
}

// Image rasterizes the plot at Width x Height pixels.
func (r *Renderer) Image(tr *dynamo.Trajectory) (image.Image, error) {
	c, err := r.canvas(tr)
	if err != nil {
		return nil, err
	}
	return c.Image(), nil
}

func (r *Renderer) WritePNG(w io.Writer, tr *dynamo.Trajectory) error {
	c, err := r.canvas(tr)
	if err != nil {
		return err
	}
	_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

func (r *Renderer) SavePNG(path string, tr *dynamo.Trajectory) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := r.WritePNG(bw, tr); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
