package render

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/physics"
	"github.com/san-kum/lorenzviz/internal/trajectory"
	"github.com/san-kum/lorenzviz/internal/viz"
)

func sample(t *testing.T) *dynamo.Trajectory {
	t.Helper()
	tr, err := trajectory.Sample(physics.ClassicParams(), dynamo.State{1, 0, 20}, trajectory.DefaultSpan(), 800)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func near(got, want int) bool {
	d := got - want
	return d >= -1 && d <= 1
}

func TestPlot(t *testing.T) {
	r := New(viz.NewCamera(-0.35, 0.6), 320, 240)
	p, err := r.Plot(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	if p.Title.Text != "Lorenz System" {
		t.Errorf("title = %q", p.Title.Text)
	}
	if p.X.Min != -viewBound || p.Y.Max != viewBound {
		t.Errorf("plot range not fixed: x [%g, %g] y [%g, %g]", p.X.Min, p.X.Max, p.Y.Min, p.Y.Max)
	}
}

func TestPlot_Empty(t *testing.T) {
	r := New(viz.NewCamera(0, 0), 100, 100)
	if _, err := r.Plot(&dynamo.Trajectory{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
	if _, err := r.Image(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestImage_Size(t *testing.T) {
	r := New(viz.NewCamera(-0.35, 0.6), 320, 240)
	img, err := r.Image(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if !near(b.Dx(), 320) || !near(b.Dy(), 240) {
		t.Errorf("image is %dx%d, want 320x240", b.Dx(), b.Dy())
	}
}

func TestWritePNG(t *testing.T) {
	r := New(viz.NewCamera(-0.35, 0.6), 200, 150)
	var buf bytes.Buffer
	if err := r.WritePNG(&buf, sample(t)); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if !near(img.Bounds().Dx(), 200) {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lorenz.png")
	r := New(viz.NewCamera(-0.35, 0.6), 160, 120)
	if err := r.SavePNG(path, sample(t)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty file")
	}
}
