// Package gui is the desktop front end: one slider per control above the
// rendered attractor. Slider changes and timer ticks both resample and
// redraw on the fyne main thread.
package gui

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/san-kum/lorenzviz/internal/config"
	"github.com/san-kum/lorenzviz/internal/controls"
	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/render"
	"github.com/san-kum/lorenzviz/internal/trajectory"
	"github.com/san-kum/lorenzviz/internal/viz"
)

const appID = "io.github.san-kum.lorenzviz"

type view struct {
	cfg      config.Config
	panel    *controls.Panel
	camera   *viz.Camera
	renderer *render.Renderer
	log      *slog.Logger
	rotate   bool

	sliders [controls.Count]*widget.Slider
	values  [controls.Count]*widget.Label
	status  *widget.Label
	image   *canvas.Image

	traj *dynamo.Trajectory
	err  error
}

func newView(cfg *config.Config, log *slog.Logger) *view {
	cam := viz.NewCamera(cfg.View.Pitch, cfg.View.Yaw)
	v := &view{
		cfg:      *cfg,
		panel:    controls.NewPanel(cfg),
		camera:   cam,
		renderer: render.New(cam, cfg.View.Width, cfg.View.Height),
		log:      log,
		rotate:   cfg.View.Rotate,
		status:   widget.NewLabel(""),
	}
	v.status.Wrapping = fyne.TextWrapWord

	v.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, cfg.View.Width, cfg.View.Height)))
	v.image.FillMode = canvas.ImageFillContain
	v.image.SetMinSize(fyne.NewSize(float32(cfg.View.Width), float32(cfg.View.Height)))

	for i := range v.panel.Sliders {
		s := &v.panel.Sliders[i]
		v.values[i] = widget.NewLabel(s.Text())
		sl := widget.NewSlider(s.Min, s.Max)
		sl.Step = s.Step
		sl.Value = s.Value
		sl.OnChanged = func(f float64) { v.setValue(i, f) }
		v.sliders[i] = sl
	}

	v.refresh()
	return v
}

func (v *view) content() fyne.CanvasObject {
	rows := make([]fyne.CanvasObject, 0, 3*controls.Count)
	for i := range v.panel.Sliders {
		rows = append(rows, widget.NewLabel(v.panel.Sliders[i].Label), v.sliders[i], v.values[i])
	}
	grid := container.NewBorder(nil, nil,
		container.NewVBox(column(rows, 0)...),
		container.NewVBox(column(rows, 2)...),
		container.NewVBox(column(rows, 1)...))

	rotate := widget.NewCheck("Rotate", func(on bool) { v.rotate = on })
	rotate.Checked = v.rotate

	return container.NewBorder(
		container.NewVBox(grid, container.NewHBox(rotate), v.status),
		nil, nil, nil,
		v.image,
	)
}

// column picks every third object starting at col, splitting the
// label/slider/value rows into columns.
func column(rows []fyne.CanvasObject, col int) []fyne.CanvasObject {
	out := make([]fyne.CanvasObject, 0, len(rows)/3)
	for i := col; i < len(rows); i += 3 {
		out = append(out, rows[i])
	}
	return out
}

// setValue handles a slider move: update the readout, then resample.
func (v *view) setValue(i int, f float64) {
	s := &v.panel.Sliders[i]
	s.Set(f)
	v.values[i].SetText(s.Text())
	v.refresh()
}

func (v *view) tick() {
	if v.rotate {
		v.camera.Orbit(v.cfg.View.RotStep)
	}
	v.refresh()
}

// refresh resamples and redraws. A failed sample or render is logged and
// the previous image stays up.
func (v *view) refresh() {
	params, x0 := v.panel.Snapshot()
	req := v.cfg.Request()
	req.Params = params
	req.Initial = x0

	tr, err := trajectory.Run(req)
	if err != nil {
		v.fail("recompute failed", err)
		return
	}
	img, err := v.renderer.Image(tr)
	if err != nil {
		v.fail("render failed", err)
		return
	}

	v.traj, v.err = tr, nil
	v.status.SetText("")
	v.image.Image = img
	v.image.Refresh()
}

func (v *view) fail(msg string, err error) {
	v.err = err
	params, x0 := v.panel.Snapshot()
	v.log.Error(msg,
		"sigma", params.Sigma, "rho", params.Rho, "beta", params.Beta,
		"x0", x0, "error", err)
	v.status.SetText(fmt.Sprintf("%s: %v", msg, err))
}

// loop fires tick on the main thread until stop is closed. DoAndWait keeps
// ticks from queueing up behind a slow frame.
func (v *view) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(v.cfg.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fyne.DoAndWait(v.tick)
		}
	}
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, log *slog.Logger) {
	a := app.NewWithID(appID)
	w := a.NewWindow("Lorenz System")

	v := newView(cfg, log)
	w.SetContent(v.content())
	w.Resize(fyne.NewSize(float32(cfg.View.Width), float32(cfg.View.Height+260)))

	stop := make(chan struct{})
	w.SetOnClosed(func() { close(stop) })
	go v.loop(stop)

	log.Info("window opened", "tick", cfg.Tick)
	w.ShowAndRun()
	log.Info("window closed")
}
