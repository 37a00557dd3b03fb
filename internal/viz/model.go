package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lorenzviz/internal/config"
	"github.com/san-kum/lorenzviz/internal/controls"
	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/trajectory"
)

const (
	defaultCols = 72
	defaultRows = 28
	panelWidth  = 40
	graphHeight = 6
)

type TickMsg time.Time

// Model is the terminal front end: a slider panel on the right, the
// projected attractor on the left. Every slider change and every tick
// samples a fresh trajectory and redraws the canvas from scratch.
type Model struct {
	cfg    config.Config
	base   config.Config
	panel  *controls.Panel
	log    *slog.Logger
	canvas *Canvas
	camera *Camera
	traj   *dynamo.Trajectory
	err    error

	presets  []string
	preset   int
	selected int
	rotate   bool
	theme    int
	quitting bool
}

// NewModel builds the UI from cfg and samples the first trajectory so the
// initial frame is not empty.
func NewModel(cfg *config.Config, log *slog.Logger) Model {
	m := Model{
		cfg:     *cfg,
		base:    *cfg,
		panel:   controls.NewPanel(cfg),
		log:     log,
		canvas:  NewCanvas(defaultCols, defaultRows),
		camera:  NewCamera(cfg.View.Pitch, cfg.View.Yaw),
		presets: config.ListPresets(),
		preset:  -1,
		rotate:  cfg.View.Rotate,
	}
	m.recompute()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys, resizes and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.selected = (m.selected + controls.Count - 1) % controls.Count
		case "down", "j":
			m.selected = (m.selected + 1) % controls.Count
		case "right", "l":
			m.nudge(1)
		case "left", "h":
			m.nudge(-1)
		case "L":
			m.nudge(5)
		case "H":
			m.nudge(-5)
		case "r":
			m.cfg = m.base
			m.panel.Load(&m.cfg)
			m.preset = -1
			m.recompute()
		case "p":
			m.cyclePreset()
		case " ":
			m.rotate = !m.rotate
		case "+", "=":
			m.camera.ZoomIn()
			m.redraw()
		case "-", "_":
			m.camera.ZoomOut()
			m.redraw()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case tea.WindowSizeMsg:
		cols := max(msg.Width-panelWidth-4, 20)
		rows := max(msg.Height-graphHeight-4, 8)
		m.canvas = NewCanvas(cols, rows)
		m.redraw()
	case TickMsg:
		if m.rotate {
			m.camera.Orbit(m.cfg.View.RotStep)
		}
		m.recompute()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) nudge(dir int) {
	if m.panel.Sliders[m.selected].Nudge(dir) {
		m.recompute()
	}
}

func (m *Model) cyclePreset() {
	if len(m.presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(m.presets)
	m.cfg.Apply(m.presets[m.preset])
	m.panel.Load(&m.cfg)
	m.recompute()
}

// recompute samples the trajectory for the current slider values. On
// failure the previous trajectory stays on screen.
func (m *Model) recompute() {
	params, x0 := m.panel.Snapshot()
	req := m.cfg.Request()
	req.Params = params
	req.Initial = x0

	tr, err := trajectory.Run(req)
	if err != nil {
		m.err = err
		m.log.Error("recompute failed",
			"sigma", params.Sigma, "rho", params.Rho, "beta", params.Beta,
			"x0", x0, "error", err)
	} else {
		m.traj, m.err = tr, nil
	}
	m.redraw()
}

func (m *Model) redraw() {
	m.canvas.Clear()
	DrawPolyline(m.canvas, FitTrajectory(m.traj), m.camera)
}

// Trajectory returns the trajectory currently on screen.
func (m Model) Trajectory() *dynamo.Trajectory { return m.traj }

// Err returns the last recompute error, or nil after a successful one.
func (m Model) Err() error { return m.err }

func (m Model) Selected() int { return m.selected }

func (m Model) Panel() *controls.Panel { return m.panel }

// View renders the TUI interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := Themes[m.theme].styles()

	var side strings.Builder
	side.WriteString(st.title.Render("LORENZ SYSTEM") + "\n")
	for i := range m.panel.Sliders {
		s := &m.panel.Sliders[i]
		side.WriteString(m.sliderRow(st, s, i == m.selected) + "\n")
	}

	side.WriteString("\n")
	if m.preset >= 0 {
		name := m.presets[m.preset]
		side.WriteString(st.label.Render("preset") + st.value.Render(name+" ("+config.PresetNote(name)+")") + "\n")
	}
	rot := "off"
	if m.rotate {
		rot = "on"
	}
	side.WriteString(st.label.Render("rotate") + st.value.Render(rot) + "\n")
	side.WriteString(st.label.Render("samples") + st.value.Render(fmt.Sprintf("%d", m.traj.Len())) + "\n")
	if m.err != nil {
		side.WriteString("\n" + st.err.Render(wrap("error: "+m.err.Error(), panelWidth-4)) + "\n")
	}
	side.WriteString("\n" + st.muted.Render("j/k select  h/l adjust  H/L x5\np preset  r reset  space rotate\n+/- zoom  t theme  q quit"))

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		st.trace.Render(m.canvas.String()),
		st.panel.Width(panelWidth).Render(side.String()))

	if graph := m.xGraph(); graph != "" {
		return top + "\n" + st.muted.Render(graph)
	}
	return top
}

func (m Model) sliderRow(st styles, s *controls.Slider, selected bool) string {
	const barWidth = 14
	filled := int(s.Fraction() * barWidth)
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
	line := fmt.Sprintf("%-7s %s %6s", s.Label, bar, s.Text())
	if selected {
		return st.selected.Render("> " + line)
	}
	return "  " + st.value.Render(line)
}

// xGraph plots x(t) downsampled to the canvas width.
func (m Model) xGraph() string {
	if m.traj.Len() < 2 {
		return ""
	}
	xs := Downsample(m.traj.Component(0), m.canvas.Width)
	return asciigraph.Plot(xs,
		asciigraph.Height(graphHeight),
		asciigraph.Width(m.canvas.Width),
		asciigraph.Caption("x(t)"))
}

// Downsample picks n evenly spaced values from v, keeping both ends.
func Downsample(v []float64, n int) []float64 {
	if n < 2 || len(v) <= n {
		return v
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v[i*(len(v)-1)/(n-1)]
	}
	return out
}

func wrap(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		if line > 0 && line+len(word)+1 > width {
			b.WriteByte('\n')
			line = 0
		} else if line > 0 {
			b.WriteByte(' ')
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
