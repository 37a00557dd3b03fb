package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lorenzviz/internal/analysis"
	"github.com/san-kum/lorenzviz/internal/config"
	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/gui"
	"github.com/san-kum/lorenzviz/internal/logging"
	"github.com/san-kum/lorenzviz/internal/render"
	"github.com/san-kum/lorenzviz/internal/trajectory"
	"github.com/san-kum/lorenzviz/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string

	sigma   float64
	rho     float64
	beta    float64
	x0      float64
	y0      float64
	z0      float64
	t0      float64
	t1      float64
	samples int

	// sample
	plane string
	// render
	outFile string
	width   int
	height  int
	yaw     float64
	pitch   float64
	// analyze
	lyapTime    float64
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	boundLimit  float64
	perturbSize float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lorenzviz",
		Short:         "interactive Lorenz attractor explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset (see 'presets')")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLvl, "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.Float64Var(&sigma, "sigma", config.DefaultSigma, "sigma")
	pf.Float64Var(&rho, "rho", config.DefaultRho, "rho")
	pf.Float64Var(&beta, "beta", config.DefaultBeta, "beta")
	pf.Float64Var(&x0, "x0", config.DefaultX0, "initial x")
	pf.Float64Var(&y0, "y0", config.DefaultY0, "initial y")
	pf.Float64Var(&z0, "z0", config.DefaultZ0, "initial z")
	pf.Float64Var(&t0, "t0", trajectory.DefaultT0, "start time")
	pf.Float64Var(&t1, "t1", trajectory.DefaultT1, "end time")
	pf.IntVar(&samples, "samples", trajectory.DefaultSamples, "number of evenly spaced samples")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal UI with sliders",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "desktop window with sliders",
		RunE:  runGUI,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "sample one trajectory and print a summary",
		RunE:  runSample,
	}
	sampleCmd.Flags().StringVar(&plane, "plane", "xz", "phase portrait plane (two of x, y, z)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the attractor to a PNG",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "lorenz.png", "output file")
	renderCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width in pixels")
	renderCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height in pixels")
	renderCmd.Flags().Float64Var(&yaw, "yaw", 0.6, "camera yaw (radians)")
	renderCmd.Flags().Float64Var(&pitch, "pitch", -0.35, "camera pitch (radians)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Lyapunov exponent, extents and parameter sweep",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Float64Var(&lyapTime, "lyap-time", 50, "integration time for the Lyapunov estimate")
	analyzeCmd.Flags().Float64Var(&perturbSize, "perturbation", 1e-8, "initial separation for the Lyapunov estimate")
	analyzeCmd.Flags().Float64Var(&boundLimit, "bound", 1e3, "boundedness limit for every component")
	analyzeCmd.Flags().StringVar(&sweepParam, "sweep", "", "sweep this parameter (sigma, rho or beta)")
	analyzeCmd.Flags().Float64Var(&sweepMin, "sweep-min", 1, "sweep start")
	analyzeCmd.Flags().Float64Var(&sweepMax, "sweep-max", 200, "sweep end")
	analyzeCmd.Flags().IntVar(&sweepSteps, "sweep-steps", 80, "number of sweep values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIGMA\tRHO\tBETA\tX0\tNOTE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%.4g\t%v\t%s\n",
					name, p.Params.Sigma, p.Params.Rho, p.Params.Beta, p.InitState(), config.PresetNote(name))
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, sampleCmd, renderCmd, analyzeCmd, presetsCmd, initCmd)
	return rootCmd
}

// loadConfig layers preset, config file and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if !cfg.Apply(preset) {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("sigma") {
		cfg.Params.Sigma = sigma
	}
	if f.Changed("rho") {
		cfg.Params.Rho = rho
	}
	if f.Changed("beta") {
		cfg.Params.Beta = beta
	}
	if f.Changed("x0") {
		cfg.Initial.X = x0
	}
	if f.Changed("y0") {
		cfg.Initial.Y = y0
	}
	if f.Changed("z0") {
		cfg.Initial.Z = z0
	}
	if f.Changed("t0") {
		cfg.Span.T0 = t0
	}
	if f.Changed("t1") {
		cfg.Span.T1 = t1
	}
	if f.Changed("samples") {
		cfg.Samples = samples
	}
	if f.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger for cfg. quiet drops output when no log file
// is set, for front ends that own the terminal.
func newLogger(cfg *config.Config, quiet bool) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		if quiet {
			return logging.NewNop(), func() {}, nil
		}
		return logging.New(level), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewWriter(f, level), func() { f.Close() }, nil
}

func setup(cmd *cobra.Command, quiet bool) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log, closeLog, err := newLogger(cfg, quiet)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Debug("config loaded", "file", configFile, "preset", preset,
		"params", cfg.Params, "initial", cfg.InitState(), "samples", cfg.Samples)
	return cfg, log, closeLog, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info("terminal ui started")
	p := tea.NewProgram(viz.NewModel(cfg, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	log.Info("terminal ui stopped")
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	gui.Run(cfg, log)
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	if len(plane) != 2 {
		return fmt.Errorf("invalid plane %q", plane)
	}
	xi, okX := analysis.Axis[plane[:1]]
	yi, okY := analysis.Axis[plane[1:]]
	if !okX || !okY {
		return fmt.Errorf("invalid plane %q", plane)
	}

	tr, err := trajectory.Run(cfg.Request())
	if err != nil {
		log.Error("sample failed", "error", err)
		return fmt.Errorf("sample: %w", err)
	}

	printSummary(cfg, tr)
	fmt.Println()
	fmt.Println(asciigraph.Plot(viz.Downsample(tr.Component(0), 80),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("x(t)"),
	))
	fmt.Println()
	fmt.Printf("phase portrait (%s):\n", plane)
	fmt.Print(analysis.PhasePortraitToASCII(tr, xi, yi, 80, 30))
	return nil
}

func printSummary(cfg *config.Config, tr *dynamo.Trajectory) {
	ext := analysis.ComputeExtents(tr)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "params\tsigma=%g rho=%g beta=%g\n", cfg.Params.Sigma, cfg.Params.Rho, cfg.Params.Beta)
	fmt.Fprintf(w, "span\t[%g, %g]\n", cfg.Span.T0, cfg.Span.T1)
	fmt.Fprintf(w, "samples\t%d\n", tr.Len())
	fmt.Fprintf(w, "first\t%s\n", formatState(tr.Points[0]))
	fmt.Fprintf(w, "last\t%s\n", formatState(tr.Points[tr.Len()-1]))
	for i, name := range []string{"x", "y", "z"} {
		fmt.Fprintf(w, "%s range\t[%.3f, %.3f]\n", name, ext.Min[i], ext.Max[i])
	}
	w.Flush()
}

func formatState(s dynamo.State) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	tr, err := trajectory.Run(cfg.Request())
	if err != nil {
		log.Error("sample failed", "error", err)
		return fmt.Errorf("sample: %w", err)
	}

	f := cmd.Flags()
	if !f.Changed("width") {
		width = cfg.View.Width
	}
	if !f.Changed("height") {
		height = cfg.View.Height
	}
	if !f.Changed("yaw") {
		yaw = cfg.View.Yaw
	}
	if !f.Changed("pitch") {
		pitch = cfg.View.Pitch
	}

	r := render.New(viz.NewCamera(pitch, yaw), width, height)
	if err := r.SavePNG(outFile, tr); err != nil {
		return err
	}
	log.Info("rendered", "path", outFile, "width", width, "height", height, "samples", tr.Len())
	fmt.Printf("saved %s\n", outFile)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	tr, err := trajectory.Run(cfg.Request())
	if err != nil {
		log.Error("sample failed", "error", err)
		return fmt.Errorf("sample: %w", err)
	}

	x := dynamo.State(cfg.InitState())
	lambda := analysis.LyapunovExponent(cfg.Params, x, 0.01, lyapTime, perturbSize)
	ext := analysis.ComputeExtents(tr)

	fmt.Printf("analysis: sigma=%g rho=%g beta=%g x0=%v\n\n", cfg.Params.Sigma, cfg.Params.Rho, cfg.Params.Beta, cfg.InitState())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "lyapunov exponent\t%.4f\n", lambda)
	switch {
	case lambda > 0.01:
		fmt.Fprintln(w, "regime\tchaotic")
	case lambda < -0.01:
		fmt.Fprintln(w, "regime\tstable")
	default:
		fmt.Fprintln(w, "regime\tmarginal (periodic or neutral)")
	}
	if f := analysis.DominantFrequency(tr, 0); f > 0 {
		fmt.Fprintf(w, "dominant frequency of x\t%.4f (period %.3f)\n", f, 1/f)
	}
	fmt.Fprintf(w, "max |component|\t%.3f\n", ext.MaxAbs)
	fmt.Fprintf(w, "bounded (<= %g)\t%v\n", boundLimit, analysis.Bounded(tr, boundLimit))
	for i, eq := range cfg.Params.Equilibria() {
		fmt.Fprintf(w, "equilibrium %d\t%s\n", i, formatState(eq))
	}
	w.Flush()

	if sweepParam == "" {
		return nil
	}

	data, err := analysis.BifurcationDiagram(cfg.Params, x, analysis.Sweep{
		Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps,
		DT: 0.005, Transient: 20, Record: 20,
	})
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	fmt.Printf("\nlocal maxima of z vs %s in [%g, %g]:\n", sweepParam, sweepMin, sweepMax)
	fmt.Print(analysis.BifurcationToASCII(data, sweepSteps, 25))
	return nil
}
