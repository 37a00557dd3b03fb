// Package viz provides the terminal front end for the Lorenz visualizer.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: slider panel, projected attractor and an x(t) strip chart
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Camera]: orbiting perspective projection shared with the PNG renderer
//
// # Key Bindings
//
//	j/k, up/down     - select a slider
//	h/l, left/right  - move the selected slider one step (H/L: five steps)
//	p                - cycle presets
//	r                - restore the starting values
//	space            - toggle camera rotation
//	+/-              - zoom
//	t                - cycle color themes
//	q                - quit
//
// Every slider change and every timer tick samples a new trajectory and
// redraws the canvas from scratch.
package viz
