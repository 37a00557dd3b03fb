// Package analysis computes summary diagnostics for Lorenz trajectories:
// the largest Lyapunov exponent, per-axis extents, the power spectrum of a
// component, a Lorenz-map parameter sweep and ASCII phase portraits.
package analysis
