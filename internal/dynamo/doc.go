// Package dynamo provides the core primitives shared by the Lorenz solver,
// its analysis helpers and the user interfaces.
//
//   - [State]: vector representing a point in phase space
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X, t))
//   - [Trajectory]: time-ordered samples produced by a single solve
//   - [SimulationError]: integration failure with step context
//
// # Example
//
//	dyn := physics.NewLorenz(physics.ClassicParams())
//	tr, err := trajectory.Sample(dyn.Params(), dynamo.State{1, 0, 20}, trajectory.DefaultSpan(), 10000)
//
// Nothing in this package holds state between calls. Values are recomputed
// from scratch on every trigger.
package dynamo
