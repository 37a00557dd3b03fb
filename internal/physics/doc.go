// Package physics provides the Lorenz vector field.
//
// [Field] is the pure right-hand side used by the solver. [Lorenz] wraps a
// [Params] value so the field can be handed to anything that accepts a
// [dynamo.System], and implements [dynamo.Configurable] for parameter
// sweeps.
//
//	p := physics.ClassicParams()
//	dx := physics.Field(dynamo.State{1, 1, 1}, p) // {0, 26, -5/3}
package physics
