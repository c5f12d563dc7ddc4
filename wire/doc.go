// Package wire defines the dynamically-typed value model exchanged
// with the bus in a method call's arguments and reply.
//
// A message body is a flat sequence of [Value] trees. Each Value is a
// scalar (integers of several widths, double, boolean, string, object
// path) or a composite ([Array], [Struct]) owning further Values.
// Values are immutable once built and safe to share between
// goroutines.
//
// The model is deliberately permissive: arrays are homogeneous in
// practice but the type does not enforce it. Matching a value sequence
// against a concrete Go type is the job of package serial.
package wire
