// Package serial converts between statically-typed Go values and the
// dynamically-typed wire values of package wire.
//
// The codec never inspects concrete types up front. A type describes
// its own shape by implementing [Marshaler] and [Unmarshaler]: the
// marshal side pushes one visit per field onto an [Encoder], the
// unmarshal side pulls the same visits off a [Decoder] in the same
// declaration order. Struct fields nest through Struct visits, slice
// elements through Array visits, and enums through a Variant tag
// matched by name.
//
// [Encode] serializes one value to one wire value; [Decode] rebuilds a
// value from a reply's value sequence. Both are single-threaded,
// allocate all their state per call, and report failures as error
// values from the taxonomy in errors.go.
package serial
