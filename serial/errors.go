package serial

import "fmt"

// endOfInput is the rendering used when a visit needs another wire
// value and the current scope has none left.
const endOfInput = "end of input"

// NotImplementedError is the error returned when decoding is attempted
// for a kind the wire grammar cannot represent.
type NotImplementedError struct {
	// Feature is the unsupported kind, e.g. "map".
	Feature string
}

func (e NotImplementedError) Error() string {
	return fmt.Sprintf("decoding not implemented for %s", e.Feature)
}

// ExpectedError is the error returned when the next wire value does
// not have the shape the target type asked for.
type ExpectedError struct {
	// Want names the expected kind, e.g. "Struct" or "Number".
	Want string
	// Got is the rendering of the value actually found.
	Got string
}

func (e ExpectedError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
}

// UnknownVariantError is the error returned when an enum tag read off
// the wire matches none of the type's declared variant names.
type UnknownVariantError struct {
	Name string
}

func (e UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q", e.Name)
}

// ApplicationError carries a decode failure reported by the target
// type itself rather than by the codec.
type ApplicationError struct {
	Message string
}

func (e ApplicationError) Error() string { return e.Message }

// EncodeNotImplementedError is the error returned when encoding is
// attempted for a kind the wire grammar cannot represent.
type EncodeNotImplementedError struct {
	// Feature is the unsupported kind, e.g. "map".
	Feature string
}

func (e EncodeNotImplementedError) Error() string {
	return fmt.Sprintf("encoding not implemented for %s", e.Feature)
}

// InternalEncodeError reports a broken encode visit sequence, such as
// a type emitting two values where exactly one is expected.
type InternalEncodeError struct {
	Message string
}

func (e InternalEncodeError) Error() string { return e.Message }
