package serial

import (
	"fmt"
	"strings"

	"github.com/sysdkit/systemd/wire"
)

// A Marshaler can write its wire representation onto an Encoder, one
// visit per field in declaration order.
type Marshaler interface {
	MarshalDBus(e *Encoder) error
}

// encMode selects how an Encoder combines emitted child values.
type encMode int

const (
	// modeScalar holds at most one emitted value.
	modeScalar encMode = iota
	// modeArray collects emitted values into an Array.
	modeArray
	// modeStruct collects emitted values into a Struct.
	modeStruct
)

// An Encoder accumulates wire values produced by a type's encode
// visits. Scalar emits are void and record the first failure
// internally; it surfaces from the enclosing composite visit or from
// [Encode].
//
// An Encoder is used for a single traversal and is not safe for
// concurrent use.
type Encoder struct {
	mode   encMode
	set    bool
	scalar wire.Value
	vals   []wire.Value
	err    error
}

func newEncoder(m encMode) *Encoder {
	return &Encoder{mode: m}
}

// Encode serializes one value to a single wire value: a scalar, struct
// or array depending on v's shape.
//
// v must be one of the primitive types understood by the scalar emit
// methods, or implement [Marshaler].
func Encode(v any) (wire.Value, error) {
	e := newEncoder(modeScalar)
	if err := encodeValue(e, v); err != nil {
		return nil, err
	}
	return e.value()
}

func encodeValue(e *Encoder, v any) error {
	switch v := v.(type) {
	case Marshaler:
		return v.MarshalDBus(e)
	case bool:
		e.Bool(v)
	case uint8:
		e.Uint8(v)
	case uint16:
		e.Uint16(v)
	case uint32:
		e.Uint32(v)
	case uint64:
		e.Uint64(v)
	case int16:
		e.Int16(v)
	case int32:
		e.Int32(v)
	case int64:
		e.Int64(v)
	case float64:
		e.Float64(v)
	case string:
		e.String(v)
	case []string:
		return e.Array(func(e *Encoder) error {
			for _, s := range v {
				e.String(s)
			}
			return nil
		})
	case nil:
		return e.fail(EncodeNotImplementedError{"nil"})
	default:
		return e.fail(EncodeNotImplementedError{fmt.Sprintf("%T", v)})
	}
	return e.err
}

// Value emits one value of any supported primitive or Marshaler type.
func (e *Encoder) Value(v any) error {
	return encodeValue(e, v)
}

// List is a slice whose elements encode through their own Marshaler
// implementations, producing a single Array value.
type List[T Marshaler] []T

func (l List[T]) MarshalDBus(e *Encoder) error {
	return e.Array(func(e *Encoder) error {
		for _, v := range l {
			if err := v.MarshalDBus(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// emit places v into the current accumulation slot. A scalar encoder
// accepts exactly one value.
func (e *Encoder) emit(v wire.Value) {
	if e.err != nil {
		return
	}
	if e.mode == modeScalar {
		if e.set {
			e.err = InternalEncodeError{"value already emitted into scalar slot"}
			return
		}
		e.scalar, e.set = v, true
		return
	}
	e.vals = append(e.vals, v)
}

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}

// value finalizes the encoder into its single wire value.
func (e *Encoder) value() (wire.Value, error) {
	if e.err != nil {
		return nil, e.err
	}
	switch e.mode {
	case modeArray:
		return wire.MakeArray(e.vals...), nil
	case modeStruct:
		return wire.MakeStruct(e.vals...), nil
	default:
		if !e.set {
			return nil, InternalEncodeError{"no value emitted"}
		}
		return e.scalar, nil
	}
}

// Err returns the first error recorded by a scalar emit, if any.
func (e *Encoder) Err() error { return e.err }

// Bool emits a Bool value.
func (e *Encoder) Bool(v bool) { e.emit(wire.Bool(v)) }

// Uint8 emits a Byte value.
func (e *Encoder) Uint8(v uint8) { e.emit(wire.Byte(v)) }

// Uint16 emits a Uint16 value.
func (e *Encoder) Uint16(v uint16) { e.emit(wire.Uint16(v)) }

// Uint32 emits a Uint32 value.
func (e *Encoder) Uint32(v uint32) { e.emit(wire.Uint32(v)) }

// Uint64 emits a Uint64 value.
func (e *Encoder) Uint64(v uint64) { e.emit(wire.Uint64(v)) }

// Int16 emits an Int16 value.
func (e *Encoder) Int16(v int16) { e.emit(wire.Int16(v)) }

// Int32 emits an Int32 value.
func (e *Encoder) Int32(v int32) { e.emit(wire.Int32(v)) }

// Int64 emits an Int64 value.
func (e *Encoder) Int64(v int64) { e.emit(wire.Int64(v)) }

// Float64 emits a Double value.
func (e *Encoder) Float64(v float64) { e.emit(wire.Double(v)) }

// String emits a Str value.
func (e *Encoder) String(v string) { e.emit(wire.Str(v)) }

// ObjectPath emits an ObjectPath value.
func (e *Encoder) ObjectPath(v string) { e.emit(wire.ObjectPath(v)) }

// Variant emits a unit enum variant's tag: its name, lower-cased. The
// lower-casing is part of the wire contract, the remote API expects
// lower-case tag strings. A struct-like variant instead encodes its
// fields through [Encoder.Struct], with no separate tag; payload-
// bearing tuple variants are not representable.
func (e *Encoder) Variant(name string) { e.emit(wire.Str(strings.ToLower(name))) }

// Struct runs fields on a fresh struct-mode Encoder and emits the
// resulting Struct value. fields must emit exactly one value per
// declared field, in declaration order.
func (e *Encoder) Struct(fields func(*Encoder) error) error {
	if e.err != nil {
		return e.err
	}
	sub := newEncoder(modeStruct)
	if err := fields(sub); err != nil {
		return e.fail(err)
	}
	v, err := sub.value()
	if err != nil {
		return e.fail(err)
	}
	e.emit(v)
	return e.err
}

// Array runs elems on a fresh array-mode Encoder and emits the
// resulting Array value, whose declared length is the number of
// elements emitted.
func (e *Encoder) Array(elems func(*Encoder) error) error {
	if e.err != nil {
		return e.err
	}
	sub := newEncoder(modeArray)
	if err := elems(sub); err != nil {
		return e.fail(err)
	}
	v, err := sub.value()
	if err != nil {
		return e.fail(err)
	}
	e.emit(v)
	return e.err
}

// Char always fails: no call in the supported catalog passes a
// character argument.
func (e *Encoder) Char(rune) error {
	return e.fail(EncodeNotImplementedError{"char"})
}

// Nil always fails: the wire grammar has no nil representation.
func (e *Encoder) Nil() error {
	return e.fail(EncodeNotImplementedError{"nil"})
}

// Map always fails: the wire grammar used here has no dictionary
// representation.
func (e *Encoder) Map(func(*Encoder) error) error {
	return e.fail(EncodeNotImplementedError{"map"})
}

// Option always fails: the wire grammar has no absence marker to
// distinguish a missing value from a present one.
func (e *Encoder) Option(func(*Encoder) error) error {
	return e.fail(EncodeNotImplementedError{"option"})
}

// Tuple always fails: no call in the supported catalog passes a tuple
// argument.
func (e *Encoder) Tuple(int, func(*Encoder) error) error {
	return e.fail(EncodeNotImplementedError{"tuple"})
}
