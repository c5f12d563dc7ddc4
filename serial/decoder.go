package serial

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/sysdkit/systemd/wire"
)

// An Unmarshaler can reconstruct itself by pulling its fields or
// variant tag off a Decoder, in declaration order.
//
// UnmarshalDBus must be implemented with a pointer receiver.
type Unmarshaler interface {
	UnmarshalDBus(d *Decoder) error
}

// A Decoder consumes an ordered sequence of wire values, handing out
// one value per visit. Composite visits (Struct, Array, Tuple) run
// their callback on a fresh Decoder scoped to the composite's
// children.
//
// A Decoder is used for a single traversal and is not safe for
// concurrent use. The input slice is never modified.
type Decoder struct {
	items []wire.Value
	pos   int
}

// NewDecoder returns a Decoder that consumes items in order.
func NewDecoder(items []wire.Value) *Decoder {
	return &Decoder{items: items}
}

// next returns the next unconsumed value.
func (d *Decoder) next() (wire.Value, bool) {
	if d.pos >= len(d.items) {
		return nil, false
	}
	v := d.items[d.pos]
	d.pos++
	return v, true
}

// Decode reconstructs a value of type T from a call reply's value
// sequence. Values left over after T is fully decoded are ignored, so
// replies carrying trailing fields decode cleanly.
//
// T must be one of the primitive types understood by [Decoder.Value],
// or *T must implement [Unmarshaler].
func Decode[T any](items []wire.Value) (T, error) {
	var v T
	if err := NewDecoder(items).Value(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DecodeList decodes an array of T values from d.
func DecodeList[T any, P interface {
	Unmarshaler
	*T
}](d *Decoder) ([]T, error) {
	var out []T
	_, err := d.Array(func(d *Decoder) error {
		var v T
		if err := P(&v).UnmarshalDBus(d); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Value decodes one value into v, which must be a pointer to a
// supported primitive type or an [Unmarshaler].
func (d *Decoder) Value(v any) error {
	var err error
	switch v := v.(type) {
	case Unmarshaler:
		return v.UnmarshalDBus(d)
	case *bool:
		*v, err = d.Bool()
	case *uint8:
		*v, err = d.Uint8()
	case *uint16:
		*v, err = d.Uint16()
	case *uint32:
		*v, err = d.Uint32()
	case *uint64:
		*v, err = d.Uint64()
	case *int16:
		*v, err = d.Int16()
	case *int32:
		*v, err = d.Int32()
	case *int64:
		*v, err = d.Int64()
	case *float64:
		*v, err = d.Float64()
	case *string:
		*v, err = d.String()
	default:
		return NotImplementedError{fmt.Sprintf("%T", v)}
	}
	return err
}

// num consumes the next value as an integer, widened to int64 or
// uint64. Any of the six integer wire kinds is accepted; Byte, Double
// and non-numeric kinds are not.
func (d *Decoder) num() (i int64, u uint64, unsigned bool, err error) {
	v, ok := d.next()
	if !ok {
		return 0, 0, false, ExpectedError{"Number", endOfInput}
	}
	switch v := v.(type) {
	case wire.Int16:
		return int64(v), 0, false, nil
	case wire.Int32:
		return int64(v), 0, false, nil
	case wire.Int64:
		return int64(v), 0, false, nil
	case wire.Uint16:
		return 0, uint64(v), true, nil
	case wire.Uint32:
		return 0, uint64(v), true, nil
	case wire.Uint64:
		return 0, uint64(v), true, nil
	default:
		return 0, 0, false, ExpectedError{"Number", v.String()}
	}
}

// numRangeErr renders the out-of-range value the way the overflow
// contract requires: the bare decimal number.
func numRangeErr(i int64, u uint64, unsigned bool) error {
	if unsigned {
		return ExpectedError{"Number", strconv.FormatUint(u, 10)}
	}
	return ExpectedError{"Number", strconv.FormatInt(i, 10)}
}

// Uint8 decodes an integer value into 8 unsigned bits.
func (d *Decoder) Uint8() (uint8, error) {
	i, u, unsigned, err := d.num()
	if err != nil {
		return 0, err
	}
	if unsigned {
		if u > math.MaxUint8 {
			return 0, numRangeErr(i, u, unsigned)
		}
		return uint8(u), nil
	}
	if i < 0 || i > math.MaxUint8 {
		return 0, numRangeErr(i, u, unsigned)
	}
	return uint8(i), nil
}

// Uint16 decodes an integer value into 16 unsigned bits.
func (d *Decoder) Uint16() (uint16, error) {
	i, u, unsigned, err := d.num()
	if err != nil {
		return 0, err
	}
	if unsigned {
		if u > math.MaxUint16 {
			return 0, numRangeErr(i, u, unsigned)
		}
		return uint16(u), nil
	}
	if i < 0 || i > math.MaxUint16 {
		return 0, numRangeErr(i, u, unsigned)
	}
	return uint16(i), nil
}

// Uint32 decodes an integer value into 32 unsigned bits.
func (d *Decoder) Uint32() (uint32, error) {
	i, u, unsigned, err := d.num()
	if err != nil {
		return 0, err
	}
	if unsigned {
		if u > math.MaxUint32 {
			return 0, numRangeErr(i, u, unsigned)
		}
		return uint32(u), nil
	}
	if i < 0 || i > math.MaxUint32 {
		return 0, numRangeErr(i, u, unsigned)
	}
	return uint32(i), nil
}

// Uint64 decodes an integer value into 64 unsigned bits.
func (d *Decoder) Uint64() (uint64, error) {
	i, u, unsigned, err := d.num()
	if err != nil {
		return 0, err
	}
	if unsigned {
		return u, nil
	}
	if i < 0 {
		return 0, numRangeErr(i, u, unsigned)
	}
	return uint64(i), nil
}

// Int16 decodes an integer value into 16 signed bits.
func (d *Decoder) Int16() (int16, error) {
	i, u, unsigned, err := d.num()
	if err != nil {
		return 0, err
	}
	if unsigned {
		if u > math.MaxInt16 {
			return 0, numRangeErr(i, u, unsigned)
		}
		return int16(u), nil
	}
	if i < math.MinInt16 || i > math.MaxInt16 {
		return 0, numRangeErr(i, u, unsigned)
	}
	return int16(i), nil
}

// Int32 decodes an integer value into 32 signed bits.
func (d *Decoder) Int32() (int32, error) {
	i, u, unsigned, err := d.num()
	if err != nil {
		return 0, err
	}
	if unsigned {
		if u > math.MaxInt32 {
			return 0, numRangeErr(i, u, unsigned)
		}
		return int32(u), nil
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, numRangeErr(i, u, unsigned)
	}
	return int32(i), nil
}

// Int64 decodes an integer value into 64 signed bits.
func (d *Decoder) Int64() (int64, error) {
	i, u, unsigned, err := d.num()
	if err != nil {
		return 0, err
	}
	if unsigned {
		if u > math.MaxInt64 {
			return 0, numRangeErr(i, u, unsigned)
		}
		return int64(u), nil
	}
	return i, nil
}

// Float64 decodes a Double or any integer kind, widened to float64.
func (d *Decoder) Float64() (float64, error) {
	v, ok := d.next()
	if !ok {
		return 0, ExpectedError{"Number", endOfInput}
	}
	switch v := v.(type) {
	case wire.Double:
		return float64(v), nil
	case wire.Int16:
		return float64(v), nil
	case wire.Int32:
		return float64(v), nil
	case wire.Int64:
		return float64(v), nil
	case wire.Uint16:
		return float64(v), nil
	case wire.Uint32:
		return float64(v), nil
	case wire.Uint64:
		return float64(v), nil
	default:
		return 0, ExpectedError{"Number", v.String()}
	}
}

// Bool decodes a Bool value.
func (d *Decoder) Bool() (bool, error) {
	v, ok := d.next()
	if !ok {
		return false, ExpectedError{"Bool", endOfInput}
	}
	b, okB := v.(wire.Bool)
	if !okB {
		return false, ExpectedError{"Bool", v.String()}
	}
	return bool(b), nil
}

// String decodes a Str value. ObjectPath values decode transparently
// as strings.
func (d *Decoder) String() (string, error) {
	v, ok := d.next()
	if !ok {
		return "", ExpectedError{"Str", endOfInput}
	}
	switch v := v.(type) {
	case wire.Str:
		return string(v), nil
	case wire.ObjectPath:
		return string(v), nil
	default:
		return "", ExpectedError{"Str", v.String()}
	}
}

// Char decodes a string value that must contain exactly one character.
func (d *Decoder) Char() (rune, error) {
	s, err := d.String()
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) {
		return 0, ExpectedError{"single character string", s}
	}
	return r, nil
}

// Variant consumes an enum tag and matches it case-sensitively against
// names, returning the matched index. The tag may arrive as Str or
// ObjectPath. Any fields of the matched variant are decoded by the
// caller from this same Decoder, one value per field in declaration
// order.
func (d *Decoder) Variant(names []string) (int, error) {
	v, ok := d.next()
	if !ok {
		return 0, ExpectedError{"Str", endOfInput}
	}
	var name string
	switch v := v.(type) {
	case wire.Str:
		name = string(v)
	case wire.ObjectPath:
		name = string(v)
	default:
		return 0, ExpectedError{"Str", v.String()}
	}
	idx := slices.Index(names, name)
	if idx < 0 {
		return 0, UnknownVariantError{name}
	}
	return idx, nil
}

// Struct consumes a Struct value and calls fields with a Decoder over
// its field values. fields must consume exactly one value per declared
// field, in declaration order.
func (d *Decoder) Struct(fields func(*Decoder) error) error {
	v, ok := d.next()
	if !ok {
		return ExpectedError{"Struct", endOfInput}
	}
	s, okS := v.(wire.Struct)
	if !okS {
		return ExpectedError{"Struct", v.String()}
	}
	return fields(NewDecoder(s.Fields()))
}

// Array consumes an Array value and calls elem once per element, in
// order, with a Decoder over the elements. The element count comes
// from the array's declared length. Array returns the number of
// elements decoded.
func (d *Decoder) Array(elem func(*Decoder) error) (int, error) {
	v, ok := d.next()
	if !ok {
		return 0, ExpectedError{"Array", endOfInput}
	}
	a, okA := v.(wire.Array)
	if !okA {
		return 0, ExpectedError{"Array", v.String()}
	}
	sub := NewDecoder(a.Elems())
	for i := 0; i < a.Len(); i++ {
		if err := elem(sub); err != nil {
			return i, err
		}
	}
	return a.Len(), nil
}

// Tuple consumes an Array value whose declared length must equal n,
// then calls fields with a Decoder over the elements.
func (d *Decoder) Tuple(n int, fields func(*Decoder) error) error {
	v, ok := d.next()
	if !ok {
		return ExpectedError{"Array", endOfInput}
	}
	a, okA := v.(wire.Array)
	if !okA {
		return ExpectedError{"Array", v.String()}
	}
	if a.Len() != n {
		return ExpectedError{tupleName(n), tupleName(a.Len())}
	}
	return fields(NewDecoder(a.Elems()))
}

func tupleName(n int) string { return "Tuple" + strconv.Itoa(n) }

// Option calls f with present always true: the wire grammar has no
// absence marker, so the next value is unconditionally treated as the
// option's payload.
func (d *Decoder) Option(f func(d *Decoder, present bool) error) error {
	return f(d, true)
}

// Map always fails: the wire grammar used here has no dictionary
// representation.
func (d *Decoder) Map(func(*Decoder) error) error {
	return NotImplementedError{"map"}
}

// Nil always fails: the wire grammar has no nil representation.
func (d *Decoder) Nil() error {
	return NotImplementedError{"nil"}
}
