package serial_test

import (
	"testing"

	"github.com/sysdkit/systemd/serial"
	"github.com/sysdkit/systemd/wire"
)

func (p point) MarshalDBus(e *serial.Encoder) error {
	return e.Struct(func(e *serial.Encoder) error {
		e.Int32(p.X)
		e.Int32(p.Y)
		return e.Err()
	})
}

func (c color) MarshalDBus(e *serial.Encoder) error {
	e.Variant(colorNames[c])
	return e.Err()
}

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		in   any
		want wire.Value
	}{
		{true, wire.Bool(true)},
		{uint8(7), wire.Byte(7)},
		{uint16(8), wire.Uint16(8)},
		{uint32(9), wire.Uint32(9)},
		{uint64(10), wire.Uint64(10)},
		{int16(-8), wire.Int16(-8)},
		{int32(-9), wire.Int32(-9)},
		{int64(-10), wire.Int64(-10)},
		{1.5, wire.Double(1.5)},
		{"hi", wire.Str("hi")},
	}
	for _, tc := range tests {
		got, err := serial.Encode(tc.in)
		if err != nil {
			t.Errorf("Encode(%v): unexpected error: %v", tc.in, err)
			continue
		}
		if !wire.Equal(got, tc.want) {
			t.Errorf("Encode(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestEncodeStruct(t *testing.T) {
	got, err := serial.Encode(point{X: 3, Y: -4})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	want := wire.MakeStruct(wire.Int32(3), wire.Int32(-4))
	if !wire.Equal(got, want) {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}

func TestEncodeVariant(t *testing.T) {
	got, err := serial.Encode(color(1))
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	if want := wire.Str("green"); !wire.Equal(got, want) {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}

func TestEncodeVariantLowercases(t *testing.T) {
	e, err := serial.Encode(upperTag{})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	if want := wire.Str("started"); !wire.Equal(e, want) {
		t.Errorf("Encode = %s, want %s", e, want)
	}
}

type upperTag struct{}

func (upperTag) MarshalDBus(e *serial.Encoder) error {
	e.Variant("Started")
	return e.Err()
}

func TestEncodeList(t *testing.T) {
	got, err := serial.Encode(serial.List[point]{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	want := wire.MakeArray(
		wire.MakeStruct(wire.Int32(1), wire.Int32(2)),
		wire.MakeStruct(wire.Int32(3), wire.Int32(4)),
	)
	if !wire.Equal(got, want) {
		t.Errorf("Encode = %s, want %s", got, want)
	}
	arr := got.(wire.Array)
	if arr.Len() != 2 {
		t.Errorf("declared length = %d, want 2", arr.Len())
	}
}

func TestEncodeEmptyList(t *testing.T) {
	got, err := serial.Encode(serial.List[point]{})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	arr, ok := got.(wire.Array)
	if !ok || arr.Len() != 0 {
		t.Errorf("Encode = %s, want empty Array", got)
	}
}

func TestEncodeStringSlice(t *testing.T) {
	got, err := serial.Encode([]string{"a", "b"})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	want := wire.MakeArray(wire.Str("a"), wire.Str("b"))
	if !wire.Equal(got, want) {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}

type doubleEmit struct{}

func (doubleEmit) MarshalDBus(e *serial.Encoder) error {
	e.Uint32(1)
	e.Uint32(2)
	return e.Err()
}

func TestEncodeScalarSlotOverflow(t *testing.T) {
	// A bare scalar slot holds exactly one value; a second emit is a
	// bug in the marshalling type.
	_, err := serial.Encode(doubleEmit{})
	if _, ok := err.(serial.InternalEncodeError); !ok {
		t.Errorf("got error %v, want InternalEncodeError", err)
	}
}

func TestEncodeUnsupported(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want error
	}{
		{"nil", nil, serial.EncodeNotImplementedError{Feature: "nil"}},
		{"map", map[string]string{"a": "b"}, serial.EncodeNotImplementedError{Feature: "map[string]string"}},
		{"unhandled type", complex(1, 2), serial.EncodeNotImplementedError{Feature: "complex128"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := serial.Encode(tc.in)
			if err != tc.want {
				t.Errorf("got error %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEncodeUnsupportedVisits(t *testing.T) {
	run := func(f func(e *serial.Encoder) error) error {
		_, err := serial.Encode(visitFunc(f))
		return err
	}
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"char", run(func(e *serial.Encoder) error { return e.Char('x') }),
			serial.EncodeNotImplementedError{Feature: "char"}},
		{"nil", run(func(e *serial.Encoder) error { return e.Nil() }),
			serial.EncodeNotImplementedError{Feature: "nil"}},
		{"map", run(func(e *serial.Encoder) error {
			return e.Map(func(*serial.Encoder) error { return nil })
		}), serial.EncodeNotImplementedError{Feature: "map"}},
		{"option", run(func(e *serial.Encoder) error {
			return e.Option(func(*serial.Encoder) error { return nil })
		}), serial.EncodeNotImplementedError{Feature: "option"}},
		{"tuple", run(func(e *serial.Encoder) error {
			return e.Tuple(2, func(*serial.Encoder) error { return nil })
		}), serial.EncodeNotImplementedError{Feature: "tuple"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err != tc.want {
				t.Errorf("got error %v, want %v", tc.err, tc.want)
			}
		})
	}
}

type visitFunc func(e *serial.Encoder) error

func (f visitFunc) MarshalDBus(e *serial.Encoder) error { return f(e) }

func TestEncodeNestedStruct(t *testing.T) {
	// A struct-like enum variant encodes as a plain struct of its
	// fields, with no separate tag.
	got, err := serial.Encode(visitFunc(func(e *serial.Encoder) error {
		return e.Struct(func(e *serial.Encoder) error {
			e.String("outer")
			return e.Struct(func(e *serial.Encoder) error {
				e.Uint32(1)
				e.Bool(false)
				return e.Err()
			})
		})
	}))
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	want := wire.MakeStruct(
		wire.Str("outer"),
		wire.MakeStruct(wire.Uint32(1), wire.Bool(false)),
	)
	if !wire.Equal(got, want) {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}
