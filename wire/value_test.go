package wire_test

import (
	"testing"

	"github.com/sysdkit/systemd/wire"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		v    wire.Value
		want wire.Kind
	}{
		{wire.Bool(true), wire.KindBool},
		{wire.Byte(1), wire.KindByte},
		{wire.Int16(-2), wire.KindInt16},
		{wire.Uint16(2), wire.KindUint16},
		{wire.Int32(-3), wire.KindInt32},
		{wire.Uint32(3), wire.KindUint32},
		{wire.Int64(-4), wire.KindInt64},
		{wire.Uint64(4), wire.KindUint64},
		{wire.Double(1.5), wire.KindDouble},
		{wire.Str("s"), wire.KindString},
		{wire.ObjectPath("/p"), wire.KindObjectPath},
		{wire.MakeArray(), wire.KindArray},
		{wire.MakeStruct(), wire.KindStruct},
	}
	for _, tc := range tests {
		if got := tc.v.Kind(); got != tc.want {
			t.Errorf("%s Kind() = %s, want %s", tc.v, got, tc.want)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		v    wire.Value
		want string
	}{
		{wire.Bool(true), "Bool(true)"},
		{wire.Byte(7), "Byte(7)"},
		{wire.Int64(-42), "Int64(-42)"},
		{wire.Uint32(42), "Uint32(42)"},
		{wire.Str("hi"), `Str("hi")`},
		{wire.ObjectPath("/a/b"), `ObjectPath("/a/b")`},
		{
			wire.MakeArray(wire.Str("a"), wire.Str("b")),
			`Array([Str("a"), Str("b")], 2)`,
		},
		{
			wire.MakeStruct(wire.Uint32(1), wire.Str("x")),
			`Struct([Uint32(1), Str("x")])`,
		},
	}
	for _, tc := range tests {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("String() = %s, want %s", got, tc.want)
		}
	}
}

func TestArrayLen(t *testing.T) {
	a := wire.MakeArray(wire.Byte(1), wire.Byte(2), wire.Byte(3))
	if got := a.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := len(a.Elems()); got != a.Len() {
		t.Errorf("len(Elems()) = %d, want %d", got, a.Len())
	}

	var empty wire.Array
	if got := empty.Len(); got != 0 {
		t.Errorf("zero Array Len() = %d, want 0", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b wire.Value
		want bool
	}{
		{wire.Str("a"), wire.Str("a"), true},
		{wire.Str("a"), wire.Str("b"), false},
		{wire.Str("a"), wire.ObjectPath("a"), false},
		{wire.Int32(1), wire.Int64(1), false},
		{
			wire.MakeArray(wire.Str("a")),
			wire.MakeArray(wire.Str("a")),
			true,
		},
		{
			wire.MakeArray(wire.Str("a")),
			wire.MakeArray(wire.Str("a"), wire.Str("b")),
			false,
		},
		{
			wire.MakeStruct(wire.Str("a"), wire.Uint32(1)),
			wire.MakeStruct(wire.Str("a"), wire.Uint32(1)),
			true,
		},
		{
			wire.MakeStruct(wire.Str("a")),
			wire.MakeArray(wire.Str("a")),
			false,
		},
		{
			wire.MakeStruct(wire.MakeArray(wire.Bool(true))),
			wire.MakeStruct(wire.MakeArray(wire.Bool(true))),
			true,
		},
	}
	for _, tc := range tests {
		if got := wire.Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
