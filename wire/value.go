package wire

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the wire type of a [Value].
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindByte
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindDouble
	KindString
	KindObjectPath
	KindArray
	KindStruct
)

var kindNames = []string{
	KindInvalid:    "Invalid",
	KindBool:       "Bool",
	KindByte:       "Byte",
	KindInt16:      "Int16",
	KindUint16:     "Uint16",
	KindInt32:      "Int32",
	KindUint32:     "Uint32",
	KindInt64:      "Int64",
	KindUint64:     "Uint64",
	KindDouble:     "Double",
	KindString:     "Str",
	KindObjectPath: "ObjectPath",
	KindArray:      "Array",
	KindStruct:     "Struct",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// A Value is one node of a message body: a scalar, or an array or
// struct of further Values. Values are immutable once constructed, and
// each composite owns its children outright.
//
// The String method returns the rendering used in codec error
// messages, e.g. `Str("foo")` or `Int64(42)`.
type Value interface {
	Kind() Kind
	String() string
}

type (
	// Bool is the BOOLEAN wire type.
	Bool bool
	// Byte is the BYTE wire type.
	Byte uint8
	// Int16 is the INT16 wire type.
	Int16 int16
	// Uint16 is the UINT16 wire type.
	Uint16 uint16
	// Int32 is the INT32 wire type.
	Int32 int32
	// Uint32 is the UINT32 wire type.
	Uint32 uint32
	// Int64 is the INT64 wire type.
	Int64 int64
	// Uint64 is the UINT64 wire type.
	Uint64 uint64
	// Double is the DOUBLE wire type.
	Double float64
	// Str is the STRING wire type.
	Str string
	// ObjectPath is the OBJECT_PATH wire type. It decodes
	// interchangeably with Str.
	ObjectPath string
)

func (v Bool) Kind() Kind       { return KindBool }
func (v Byte) Kind() Kind       { return KindByte }
func (v Int16) Kind() Kind      { return KindInt16 }
func (v Uint16) Kind() Kind     { return KindUint16 }
func (v Int32) Kind() Kind      { return KindInt32 }
func (v Uint32) Kind() Kind     { return KindUint32 }
func (v Int64) Kind() Kind      { return KindInt64 }
func (v Uint64) Kind() Kind     { return KindUint64 }
func (v Double) Kind() Kind     { return KindDouble }
func (v Str) Kind() Kind        { return KindString }
func (v ObjectPath) Kind() Kind { return KindObjectPath }

func (v Bool) String() string       { return fmt.Sprintf("Bool(%v)", bool(v)) }
func (v Byte) String() string       { return fmt.Sprintf("Byte(%d)", uint8(v)) }
func (v Int16) String() string      { return fmt.Sprintf("Int16(%d)", int16(v)) }
func (v Uint16) String() string     { return fmt.Sprintf("Uint16(%d)", uint16(v)) }
func (v Int32) String() string      { return fmt.Sprintf("Int32(%d)", int32(v)) }
func (v Uint32) String() string     { return fmt.Sprintf("Uint32(%d)", uint32(v)) }
func (v Int64) String() string      { return fmt.Sprintf("Int64(%d)", int64(v)) }
func (v Uint64) String() string     { return fmt.Sprintf("Uint64(%d)", uint64(v)) }
func (v Double) String() string     { return fmt.Sprintf("Double(%g)", float64(v)) }
func (v Str) String() string        { return "Str(" + strconv.Quote(string(v)) + ")" }
func (v ObjectPath) String() string { return "ObjectPath(" + strconv.Quote(string(v)) + ")" }

// Array is the ARRAY wire type: an ordered element sequence plus the
// length declared when the array was constructed. The declared length
// always equals the element count for arrays built with [MakeArray];
// the model does not require elements to share a kind, rejecting
// mismatches is the decoder's job.
type Array struct {
	elems []Value
	n     int
}

// MakeArray returns an Array owning a copy of elems, with the declared
// length set to the element count.
func MakeArray(elems ...Value) Array {
	return Array{elems: slices.Clone(elems), n: len(elems)}
}

func (a Array) Kind() Kind { return KindArray }

// Len returns the array's declared length.
func (a Array) Len() int { return a.n }

// Elems returns the array's elements. The returned slice must not be
// modified.
func (a Array) Elems() []Value { return a.elems }

func (a Array) String() string {
	return fmt.Sprintf("Array(%s, %d)", renderList(a.elems), a.n)
}

func (a Array) Equal(b Array) bool {
	return a.n == b.n && slices.EqualFunc(a.elems, b.elems, Equal)
}

// Struct is the STRUCT wire type: an ordered sequence of field values.
type Struct struct {
	fields []Value
}

// MakeStruct returns a Struct owning a copy of fields.
func MakeStruct(fields ...Value) Struct {
	return Struct{fields: slices.Clone(fields)}
}

func (s Struct) Kind() Kind { return KindStruct }

// Fields returns the struct's field values in declaration order. The
// returned slice must not be modified.
func (s Struct) Fields() []Value { return s.fields }

func (s Struct) String() string {
	return fmt.Sprintf("Struct(%s)", renderList(s.fields))
}

func (s Struct) Equal(o Struct) bool {
	return slices.EqualFunc(s.fields, o.fields, Equal)
}

// Equal reports whether a and b are structurally equal: same kind, and
// equal scalar values or pairwise-equal children.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Array:
		bv, ok := b.(Array)
		return ok && av.Equal(bv)
	case Struct:
		bv, ok := b.(Struct)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

func renderList(vs []Value) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
