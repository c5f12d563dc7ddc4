package transport

import (
	"fmt"
	"reflect"

	"github.com/godbus/dbus/v5"

	"github.com/sysdkit/systemd/wire"
)

// godbus derives a call's argument signature from concrete Go types,
// so every composite wire shape the Manager catalog can pass needs a
// native mirror type here. The catalog passes two: name/value property
// pairs, and aux units carrying a name plus property pairs.
type propPair struct {
	Name  string
	Value string
}

type auxUnit struct {
	Name  string
	Props []propPair
}

// toNative converts one wire value into the Go value godbus marshals
// with the same signature.
func toNative(v wire.Value) (any, error) {
	switch v := v.(type) {
	case wire.Bool:
		return bool(v), nil
	case wire.Byte:
		return uint8(v), nil
	case wire.Int16:
		return int16(v), nil
	case wire.Uint16:
		return uint16(v), nil
	case wire.Int32:
		return int32(v), nil
	case wire.Uint32:
		return uint32(v), nil
	case wire.Int64:
		return int64(v), nil
	case wire.Uint64:
		return uint64(v), nil
	case wire.Double:
		return float64(v), nil
	case wire.Str:
		return string(v), nil
	case wire.ObjectPath:
		return dbus.ObjectPath(v), nil
	case wire.Array:
		return arrayToNative(v)
	case wire.Struct:
		return structToNative(v)
	default:
		return nil, fmt.Errorf("transport cannot pass %s value", v.Kind())
	}
}

func arrayToNative(a wire.Array) (any, error) {
	elems := a.Elems()
	if len(elems) == 0 {
		// The element kind is unrecoverable from an empty array;
		// string is the only element type the catalog sends.
		return []string{}, nil
	}
	switch elems[0].(type) {
	case wire.Str:
		return scalarSlice(elems, func(v wire.Str) string { return string(v) })
	case wire.ObjectPath:
		return scalarSlice(elems, func(v wire.ObjectPath) dbus.ObjectPath { return dbus.ObjectPath(v) })
	case wire.Bool:
		return scalarSlice(elems, func(v wire.Bool) bool { return bool(v) })
	case wire.Byte:
		return scalarSlice(elems, func(v wire.Byte) uint8 { return uint8(v) })
	case wire.Int16:
		return scalarSlice(elems, func(v wire.Int16) int16 { return int16(v) })
	case wire.Uint16:
		return scalarSlice(elems, func(v wire.Uint16) uint16 { return uint16(v) })
	case wire.Int32:
		return scalarSlice(elems, func(v wire.Int32) int32 { return int32(v) })
	case wire.Uint32:
		return scalarSlice(elems, func(v wire.Uint32) uint32 { return uint32(v) })
	case wire.Int64:
		return scalarSlice(elems, func(v wire.Int64) int64 { return int64(v) })
	case wire.Uint64:
		return scalarSlice(elems, func(v wire.Uint64) uint64 { return uint64(v) })
	case wire.Double:
		return scalarSlice(elems, func(v wire.Double) float64 { return float64(v) })
	case wire.Struct:
		return structSlice(elems)
	default:
		return nil, fmt.Errorf("transport cannot pass array of %s", elems[0].Kind())
	}
}

func scalarSlice[W wire.Value, N any](elems []wire.Value, conv func(W) N) ([]N, error) {
	out := make([]N, len(elems))
	for i, e := range elems {
		w, ok := e.(W)
		if !ok {
			return nil, fmt.Errorf("mixed-kind array: %s amid %T elements", e.Kind(), out)
		}
		out[i] = conv(w)
	}
	return out, nil
}

func structSlice(elems []wire.Value) (any, error) {
	first, err := structToNative(elems[0].(wire.Struct))
	if err != nil {
		return nil, err
	}
	switch first.(type) {
	case propPair:
		return shapedSlice[propPair](elems)
	case auxUnit:
		return shapedSlice[auxUnit](elems)
	default:
		return nil, fmt.Errorf("no native shape for struct array element %s", elems[0])
	}
}

func shapedSlice[S any](elems []wire.Value) ([]S, error) {
	out := make([]S, len(elems))
	for i, e := range elems {
		s, ok := e.(wire.Struct)
		if !ok {
			return nil, fmt.Errorf("mixed-kind array: %s amid struct elements", e.Kind())
		}
		n, err := structToNative(s)
		if err != nil {
			return nil, err
		}
		shaped, ok := n.(S)
		if !ok {
			return nil, fmt.Errorf("mixed struct shapes in array: %s", s)
		}
		out[i] = shaped
	}
	return out, nil
}

func structToNative(s wire.Struct) (any, error) {
	f := s.Fields()
	if len(f) == 2 {
		if a, aok := stringField(f[0]); aok {
			if b, bok := stringField(f[1]); bok {
				return propPair{Name: a, Value: b}, nil
			}
			if arr, ok := f[1].(wire.Array); ok {
				props, err := arrayToNative(arr)
				if err != nil {
					return nil, err
				}
				pairs, ok := props.([]propPair)
				if !ok {
					if ss, isEmpty := props.([]string); isEmpty && len(ss) == 0 {
						pairs = []propPair{}
					} else {
						return nil, fmt.Errorf("no native shape for struct %s", s)
					}
				}
				return auxUnit{Name: a, Props: pairs}, nil
			}
		}
	}
	return nil, fmt.Errorf("no native shape for struct %s", s)
}

func stringField(v wire.Value) (string, bool) {
	switch v := v.(type) {
	case wire.Str:
		return string(v), true
	case wire.ObjectPath:
		return string(v), true
	default:
		return "", false
	}
}

// bodyFromNative converts a reply or signal body into wire values.
func bodyFromNative(body []any) ([]wire.Value, error) {
	out := make([]wire.Value, len(body))
	for i, v := range body {
		w, err := fromNative(v)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// fromNative converts one value decoded by godbus into a wire value.
// godbus hands dynamic structs back as []any and arrays as typed
// slices, which keeps the two composite kinds distinguishable.
func fromNative(v any) (wire.Value, error) {
	switch v := v.(type) {
	case bool:
		return wire.Bool(v), nil
	case uint8:
		return wire.Byte(v), nil
	case int16:
		return wire.Int16(v), nil
	case uint16:
		return wire.Uint16(v), nil
	case int32:
		return wire.Int32(v), nil
	case uint32:
		return wire.Uint32(v), nil
	case int64:
		return wire.Int64(v), nil
	case uint64:
		return wire.Uint64(v), nil
	case float64:
		return wire.Double(v), nil
	case string:
		return wire.Str(v), nil
	case dbus.ObjectPath:
		return wire.ObjectPath(v), nil
	case dbus.Variant:
		return fromNative(v.Value())
	case []any:
		fields := make([]wire.Value, len(v))
		for i, f := range v {
			w, err := fromNative(f)
			if err != nil {
				return nil, err
			}
			fields[i] = w
		}
		return wire.MakeStruct(fields...), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		elems := make([]wire.Value, rv.Len())
		for i := range elems {
			w, err := fromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elems[i] = w
		}
		return wire.MakeArray(elems...), nil
	}
	return nil, fmt.Errorf("no wire representation for %T", v)
}
