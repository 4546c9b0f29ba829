package table

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"gocache/internal/errs"
)

// KeyBytes returns the byte encoding fed to a byte hasher. Strings use their
// bytes, fixed-size numbers their big-endian representation, and anything
// else its BinaryMarshaler, Stringer or %v form.
func KeyBytes(key any) []byte {
	switch k := key.(type) {
	case string:
		return []byte(k)
	case []byte:
		return k
	case bool:
		if k {
			return []byte{1}
		}
		return []byte{0}
	case int8:
		return []byte{byte(k)}
	case uint8:
		return []byte{k}
	case int16:
		return binary.BigEndian.AppendUint16(nil, uint16(k))
	case uint16:
		return binary.BigEndian.AppendUint16(nil, k)
	case int32:
		return binary.BigEndian.AppendUint32(nil, uint32(k))
	case uint32:
		return binary.BigEndian.AppendUint32(nil, k)
	case int:
		return binary.BigEndian.AppendUint64(nil, uint64(k))
	case uint:
		return binary.BigEndian.AppendUint64(nil, uint64(k))
	case int64:
		return binary.BigEndian.AppendUint64(nil, uint64(k))
	case uint64:
		return binary.BigEndian.AppendUint64(nil, k)
	case uintptr:
		return binary.BigEndian.AppendUint64(nil, uint64(k))
	case float32:
		return binary.BigEndian.AppendUint32(nil, math.Float32bits(k))
	case float64:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(k))
	case encoding.BinaryMarshaler:
		if b, err := k.MarshalBinary(); err == nil {
			return b
		}
	case fmt.Stringer:
		return []byte(k.String())
	}
	return fmt.Appendf(nil, "%v", key)
}

// CheckKey rejects keys a table cannot hold: nil, and keys that do not
// compare equal to themselves (a NaN float, or an interface holding one),
// since those could never be found again.
func CheckKey[K comparable](key K) error {
	if IsNil(key) {
		return fmt.Errorf("%w: nil key", errs.ErrInvalidArgument)
	}
	if key != key {
		return fmt.Errorf("%w: key %v is not equal to itself", errs.ErrInvalidArgument, key)
	}
	return nil
}

// IsNil reports whether v is an untyped nil or a nil pointer, map, slice,
// func, channel or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// ValuesEqual compares two values with == when their dynamic types are
// comparable and falls back to reflect.DeepEqual otherwise.
func ValuesEqual[V any](a, b V) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Comparable() && bv.Comparable() {
		return any(a) == any(b)
	}
	return reflect.DeepEqual(a, b)
}
