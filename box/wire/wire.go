// Package wire encodes boxed values as CBOR.
//
// Doubles, ints, booleans, null and short strings map onto their natural
// CBOR types. Undefined is CBOR undefined, and the hash sentinels empty and
// deleted are the simple values 32 and 33. Pointers and other auxiliary
// words have no meaning outside the process and are rejected.
package wire

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/nanbox/box"
	"github.com/fxamacker/cbor/v2"
)

var (
	// ErrNotSerializable is returned for pointers, generic aux words and
	// unassigned bit patterns.
	ErrNotSerializable = errors.New("value is not serializable")

	// ErrOutOfRange is returned when a decoded integer does not fit in
	// 32 bits or a decoded string is longer than a short string.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnsupported is returned for CBOR items with no boxed equivalent.
	ErrUnsupported = errors.New("unsupported CBOR item")
)

// Raw encodings of the items cbor has no Go type for.
var (
	rawUndefined = []byte{0xf7}
	rawEmpty     = []byte{0xf8, 0x20}
	rawDeleted   = []byte{0xf8, 0x21}
)

// cborEncMode uses canonical options for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Serializable reports whether v can be encoded by Marshal.
func Serializable(v box.Value) bool {
	switch v.Kind() {
	case box.KindPointer, box.KindAux, box.KindInvalid:
		return false
	}
	return true
}

// Marshal encodes v as a single CBOR data item.
func Marshal(v box.Value) ([]byte, error) {
	switch v.Kind() {
	case box.KindDouble:
		return cborEncMode.Marshal(v.Double())
	case box.KindInt:
		return cborEncMode.Marshal(int64(v.Int()))
	case box.KindBool:
		return cborEncMode.Marshal(v.Bool())
	case box.KindNull:
		return cborEncMode.Marshal(nil)
	case box.KindUndefined:
		return clone(rawUndefined), nil
	case box.KindEmpty:
		return clone(rawEmpty), nil
	case box.KindDeleted:
		return clone(rawDeleted), nil
	case box.KindShortString:
		return cborEncMode.Marshal(v.ShortStringChars())
	default:
		return nil, fmt.Errorf("wire: marshal %s %#016x: %w", v.Kind(), v.Bits(), ErrNotSerializable)
	}
}

// Unmarshal decodes a single CBOR data item into a Value.
func Unmarshal(data []byte) (box.Value, error) {
	switch {
	case equal(data, rawUndefined):
		return box.Undefined, nil
	case equal(data, rawEmpty):
		return box.Empty, nil
	case equal(data, rawDeleted):
		return box.Deleted, nil
	}

	var item interface{}
	if err := cbor.Unmarshal(data, &item); err != nil {
		return box.Undefined, fmt.Errorf("wire: unmarshal value: %w", err)
	}

	switch x := item.(type) {
	case nil:
		return box.Null, nil
	case bool:
		return box.FromBool(x), nil
	case float64:
		return box.FromDouble(x), nil
	case uint64:
		if x > math.MaxInt32 {
			return box.Undefined, fmt.Errorf("wire: integer %d: %w", x, ErrOutOfRange)
		}
		return box.FromInt(int32(x)), nil
	case int64:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return box.Undefined, fmt.Errorf("wire: integer %d: %w", x, ErrOutOfRange)
		}
		return box.FromInt(int32(x)), nil
	case []byte:
		return shortString(x)
	case string:
		return shortString([]byte(x))
	default:
		return box.Undefined, fmt.Errorf("wire: %T: %w", item, ErrUnsupported)
	}
}

// MarshalSlice encodes vals as a CBOR array.
func MarshalSlice(vals []box.Value) ([]byte, error) {
	items := make([]cbor.RawMessage, len(vals))
	for i, v := range vals {
		data, err := Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("wire: element %d: %w", i, err)
		}
		items[i] = data
	}
	return cborEncMode.Marshal(items)
}

// UnmarshalSlice decodes a CBOR array produced by MarshalSlice.
func UnmarshalSlice(data []byte) ([]box.Value, error) {
	var items []cbor.RawMessage
	if err := cbor.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("wire: unmarshal array: %w", err)
	}
	vals := make([]box.Value, len(items))
	for i, item := range items {
		v, err := Unmarshal(item)
		if err != nil {
			return nil, fmt.Errorf("wire: element %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func shortString(b []byte) (box.Value, error) {
	if len(b) > box.MaxShortStringLen {
		return box.Undefined, fmt.Errorf("wire: %d-byte string: %w", len(b), ErrOutOfRange)
	}
	return box.NewShortString(b), nil
}

func equal(a, b []byte) bool {
	return string(a) == string(b)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
