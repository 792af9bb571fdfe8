package box

import (
	"math"
	"strconv"
)

// Value is a 64-bit NaN-boxed value.
//
// A Value is either an IEEE 754 double stored verbatim, or a boxed value
// living in the negative quiet NaN space. The high 16 bits select the
// variant:
//
//	0000..FFF8  double (any NaN is canonicalized to 0x7FF8_0000_0000_0000)
//	FFF9        singletons: empty, deleted, null, undefined, false, true
//	FFFA        32-bit signed integer in the low 32 bits
//	FFFB..FFFE  auxiliary space (short strings use FFFB..FFFD)
//	FFFF        pointer in the low 48 bits
//
// The zero Value is the double +0.0.
type Value uint64

// NaN-boxing constants
const (
	// Canonical quiet NaN. FromDouble stores every NaN as this pattern.
	canonicalNaN uint64 = 0x7FF8000000000000

	// First boxed word. Everything below is a double.
	boxedMin uint64 = 0xFFF9000000000000

	tagMask     uint64 = 0xFFFF000000000000
	payloadMask uint64 = 0x0000FFFFFFFFFFFF

	tagSingleton uint64 = 0xFFF9000000000000
	tagInt       uint64 = 0xFFFA000000000000
	tagAuxMin    uint64 = 0xFFFB000000000000
	tagAuxMax    uint64 = 0xFFFE000000000000
	tagPointer   uint64 = 0xFFFF000000000000

	// Ints keep bits 32..47 clear so the high half is a fixed tag.
	intTagMask uint64 = 0xFFFFFFFF00000000

	// Largest address FromPointer accepts.
	MaxPointer uint64 = 1<<48 - 1
)

// Singleton payloads
const (
	singletonEmpty uint64 = iota
	singletonDeleted
	singletonNull
	singletonUndefined
	singletonFalse
	singletonTrue

	singletonCount
)

// Pre-defined singleton values
const (
	Empty     Value = Value(tagSingleton | singletonEmpty)
	Deleted   Value = Value(tagSingleton | singletonDeleted)
	Null      Value = Value(tagSingleton | singletonNull)
	Undefined Value = Value(tagSingleton | singletonUndefined)
	False     Value = Value(tagSingleton | singletonFalse)
	True      Value = Value(tagSingleton | singletonTrue)
)

// FromBits reinterprets a raw word as a Value.
func FromBits(bits uint64) Value {
	return Value(bits)
}

// Bits returns the raw 64-bit word.
func (v Value) Bits() uint64 {
	return uint64(v)
}

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// IsDouble returns true if v is outside the boxed region.
func (v Value) IsDouble() bool {
	return uint64(v) < boxedMin
}

// IsInt returns true if v holds a 32-bit integer.
func (v Value) IsInt() bool {
	return uint64(v)&intTagMask == tagInt
}

// IsPointer returns true if v holds a pointer.
func (v Value) IsPointer() bool {
	return uint64(v)&tagMask == tagPointer
}

// IsNumber returns true if v is a double or an int.
func (v Value) IsNumber() bool {
	return v.IsDouble() || v.IsInt()
}

// IsAux returns true if v lies in the auxiliary space reserved for
// extensions such as short strings.
func (v Value) IsAux() bool {
	tag := uint64(v) & tagMask
	return tag >= tagAuxMin && tag <= tagAuxMax
}

// IsBool returns true if v is true or false.
func (v Value) IsBool() bool {
	return v == True || v == False
}

// IsTrue returns true if v is the true value.
func (v Value) IsTrue() bool {
	return v == True
}

// IsFalse returns true if v is the false value.
func (v Value) IsFalse() bool {
	return v == False
}

// IsNull returns true if v is the null value.
func (v Value) IsNull() bool {
	return v == Null
}

// IsUndefined returns true if v is the undefined value.
func (v Value) IsUndefined() bool {
	return v == Undefined
}

// IsUndefinedOrNull returns true if v is undefined or null.
func (v Value) IsUndefinedOrNull() bool {
	return v == Undefined || v == Null
}

// IsEmpty returns true if v is the empty sentinel (an unused hash slot).
func (v Value) IsEmpty() bool {
	return v == Empty
}

// IsDeleted returns true if v is the deleted sentinel (a tombstoned hash slot).
func (v Value) IsDeleted() bool {
	return v == Deleted
}

// ---------------------------------------------------------------------------
// Double operations
// ---------------------------------------------------------------------------

// FromDouble creates a Value from a float64. Every NaN is stored as the
// canonical quiet NaN; all other doubles, including -0 and the infinities,
// are stored bit for bit.
func FromDouble(d float64) Value {
	if math.IsNaN(d) {
		return Value(canonicalNaN)
	}
	return Value(math.Float64bits(d))
}

// Double returns v as a float64.
func (v Value) Double() float64 {
	require(v.IsDouble(), "Value.Double: not a double")
	return math.Float64frombits(uint64(v))
}

// Number returns the numeric value of a double or int.
func (v Value) Number() float64 {
	if v.IsInt() {
		return float64(v.Int())
	}
	require(v.IsDouble(), "Value.Number: not a number")
	return math.Float64frombits(uint64(v))
}

// ---------------------------------------------------------------------------
// Int operations
// ---------------------------------------------------------------------------

// FromInt creates a Value from an int32.
func FromInt(i int32) Value {
	return Value(tagInt | uint64(uint32(i)))
}

// Int returns v as an int32.
func (v Value) Int() int32 {
	require(v.IsInt(), "Value.Int: not an int")
	return int32(uint32(v))
}

// ---------------------------------------------------------------------------
// Pointer operations
// ---------------------------------------------------------------------------

// FromPointer creates a Value from an address. The address must fit in
// 48 bits. The Value does not keep the pointee alive; the caller owns it.
func FromPointer(p uintptr) Value {
	require(uint64(p) <= MaxPointer, "FromPointer: address wider than 48 bits")
	return Value(tagPointer | (uint64(p) & payloadMask))
}

// Pointer returns the address held by v.
func (v Value) Pointer() uintptr {
	require(v.IsPointer(), "Value.Pointer: not a pointer")
	return uintptr(uint64(v) & payloadMask)
}

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// FromBool creates a Value from a bool.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Bool returns v as a bool.
func (v Value) Bool() bool {
	switch v {
	case True:
		return true
	case False:
		return false
	default:
		require(false, "Value.Bool: not a boolean")
		return false
	}
}

// ---------------------------------------------------------------------------
// Auxiliary space
// ---------------------------------------------------------------------------

// AuxSpan is the number of distinct words in the auxiliary space.
const AuxSpan uint64 = tagAuxMax + 1<<48 - tagAuxMin

// FromAux returns the n-th word of the auxiliary space.
func FromAux(n uint64) Value {
	require(n < AuxSpan, "FromAux: offset outside auxiliary space")
	return Value(tagAuxMin + n)
}

// Aux returns the offset of v within the auxiliary space.
func (v Value) Aux() uint64 {
	require(v.IsAux(), "Value.Aux: not an aux value")
	return uint64(v) - tagAuxMin
}

// ---------------------------------------------------------------------------
// Truthiness
// ---------------------------------------------------------------------------

// IsTruthy returns true if v is considered "truthy" in conditionals.
func (v Value) IsTruthy() bool {
	return !v.IsFalsy()
}

// IsFalsy reports whether v is false, null, undefined, a zero or NaN
// number, the empty short string, or one of the hash sentinels.
func (v Value) IsFalsy() bool {
	switch {
	case v.IsDouble():
		d := v.Double()
		return d == 0 || math.IsNaN(d)
	case v.IsInt():
		return v.Int() == 0
	case v.IsShortString():
		return v.ShortStringLen() == 0
	case v.IsPointer(), v.IsAux():
		return false
	}
	return v != True
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// String renders v for humans.
func (v Value) String() string {
	switch v.Kind() {
	case KindDouble:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(int64(v.Int()), 10)
	case KindPointer:
		return "0x" + strconv.FormatUint(uint64(v.Pointer()), 16)
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindEmpty:
		return "<empty>"
	case KindDeleted:
		return "<deleted>"
	case KindShortString:
		return strconv.Quote(string(v.ShortStringChars()))
	case KindAux:
		return "aux(0x" + strconv.FormatUint(v.Aux(), 16) + ")"
	default:
		return "invalid(0x" + strconv.FormatUint(uint64(v), 16) + ")"
	}
}
