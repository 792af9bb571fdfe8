package box

// Short strings
//
// Strings of up to 6 bytes live in the auxiliary space, at words
// 0xFFFB_0000_0000_0000 ..= 0xFFFD_FFFF_FFFF_FFFF. The high 32 bits are the
// tag. Lengths 0..4 use tag base+L and keep the bytes in the low 32 bits.
// Lengths 5 and 6 use tag base+((L-4)<<16) and spill bytes 4 and 5 into the
// low 16 bits of the tag. Either way byte i of the string is bits 8i..8i+7
// of the word, so the encoding does not depend on host byte order.

// MaxShortStringLen is the longest string that fits in a Value.
const MaxShortStringLen = 6

const (
	shortStringTag    uint32 = uint32(tagAuxMin >> 32)
	shortStringTagMax uint32 = shortStringTag + 0x0002FFFF

	// Tag offset above which the length lives in bits 16..17.
	shortStringInlineMax uint32 = 4
)

func (v Value) tag() uint32 {
	return uint32(uint64(v) >> 32)
}

// IsShortString returns true if v's tag lies in the short string range.
func (v Value) IsShortString() bool {
	t := v.tag()
	return t >= shortStringTag && t <= shortStringTagMax
}

// ShortStringLen returns the length of the short string in v, 0..6.
func (v Value) ShortStringLen() int {
	require(v.IsShortString(), "Value.ShortStringLen: not a short string")
	off := v.tag() - shortStringTag
	if off <= shortStringInlineMax {
		return int(off)
	}
	return int(off>>16) + 4
}

// ShortStringUndef returns a short string of the given length with every
// byte zeroed, to be filled in with WithShortStringByte.
func ShortStringUndef(length int) Value {
	require(length >= 0 && length <= MaxShortStringLen, "ShortStringUndef: length out of range")
	var tag uint32
	if length <= 4 {
		tag = shortStringTag + uint32(length)
	} else {
		tag = shortStringTag + uint32(length-4)<<16
	}
	return Value(uint64(tag) << 32)
}

// NewShortString copies chars, zero bytes included, into a Value.
// len(chars) must not exceed MaxShortStringLen.
func NewShortString(chars []byte) Value {
	v := ShortStringUndef(len(chars))
	for i, c := range chars {
		if i == MaxShortStringLen {
			break
		}
		v |= Value(uint64(c) << (8 * i))
	}
	return v
}

// ShortStringFromString returns s as a short string, or false if s is
// longer than MaxShortStringLen bytes.
func ShortStringFromString(s string) (Value, bool) {
	if len(s) > MaxShortStringLen {
		return Undefined, false
	}
	return NewShortString([]byte(s)), true
}

// ShortStringByte returns byte i of the short string in v.
func (v Value) ShortStringByte(i int) byte {
	require(i >= 0 && i < v.ShortStringLen(), "Value.ShortStringByte: index out of range")
	return byte(uint64(v) >> (8 * i))
}

// WithShortStringByte returns v with byte i replaced by c.
func (v Value) WithShortStringByte(i int, c byte) Value {
	require(i >= 0 && i < v.ShortStringLen(), "Value.WithShortStringByte: index out of range")
	shift := 8 * uint(i)
	return Value(uint64(v)&^(0xFF<<shift) | uint64(c)<<shift)
}

// AppendShortString appends the bytes of the short string in v to dst.
func (v Value) AppendShortString(dst []byte) []byte {
	n := v.ShortStringLen()
	for i := 0; i < n; i++ {
		dst = append(dst, byte(uint64(v)>>(8*i)))
	}
	return dst
}

// ShortStringChars returns a copy of the bytes of the short string in v.
func (v Value) ShortStringChars() []byte {
	var buf [MaxShortStringLen]byte
	return v.AppendShortString(buf[:0])
}
