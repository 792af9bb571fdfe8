package box

import "encoding/binary"

// Size is the size of an encoded Value in bytes.
const Size = 8

// NativeEndian is the byte order of the host, as used for the in-memory
// image of a Value.
var NativeEndian binary.ByteOrder = binary.NativeEndian

// Bytes returns the 8-byte image of v in the given byte order.
func (v Value) Bytes(order binary.ByteOrder) [Size]byte {
	var buf [Size]byte
	order.PutUint64(buf[:], uint64(v))
	return buf
}

// AppendBytes appends the 8-byte image of v in the given byte order.
func (v Value) AppendBytes(order binary.AppendByteOrder, dst []byte) []byte {
	return order.AppendUint64(dst, uint64(v))
}

// FromBytes decodes a Value from the first 8 bytes of buf.
// buf must hold at least Size bytes.
func FromBytes(order binary.ByteOrder, buf []byte) Value {
	return Value(order.Uint64(buf))
}
