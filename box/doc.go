// Package box implements a NaN-boxed 64-bit value.
//
// This package contains:
//   - Double, int32, pointer and singleton encodings
//   - Short strings of up to 6 bytes
//   - The tag-space allocation table
//   - Byte order aware memory images
//
// Accessors panic when called on the wrong variant. Build with the
// nanbox_nocheck tag to compile those checks out.
package box
