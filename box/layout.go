package box

import "fmt"

// ---------------------------------------------------------------------------
// Tag space allocation table
// ---------------------------------------------------------------------------
//
// Every boxed variant owns one contiguous range of words. This table is the
// single source of truth for those ranges and is checked by CheckLayout.
//
// IMPORTANT: Once assigned, ranges must NEVER move. Encoded words are
// persisted by the journal and sent over the wire.

// Range is an inclusive range of words owned by one variant.
type Range struct {
	Name string
	Kind Kind
	Min  Value
	Max  Value
}

// Contains reports whether v lies in r.
func (r Range) Contains(v Value) bool {
	return v >= r.Min && v <= r.Max
}

// Len returns the number of words in r.
func (r Range) Len() uint64 {
	return uint64(r.Max-r.Min) + 1
}

// Layout returns the allocation table for the whole 64-bit word space, in
// ascending order. The double range covers every word below the boxed
// region, negative doubles included.
func Layout() []Range {
	return []Range{
		{Name: "double", Kind: KindDouble, Min: 0, Max: Value(boxedMin - 1)},
		{Name: "empty", Kind: KindEmpty, Min: Empty, Max: Empty},
		{Name: "deleted", Kind: KindDeleted, Min: Deleted, Max: Deleted},
		{Name: "null", Kind: KindNull, Min: Null, Max: Null},
		{Name: "undefined", Kind: KindUndefined, Min: Undefined, Max: Undefined},
		{Name: "false", Kind: KindBool, Min: False, Max: False},
		{Name: "true", Kind: KindBool, Min: True, Max: True},
		{Name: "int", Kind: KindInt, Min: FromInt(0), Max: FromInt(-1)},
		{Name: "shortstring", Kind: KindShortString, Min: Value(tagAuxMin), Max: Value(uint64(shortStringTagMax)<<32 | 0xFFFFFFFF)},
		{Name: "aux", Kind: KindAux, Min: Value(uint64(shortStringTagMax+1) << 32), Max: Value(tagPointer - 1)},
		{Name: "pointer", Kind: KindPointer, Min: Value(tagPointer), Max: Value(tagPointer | payloadMask)},
	}
}

// ShortStringRanges returns the canonical short string words of each
// length, from all-zero bytes to all-0xFF bytes.
func ShortStringRanges() []Range {
	ranges := make([]Range, 0, MaxShortStringLen+1)
	for n := 0; n <= MaxShortStringLen; n++ {
		lo := ShortStringUndef(n)
		hi := lo | Value(uint64(1)<<(8*n)-1)
		ranges = append(ranges, Range{
			Name: fmt.Sprintf("shortstring/%d", n),
			Kind: KindShortString,
			Min:  lo,
			Max:  hi,
		})
	}
	return ranges
}

// CheckLayout verifies that ranges are well formed, ascending and
// disjoint, and that every non-double range is a NaN pattern inside the
// boxed region.
func CheckLayout(ranges []Range) error {
	for i, r := range ranges {
		if r.Min > r.Max {
			return fmt.Errorf("range %s: min %#016x above max %#016x", r.Name, uint64(r.Min), uint64(r.Max))
		}
		if r.Kind != KindDouble && uint64(r.Min) < boxedMin {
			return fmt.Errorf("range %s: starts at %#016x, below boxed region", r.Name, uint64(r.Min))
		}
		if i == 0 {
			continue
		}
		prev := ranges[i-1]
		if r.Min <= prev.Max {
			return fmt.Errorf("range %s overlaps %s at %#016x", r.Name, prev.Name, uint64(r.Min))
		}
	}
	return nil
}
