package box

import (
	"math"
	"testing"
	"unsafe"
)

// widestAddr is the largest address a Value can hold on this host.
var widestAddr = uintptr(maxPointer)

var maxPointer = MaxPointer

// predicates returns the result of every variant predicate, keyed by name.
func predicates(v Value) map[string]bool {
	return map[string]bool{
		"double":      v.IsDouble(),
		"int":         v.IsInt(),
		"pointer":     v.IsPointer(),
		"boolean":     v.IsBool(),
		"null":        v.IsNull(),
		"undefined":   v.IsUndefined(),
		"empty":       v.IsEmpty(),
		"deleted":     v.IsDeleted(),
		"shortstring": v.IsShortString(),
	}
}

// assertOnly fails unless exactly the named predicate holds.
func assertOnly(t *testing.T, v Value, want string) {
	t.Helper()
	for name, got := range predicates(v) {
		if got != (name == want) {
			t.Errorf("%#016x: is_%s = %v, want %v", uint64(v), name, got, name == want)
		}
	}
}

// ---------------------------------------------------------------------------
// Double tests
// ---------------------------------------------------------------------------

func TestDoubleRoundTrip(t *testing.T) {
	tests := []float64{
		0.0,
		math.Copysign(0, -1),
		1.0,
		-1.0,
		3.14,
		-3.14159265358979,
		math.MaxFloat64,
		-math.MaxFloat64,
		math.SmallestNonzeroFloat64,
		-math.SmallestNonzeroFloat64,
		math.Inf(1),
		math.Inf(-1),
	}

	for _, d := range tests {
		v := FromDouble(d)
		if !v.IsDouble() {
			t.Errorf("FromDouble(%v).IsDouble() = false, want true", d)
			continue
		}
		got := v.Double()
		if math.Float64bits(got) != math.Float64bits(d) {
			t.Errorf("FromDouble(%v).Double() bits = %#016x, want %#016x",
				d, math.Float64bits(got), math.Float64bits(d))
		}
		assertOnly(t, v, "double")
		if !v.IsNumber() {
			t.Errorf("FromDouble(%v).IsNumber() = false, want true", d)
		}
		if v.IsAux() || v.IsTrue() || v.IsFalse() {
			t.Errorf("FromDouble(%v) matched a boxed predicate", d)
		}
	}
}

func TestNegativeZeroKeepsSign(t *testing.T) {
	v := FromDouble(math.Copysign(0, -1))
	if !math.Signbit(v.Double()) {
		t.Error("-0.0 lost its sign bit")
	}
	if v == FromDouble(0) {
		t.Error("-0.0 and +0.0 should encode differently")
	}
}

func TestNaNCanonicalization(t *testing.T) {
	zero := 0.0
	nan := zero / zero
	inf := math.Inf(1)
	ninf := math.Inf(-1)

	tests := map[string]float64{
		"0/0":            nan,
		"math.NaN":       math.NaN(),
		"nan+42":         nan + 42,
		"-inf*nan":       ninf * nan,
		"inf/inf":        inf / inf,
		"ninf/inf":       ninf / inf,
		"0*inf":          zero * inf,
		"0*ninf":         zero * ninf,
		"inf*0":          inf * zero,
		"inf+ninf":       inf + ninf,
		"ninf+inf":       ninf + inf,
		"pow(-1,3.14)":   math.Pow(-1, 3.14),
		"sqrt(-1)":       math.Sqrt(-1),
		"log(-1)":        math.Log(-1),
		"asin(2)":        math.Asin(2),
		"acos(2)":        math.Acos(2),
		"payload nan":    math.Float64frombits(0x7FF8000000000042),
		"signaling nan":  math.Float64frombits(0x7FF0000000000001),
		"negative nan":   math.Float64frombits(0xFFF8000000000000),
		"boxed int bits": math.Float64frombits(uint64(FromInt(7))),
		"boxed ptr bits": math.Float64frombits(0xFFFF123456789ABC),
	}

	for name, d := range tests {
		if !math.IsNaN(d) {
			t.Fatalf("%s: expected a NaN input, got %v", name, d)
		}
		v := FromDouble(d)
		if v.Bits() != canonicalNaN {
			t.Errorf("%s: FromDouble bits = %#016x, want %#016x", name, v.Bits(), canonicalNaN)
		}
		if !v.IsDouble() {
			t.Errorf("%s: canonical NaN should be a double", name)
		}
		if !math.IsNaN(v.Double()) {
			t.Errorf("%s: NaN roundtrip failed", name)
		}
	}
}

func TestNaNNeverEqualsItself(t *testing.T) {
	zero := 0.0
	d := zero / zero
	v := FromDouble(d)
	if d == v.Double() {
		t.Error("NaN should not compare equal to its decoded value")
	}
}

func TestBoxedWordsAreNaN(t *testing.T) {
	boxed := []Value{
		Empty, Deleted, Null, Undefined, True, False,
		FromInt(0), FromInt(-1),
		FromPointer(0), FromPointer(widestAddr),
		NewShortString(nil), NewShortString([]byte("abcdef")),
		FromAux(AuxSpan - 1),
	}
	for _, v := range boxed {
		if v.IsDouble() {
			t.Errorf("%#016x: boxed word reads as double", v.Bits())
		}
		if !math.IsNaN(math.Float64frombits(v.Bits())) {
			t.Errorf("%#016x: boxed word is not a NaN", v.Bits())
		}
	}
}

// ---------------------------------------------------------------------------
// Int tests
// ---------------------------------------------------------------------------

func TestIntRoundTrip(t *testing.T) {
	tests := []int32{0, 1, -1, 42, -42, 1000000, math.MaxInt32, math.MinInt32}

	for _, n := range tests {
		v := FromInt(n)
		if !v.IsInt() {
			t.Errorf("FromInt(%d).IsInt() = false, want true", n)
			continue
		}
		if got := v.Int(); got != n {
			t.Errorf("FromInt(%d).Int() = %d, want %d", n, got, n)
		}
		assertOnly(t, v, "int")
		if !v.IsNumber() {
			t.Errorf("FromInt(%d).IsNumber() = false, want true", n)
		}
		if v.IsAux() {
			t.Errorf("FromInt(%d).IsAux() = true, want false", n)
		}
		if got := v.Number(); got != float64(n) {
			t.Errorf("FromInt(%d).Number() = %v", n, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Pointer tests
// ---------------------------------------------------------------------------

func TestPointerRoundTrip(t *testing.T) {
	type testObj struct {
		x int
	}
	obj := &testObj{x: 42}
	var local Value

	tests := []uintptr{
		0,
		1,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(&local)),
		widestAddr,
	}

	for _, p := range tests {
		v := FromPointer(p)
		if !v.IsPointer() {
			t.Errorf("FromPointer(%#x).IsPointer() = false, want true", p)
			continue
		}
		if got := v.Pointer(); got != p {
			t.Errorf("FromPointer(%#x).Pointer() = %#x", p, got)
		}
		assertOnly(t, v, "pointer")
		if v.IsNumber() || v.IsAux() {
			t.Errorf("FromPointer(%#x) should be neither number nor aux", p)
		}
	}

	got := (*testObj)(unsafe.Pointer(FromPointer(uintptr(unsafe.Pointer(obj))).Pointer()))
	if got.x != 42 {
		t.Errorf("pointee roundtrip failed: got %d", got.x)
	}
}

// ---------------------------------------------------------------------------
// Boolean and singleton tests
// ---------------------------------------------------------------------------

func TestBoolRoundTrip(t *testing.T) {
	for _, b := range []bool{true, false} {
		v := FromBool(b)
		if !v.IsBool() {
			t.Errorf("FromBool(%v).IsBool() = false", b)
		}
		if v.Bool() != b {
			t.Errorf("FromBool(%v).Bool() = %v", b, v.Bool())
		}
		if v.IsTrue() != b || v.IsFalse() == b {
			t.Errorf("FromBool(%v): IsTrue=%v IsFalse=%v", b, v.IsTrue(), v.IsFalse())
		}
		assertOnly(t, v, "boolean")
	}
	if FromBool(true) != True || FromBool(false) != False {
		t.Error("FromBool should return the True/False singletons")
	}
}

func TestSingletons(t *testing.T) {
	tests := []struct {
		name            string
		v               Value
		undefinedOrNull bool
	}{
		{"null", Null, true},
		{"undefined", Undefined, true},
		{"empty", Empty, false},
		{"deleted", Deleted, false},
		{"boolean", True, false},
		{"boolean", False, false},
	}

	for _, tt := range tests {
		assertOnly(t, tt.v, tt.name)
		if tt.v.IsNumber() {
			t.Errorf("%s.IsNumber() = true", tt.name)
		}
		if tt.v.IsAux() {
			t.Errorf("%s.IsAux() = true", tt.name)
		}
		if got := tt.v.IsUndefinedOrNull(); got != tt.undefinedOrNull {
			t.Errorf("%s.IsUndefinedOrNull() = %v, want %v", tt.name, got, tt.undefinedOrNull)
		}
	}

	seen := map[Value]string{}
	for _, tt := range tests {
		if prev, ok := seen[tt.v]; ok {
			t.Errorf("%s collides with %s", tt.name, prev)
		}
		seen[tt.v] = tt.name
	}
}

// ---------------------------------------------------------------------------
// Kind tests
// ---------------------------------------------------------------------------

func TestKind(t *testing.T) {
	tests := []struct {
		v    Value
		want Kind
	}{
		{FromDouble(2.5), KindDouble},
		{FromDouble(math.NaN()), KindDouble},
		{FromInt(-3), KindInt},
		{FromPointer(0x1000), KindPointer},
		{True, KindBool},
		{False, KindBool},
		{Null, KindNull},
		{Undefined, KindUndefined},
		{Empty, KindEmpty},
		{Deleted, KindDeleted},
		{NewShortString([]byte("hi")), KindShortString},
		{FromAux(AuxSpan - 1), KindAux},
		{Value(tagSingleton | 0xFF), KindInvalid},
		{Value(tagInt | 1<<32), KindInvalid},
	}

	for _, tt := range tests {
		if got := tt.v.Kind(); got != tt.want {
			t.Errorf("%#016x.Kind() = %v, want %v", tt.v.Bits(), got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for k := KindInvalid; k <= KindAux; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("symbol"); ok {
		t.Error("ParseKind(symbol) should fail")
	}
}

// ---------------------------------------------------------------------------
// Aux tests
// ---------------------------------------------------------------------------

func TestAuxRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 0x2FFFF_FFFF_FFFF, AuxSpan - 1} {
		v := FromAux(n)
		if !v.IsAux() {
			t.Errorf("FromAux(%#x).IsAux() = false", n)
		}
		if got := v.Aux(); got != n {
			t.Errorf("FromAux(%#x).Aux() = %#x", n, got)
		}
	}
	if AuxSpan != 4<<48 {
		t.Errorf("AuxSpan = %#x, want %#x", AuxSpan, uint64(4<<48))
	}
}

// ---------------------------------------------------------------------------
// Truthiness and formatting tests
// ---------------------------------------------------------------------------

func TestTruthiness(t *testing.T) {
	falsy := []Value{
		False, Null, Undefined, Empty, Deleted,
		FromDouble(0), FromDouble(math.Copysign(0, -1)), FromDouble(math.NaN()),
		FromInt(0), NewShortString(nil),
	}
	for _, v := range falsy {
		if v.IsTruthy() {
			t.Errorf("%v should be falsy", v)
		}
	}

	truthy := []Value{
		True, FromDouble(1), FromDouble(math.Inf(-1)), FromInt(-1),
		FromPointer(0), NewShortString([]byte{0}), FromAux(AuxSpan - 1),
	}
	for _, v := range truthy {
		if !v.IsTruthy() {
			t.Errorf("%v should be truthy", v)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{FromDouble(3.5), "3.5"},
		{FromDouble(math.Inf(-1)), "-Inf"},
		{FromInt(-42), "-42"},
		{FromPointer(0xbeef), "0xbeef"},
		{True, "true"},
		{False, "false"},
		{Null, "null"},
		{Undefined, "undefined"},
		{Empty, "<empty>"},
		{Deleted, "<deleted>"},
		{NewShortString([]byte("hi")), `"hi"`},
		{NewShortString([]byte{'a', 0}), `"a\x00"`},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Panic tests for type mismatches
// ---------------------------------------------------------------------------

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	if !checkPreconditions {
		t.Skip("precondition checks compiled out")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s should panic", name)
		}
	}()
	fn()
}

func TestAccessorPanics(t *testing.T) {
	expectPanic(t, "Double() on int", func() { FromInt(1).Double() })
	expectPanic(t, "Int() on double", func() { FromDouble(1).Int() })
	expectPanic(t, "Pointer() on null", func() { Null.Pointer() })
	expectPanic(t, "Bool() on int", func() { FromInt(1).Bool() })
	expectPanic(t, "Number() on null", func() { Null.Number() })
	expectPanic(t, "Aux() on double", func() { FromDouble(0).Aux() })
	expectPanic(t, "FromAux(AuxSpan)", func() { FromAux(AuxSpan) })
}

func TestFromPointerTooWide(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) < 8 {
		t.Skip("addresses always fit on 32-bit hosts")
	}
	wide := uint64(1) << 48
	expectPanic(t, "FromPointer(1<<48)", func() { FromPointer(uintptr(wide)) })
}

func TestValueSize(t *testing.T) {
	if size := unsafe.Sizeof(Value(0)); size != 8 {
		t.Errorf("Value size = %d, want 8", size)
	}
}

// ---------------------------------------------------------------------------
// Benchmarks
// ---------------------------------------------------------------------------

func BenchmarkIsDouble(b *testing.B) {
	v := FromDouble(3.14)
	for i := 0; i < b.N; i++ {
		_ = v.IsDouble()
	}
}

func BenchmarkFromDouble(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = FromDouble(float64(i))
	}
}

func BenchmarkKind(b *testing.B) {
	vals := []Value{FromDouble(1), FromInt(1), True, NewShortString([]byte("ab"))}
	for i := 0; i < b.N; i++ {
		_ = vals[i%len(vals)].Kind()
	}
}
