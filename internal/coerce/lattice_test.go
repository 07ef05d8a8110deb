package coerce

import (
	"math"
	"testing"

	"github.com/scicoda/coda/internal/typemodel"
)

func TestPermittedIntegerLattice(t *testing.T) {
	tests := []struct {
		dst, stored typemodel.ReadType
		want        bool
	}{
		{typemodel.RTInt8, typemodel.RTInt8, true},
		{typemodel.RTInt8, typemodel.RTUint8, false},
		{typemodel.RTInt16, typemodel.RTInt8, true},
		{typemodel.RTInt16, typemodel.RTUint8, true},
		{typemodel.RTInt16, typemodel.RTInt16, true},
		{typemodel.RTInt16, typemodel.RTUint16, false},
		{typemodel.RTUint16, typemodel.RTUint8, true},
		{typemodel.RTUint16, typemodel.RTInt8, false},
		{typemodel.RTDouble, typemodel.RTUint64, true},
		{typemodel.RTFloat, typemodel.RTInt64, true},
	}
	for _, tt := range tests {
		if got := Permitted(tt.dst, tt.stored); got != tt.want {
			t.Errorf("Permitted(%s, %s) = %v, want %v", tt.dst, tt.stored, got, tt.want)
		}
	}
}

func TestWidenNarrowingRejected(t *testing.T) {
	raw := RawInt(typemodel.RTInt32, 42)
	if _, err := Widen[int8](raw, "scalar"); err == nil {
		t.Fatal("expected an error widening int32 down to int8")
	}
}

func TestWidenIdentity(t *testing.T) {
	raw := RawInt(typemodel.RTInt32, -7)
	v, err := Widen[int32](raw, "scalar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != -7 {
		t.Errorf("got %d, want -7", v)
	}
}

// TestWidenUint64ToDoubleIsCastViaSigned locks in the documented behavior:
// a stored uint64 widened to a float/double destination goes through a
// signed int64 intermediate, matching the source's cast-via-signed
// semantics (including wraparound above 2^63) rather than an unsigned
// widen.
func TestWidenUint64ToDoubleIsCastViaSigned(t *testing.T) {
	const huge = uint64(1) << 63 // 2^63; as int64 this is math.MinInt64
	raw := RawUint(typemodel.RTUint64, huge)

	v, err := Widen[float64](raw, "scalar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := float64(int64(huge))
	if v != want {
		t.Errorf("got %v, want %v (cast-via-signed)", v, want)
	}
	if v >= 0 {
		t.Errorf("expected the cast-via-signed wraparound to produce a negative value, got %v", v)
	}
}

func TestAsDoubleHandlesEveryKind(t *testing.T) {
	if d := AsDouble(RawFloat64(3.5)); d != 3.5 {
		t.Errorf("got %v, want 3.5", d)
	}
	if d := AsDouble(RawFloat32(2.5)); d != 2.5 {
		t.Errorf("got %v, want 2.5", d)
	}
	if d := AsDouble(RawInt(typemodel.RTInt16, -9)); d != -9 {
		t.Errorf("got %v, want -9", d)
	}

	var zero Raw
	zero.Kind = typemodel.ReadType(99)
	if d := AsDouble(zero); !math.IsNaN(d) {
		t.Errorf("expected NaN for an unrecognized kind, got %v", d)
	}
}
