package buf

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEndianHelpers(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	if got := U16(data, binary.LittleEndian); got != 0x2301 {
		t.Fatalf("U16 LE = 0x%x, want 0x2301", got)
	}
	if got := U32(data, binary.LittleEndian); got != 0x67452301 {
		t.Fatalf("U32 LE = 0x%x, want 0x67452301", got)
	}
	if got := U64(data, binary.LittleEndian); got != 0xefcdab8967452301 {
		t.Fatalf("U64 LE = 0x%x, want 0xefcdab8967452301", got)
	}
	if got := U32(data, binary.BigEndian); got != 0x01234567 {
		t.Fatalf("U32 BE = 0x%x, want 0x01234567", got)
	}
	if got := I32(data, binary.LittleEndian); got != 0x67452301 {
		t.Fatalf("I32 LE = 0x%x, want 0x67452301", got)
	}

	short := []byte{0xAA}
	if U16(short, binary.LittleEndian) != 0 {
		t.Fatalf("U16 short should be 0")
	}
	if U32(short, binary.LittleEndian) != 0 || U32(short, binary.BigEndian) != 0 ||
		U64(short, binary.LittleEndian) != 0 || I32(short, binary.LittleEndian) != 0 {
		t.Fatalf("short reads should return 0")
	}
}

func TestFloatHelpers(t *testing.T) {
	buf32 := make([]byte, 4)
	binary.BigEndian.PutUint32(buf32, math.Float32bits(3.5))
	if got := F32(buf32, binary.BigEndian); got != 3.5 {
		t.Fatalf("F32 = %v, want 3.5", got)
	}

	buf64 := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf64, math.Float64bits(-12.25))
	if got := F64(buf64, binary.LittleEndian); got != -12.25 {
		t.Fatalf("F64 = %v, want -12.25", got)
	}
}
