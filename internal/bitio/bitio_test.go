package bitio

import "testing"

func TestReadUintByteAligned(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67}
	got, err := ReadUint(data, 0, 32, BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x01234567 {
		t.Fatalf("got 0x%x want 0x01234567", got)
	}
}

func TestReadUintSubByte(t *testing.T) {
	// 0b1010_1100 -> top 3 bits = 0b101 = 5, next 5 bits = 0b01100 = 12
	data := []byte{0xAC}
	top, err := ReadUint(data, 0, 3, BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if top != 5 {
		t.Fatalf("top = %d, want 5", top)
	}
	rest, err := ReadUint(data, 3, 5, BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if rest != 12 {
		t.Fatalf("rest = %d, want 12", rest)
	}
}

func TestReadIntSignExtend(t *testing.T) {
	// -1 in 4 bits is 0b1111
	data := []byte{0xF0}
	got, err := ReadInt(data, 0, 4, BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if got != -1 {
		t.Fatalf("got %d want -1", got)
	}
}

func TestReadUintOutOfBounds(t *testing.T) {
	data := []byte{0x00}
	if _, err := ReadUint(data, 0, 16, BigEndian); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestReadUintLittleEndian16(t *testing.T) {
	data := []byte{0x34, 0x12}
	got, err := ReadUint(data, 0, 16, LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x1234 {
		t.Fatalf("got 0x%x want 0x1234", got)
	}
}
