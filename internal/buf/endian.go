// Package buf contains endian-safe, bounds-safe decoding helpers shared by
// every byte-oriented backend. It deliberately knows nothing about product
// types or cursors; it is the lowest layer every backend builds on.
package buf

import (
	"encoding/binary"
	"math"
)

// U16 reads a uint16 from b in the given byte order. Returns 0 when b is
// too short; callers that need an error must check length with Has first.
func U16(b []byte, bo binary.ByteOrder) uint16 {
	if len(b) < 2 {
		return 0
	}
	return bo.Uint16(b)
}

// U32 reads a uint32 from b in the given byte order.
func U32(b []byte, bo binary.ByteOrder) uint32 {
	if len(b) < 4 {
		return 0
	}
	return bo.Uint32(b)
}

// U64 reads a uint64 from b in the given byte order.
func U64(b []byte, bo binary.ByteOrder) uint64 {
	if len(b) < 8 {
		return 0
	}
	return bo.Uint64(b)
}

// I16 reads an int16 from b in the given byte order.
func I16(b []byte, bo binary.ByteOrder) int16 { return int16(U16(b, bo)) }

// I32 reads an int32 from b in the given byte order.
func I32(b []byte, bo binary.ByteOrder) int32 { return int32(U32(b, bo)) }

// I64 reads an int64 from b in the given byte order.
func I64(b []byte, bo binary.ByteOrder) int64 { return int64(U64(b, bo)) }

// F32 reads an IEEE-754 single-precision float from b in the given byte order.
func F32(b []byte, bo binary.ByteOrder) float32 {
	return math.Float32frombits(U32(b, bo))
}

// F64 reads an IEEE-754 double-precision float from b in the given byte order.
func F64(b []byte, bo binary.ByteOrder) float64 {
	return math.Float64frombits(U64(b, bo))
}

// PutU16 writes a uint16 into b (len(b) >= 2) in the given byte order.
// Provided for backends that stage values in a scratch buffer before a
// coercion step; CODA itself has no write path onto the product file.
func PutU16(b []byte, v uint16, bo binary.ByteOrder) { bo.PutUint16(b, v) }

// PutU32 writes a uint32 into b (len(b) >= 4) in the given byte order.
func PutU32(b []byte, v uint32, bo binary.ByteOrder) { bo.PutUint32(b, v) }

// PutU64 writes a uint64 into b (len(b) >= 8) in the given byte order.
func PutU64(b []byte, v uint64, bo binary.ByteOrder) { bo.PutUint64(b, v) }
