package coerce

import "github.com/scicoda/coda/internal/typemodel"

// Raw is the value a backend's scalar read produced, still tagged with
// its stored read-type. Widen and AsDouble consume it; backends
// (internal/backend) produce it, and pkg/cursor produces double-kind
// values after a conversion or special-type read.
type Raw struct {
	Kind typemodel.ReadType
	I    int64  // valid for every signed/unsigned integer kind <= 64 bits,
	// sign-extended or zero-extended to 64 bits by the backend
	U  uint64  // the unsigned view of the same bits as I, for unsigned kinds
	F32 float32
	F64 float64
}

// RawInt builds a Raw for a signed integer kind.
func RawInt(kind typemodel.ReadType, v int64) Raw { return Raw{Kind: kind, I: v, U: uint64(v)} }

// RawUint builds a Raw for an unsigned integer kind.
func RawUint(kind typemodel.ReadType, v uint64) Raw { return Raw{Kind: kind, I: int64(v), U: v} }

// RawFloat32 builds a Raw for the float kind.
func RawFloat32(v float32) Raw { return Raw{Kind: typemodel.RTFloat, F32: v} }

// RawFloat64 builds a Raw for the double kind.
func RawFloat64(v float64) Raw { return Raw{Kind: typemodel.RTDouble, F64: v} }
