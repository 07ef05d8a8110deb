package coerce

import (
	"fmt"
	"math"

	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// Number is the set of Go native types internal/backend's scalar reads
// widen into; the single generic Widen below is spec.md §9's "one
// generator [that] emits the 40+ scalar/array variants" collapsed to one
// function body parameterized over this constraint.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// dstReadType maps a Go destination type parameter to its typemodel
// ReadType tag, needed to consult the Permitted lattice.
func dstReadType[T Number]() typemodel.ReadType {
	var z T
	switch any(z).(type) {
	case int8:
		return typemodel.RTInt8
	case uint8:
		return typemodel.RTUint8
	case int16:
		return typemodel.RTInt16
	case uint16:
		return typemodel.RTUint16
	case int32:
		return typemodel.RTInt32
	case uint32:
		return typemodel.RTUint32
	case int64:
		return typemodel.RTInt64
	case uint64:
		return typemodel.RTUint64
	case float32:
		return typemodel.RTFloat
	case float64:
		return typemodel.RTDouble
	}
	panic("coerce: unreachable destination type")
}

// Widen implements spec.md §4.5 steps 3-4: validate the stored read-type
// against the widening lattice for destination T, then cast the raw
// value in the destination register.
//
// uint64 stored values widened to float/double go through the signed
// int64 intermediate (spec.md §4.5 step 3, §9 Open Question #2): this
// matches the source's C-cast-via-signed behavior bit-for-bit, including
// the overflow wraparound for values >= 2^63, preserved deliberately per
// spec.md's instruction not to guess past what it states.
func Widen[T Number](raw Raw, dst string) (T, error) {
	dstRT := dstReadType[T]()
	if !Permitted(dstRT, raw.Kind) {
		return 0, errs.New(errs.InvalidType, "cannot read %s as %s (stored read-type %s not in widening lattice for %s)",
			dst, dstRT, raw.Kind, dstRT)
	}
	isFloatDst := dstRT == typemodel.RTFloat || dstRT == typemodel.RTDouble
	switch raw.Kind {
	case typemodel.RTInt8, typemodel.RTInt16, typemodel.RTInt32, typemodel.RTInt64:
		return T(raw.I), nil
	case typemodel.RTUint8, typemodel.RTUint16, typemodel.RTUint32:
		return T(raw.U), nil
	case typemodel.RTUint64:
		if isFloatDst {
			return T(int64(raw.U)), nil // cast-via-signed, see doc comment
		}
		return T(raw.U), nil
	case typemodel.RTFloat:
		return T(raw.F32), nil
	case typemodel.RTDouble:
		return T(raw.F64), nil
	}
	return 0, fmt.Errorf("coerce: unreachable stored read-type %s", raw.Kind)
}

// AsDouble converts raw to a float64 unconditionally (used internally by
// the conversion pipeline and by special-type interception, which always
// operate in double precision regardless of the caller's ultimate
// requested type).
func AsDouble(raw Raw) float64 {
	switch raw.Kind {
	case typemodel.RTInt8, typemodel.RTInt16, typemodel.RTInt32, typemodel.RTInt64:
		return float64(raw.I)
	case typemodel.RTUint8, typemodel.RTUint16, typemodel.RTUint32:
		return float64(raw.U)
	case typemodel.RTUint64:
		return float64(int64(raw.U))
	case typemodel.RTFloat:
		return float64(raw.F32)
	case typemodel.RTDouble:
		return raw.F64
	}
	return math.NaN()
}
