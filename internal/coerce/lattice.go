// Package coerce implements the numeric coercion pipeline of spec.md §4.5:
// the widening lattice that decides which stored read-types a requested
// destination type may accept, plus the conversion (linear scale +
// invalid-value sentinel) and special-type (time/vsf_integer) interception
// layered on top of it.
package coerce

import "github.com/scicoda/coda/internal/typemodel"

// Permitted implements spec.md §4.5 step 3's widening lattice: whether a
// value stored as read-type `stored` may be widened to destination type
// `dst` without loss or reinterpretation.
//
//   - integer dst of width w: exactly the stored types whose range is a
//     subset of range(dst). Signed dst of width w accepts every signed/
//     unsigned stored type with strictly narrower range (and itself);
//     unsigned dst of width w accepts only unsigned stored types of width
//     <= w.
//   - float/double dst: every one of the 10 numeric read-types.
func Permitted(dst, stored typemodel.ReadType) bool {
	if dst == typemodel.RTFloat || dst == typemodel.RTDouble {
		return stored.IsNumeric()
	}
	switch dst {
	case typemodel.RTInt8:
		return stored == typemodel.RTInt8
	case typemodel.RTUint8:
		return stored == typemodel.RTUint8
	case typemodel.RTInt16:
		switch stored {
		case typemodel.RTInt8, typemodel.RTUint8, typemodel.RTInt16:
			return true
		}
		return false
	case typemodel.RTUint16:
		switch stored {
		case typemodel.RTUint8, typemodel.RTUint16:
			return true
		}
		return false
	case typemodel.RTInt32:
		switch stored {
		case typemodel.RTInt8, typemodel.RTUint8, typemodel.RTInt16, typemodel.RTUint16, typemodel.RTInt32:
			return true
		}
		return false
	case typemodel.RTUint32:
		switch stored {
		case typemodel.RTUint8, typemodel.RTUint16, typemodel.RTUint32:
			return true
		}
		return false
	case typemodel.RTInt64:
		switch stored {
		case typemodel.RTInt8, typemodel.RTUint8, typemodel.RTInt16, typemodel.RTUint16,
			typemodel.RTInt32, typemodel.RTUint32, typemodel.RTInt64:
			return true
		}
		return false
	case typemodel.RTUint64:
		switch stored {
		case typemodel.RTUint8, typemodel.RTUint16, typemodel.RTUint32, typemodel.RTUint64:
			return true
		}
		return false
	}
	return false
}
