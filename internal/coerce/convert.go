package coerce

import "github.com/scicoda/coda/internal/typemodel"

// ApplyConversion implements spec.md §4.5 step 5: for a float/double read
// of a Number type with a declared conversion, recurse to the double
// pipeline, substitute NaN at the invalid sentinel, then scale.
func ApplyConversion(raw float64, conv *typemodel.Conversion) float64 {
	return conv.Apply(raw)
}

// EffectiveReadType implements spec.md §4.5 step 2: when conversions are
// enabled and the type declares one, every read widens through double
// regardless of the stored read-type.
func EffectiveReadType(stored typemodel.ReadType, hasConversion, conversionsEnabled bool) typemodel.ReadType {
	if conversionsEnabled && hasConversion {
		return typemodel.RTDouble
	}
	return stored
}
