package coerce

import "math"

// VSFInteger implements spec.md §4.5 step 6's vsf_integer interception:
// `value * 10^(-scale_factor)`, given the two base fields already read by
// the caller (pkg/cursor, which knows how to navigate to
// `scale_factor:int32` and `value:double`).
func VSFInteger(scaleFactor int32, value float64) float64 {
	return value * math.Pow(10, -float64(scaleFactor))
}

// Time implements spec.md §4.5 step 6's time interception: the caller
// (pkg/cursor) evaluates the special type's value_expr against a child
// cursor positioned on the base type and passes the already-computed
// seconds-since-epoch value through unchanged; this function exists so
// every special-type double read funnels through one named entry point
// rather than being inlined at each call site.
func Time(secondsSinceEpoch float64) float64 {
	return secondsSinceEpoch
}
