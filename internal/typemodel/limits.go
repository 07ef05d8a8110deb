package typemodel

// Limits named per spec.md §3's invariants; mirrors pkg/expr.Limits'
// named-constant style rather than scattering magic numbers through the
// cursor and array-engine packages that consume them.
const (
	// MaxArrayRank is D_arr: the fixed maximum array rank.
	MaxArrayRank = MaxRank
	// MaxCursorDepth is D_cur: the fixed maximum cursor stack depth.
	MaxCursorDepth = 32
)
