package typemodel

import "github.com/scicoda/coda/pkg/expr"

// MaxRank is D_arr of spec.md §3: the fixed maximum array rank.
const MaxRank = 8

// Dim is one dimension's extent: either a compile-time literal or a
// dim_expr evaluated against a live cursor.
type Dim struct {
	Literal  int64      // valid iff Expr == nil
	Expr     *expr.Node // non-nil for a dynamic extent
}

// IsDynamic reports whether this dimension requires cursor evaluation.
func (d Dim) IsDynamic() bool { return d.Expr != nil }

// Array is the Array subclass of spec.md §3.
type Array struct {
	Base
	Element Type
	Rank    int
	Dims    [MaxRank]Dim // only Dims[:Rank] is meaningful
	// Ordering is the array's own native storage order; backends that
	// always produce C order (most self-describing formats) ignore this
	// and let internal/arrayengine transpose on request.
	Ordering Ordering
}

// Ordering selects C (row-major, fastest-varying last dimension) or
// Fortran (column-major, fastest-varying first dimension) layout, per
// spec.md's glossary entry "Array ordering".
type Ordering int

const (
	OrderC Ordering = iota
	OrderFortran
)

// NewArray constructs an Array type. Rank must be in [0, MaxRank] and
// element must be non-nil, per spec.md §4.1's construction validation
// ("array base-type non-null").
func NewArray(name string, bitSize BitSize, attrs *Record, format Format, element Type, rank int, dims []Dim, order Ordering) (*Array, error) {
	if element == nil {
		return nil, newf("typemodel: %q: array element type must not be nil", name)
	}
	if rank < 0 || rank > MaxRank {
		return nil, newf("typemodel: %q: array rank %d exceeds maximum %d", name, rank, MaxRank)
	}
	if len(dims) != rank {
		return nil, newf("typemodel: %q: %d dims provided for rank %d", name, len(dims), rank)
	}
	base, err := NewBase(name, ClassArray, RTBytes, bitSize, attrs, format)
	if err != nil {
		return nil, err
	}
	a := &Array{Base: base, Element: element, Rank: rank, Ordering: order}
	copy(a.Dims[:], dims)
	return a, nil
}

// FixedDim returns the literal extent of dimension k if it is static,
// reporting ok=false for a dynamic dimension (callers must route those
// through a cursor; spec.md §4.1: "Dynamic sizes are not answered here").
func (a *Array) FixedDim(k int) (extent int64, ok bool) {
	if k < 0 || k >= a.Rank {
		return 0, false
	}
	d := a.Dims[k]
	if d.IsDynamic() {
		return 0, false
	}
	return d.Literal, true
}
