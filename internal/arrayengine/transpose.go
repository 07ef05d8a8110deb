package arrayengine

import "github.com/scicoda/coda/internal/coerce"

// Transpose implements spec.md §4.6's transposition algorithm: given a
// C-order (row-major) buffer of len(dims) rank and per-dimension extents
// dims[0..r) (dims[0] slowest-varying, dims[r-1] fastest), produce the
// Fortran-order (column-major, dims[0] fastest-varying) permutation of
// the same data.
//
// It walks a Fortran index vector — idx[0] advances fastest — computing
// each step's corresponding C-order linear offset via the precomputed
// row-major strides (the "dimensional borrow vector" of spec.md §4.6:
// prefix products of the extents). When idx[d] rolls past dims[d]-1 it
// resets to 0 and carries into idx[d+1]; ties resolve at the
// slowest-varying dimension, i.e. the carry chain runs low-to-high index.
//
// Calling Transpose a second time with dims reversed inverts the first
// call (spec.md §8 property 8, "transpose(transpose(A, dims),
// reverse(dims)) == A"): reversing the extents reinterprets the
// now-Fortran-ordered buffer as the base case for the opposite walk.
func Transpose(dims []int64, data []coerce.Raw) []coerce.Raw {
	r := len(dims)
	if r <= 1 {
		out := make([]coerce.Raw, len(data))
		copy(out, data)
		return out
	}

	cStride := make([]int64, r)
	cStride[r-1] = 1
	for d := r - 2; d >= 0; d-- {
		cStride[d] = cStride[d+1] * dims[d+1]
	}

	idx := make([]int64, r)
	out := make([]coerce.Raw, len(data))
	for k := range out {
		var cLinear int64
		for d := 0; d < r; d++ {
			cLinear += idx[d] * cStride[d]
		}
		out[k] = data[cLinear]

		for d := 0; d < r; d++ {
			idx[d]++
			if idx[d] < dims[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}

// ReverseDims returns a new slice with dims in reverse order, the
// companion Transpose's own doc comment and spec.md §8 property 8 call for.
func ReverseDims(dims []int64) []int64 {
	out := make([]int64, len(dims))
	for i, d := range dims {
		out[len(dims)-1-i] = d
	}
	return out
}
