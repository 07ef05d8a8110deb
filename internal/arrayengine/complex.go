package arrayengine

import (
	"math"

	"github.com/scicoda/coda/internal/coerce"
)

// ComplexPairReader reads one complex array element as an interleaved
// (real, imag) pair, the "pairs" form of spec.md §4.6 ("the 'pairs' form
// stores (re, im) contiguously per element").
type ComplexPairReader func(index int64) (re, im float64, err error)

// ReadComplexPairs reads a whole complex array in the interleaved form,
// producing 2*numElements float64 values: [re0, im0, re1, im1, ...].
func ReadComplexPairs(read ComplexPairReader, numElements int64, ordering ordering) ([]float64, error) {
	out := make([]float64, 2*numElements)
	for i := int64(0); i < numElements; i++ {
		re, im, err := read(i)
		if err != nil {
			return nil, err
		}
		out[2*i] = re
		out[2*i+1] = im
	}
	if ordering.fortran && ordering.dims != nil {
		out = transposePairs(ordering.dims, out)
	}
	return out, nil
}

// ReadComplexSplit reads a whole complex array in the "split" form:
// reals into one buffer, imaginaries into another, per spec.md §4.6
// ("the split variant uses the same generic array walker as specials,
// writing a 16-byte pair into a local scratch and copying each half into
// its respective destination"). This port keeps the two halves as
// separate float64 slices rather than a raw 16-byte scratch buffer, since
// Go's array engine never deals in untyped byte scratch elsewhere either.
func ReadComplexSplit(read ComplexPairReader, numElements int64, ordering ordering) (reals, imags []float64, err error) {
	reals = make([]float64, numElements)
	imags = make([]float64, numElements)
	for i := int64(0); i < numElements; i++ {
		re, im, rerr := read(i)
		if rerr != nil {
			return nil, nil, rerr
		}
		reals[i] = re
		imags[i] = im
	}
	if ordering.fortran && ordering.dims != nil {
		reals = transposeFloats(ordering.dims, reals)
		imags = transposeFloats(ordering.dims, imags)
	}
	return reals, imags, nil
}

// ordering bundles the two pieces of information ReadComplexPairs/Split
// need to decide whether and how to transpose: whether Fortran order was
// requested, and (if so) the array's dimensions.
type ordering struct {
	fortran bool
	dims    []int64
}

// Ordering constructs an ordering value; exported so pkg/cursor can build
// one without reaching into this package's unexported fields.
func Ordering(fortran bool, dims []int64) ordering {
	return ordering{fortran: fortran, dims: dims}
}

func transposeFloats(dims []int64, data []float64) []float64 {
	raws := make([]coerce.Raw, len(data))
	for i, f := range data {
		raws[i] = coerce.RawFloat64(f)
	}
	raws = Transpose(dims, raws)
	out := make([]float64, len(data))
	for i, r := range raws {
		out[i] = r.F64
	}
	return out
}

// transposePairs transposes an interleaved (re,im) buffer by treating
// each pair as one logical element during the permutation walk.
func transposePairs(dims []int64, data []float64) []float64 {
	n := len(data) / 2
	pairs := make([]coerce.Raw, n)
	for i := 0; i < n; i++ {
		// pack both halves into one Raw via F64/I fields (I holds the
		// imaginary half's exact bit pattern) so the single generic
		// Transpose walk moves re/im together as one logical element.
		pairs[i] = coerce.Raw{F64: data[2*i], I: int64(math.Float64bits(data[2*i+1]))}
	}
	pairs = Transpose(dims, pairs)
	out := make([]float64, len(data))
	for i, p := range pairs {
		out[2*i] = p.F64
		out[2*i+1] = math.Float64frombits(uint64(p.I))
	}
	return out
}
