package arrayengine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/typemodel"
)

func rawInts(vs ...int64) []coerce.Raw {
	out := make([]coerce.Raw, len(vs))
	for i, v := range vs {
		out[i] = coerce.RawInt(typemodel.RTInt64, v)
	}
	return out
}

func ints(raws []coerce.Raw) []int64 {
	out := make([]int64, len(raws))
	for i, r := range raws {
		out[i] = r.I
	}
	return out
}

// TestTranspose2x3 checks a known 2x3 C-order layout transposes to the
// matching Fortran-order layout: a 2x3 matrix
//
//	0 1 2
//	3 4 5
//
// read in C order is [0 1 2 3 4 5]; read in Fortran order (column-major,
// dims[0] fastest) is [0 3 1 4 2 5].
func TestTranspose2x3(t *testing.T) {
	dims := []int64{2, 3}
	c := rawInts(0, 1, 2, 3, 4, 5)
	got := ints(Transpose(dims, c))
	want := []int64{0, 3, 1, 4, 2, 5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("transpose mismatch (-want +got):\n%s", diff)
	}
}

// TestTransposeInvolution locks in spec.md §8 property 8: transposing
// twice, with the dims reversed on the second call, recovers the original
// buffer.
func TestTransposeInvolution(t *testing.T) {
	dims := []int64{2, 3, 4}
	n := int64(1)
	for _, d := range dims {
		n *= d
	}
	orig := make([]coerce.Raw, n)
	for i := range orig {
		orig[i] = coerce.RawInt(typemodel.RTInt64, int64(i))
	}

	once := Transpose(dims, orig)
	back := Transpose(ReverseDims(dims), once)

	if diff := cmp.Diff(ints(orig), ints(back)); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTransposeRankOneIsIdentity(t *testing.T) {
	dims := []int64{5}
	orig := rawInts(10, 20, 30, 40, 50)
	got := ints(Transpose(dims, orig))
	want := ints(orig)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rank-1 transpose changed elements (-want +got):\n%s", diff)
	}
}

func TestReverseDims(t *testing.T) {
	got := ReverseDims([]int64{1, 2, 3})
	want := []int64{3, 2, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReverseDims mismatch (-want +got):\n%s", diff)
	}
}
