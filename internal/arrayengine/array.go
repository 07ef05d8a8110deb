// Package arrayengine implements C6, spec.md §4.6: whole-array and
// partial ("hyperslab") array reads, the C<->Fortran transposition, and
// the element-wise iteration path "special" element types require.
package arrayengine

import (
	"github.com/scicoda/coda/internal/backend"
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// ElementReader reads one array element by linear C-order index, used in
// place of a backend's bulk read whenever the element type is "special"
// (spec.md §4.6: "iterate elements: move a child cursor to element i,
// invoke the scalar read, store, advance. This bypasses any backend's
// bulk-read path because specials need per-element evaluation").
type ElementReader func(index int64) (coerce.Raw, error)

// ReadWhole implements spec.md §4.6's whole-array read. When special is
// non-nil every element is fetched through it; otherwise the backend's
// bulk ArrayReader is used, transposing afterward if the backend does not
// honor ordering itself and Fortran order was requested.
func ReadWhole(b backend.Backend, ctx *backend.ReadCtx, elemRT typemodel.ReadType, numElements int64, dims []int64, ordering typemodel.Ordering, special ElementReader) ([]coerce.Raw, error) {
	if special != nil {
		out := make([]coerce.Raw, numElements)
		for i := int64(0); i < numElements; i++ {
			v, err := special(i)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		if ordering == typemodel.OrderFortran {
			return Transpose(dims, out), nil
		}
		return out, nil
	}

	data, err := b.ReadArray(ctx, elemRT, numElements, ordering)
	if err != nil {
		return nil, err
	}
	if ordering == typemodel.OrderFortran && !b.HonorsOrdering() {
		data = Transpose(dims, data)
	}
	return data, nil
}

// ReadPartial implements spec.md §4.6's partial-array read: C-order
// only, with boundary checking enforced unconditionally ("even when the
// global boundary option is off").
func ReadPartial(b backend.Backend, ctx *backend.ReadCtx, elemRT typemodel.ReadType, n, offset, length int64, special ElementReader) ([]coerce.Raw, error) {
	if offset < 0 || offset >= n {
		if !(n == 0 && offset == 0 && length == 0) {
			return nil, errs.New(errs.ArrayOutOfBounds, "partial array read: offset %d out of range [0,%d)", offset, n)
		}
	}
	if offset+length > n {
		return nil, errs.New(errs.ArrayOutOfBounds, "partial array read: [%d,%d) exceeds array length %d", offset, offset+length, n)
	}

	if special != nil {
		out := make([]coerce.Raw, length)
		for i := int64(0); i < length; i++ {
			v, err := special(offset + i)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return b.ReadPartialArray(ctx, elemRT, offset, length)
}
