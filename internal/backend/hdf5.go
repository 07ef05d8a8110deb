package backend

import (
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// hdf5Backend is a contract-only stand-in for an HDF5 dataset/attribute
// decoder; see hdf4.go's doc comment for the general rationale. Every
// entry point reports NoHDF5Support.
//
// Open Question resolution (spec.md §9): the source's read_char_array
// omits HDF5 support; this module's policy (documented in DESIGN.md) is
// to implement it rather than carry the omission forward — char arrays
// route through the same special-type element-wise iteration as every
// other backend's char arrays once HDF5 support exists. Until a real
// HDF5 decoder is wired in, that path is unreachable (NoHDF5Support fires
// first), but the contract does not special-case char arrays as
// unsupported.
type hdf5Backend struct{}

func errNoHDF5() error { return errs.New(errs.NoHDF5Support, "HDF5 support is not compiled into this build") }

func (hdf5Backend) ReadInt8(ctx *ReadCtx) (coerce.Raw, error)   { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadUint8(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadInt16(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadUint16(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadInt32(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadUint32(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadInt64(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadUint64(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadFloat(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadDouble(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF5() }
func (hdf5Backend) ReadChar(ctx *ReadCtx) (byte, error)         { return 0, errNoHDF5() }
func (hdf5Backend) ReadString(ctx *ReadCtx, dst []byte) (int, error) { return 0, errNoHDF5() }
func (hdf5Backend) ReadBits(ctx *ReadCtx, bitOffset, bitSize int64) (uint64, error) {
	return 0, errNoHDF5()
}
func (hdf5Backend) ReadBytes(ctx *ReadCtx, byteOffset, length int64) ([]byte, error) {
	return nil, errNoHDF5()
}
func (hdf5Backend) HonorsOrdering() bool { return false }
func (hdf5Backend) ReadArray(ctx *ReadCtx, elemReadType typemodel.ReadType, numElements int64, ordering typemodel.Ordering) ([]coerce.Raw, error) {
	return nil, errNoHDF5()
}

// ReadPartialArray documents spec.md §6's HDF5 restriction: partial
// reads must correspond to a contiguous hyperslab expressible as
// multi-dimensional start/count, and are unsupported outright for HDF5
// attributes; both become concrete checks once a real decoder is wired
// in (see hdf4.go's parallel note).
func (hdf5Backend) ReadPartialArray(ctx *ReadCtx, elemReadType typemodel.ReadType, offset, length int64) ([]coerce.Raw, error) {
	return nil, errNoHDF5()
}
