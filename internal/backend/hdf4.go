package backend

import (
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// hdf4Backend is a contract-only stand-in for an HDF4 SDS/Vdata/GRImage
// decoder (spec.md §1: "per-backend bit/byte decoders for HDF4 ...
// specified only by the interface the core consumes from them"). No such
// decoder is wired into this module, so every entry point reports
// NoHDF4Support, the environmental error class spec.md §7 assigns to
// "missing optional backend".
//
// Partial reads are unsupported for HDF4 Vdata and for HDF4 attributes
// per spec.md §6; ReadPartialArray documents that restriction even
// though the underlying decoder is absent, so a future wiring of a real
// HDF4 library inherits the correct contract shape immediately.
type hdf4Backend struct{}

func errNoHDF4() error { return errs.New(errs.NoHDF4Support, "HDF4 support is not compiled into this build") }

func (hdf4Backend) ReadInt8(ctx *ReadCtx) (coerce.Raw, error)   { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadUint8(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadInt16(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadUint16(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadInt32(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadUint32(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadInt64(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadUint64(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadFloat(ctx *ReadCtx) (coerce.Raw, error)  { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadDouble(ctx *ReadCtx) (coerce.Raw, error) { return coerce.Raw{}, errNoHDF4() }
func (hdf4Backend) ReadChar(ctx *ReadCtx) (byte, error)         { return 0, errNoHDF4() }
func (hdf4Backend) ReadString(ctx *ReadCtx, dst []byte) (int, error) { return 0, errNoHDF4() }
func (hdf4Backend) ReadBits(ctx *ReadCtx, bitOffset, bitSize int64) (uint64, error) {
	return 0, errNoHDF4()
}
func (hdf4Backend) ReadBytes(ctx *ReadCtx, byteOffset, length int64) ([]byte, error) {
	return nil, errNoHDF4()
}
func (hdf4Backend) HonorsOrdering() bool { return false }
func (hdf4Backend) ReadArray(ctx *ReadCtx, elemReadType typemodel.ReadType, numElements int64, ordering typemodel.Ordering) ([]coerce.Raw, error) {
	return nil, errNoHDF4()
}

// ReadPartialArray additionally documents spec.md §6's HDF4 Vdata/
// attribute restriction: even with a decoder wired in, a partial read on
// those object kinds must fail with InvalidType, not merely NoHDF4Support,
// once HDF4 support exists. Left as NoHDF4Support here since no decoder
// is present to distinguish object kinds.
func (hdf4Backend) ReadPartialArray(ctx *ReadCtx, elemReadType typemodel.ReadType, offset, length int64) ([]coerce.Raw, error) {
	return nil, errNoHDF4()
}
