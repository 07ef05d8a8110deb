// Package backend implements C4, the pure dispatch on a dynamic-type
// node's format tag to the reader that owns its physical representation
// (spec.md §4.4). Per spec.md §9's design note, the source's backend tag
// + switch is replaced with small capability contracts (ScalarReader,
// BitReader, ArrayReader, PartialArrayReader) implemented once per
// backend, looked up through a static dispatch table keyed by
// typemodel.Format — preserving the "exhaustive match is a compile-time
// property" invariant statically instead of relying on a runtime switch
// that forgets a case.
package backend

import (
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/dynamictype"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// Source supplies the raw bytes a format-agnostic backend (ASCII,
// binary, memory) reads from; self-describing backends (NetCDF, CDF,
// GRIB, HDF4/5) instead read through dynamictype.Node.Native and ignore
// Source entirely.
type Source interface {
	// Bytes returns the full product content. For an mmap'd product this
	// is the mapped region; for a buffered product it is read once at
	// open time (pkg/options.UseMmap selects between the two at the
	// pkg/product layer, not here).
	Bytes() []byte
}

// ReadCtx bundles everything a backend needs to resolve one primitive
// read: the dynamic-type node carrying the resolved offset/size, and the
// byte source it lives in.
type ReadCtx struct {
	Node   *dynamictype.Node
	Source Source
}

// ScalarReader implements the primitive per-read-type fetches of
// spec.md §4.4: "read_int8..read_uint64, read_float, read_double,
// read_char, read_string".
type ScalarReader interface {
	ReadInt8(ctx *ReadCtx) (coerce.Raw, error)
	ReadUint8(ctx *ReadCtx) (coerce.Raw, error)
	ReadInt16(ctx *ReadCtx) (coerce.Raw, error)
	ReadUint16(ctx *ReadCtx) (coerce.Raw, error)
	ReadInt32(ctx *ReadCtx) (coerce.Raw, error)
	ReadUint32(ctx *ReadCtx) (coerce.Raw, error)
	ReadInt64(ctx *ReadCtx) (coerce.Raw, error)
	ReadUint64(ctx *ReadCtx) (coerce.Raw, error)
	ReadFloat(ctx *ReadCtx) (coerce.Raw, error)
	ReadDouble(ctx *ReadCtx) (coerce.Raw, error)
	ReadChar(ctx *ReadCtx) (byte, error)
	ReadString(ctx *ReadCtx, dst []byte) (int, error)
}

// BitReader implements "read_bits" and "read_bytes": raw access below
// the granularity of a typed scalar, used by the expression evaluator's
// `bytes()` function and by special-type decoding.
type BitReader interface {
	ReadBits(ctx *ReadCtx, bitOffset, bitSize int64) (uint64, error)
	ReadBytes(ctx *ReadCtx, byteOffset, length int64) ([]byte, error)
}

// ArrayReader implements a whole-array bulk read. HonorsOrdering reports
// whether ReadArray itself lays out the requested ordering; backends that
// always produce C order return false and internal/arrayengine transposes
// afterward. Every backend in this module returns false.
type ArrayReader interface {
	HonorsOrdering() bool
	ReadArray(ctx *ReadCtx, elemReadType typemodel.ReadType, numElements int64, ordering typemodel.Ordering) ([]coerce.Raw, error)
}

// PartialArrayReader implements a hyperslab/contiguous partial read.
// Backends that cannot express a non-contiguous partial read (HDF5
// datasets, HDF4 SDS/GRImage per spec.md §6) reject it with InvalidType
// rather than silently materializing the whole array.
type PartialArrayReader interface {
	ReadPartialArray(ctx *ReadCtx, elemReadType typemodel.ReadType, offset, length int64) ([]coerce.Raw, error)
}

// Backend is the full capability set a format implements. Not every
// backend implements every capability fully — the contract-only HDF4 and
// HDF5 backends (per spec.md §1's "out of scope... specified only by the
// interface the core consumes") report NoHDF4Support/NoHDF5Support, and
// GRIB reports an ordinary error (InvalidType, Product) for an operation
// it does not support, rather than panicking on an unimplemented method,
// keeping dispatch itself total.
type Backend interface {
	ScalarReader
	BitReader
	ArrayReader
	PartialArrayReader
}

// dispatch is the static table spec.md §9 calls for: one entry per
// typemodel.Format, populated at package init, never mutated afterward.
var dispatch = map[typemodel.Format]Backend{
	typemodel.FormatASCII:  asciiBackend{},
	typemodel.FormatBinary: binaryBackend{},
	typemodel.FormatMemory: memoryBackend{},
	typemodel.FormatXML:    xmlBackend{},
	typemodel.FormatNetCDF: netcdfBackend{},
	typemodel.FormatCDF:    cdfBackend{},
	typemodel.FormatGRIB:   gribBackend{},
	typemodel.FormatHDF4:   hdf4Backend{},
	typemodel.FormatHDF5:   hdf5Backend{},
}

// For implements spec.md §4.4's dispatch: "Dispatch must be exhaustive:
// an unreachable backend/type combination is a bug, not a runtime
// error." Every typemodel.Format constant has a dispatch entry installed
// at init, so the only way For returns an error is a Format value outside
// the declared enum — a programmer error, reported as InvalidArgument
// rather than panicking, consistent with spec.md §7's classification.
func For(format typemodel.Format) (Backend, error) {
	b, ok := dispatch[format]
	if !ok {
		return nil, errs.New(errs.InvalidArgument, "backend: unreachable format tag %d", format)
	}
	return b, nil
}

// unsupportedScalar is the shared "this backend cannot represent this
// read-type" error (spec.md §4.4: "Backends that physically cannot
// represent a read-type ... report InvalidType").
func unsupportedScalar(backendName string, rt typemodel.ReadType) error {
	return errs.New(errs.InvalidType, "%s backend cannot represent read-type %s", backendName, rt)
}
