package backend

import (
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// NetCDFVariable is the contract this module consumes from a NetCDF
// decoder (spec.md §1: "per-backend bit/byte decoders for ... NetCDF ...
// specified only by the interface the core consumes from them"). A real
// deployment wires a CGo or pure-Go netCDF-classic reader behind this
// interface; internal/backend never parses CDF/HDF headers itself.
type NetCDFVariable interface {
	ReadAt(index int64) (float64, error)
	ReadStringAt(index int64) (string, error)
}

// netcdfBackend implements spec.md §4.4's NetCDF dispatch target. NetCDF
// classic has no native uint64/int64 type, so scalar reads at those
// read-types report InvalidType rather than silently truncating, per
// spec.md §4.4: "Backends that physically cannot represent a read-type...
// report InvalidType."
type netcdfBackend struct{}

func (netcdfBackend) variable(ctx *ReadCtx) (NetCDFVariable, error) {
	v, ok := ctx.Node.Native.(NetCDFVariable)
	if !ok || v == nil {
		return nil, errs.New(errs.Product, "netcdf: node has no bound variable handle")
	}
	return v, nil
}

func (n netcdfBackend) readDouble(ctx *ReadCtx, rt typemodel.ReadType) (coerce.Raw, error) {
	v, err := n.variable(ctx)
	if err != nil {
		return coerce.Raw{}, err
	}
	f, err := v.ReadAt(0)
	if err != nil {
		return coerce.Raw{}, errs.New(errs.FileRead, "netcdf: %v", err)
	}
	switch rt {
	case typemodel.RTFloat:
		return coerce.RawFloat32(float32(f)), nil
	case typemodel.RTDouble:
		return coerce.RawFloat64(f), nil
	default:
		return coerce.RawInt(rt, int64(f)), nil
	}
}

func (n netcdfBackend) ReadInt8(ctx *ReadCtx) (coerce.Raw, error)   { return n.readDouble(ctx, typemodel.RTInt8) }
func (n netcdfBackend) ReadUint8(ctx *ReadCtx) (coerce.Raw, error)  { return n.readDouble(ctx, typemodel.RTUint8) }
func (n netcdfBackend) ReadInt16(ctx *ReadCtx) (coerce.Raw, error)  { return n.readDouble(ctx, typemodel.RTInt16) }
func (n netcdfBackend) ReadUint16(ctx *ReadCtx) (coerce.Raw, error) { return n.readDouble(ctx, typemodel.RTUint16) }
func (n netcdfBackend) ReadInt32(ctx *ReadCtx) (coerce.Raw, error)  { return n.readDouble(ctx, typemodel.RTInt32) }
func (n netcdfBackend) ReadUint32(ctx *ReadCtx) (coerce.Raw, error) { return n.readDouble(ctx, typemodel.RTUint32) }

// ReadInt64 and ReadUint64: NetCDF classic has no 64-bit integer type.
func (netcdfBackend) ReadInt64(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("netcdf", typemodel.RTInt64)
}
func (netcdfBackend) ReadUint64(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("netcdf", typemodel.RTUint64)
}

func (n netcdfBackend) ReadFloat(ctx *ReadCtx) (coerce.Raw, error)  { return n.readDouble(ctx, typemodel.RTFloat) }
func (n netcdfBackend) ReadDouble(ctx *ReadCtx) (coerce.Raw, error) { return n.readDouble(ctx, typemodel.RTDouble) }

func (n netcdfBackend) ReadChar(ctx *ReadCtx) (byte, error) {
	v, err := n.variable(ctx)
	if err != nil {
		return 0, err
	}
	s, err := v.ReadStringAt(0)
	if err != nil || len(s) == 0 {
		return 0, errs.New(errs.FileRead, "netcdf: char read failed: %v", err)
	}
	return s[0], nil
}

func (n netcdfBackend) ReadString(ctx *ReadCtx, dst []byte) (int, error) {
	v, err := n.variable(ctx)
	if err != nil {
		return 0, err
	}
	s, err := v.ReadStringAt(0)
	if err != nil {
		return 0, errs.New(errs.FileRead, "netcdf: %v", err)
	}
	if len(dst) == 0 {
		return 0, errs.New(errs.InvalidArgument, "netcdf: ReadString requires a non-empty destination buffer")
	}
	n2 := copy(dst[:len(dst)-1], s)
	dst[n2] = 0
	return n2, nil
}

func (netcdfBackend) ReadBits(ctx *ReadCtx, bitOffset, bitSize int64) (uint64, error) {
	return 0, errs.New(errs.InvalidType, "netcdf: read_bits is not applicable to a variable-table node")
}

func (netcdfBackend) ReadBytes(ctx *ReadCtx, byteOffset, length int64) ([]byte, error) {
	return nil, errs.New(errs.InvalidType, "netcdf: raw byte read is not applicable to a variable-table node")
}

func (netcdfBackend) HonorsOrdering() bool { return false }

func (n netcdfBackend) ReadArray(ctx *ReadCtx, elemReadType typemodel.ReadType, numElements int64, _ typemodel.Ordering) ([]coerce.Raw, error) {
	v, err := n.variable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]coerce.Raw, numElements)
	for i := int64(0); i < numElements; i++ {
		f, err := v.ReadAt(i)
		if err != nil {
			return nil, errs.New(errs.FileRead, "netcdf: %v", err)
		}
		out[i] = rawFromDouble(f, elemReadType)
	}
	return out, nil
}

func (n netcdfBackend) ReadPartialArray(ctx *ReadCtx, elemReadType typemodel.ReadType, offset, length int64) ([]coerce.Raw, error) {
	v, err := n.variable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]coerce.Raw, length)
	for i := int64(0); i < length; i++ {
		f, err := v.ReadAt(offset + i)
		if err != nil {
			return nil, errs.New(errs.FileRead, "netcdf: %v", err)
		}
		out[i] = rawFromDouble(f, elemReadType)
	}
	return out, nil
}

func rawFromDouble(f float64, rt typemodel.ReadType) coerce.Raw {
	switch rt {
	case typemodel.RTFloat:
		return coerce.RawFloat32(float32(f))
	case typemodel.RTDouble:
		return coerce.RawFloat64(f)
	default:
		return coerce.RawInt(rt, int64(f))
	}
}
