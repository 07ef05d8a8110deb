package backend

import (
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// CDFVariable is the contract this module consumes from a CDF (Common
// Data Format) decoder, mirroring NetCDFVariable; see netcdf.go's doc
// comment for why this module stops at the interface boundary.
type CDFVariable interface {
	ReadAt(recordIndex int64) (float64, error)
}

// cdfBackend implements spec.md §4.4's CDF dispatch target. Unlike
// NetCDF classic, CDF has a full signed/unsigned 64-bit integer type, so
// every numeric read-type is representable.
type cdfBackend struct{}

func (cdfBackend) variable(ctx *ReadCtx) (CDFVariable, error) {
	v, ok := ctx.Node.Native.(CDFVariable)
	if !ok || v == nil {
		return nil, errs.New(errs.Product, "cdf: node has no bound variable handle")
	}
	return v, nil
}

func (c cdfBackend) read(ctx *ReadCtx, rt typemodel.ReadType) (coerce.Raw, error) {
	v, err := c.variable(ctx)
	if err != nil {
		return coerce.Raw{}, err
	}
	f, err := v.ReadAt(0)
	if err != nil {
		return coerce.Raw{}, errs.New(errs.FileRead, "cdf: %v", err)
	}
	return rawFromDouble(f, rt), nil
}

func (c cdfBackend) ReadInt8(ctx *ReadCtx) (coerce.Raw, error)   { return c.read(ctx, typemodel.RTInt8) }
func (c cdfBackend) ReadUint8(ctx *ReadCtx) (coerce.Raw, error)  { return c.read(ctx, typemodel.RTUint8) }
func (c cdfBackend) ReadInt16(ctx *ReadCtx) (coerce.Raw, error)  { return c.read(ctx, typemodel.RTInt16) }
func (c cdfBackend) ReadUint16(ctx *ReadCtx) (coerce.Raw, error) { return c.read(ctx, typemodel.RTUint16) }
func (c cdfBackend) ReadInt32(ctx *ReadCtx) (coerce.Raw, error)  { return c.read(ctx, typemodel.RTInt32) }
func (c cdfBackend) ReadUint32(ctx *ReadCtx) (coerce.Raw, error) { return c.read(ctx, typemodel.RTUint32) }
func (c cdfBackend) ReadInt64(ctx *ReadCtx) (coerce.Raw, error)  { return c.read(ctx, typemodel.RTInt64) }
func (c cdfBackend) ReadUint64(ctx *ReadCtx) (coerce.Raw, error) { return c.read(ctx, typemodel.RTUint64) }
func (c cdfBackend) ReadFloat(ctx *ReadCtx) (coerce.Raw, error)  { return c.read(ctx, typemodel.RTFloat) }
func (c cdfBackend) ReadDouble(ctx *ReadCtx) (coerce.Raw, error) { return c.read(ctx, typemodel.RTDouble) }

func (cdfBackend) ReadChar(ctx *ReadCtx) (byte, error) {
	return 0, errs.New(errs.InvalidType, "cdf: char read requires a CHAR-typed variable, none bound")
}

func (cdfBackend) ReadString(ctx *ReadCtx, dst []byte) (int, error) {
	return 0, errs.New(errs.InvalidType, "cdf: string read requires a CHAR-typed variable, none bound")
}

func (cdfBackend) ReadBits(ctx *ReadCtx, bitOffset, bitSize int64) (uint64, error) {
	return 0, errs.New(errs.InvalidType, "cdf: read_bits is not applicable to a record-table node")
}

func (cdfBackend) ReadBytes(ctx *ReadCtx, byteOffset, length int64) ([]byte, error) {
	return nil, errs.New(errs.InvalidType, "cdf: raw byte read is not applicable to a record-table node")
}

func (cdfBackend) HonorsOrdering() bool { return false }

func (c cdfBackend) ReadArray(ctx *ReadCtx, elemReadType typemodel.ReadType, numElements int64, _ typemodel.Ordering) ([]coerce.Raw, error) {
	v, err := c.variable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]coerce.Raw, numElements)
	for i := int64(0); i < numElements; i++ {
		f, err := v.ReadAt(i)
		if err != nil {
			return nil, errs.New(errs.FileRead, "cdf: %v", err)
		}
		out[i] = rawFromDouble(f, elemReadType)
	}
	return out, nil
}

func (c cdfBackend) ReadPartialArray(ctx *ReadCtx, elemReadType typemodel.ReadType, offset, length int64) ([]coerce.Raw, error) {
	v, err := c.variable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]coerce.Raw, length)
	for i := int64(0); i < length; i++ {
		f, err := v.ReadAt(offset + i)
		if err != nil {
			return nil, errs.New(errs.FileRead, "cdf: %v", err)
		}
		out[i] = rawFromDouble(f, elemReadType)
	}
	return out, nil
}
