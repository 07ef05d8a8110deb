package backend

import (
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// GRIBValue is the contract this module consumes from a GRIB message
// decoder (spec.md §1: out of scope beyond this interface). GRIB only
// ever emits float-precision grid values, per spec.md §4.4 ("GRIB only
// emits float"); every other numeric read-type reports InvalidType.
type GRIBValue interface {
	ReadAt(index int64) (float32, error)
}

type gribBackend struct{}

func (gribBackend) value(ctx *ReadCtx) (GRIBValue, error) {
	v, ok := ctx.Node.Native.(GRIBValue)
	if !ok || v == nil {
		return nil, errs.New(errs.Product, "grib: node has no bound message handle")
	}
	return v, nil
}

func (gribBackend) ReadInt8(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTInt8)
}
func (gribBackend) ReadUint8(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTUint8)
}
func (gribBackend) ReadInt16(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTInt16)
}
func (gribBackend) ReadUint16(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTUint16)
}
func (gribBackend) ReadInt32(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTInt32)
}
func (gribBackend) ReadUint32(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTUint32)
}
func (gribBackend) ReadInt64(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTInt64)
}
func (gribBackend) ReadUint64(ctx *ReadCtx) (coerce.Raw, error) {
	return coerce.Raw{}, unsupportedScalar("grib", typemodel.RTUint64)
}

func (g gribBackend) ReadFloat(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := g.value(ctx)
	if err != nil {
		return coerce.Raw{}, err
	}
	f, err := v.ReadAt(0)
	if err != nil {
		return coerce.Raw{}, errs.New(errs.FileRead, "grib: %v", err)
	}
	return coerce.RawFloat32(f), nil
}

func (g gribBackend) ReadDouble(ctx *ReadCtx) (coerce.Raw, error) {
	raw, err := g.ReadFloat(ctx)
	if err != nil {
		return coerce.Raw{}, err
	}
	return coerce.RawFloat64(float64(raw.F32)), nil
}

func (gribBackend) ReadChar(ctx *ReadCtx) (byte, error) {
	return 0, unsupportedScalar("grib", typemodel.RTChar)
}
func (gribBackend) ReadString(ctx *ReadCtx, dst []byte) (int, error) {
	return 0, unsupportedScalar("grib", typemodel.RTString)
}
func (gribBackend) ReadBits(ctx *ReadCtx, bitOffset, bitSize int64) (uint64, error) {
	return 0, errs.New(errs.InvalidType, "grib: read_bits is not applicable to a message node")
}
func (gribBackend) ReadBytes(ctx *ReadCtx, byteOffset, length int64) ([]byte, error) {
	return nil, errs.New(errs.InvalidType, "grib: raw byte read is not applicable to a message node")
}

func (gribBackend) HonorsOrdering() bool { return false }

func (g gribBackend) ReadArray(ctx *ReadCtx, elemReadType typemodel.ReadType, numElements int64, _ typemodel.Ordering) ([]coerce.Raw, error) {
	if elemReadType != typemodel.RTFloat && elemReadType != typemodel.RTDouble {
		return nil, unsupportedScalar("grib", elemReadType)
	}
	v, err := g.value(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]coerce.Raw, numElements)
	for i := int64(0); i < numElements; i++ {
		f, err := v.ReadAt(i)
		if err != nil {
			return nil, errs.New(errs.FileRead, "grib: %v", err)
		}
		if elemReadType == typemodel.RTDouble {
			out[i] = coerce.RawFloat64(float64(f))
		} else {
			out[i] = coerce.RawFloat32(f)
		}
	}
	return out, nil
}

func (g gribBackend) ReadPartialArray(ctx *ReadCtx, elemReadType typemodel.ReadType, offset, length int64) ([]coerce.Raw, error) {
	if elemReadType != typemodel.RTFloat && elemReadType != typemodel.RTDouble {
		return nil, unsupportedScalar("grib", elemReadType)
	}
	v, err := g.value(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]coerce.Raw, length)
	for i := int64(0); i < length; i++ {
		f, err := v.ReadAt(offset + i)
		if err != nil {
			return nil, errs.New(errs.FileRead, "grib: %v", err)
		}
		if elemReadType == typemodel.RTDouble {
			out[i] = coerce.RawFloat64(float64(f))
		} else {
			out[i] = coerce.RawFloat32(f)
		}
	}
	return out, nil
}
