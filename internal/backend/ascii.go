package backend

import (
	"strconv"
	"strings"

	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// asciiBackend implements spec.md §1's "ASCII records" format: every
// scalar is a run of decimal text at a byte-aligned offset/length. S1's
// end-to-end scenario ("field declared uint16 containing bytes '65535'")
// is this backend's defining case.
type asciiBackend struct{}

func (asciiBackend) text(ctx *ReadCtx) (string, error) {
	data := ctx.Source.Bytes()
	byteOff := ctx.Node.BitOffset / 8
	byteLen := ctx.Node.BitSize / 8
	s, ok := sliceOf(data, byteOff, byteLen)
	if !ok {
		return "", errs.New(errs.OutOfBoundsRead, "ascii: field [%d,%d) exceeds %d-byte buffer", byteOff, byteOff+byteLen, len(data))
	}
	return strings.TrimSpace(string(s)), nil
}

func (a asciiBackend) mappedValue(ctx *ReadCtx, s string) (int64, bool) {
	num, ok := ctx.Node.Type.(*typemodel.Number)
	if !ok {
		return 0, false
	}
	for _, m := range num.ASCIIMap {
		if m.Text == s {
			return m.Value, true
		}
	}
	return 0, false
}

func (a asciiBackend) parseInt(ctx *ReadCtx) (int64, error) {
	s, err := a.text(ctx)
	if err != nil {
		return 0, err
	}
	if v, ok := a.mappedValue(ctx, s); ok {
		return v, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.New(errs.InvalidFormat, "ascii: %q is not a valid integer: %v", s, err)
	}
	return v, nil
}

func (a asciiBackend) parseUint(ctx *ReadCtx) (uint64, error) {
	s, err := a.text(ctx)
	if err != nil {
		return 0, err
	}
	if v, ok := a.mappedValue(ctx, s); ok {
		return uint64(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errs.New(errs.InvalidFormat, "ascii: %q is not a valid unsigned integer: %v", s, err)
	}
	return v, nil
}

func (a asciiBackend) ReadInt8(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseInt(ctx)
	return coerce.RawInt(typemodel.RTInt8, v), err
}
func (a asciiBackend) ReadUint8(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseUint(ctx)
	return coerce.RawUint(typemodel.RTUint8, v), err
}
func (a asciiBackend) ReadInt16(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseInt(ctx)
	return coerce.RawInt(typemodel.RTInt16, v), err
}
func (a asciiBackend) ReadUint16(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseUint(ctx)
	return coerce.RawUint(typemodel.RTUint16, v), err
}
func (a asciiBackend) ReadInt32(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseInt(ctx)
	return coerce.RawInt(typemodel.RTInt32, v), err
}
func (a asciiBackend) ReadUint32(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseUint(ctx)
	return coerce.RawUint(typemodel.RTUint32, v), err
}
func (a asciiBackend) ReadInt64(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseInt(ctx)
	return coerce.RawInt(typemodel.RTInt64, v), err
}
func (a asciiBackend) ReadUint64(ctx *ReadCtx) (coerce.Raw, error) {
	v, err := a.parseUint(ctx)
	return coerce.RawUint(typemodel.RTUint64, v), err
}

func (a asciiBackend) ReadFloat(ctx *ReadCtx) (coerce.Raw, error) {
	s, err := a.text(ctx)
	if err != nil {
		return coerce.Raw{}, err
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return coerce.Raw{}, errs.New(errs.InvalidFormat, "ascii: %q is not a valid float: %v", s, err)
	}
	return coerce.RawFloat32(float32(v)), nil
}

func (a asciiBackend) ReadDouble(ctx *ReadCtx) (coerce.Raw, error) {
	s, err := a.text(ctx)
	if err != nil {
		return coerce.Raw{}, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return coerce.Raw{}, errs.New(errs.InvalidFormat, "ascii: %q is not a valid double: %v", s, err)
	}
	return coerce.RawFloat64(v), nil
}

func (asciiBackend) ReadChar(ctx *ReadCtx) (byte, error) {
	data := ctx.Source.Bytes()
	off := ctx.Node.BitOffset / 8
	if off < 0 || off >= int64(len(data)) {
		return 0, errs.New(errs.OutOfBoundsRead, "ascii: char read at byte offset %d exceeds %d-byte buffer", off, len(data))
	}
	return data[off], nil
}

func (asciiBackend) ReadString(ctx *ReadCtx, dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, errs.New(errs.InvalidArgument, "ascii: ReadString requires a non-empty destination buffer")
	}
	data := ctx.Source.Bytes()
	byteOff := ctx.Node.BitOffset / 8
	byteLen := ctx.Node.BitSize / 8
	src, ok := sliceOf(data, byteOff, byteLen)
	if !ok {
		return 0, errs.New(errs.OutOfBoundsRead, "ascii: string read [%d,%d) exceeds %d-byte buffer", byteOff, byteOff+byteLen, len(data))
	}
	n := copy(dst[:len(dst)-1], src)
	dst[n] = 0
	return n, nil
}

func (asciiBackend) ReadBits(ctx *ReadCtx, bitOffset, bitSize int64) (uint64, error) {
	return 0, errs.New(errs.InvalidType, "ascii: read_bits is not meaningful for a text-encoded backend")
}

func (asciiBackend) ReadBytes(ctx *ReadCtx, byteOffset, length int64) ([]byte, error) {
	data := ctx.Source.Bytes()
	s, ok := sliceOf(data, byteOffset, length)
	if !ok {
		return nil, errs.New(errs.OutOfBoundsRead, "ascii: byte read [%d,%d) exceeds %d-byte buffer", byteOffset, byteOffset+length, len(data))
	}
	out := make([]byte, length)
	copy(out, s)
	return out, nil
}

func (asciiBackend) HonorsOrdering() bool { return false }

// ReadArray reads numElements fixed-width ASCII fields back to back,
// each occupying ctx.Node.BitSize/8 bytes (the per-element field width
// recorded by the caller before invoking this), per spec.md §4.6.
func (a asciiBackend) ReadArray(ctx *ReadCtx, elemReadType typemodel.ReadType, numElements int64, _ typemodel.Ordering) ([]coerce.Raw, error) {
	elemBits := ctx.Node.BitSize
	out := make([]coerce.Raw, numElements)
	base := ctx.Node.BitOffset
	for i := int64(0); i < numElements; i++ {
		elemCtx := &ReadCtx{Node: shiftedNode(ctx.Node, base+i*elemBits, elemBits), Source: ctx.Source}
		raw, err := a.readScalar(elemCtx, elemReadType)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func (a asciiBackend) ReadPartialArray(ctx *ReadCtx, elemReadType typemodel.ReadType, offset, length int64) ([]coerce.Raw, error) {
	elemBits := ctx.Node.BitSize
	out := make([]coerce.Raw, length)
	base := ctx.Node.BitOffset + offset*elemBits
	for i := int64(0); i < length; i++ {
		elemCtx := &ReadCtx{Node: shiftedNode(ctx.Node, base+i*elemBits, elemBits), Source: ctx.Source}
		raw, err := a.readScalar(elemCtx, elemReadType)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func (a asciiBackend) readScalar(ctx *ReadCtx, rt typemodel.ReadType) (coerce.Raw, error) {
	switch rt {
	case typemodel.RTInt8:
		return a.ReadInt8(ctx)
	case typemodel.RTUint8:
		return a.ReadUint8(ctx)
	case typemodel.RTInt16:
		return a.ReadInt16(ctx)
	case typemodel.RTUint16:
		return a.ReadUint16(ctx)
	case typemodel.RTInt32:
		return a.ReadInt32(ctx)
	case typemodel.RTUint32:
		return a.ReadUint32(ctx)
	case typemodel.RTInt64:
		return a.ReadInt64(ctx)
	case typemodel.RTUint64:
		return a.ReadUint64(ctx)
	case typemodel.RTFloat:
		return a.ReadFloat(ctx)
	case typemodel.RTDouble:
		return a.ReadDouble(ctx)
	}
	return coerce.Raw{}, unsupportedScalar("ascii", rt)
}
