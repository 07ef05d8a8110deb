package cursor

import (
	"github.com/scicoda/coda/internal/arrayengine"
	"github.com/scicoda/coda/internal/backend"
	"github.com/scicoda/coda/internal/coerce"
	"github.com/scicoda/coda/internal/dynamictype"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/textenc"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/expr"
)

// cursorMark is the opaque snapshot pkg/expr.Host's Mark/Reset contract
// asks for. Cursor is already copy-semantic (see cursor.go's doc comment),
// so a mark is just a value copy of the stack.
type cursorMark struct {
	n     int
	stack [MaxDepth]frame
}

// Mark implements pkg/expr.Host.
func (c *Cursor) Mark() any { return cursorMark{n: c.n, stack: c.stack} }

// Reset implements pkg/expr.Host.
func (c *Cursor) Reset(mark any) {
	m := mark.(cursorMark)
	c.n = m.n
	c.stack = m.stack
}

// NumElements implements pkg/expr.Host (spec.md §4.3's get_num_elements).
func (c *Cursor) NumElements() (int64, error) { return c.GetNumElements() }

// NumDims implements pkg/expr.Host: an array's rank, 0 for anything else.
func (c *Cursor) NumDims() (int, error) {
	arr, ok := c.top().node.Type.(*typemodel.Array)
	if !ok {
		return 0, nil
	}
	return arr.Rank, nil
}

// Dim implements pkg/expr.Host: the resolved extent of dimension k.
func (c *Cursor) Dim(k int) (int64, error) {
	arr, ok := c.top().node.Type.(*typemodel.Array)
	if !ok {
		return 0, errs.New(errs.InvalidType, "cursor: current node is not an array")
	}
	dims, err := c.resolveDims(arr)
	if err != nil {
		return 0, err
	}
	if k < 0 || k >= len(dims) {
		return 0, errs.New(errs.InvalidIndex, "cursor: dimension %d out of range", k)
	}
	return dims[k], nil
}

// IndexInParent implements pkg/expr.Host (spec.md §4.3's get_index).
func (c *Cursor) IndexInParent() (int64, error) { return c.GetIndex(), nil }

// BitSize implements pkg/expr.Host.
func (c *Cursor) BitSize() (int64, error) { return c.GetBitSize() }

// ByteSize implements pkg/expr.Host.
func (c *Cursor) ByteSize() (int64, error) { return c.GetByteSize() }

// BitOffset implements pkg/expr.Host.
func (c *Cursor) BitOffset() (int64, error) { return c.GetFileBitOffset(), nil }

// ByteOffset implements pkg/expr.Host.
func (c *Cursor) ByteOffset() (int64, error) {
	bits := c.GetFileBitOffset()
	if bits < 0 {
		return -1, nil
	}
	if bits%8 != 0 {
		return 0, errs.New(errs.InvalidArgument, "cursor: bit offset %d is not byte-aligned", bits)
	}
	return bits / 8, nil
}

// StringLength implements pkg/expr.Host.
func (c *Cursor) StringLength() (int64, error) { return c.GetStringLength() }

// ReadBool implements pkg/expr.Host: nonzero int reads as true.
func (c *Cursor) ReadBool() (bool, error) {
	i, err := c.ReadInt()
	if err != nil {
		return false, err
	}
	return i != 0, nil
}

// ReadInt implements pkg/expr.Host.
func (c *Cursor) ReadInt() (int64, error) { return ReadScalar[int64](c) }

// ReadFloat implements pkg/expr.Host: always double precision.
func (c *Cursor) ReadFloat() (float64, error) { return ReadScalar[float64](c) }

// ReadString implements pkg/expr.Host.
func (c *Cursor) ReadString() (string, error) { return c.readTextRaw() }

// ReadBytes implements pkg/expr.Host and spec.md §4.4's read_bytes.
func (c *Cursor) ReadBytes(offset, length int64) ([]byte, error) {
	node := c.top().node
	b, err := backend.For(node.Type.Format())
	if err != nil {
		return nil, err
	}
	ctx := &backend.ReadCtx{Node: node, Source: c.product.Source()}
	return b.ReadBytes(ctx, offset, length)
}

// ReadAny implements pkg/expr.Host: reads the current leaf using whatever
// Kind its Class implies.
func (c *Cursor) ReadAny() (expr.Value, error) {
	switch t := c.effectiveType().(type) {
	case *typemodel.Number:
		if t.Class() == typemodel.ClassInteger {
			i, err := c.ReadInt()
			return expr.Value{Kind: expr.KindInt, Int: i}, err
		}
		f, err := c.ReadFloat()
		return expr.Value{Kind: expr.KindFloat, Float: f}, err
	case *typemodel.Text:
		s, err := c.ReadString()
		return expr.Value{Kind: expr.KindString, Str: s}, err
	case *typemodel.Special:
		switch t.Kind {
		case typemodel.SpecialTime, typemodel.SpecialVSFInteger:
			f, err := c.ReadFloat()
			return expr.Value{Kind: expr.KindFloat, Float: f}, err
		default:
			return expr.Value{}, errs.New(errs.InvalidType, "cursor: cannot read %s as a scalar value", t.Kind)
		}
	default:
		return expr.Value{}, errs.New(errs.InvalidType, "cursor: current node is not a leaf value")
	}
}

// FileSize implements pkg/expr.Host.
func (c *Cursor) FileSize() (int64, error) { return c.product.FileSize() }

// FileName implements pkg/expr.Host.
func (c *Cursor) FileName() string { return c.product.FileName() }

// ProductClass implements pkg/expr.Host.
func (c *Cursor) ProductClass() string { return c.product.ProductClass() }

// ProductType implements pkg/expr.Host.
func (c *Cursor) ProductType() string { return c.product.ProductType() }

// ProductFormat implements pkg/expr.Host.
func (c *Cursor) ProductFormat() string { return c.product.ProductFormat() }

// ProductVersion implements pkg/expr.Host.
func (c *Cursor) ProductVersion() int { return c.product.ProductVersion() }

// VarGet implements pkg/expr.Host.
func (c *Cursor) VarGet(name string, idx *int64) (int64, error) { return c.product.VarGet(name, idx) }

// VarSet implements pkg/expr.Host.
func (c *Cursor) VarSet(name string, idx *int64, val int64) error {
	return c.product.VarSet(name, idx, val)
}

// VarSize implements pkg/expr.Host.
func (c *Cursor) VarSize(name string) (int64, error) { return c.product.VarSize(name) }

// effectiveType is the current node's Type, substituting a Special's
// BaseType when use_base_type_of_special_type (or bypass_special_types)
// is in force (spec.md §4.3, §4.9).
func (c *Cursor) effectiveType() typemodel.Type {
	t := c.top().node.Type
	sp, ok := t.(*typemodel.Special)
	if !ok {
		return t
	}
	if c.top().useBaseType || c.product.Options().BypassSpecialTypes {
		return sp.BaseType
	}
	return t
}

// readTextRaw implements the Text-class scalar read (spec.md §4.4's
// read_string, restricted to the whole field as one string). A field
// declared with a non-UTF-8 source encoding is transcoded via textenc
// after the raw bytes are read off the backend.
func (c *Cursor) readTextRaw() (string, error) {
	node := c.top().node
	txt, ok := node.Type.(*typemodel.Text)
	if !ok {
		return "", errs.New(errs.InvalidType, "cursor: current node is not text")
	}
	b, err := backend.For(node.Type.Format())
	if err != nil {
		return "", err
	}
	ctx := &backend.ReadCtx{Node: node, Source: c.product.Source()}
	buf := make([]byte, node.BitSize/8)
	n, err := b.ReadString(ctx, buf)
	if err != nil {
		return "", err
	}
	if txt.Encoding == "" {
		return string(buf[:n]), nil
	}
	return textenc.Decode(txt.Encoding, buf[:n])
}

// ReadChar implements spec.md §4.4's read_char as a free function (it has
// no natural slot in pkg/expr.Host, which only needs ReadString).
func ReadChar(c *Cursor) (byte, error) {
	node := c.top().node
	if _, ok := node.Type.(*typemodel.Text); !ok {
		return 0, errs.New(errs.InvalidType, "cursor: current node is not text")
	}
	b, err := backend.For(node.Type.Format())
	if err != nil {
		return 0, err
	}
	ctx := &backend.ReadCtx{Node: node, Source: c.product.Source()}
	return b.ReadChar(ctx)
}

// readNumberRaw performs spec.md §4.5 steps 1-5 for the current node's
// Number type: pick the effective read-type (promoting to double when a
// conversion applies and is enabled), dispatch the backend scalar read,
// and apply the conversion.
func (c *Cursor) readNumberRaw() (coerce.Raw, error) {
	node := c.top().node
	num, ok := node.Type.(*typemodel.Number)
	if !ok {
		return coerce.Raw{}, errs.New(errs.InvalidType, "cursor: current node is not a numeric type")
	}
	b, err := backend.For(num.Format())
	if err != nil {
		return coerce.Raw{}, err
	}
	ctx := &backend.ReadCtx{Node: node, Source: c.product.Source()}
	opts := c.product.Options()
	effRT := coerce.EffectiveReadType(num.ReadType(), num.HasConversion(), opts.PerformConversions)
	raw, err := readBackendScalar(b, ctx, effRT)
	if err != nil {
		return coerce.Raw{}, err
	}
	if num.HasConversion() && opts.PerformConversions {
		d := coerce.ApplyConversion(coerce.AsDouble(raw), num.Conversion)
		return coerce.RawFloat64(d), nil
	}
	return raw, nil
}

func readBackendScalar(b backend.Backend, ctx *backend.ReadCtx, rt typemodel.ReadType) (coerce.Raw, error) {
	switch rt {
	case typemodel.RTInt8:
		return b.ReadInt8(ctx)
	case typemodel.RTUint8:
		return b.ReadUint8(ctx)
	case typemodel.RTInt16:
		return b.ReadInt16(ctx)
	case typemodel.RTUint16:
		return b.ReadUint16(ctx)
	case typemodel.RTInt32:
		return b.ReadInt32(ctx)
	case typemodel.RTUint32:
		return b.ReadUint32(ctx)
	case typemodel.RTInt64:
		return b.ReadInt64(ctx)
	case typemodel.RTUint64:
		return b.ReadUint64(ctx)
	case typemodel.RTFloat:
		return b.ReadFloat(ctx)
	case typemodel.RTDouble:
		return b.ReadDouble(ctx)
	}
	return coerce.Raw{}, errs.New(errs.InvalidType, "cursor: read-type %s is not a backend scalar type", rt)
}

// readSpecialDouble implements spec.md §4.5 step 6's special-type
// interception for time and vsf_integer, both of which delegate the
// physical read to BaseType at the special node's own offset/size.
//
// vsf_integer's BaseType is expected to be the conventional two-field
// record {scale_factor, value} the format defines it over (matching the
// original library's own fixed layout for this special type); time's
// BaseType is read directly as a double and, when the type declares a
// value_expr, refined by evaluating it with the cursor positioned on the
// base value.
func (c *Cursor) readSpecialDouble(sp *typemodel.Special) (float64, error) {
	switch sp.Kind {
	case typemodel.SpecialNoData:
		return 0, errs.New(errs.InvalidType, "cursor: no_data frame carries no value")
	case typemodel.SpecialComplex:
		return 0, errs.New(errs.InvalidType, "cursor: complex values must be read via ReadComplex, not a scalar read")
	}

	node := c.top().node
	baseNode := &dynamictype.Node{Type: sp.BaseType, BitOffset: node.BitOffset, BitSize: node.BitSize}
	savedN := c.n
	c.push(baseNode, -1)
	defer func() { c.n = savedN }()

	if sp.Kind == typemodel.SpecialVSFInteger {
		rec, ok := sp.BaseType.(*typemodel.Record)
		if !ok || rec.FieldCount() != 2 {
			return 0, errs.New(errs.InvalidType, "cursor: vsf_integer base type must be a 2-field {scale_factor, value} record")
		}
		if err := c.GotoFirstRecordField(); err != nil {
			return 0, err
		}
		scale, err := ReadScalar[int32](c)
		if err != nil {
			return 0, err
		}
		if err := c.GotoNextRecordField(); err != nil {
			return 0, err
		}
		value, err := ReadScalar[float64](c)
		if err != nil {
			return 0, err
		}
		return coerce.VSFInteger(scale, value), nil
	}

	raw, err := ReadScalar[float64](c)
	if err != nil {
		return 0, err
	}
	if sp.ValueExpr != nil {
		v, err := expr.Eval(sp.ValueExpr, c)
		if err != nil {
			return 0, err
		}
		return v.AsFloat()
	}
	return coerce.Time(raw), nil
}

// ReadScalar implements spec.md §6's coda_cursor_read_T family for every
// numeric T in coerce.Number, folding special-type interception and
// use_base_type_of_special_type/bypass_special_types into one entry point
// (spec.md §4.5 steps 1-6, §4.9).
func ReadScalar[T coerce.Number](c *Cursor) (T, error) {
	node := c.top().node
	if sp, ok := node.Type.(*typemodel.Special); ok {
		bypass := c.top().useBaseType || c.product.Options().BypassSpecialTypes
		if !bypass {
			d, err := c.readSpecialDouble(sp)
			if err != nil {
				var zero T
				return zero, err
			}
			return T(d), nil
		}
		baseNode := &dynamictype.Node{Type: sp.BaseType, BitOffset: node.BitOffset, BitSize: node.BitSize}
		c.push(baseNode, -1)
		defer c.pop()
	}
	raw, err := c.readNumberRaw()
	if err != nil {
		var zero T
		return zero, err
	}
	return coerce.Widen[T](raw, "scalar")
}

// ReadArrayRaw implements spec.md §4.6's whole-array read at the current
// cursor position, returning each element still tagged with its stored
// read-type; callers narrow with coerce.Widen per element, or use
// ReadArray for the common all-one-type case.
func (c *Cursor) ReadArrayRaw() ([]coerce.Raw, error) {
	arr, ok := c.top().node.Type.(*typemodel.Array)
	if !ok {
		return nil, errs.New(errs.InvalidType, "cursor: current node is not an array")
	}
	dims, err := c.resolveDims(arr)
	if err != nil {
		return nil, err
	}
	numElements := int64(1)
	for _, d := range dims {
		numElements *= d
	}

	if special, ok := isSpecialElement(arr.Element); ok {
		elemRT := arr.Element.ReadType()
		special2 := func(i int64) (coerce.Raw, error) {
			return c.readArrayElementSpecial(arr, i, special)
		}
		return arrayengine.ReadWhole(nil, nil, elemRT, numElements, dims, arr.Ordering, special2)
	}

	b, err := backend.For(arr.Element.Format())
	if err != nil {
		return nil, err
	}
	ctx := &backend.ReadCtx{Node: c.top().node, Source: c.product.Source()}
	return arrayengine.ReadWhole(b, ctx, arr.Element.ReadType(), numElements, dims, arr.Ordering, nil)
}

// isSpecialElement reports whether an array's element type requires
// element-wise evaluation rather than a backend bulk read (spec.md §4.6).
func isSpecialElement(t typemodel.Type) (*typemodel.Special, bool) {
	sp, ok := t.(*typemodel.Special)
	return sp, ok
}

func (c *Cursor) readArrayElementSpecial(arr *typemodel.Array, index int64, sp *typemodel.Special) (coerce.Raw, error) {
	if err := c.GotoIndex(index); err != nil {
		return coerce.Raw{}, err
	}
	defer c.GotoParent()
	d, err := c.readSpecialDouble(sp)
	if err != nil {
		return coerce.Raw{}, err
	}
	return coerce.RawFloat64(d), nil
}

// ReadArray narrows a whole-array read to one Go numeric type, the common
// case of a homogeneous numeric array.
func ReadArray[T coerce.Number](c *Cursor) ([]T, error) {
	raws, err := c.ReadArrayRaw()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(raws))
	for i, r := range raws {
		v, err := coerce.Widen[T](r, "array element")
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadPartialArrayRaw implements spec.md §4.6's hyperslab read: a
// contiguous run of length elements starting at offset, in C order only.
func (c *Cursor) ReadPartialArrayRaw(offset, length int64) ([]coerce.Raw, error) {
	arr, ok := c.top().node.Type.(*typemodel.Array)
	if !ok {
		return nil, errs.New(errs.InvalidType, "cursor: current node is not an array")
	}
	n, err := c.GetNumElements()
	if err != nil {
		return nil, err
	}
	if special, ok := isSpecialElement(arr.Element); ok {
		special2 := func(i int64) (coerce.Raw, error) {
			return c.readArrayElementSpecial(arr, i, special)
		}
		return arrayengine.ReadPartial(nil, nil, arr.Element.ReadType(), n, offset, length, special2)
	}
	b, err := backend.For(arr.Element.Format())
	if err != nil {
		return nil, err
	}
	ctx := &backend.ReadCtx{Node: c.top().node, Source: c.product.Source()}
	return arrayengine.ReadPartial(b, ctx, arr.Element.ReadType(), n, offset, length, nil)
}
