package cursor

import (
	"github.com/scicoda/coda/internal/dynamictype"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/expr"
)

// evalInt evaluates an expr.Node against c (as its own expr.Host) and
// requires an int result, used for size_expr/dim_expr/bit_offset_expr.
func evalInt(c *Cursor, n *expr.Node) (int64, error) {
	v, err := expr.Eval(n, c)
	if err != nil {
		return 0, errs.New(errs.Expression, "%v", err)
	}
	return v.AsInt()
}

func evalBool(c *Cursor, n *expr.Node) (bool, error) {
	v, err := expr.Eval(n, c)
	if err != nil {
		return false, errs.New(errs.Expression, "%v", err)
	}
	return v.AsBool()
}

// resolveBitSize returns a type's bit_size, evaluating size_expr when
// dynamic (spec.md §3's two dynamic sentinels).
func resolveBitSize(c *Cursor, t typemodel.Type) (int64, error) {
	bs := t.BitSize()
	switch bs.Kind {
	case typemodel.BitSizeLiteral:
		return bs.Literal, nil
	case typemodel.BitSizeDynamic:
		return evalInt(c, bs.Expr)
	case typemodel.BitSizeByteExpr:
		bytes, err := evalInt(c, bs.Expr)
		if err != nil {
			return 0, err
		}
		return bytes * 8, nil
	}
	return 0, errs.New(errs.InvalidFormat, "cursor: unreachable bit_size kind")
}

// resolveDims evaluates every dimension of an array type, using c's
// current position (the array frame itself) as the expression anchor —
// dim_expr conventionally navigates via `../` to a sibling size field.
func (c *Cursor) resolveDims(t *typemodel.Array) ([]int64, error) {
	dims := make([]int64, t.Rank)
	for i := 0; i < t.Rank; i++ {
		d := t.Dims[i]
		if !d.IsDynamic() {
			dims[i] = d.Literal
			continue
		}
		v, err := evalInt(c, d.Expr)
		if err != nil {
			return nil, err
		}
		dims[i] = v
	}
	return dims, nil
}

// resolveChildren builds (or rebuilds) the child nodes of a record or
// array node, called through dynamictype.Node.Children's lazy-resolution
// hook. It is the core of spec.md §4.2's "per-instance resolution of
// locations": offsets are computed here, once, and cached on the node.
//
// Simplification: array elements are assumed to share one resolved
// per-element bit size (evaluated once, against element 0), even though
// spec.md in principle allows a dynamically-sized element type to vary
// per instance; this matches the schema-driven formats this module
// implements (ASCII, binary, memory), where arrays are homogeneous runs.
func (c *Cursor) resolveChildren(n *dynamictype.Node) ([]*dynamictype.Node, error) {
	switch t := n.Type.(type) {
	case *typemodel.Record:
		return c.resolveRecordFields(n, t)
	case *typemodel.Array:
		return c.resolveArrayElements(n, t)
	default:
		return nil, nil
	}
}

func (c *Cursor) resolveRecordFields(n *dynamictype.Node, rec *typemodel.Record) ([]*dynamictype.Node, error) {
	var unionActive int = -1
	if rec.IsUnion {
		idx, err := evalInt(c, rec.UnionFieldExpr)
		if err != nil {
			return nil, err
		}
		if idx < 0 || int(idx) >= rec.FieldCount() {
			return nil, errs.New(errs.InvalidFormat, "cursor: union_field_expr resolved to out-of-range index %d", idx)
		}
		unionActive = int(idx)
	}

	children := make([]*dynamictype.Node, rec.FieldCount())
	offset := n.BitOffset
	// Push a temporary frame so field-local expressions (available_expr,
	// bit_offset_expr) can navigate relative to the record itself.
	c.push(n, -1)
	defer c.pop()

	for i := range rec.Fields {
		f := &rec.Fields[i]
		fieldOffset := offset
		if f.BitOffset != nil {
			v, err := evalInt(c, f.BitOffset)
			if err != nil {
				return nil, err
			}
			fieldOffset = v
		}

		if rec.IsUnion && i != unionActive {
			children[i] = &dynamictype.Node{Type: typemodel.NoData, BitOffset: -1}
			continue
		}

		available := true
		if f.Available != nil {
			ok, err := evalBool(c, f.Available)
			if err != nil {
				return nil, err
			}
			available = ok
		}
		if !available {
			children[i] = &dynamictype.Node{Type: typemodel.NoData, BitOffset: -1}
			continue
		}

		size, err := resolveBitSize(c, f.Type)
		if err != nil {
			return nil, err
		}
		child := &dynamictype.Node{Type: f.Type, BitOffset: fieldOffset, BitSize: size}
		children[i] = child
		if f.BitOffset == nil {
			offset = fieldOffset + size
		}
	}
	return children, nil
}

func (c *Cursor) resolveArrayElements(n *dynamictype.Node, arr *typemodel.Array) ([]*dynamictype.Node, error) {
	dims, err := c.resolveDims(arr)
	if err != nil {
		return nil, err
	}
	numElements := int64(1)
	for _, d := range dims {
		numElements *= d
	}

	c.push(n, -1)
	defer c.pop()

	elemSize, err := resolveBitSize(c, arr.Element)
	if err != nil {
		return nil, err
	}

	children := make([]*dynamictype.Node, numElements)
	for i := int64(0); i < numElements; i++ {
		children[i] = &dynamictype.Node{Type: arr.Element, BitOffset: n.BitOffset + i*elemSize, BitSize: elemSize}
	}
	return children, nil
}

// push/pop temporarily extend the cursor stack with a scratch frame so
// field/dim expressions can evaluate `.`, `..`, and sibling paths
// relative to the node being resolved, without permanently mutating the
// caller-visible cursor position beyond the resolution call.
func (c *Cursor) push(n *dynamictype.Node, parentIdx int) {
	c.n++
	c.stack[c.n-1] = frame{node: n, parentIndex: parentIdx, bitOffset: n.BitOffset}
}

func (c *Cursor) pop() {
	c.n--
}
