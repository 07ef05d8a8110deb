package cursor

import (
	"github.com/scicoda/coda/internal/dynamictype"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// children resolves (and caches) the current node's record fields or
// array elements, routing through resolveChildren.
func (c *Cursor) children() ([]*dynamictype.Node, error) {
	return c.top().node.Children(c.resolveChildren)
}

// GotoRoot implements spec.md §4.3's goto_root.
func (c *Cursor) GotoRoot() {
	root := c.stack[0]
	c.n = 1
	c.stack[0] = root
}

// GotoParent implements spec.md §4.3's goto_parent.
func (c *Cursor) GotoParent() error {
	if c.n <= 1 {
		return errs.New(errs.InvalidArgument, "cursor: already at the root, cannot goto_parent")
	}
	c.n--
	return nil
}

// gotoChildAt pushes child k of the current node's resolved children.
func (c *Cursor) gotoChildAt(k int) error {
	kids, err := c.children()
	if err != nil {
		return err
	}
	if k < 0 || k >= len(kids) {
		return errs.New(errs.InvalidIndex, "cursor: child index %d out of range [0,%d)", k, len(kids))
	}
	if c.n >= MaxDepth {
		return errs.New(errs.InvalidArgument, "cursor: maximum cursor depth %d exceeded", MaxDepth)
	}
	child := kids[k]
	c.stack[c.n] = frame{node: child, parentIndex: k, bitOffset: child.BitOffset}
	c.n++
	return nil
}

// GotoFirstRecordField implements spec.md §4.3's goto_first_record_field.
func (c *Cursor) GotoFirstRecordField() error {
	if _, ok := c.top().node.Type.(*typemodel.Record); !ok {
		return errs.New(errs.InvalidType, "cursor: current node is not a record")
	}
	return c.gotoChildAt(0)
}

// GotoNextArrayElement implements spec.md §4.3's goto_next_array_element;
// also covers goto_next_record_field since both simply advance the
// enclosing parent's child index.
func (c *Cursor) GotoNextArrayElement() error {
	if c.n <= 1 {
		return errs.New(errs.InvalidArgument, "cursor: no next element at the root")
	}
	parentDepth := c.n - 1
	top := c.top()
	idx := top.parentIndex + 1
	c.n = parentDepth
	if err := c.gotoChildAt(idx); err != nil {
		// Restore the prior position on failure (spec.md §4.3: a failed
		// goto leaves the cursor where it was).
		c.n = parentDepth + 1
		return err
	}
	return nil
}

// GotoNextRecordField is goto_next_record_field (spec.md §4.3); identical
// machinery to GotoNextArrayElement since both step the parent's child
// index by one.
func (c *Cursor) GotoNextRecordField() error { return c.GotoNextArrayElement() }

// GotoRecordFieldByIndex implements goto_record_field_by_index.
func (c *Cursor) GotoRecordFieldByIndex(k int) error {
	rec, ok := c.top().node.Type.(*typemodel.Record)
	if !ok {
		return errs.New(errs.InvalidType, "cursor: current node is not a record")
	}
	if k < 0 || k >= rec.FieldCount() {
		return errs.New(errs.InvalidIndex, "cursor: field index %d out of range", k)
	}
	if rec.IsUnion {
		if err := c.checkUnionReachable(rec, k); err != nil {
			return err
		}
	}
	return c.gotoChildAt(k)
}

// GotoField implements pkg/expr.Host's GotoField and spec.md §4.3's
// goto_record_field_by_name: accessing an inactive union field's name
// yields InvalidType (spec.md §3: "direct-name access to an inactive
// union field is an InvalidType error"), distinct from an optional field
// that resolved unavailable, which remains reachable as a no_data frame.
func (c *Cursor) GotoField(name string) error {
	rec, ok := c.top().node.Type.(*typemodel.Record)
	if !ok {
		return errs.New(errs.InvalidType, "cursor: current node is not a record")
	}
	k, _, ok := rec.FieldByName(name)
	if !ok {
		return errs.New(errs.InvalidArgument, "cursor: no field named %q", name)
	}
	if rec.IsUnion {
		if err := c.checkUnionReachable(rec, k); err != nil {
			return err
		}
	}
	return c.gotoChildAt(k)
}

func (c *Cursor) checkUnionReachable(rec *typemodel.Record, k int) error {
	active, err := evalInt(c, rec.UnionFieldExpr)
	if err != nil {
		return err
	}
	if int(active) != k {
		return errs.New(errs.InvalidType, "cursor: field %d is not the active union member", k)
	}
	return nil
}

// GotoIndex implements pkg/expr.Host's GotoIndex and spec.md §4.3's
// goto_array_element_by_index.
func (c *Cursor) GotoIndex(idx int64) error {
	if _, ok := c.top().node.Type.(*typemodel.Array); !ok {
		return errs.New(errs.InvalidType, "cursor: current node is not an array")
	}
	return c.gotoChildAt(int(idx))
}

// GotoArrayElement implements spec.md §4.3's goto_array_element: a
// multi-dimensional subscript vector, resolved against row-major flattening
// of the current (resolved) dims.
func (c *Cursor) GotoArrayElement(subs []int64) error {
	arr, ok := c.top().node.Type.(*typemodel.Array)
	if !ok {
		return errs.New(errs.InvalidType, "cursor: current node is not an array")
	}
	if len(subs) != arr.Rank {
		return errs.New(errs.InvalidArgument, "cursor: %d subscripts provided for rank %d array", len(subs), arr.Rank)
	}
	dims, err := c.resolveDims(arr)
	if err != nil {
		return err
	}
	var flat int64
	for i := 0; i < arr.Rank; i++ {
		if subs[i] < 0 || subs[i] >= dims[i] {
			return errs.New(errs.ArrayOutOfBounds, "cursor: subscript %d out of range [0,%d)", subs[i], dims[i])
		}
		flat = flat*dims[i] + subs[i]
	}
	return c.gotoChildAt(int(flat))
}

// GotoFirstArrayElement implements goto_first_array_element.
func (c *Cursor) GotoFirstArrayElement() error {
	if _, ok := c.top().node.Type.(*typemodel.Array); !ok {
		return errs.New(errs.InvalidType, "cursor: current node is not an array")
	}
	return c.gotoChildAt(0)
}

// GotoAttributes implements pkg/expr.Host's GotoAttributes and spec.md
// §4.3's goto_attributes: pushes a synthetic record frame built from the
// current node's exclusively-owned attribute values.
func (c *Cursor) GotoAttributes() error {
	top := c.top()
	declared := top.node.Type.Attributes()
	if declared == nil || top.node.Attributes == nil {
		return errs.New(errs.InvalidArgument, "cursor: current node has no attributes")
	}
	kids := make([]*dynamictype.Node, declared.FieldCount())
	for i := range declared.Fields {
		f := &declared.Fields[i]
		v, ok := top.node.Attributes.Fields[f.Name]
		if !ok {
			kids[i] = &dynamictype.Node{Type: typemodel.NoData, BitOffset: -1}
			continue
		}
		kids[i] = v
	}
	synthetic := &dynamictype.Node{Type: declared, BitOffset: -1}
	for _, k := range kids {
		synthetic.ExtendChild(k)
	}
	if c.n >= MaxDepth {
		return errs.New(errs.InvalidArgument, "cursor: maximum cursor depth %d exceeded", MaxDepth)
	}
	c.stack[c.n] = frame{node: synthetic, parentIndex: -1, bitOffset: -1}
	c.n++
	return nil
}

// GotoASCIILine implements pkg/expr.Host's GotoASCIILine: the current
// node must be ASCII-backed, and this steps to its child at lineIdx (the
// record field or array element at that index), bounds-checked like
// GotoIndex. No per-line view of the text is built; children are the
// node's type-defined fields or elements, not text lines.
func (c *Cursor) GotoASCIILine(lineIdx int64) error {
	if c.top().node.Type.Format() != typemodel.FormatASCII {
		return errs.New(errs.InvalidType, "cursor: goto_ascii_line requires an ASCII-backed node")
	}
	return c.gotoChildAt(int(lineIdx))
}

// UseBaseTypeOfSpecialType implements spec.md §4.3's
// use_base_type_of_special_type: the current frame's Type stays Special,
// but reads are steered through BaseType instead (pkg/expr.Host's Read*
// methods consult this override; see reads.go).
func (c *Cursor) UseBaseTypeOfSpecialType() error {
	sp, ok := c.top().node.Type.(*typemodel.Special)
	if !ok {
		return errs.New(errs.InvalidType, "cursor: current node is not a special type")
	}
	if sp.BaseType == nil {
		return errs.New(errs.InvalidType, "cursor: special type %s has no base type", sp.Kind)
	}
	c.top().useBaseType = true
	return nil
}
