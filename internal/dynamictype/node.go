// Package dynamictype implements the per-product dynamic-type tree
// (spec.md §3 "Dynamic-type tree (C2)", §4.2): a parallel tree binding
// immutable type definitions (internal/typemodel) to actual offsets,
// lengths, and attribute values for one open product.
//
// For schema-driven formats (ASCII, binary) a Node is typically a thin
// shell over the static Type with a cached absolute bit offset. For
// self-describing containers (NetCDF, CDF, HDF4/5, GRIB) a Node instead
// carries an opaque Native handle pointing into that backend's own
// structures; for XML, the internal/xmlschema driver constructs the tree
// node-by-node as it parses (lazy extension, per spec.md §4.2).
package dynamictype

import "github.com/scicoda/coda/internal/typemodel"

// Node is one resolved instance in the dynamic-type tree.
type Node struct {
	Type typemodel.Type

	// BitOffset is this node's absolute bit offset within the product
	// file, or -1 when not applicable (attributes, memory-resident
	// values with no file backing), per spec.md §4.3's cursor invariant.
	BitOffset int64

	// BitSize is this node's resolved size in bits, valid once computed;
	// for a static type this equals Type.BitSize()'s literal, for a
	// dynamic type it is the evaluated size_expr result.
	BitSize int64

	// Attributes holds the resolved attribute record for this node,
	// exclusively owned by the dynamic-type node per spec.md §3
	// ("Dynamic-type nodes exclusively own their attributes").
	Attributes *Record

	// Native is an opaque handle into a self-describing backend's own
	// structures (e.g. a NetCDF variable-table entry or CDF record);
	// nil for ASCII/binary/memory nodes, which are fully described
	// by Type + BitOffset + BitSize. XML leaf nodes carry a
	// *backend.XMLValue holding the element's text.
	Native any

	// children, once resolved, caches this node's record fields or
	// array elements so repeated cursor navigation need not re-resolve
	// offsets. Lazily populated; for XML it is lazily *extended* as the
	// parser encounters new elements (spec.md §4.2).
	children []*Node
	resolved bool
}

// Record is the resolved attribute record a Node owns: parallel to
// typemodel.Record but holding actual attribute values rather than
// declarations.
type Record struct {
	Fields map[string]*Node
}

// Children returns this node's resolved children (record fields or array
// elements), resolving them via resolve if not already cached.
func (n *Node) Children(resolve func(*Node) ([]*Node, error)) ([]*Node, error) {
	if n.resolved {
		return n.children, nil
	}
	kids, err := resolve(n)
	if err != nil {
		return nil, err
	}
	n.children = kids
	n.resolved = true
	return kids, nil
}

// ExtendChild lazily appends a newly-discovered child (used by the XML
// driver's schema-synthesis mode, spec.md §4.8, where the type tree and
// dynamic-type tree grow together as elements are encountered).
func (n *Node) ExtendChild(child *Node) {
	n.children = append(n.children, child)
	n.resolved = true
}

// Peek returns the already-resolved children cache without triggering
// resolution, or nil if Children has not been called yet. Used by cursor
// navigation that only needs to find an already-visited child's index.
func (n *Node) Peek() []*Node { return n.children }

// Invalidate clears the resolved-children cache, so the next Children
// call resolves this node's children again.
func (n *Node) Invalidate() {
	n.children = nil
	n.resolved = false
}
