// Package cursor implements C3, spec.md §4.3: a bounded navigation stack
// locating a current node in a product's dynamic-type tree, plus the
// absolute bit offset of that node. Cursor also implements pkg/expr.Host
// (see reads.go) so the expression evaluator can navigate and read
// through a live product without either package importing the other's
// concrete types — only this package imports both internal/dynamictype
// and pkg/expr.
package cursor

import (
	"strconv"
	"strings"

	"github.com/scicoda/coda/internal/backend"
	"github.com/scicoda/coda/internal/dynamictype"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/options"
)

// MaxDepth is D_cur (spec.md §3).
const MaxDepth = typemodel.MaxCursorDepth

// Product is everything a Cursor needs from an open product handle.
// pkg/product implements this; keeping it as an interface here (rather
// than importing pkg/product) avoids a cursor<->product import cycle,
// since pkg/product's Open constructs a root Cursor.
type Product interface {
	RootNode() *dynamictype.Node
	Source() backend.Source
	FileSize() (int64, error)
	FileName() string
	ProductClass() string
	ProductType() string
	ProductFormat() string
	ProductVersion() int
	VarGet(name string, idx *int64) (int64, error)
	VarSet(name string, idx *int64, val int64) error
	VarSize(name string) (int64, error)
	Options() options.Options
}

// frame is one stack entry: spec.md §4.3 "(dynamic_type, parent_index,
// absolute_bit_offset)". dynamic_type is folded into Node (which already
// carries its Type).
type frame struct {
	node        *dynamictype.Node
	parentIndex int
	bitOffset   int64 // duplicated from node.BitOffset for frames synthesized without a backing node (e.g. ASCII-line views)

	// useBaseType records a use_base_type_of_special_type override
	// (spec.md §4.3): reads at this frame steer through the Special
	// type's BaseType instead of erroring on a non-numeric ReadType.
	useBaseType bool
}

// Cursor is copy-semantic (spec.md §4.3: "Cursor values are copy-semantic:
// callers duplicate a cursor simply by copying its bytes"): it holds no
// pointers that must be deep-copied, only a fixed array and a length, so
// `var c2 = c1` in Go already gives the correct duplicate-by-value
// behavior the source achieves via a flat struct.
type Cursor struct {
	product Product
	stack   [MaxDepth]frame
	n       int
}

// SetProduct implements spec.md §4.3's set_product: pushes the root frame.
func SetProduct(product Product) (*Cursor, error) {
	if product == nil {
		return nil, errs.New(errs.InvalidArgument, "cursor: SetProduct requires a non-nil product")
	}
	root := product.RootNode()
	if root == nil {
		return nil, errs.New(errs.InvalidArgument, "cursor: product has no root node")
	}
	c := &Cursor{product: product}
	c.stack[0] = frame{node: root, parentIndex: -1, bitOffset: root.BitOffset}
	c.n = 1
	return c, nil
}

func (c *Cursor) top() *frame { return &c.stack[c.n-1] }

// GetDepth implements spec.md §4.3's get_depth.
func (c *Cursor) GetDepth() int { return c.n }

// GetIndex implements spec.md §4.3's get_index: this frame's position
// within its parent (record field index or array element index), or -1
// at the root.
func (c *Cursor) GetIndex() int64 {
	if c.n <= 1 {
		return -1
	}
	parent := &c.stack[c.n-2]
	for i, child := range parent.node.Peek() {
		if child == c.top().node {
			return int64(i)
		}
	}
	return -1
}

// GetType implements spec.md §4.3's get_type.
func (c *Cursor) GetType() typemodel.Type { return c.top().node.Type }

// GetFileBitOffset implements spec.md §4.3's get_file_bit_offset.
func (c *Cursor) GetFileBitOffset() int64 { return c.top().bitOffset }

// GetBitSize implements spec.md §4.3's get_bit_size. Every node's BitSize
// is resolved once, at the point it is constructed by resolveChildren (or,
// for the root, by the product handle), so this is a plain field read.
func (c *Cursor) GetBitSize() (int64, error) {
	return c.top().node.BitSize, nil
}

// GetByteSize implements spec.md §4.3's get_byte_size: bit_size must be
// byte-aligned.
func (c *Cursor) GetByteSize() (int64, error) {
	bits, err := c.GetBitSize()
	if err != nil {
		return 0, err
	}
	if bits%8 != 0 {
		return 0, errs.New(errs.InvalidArgument, "cursor: bit_size %d is not byte-aligned", bits)
	}
	return bits / 8, nil
}

// GetNumElements implements spec.md §4.3's get_num_elements: for an
// array, the product of resolved dimensions; for a record, the field
// count; otherwise 1.
func (c *Cursor) GetNumElements() (int64, error) {
	switch t := c.top().node.Type.(type) {
	case *typemodel.Array:
		dims, err := c.resolveDims(t)
		if err != nil {
			return 0, err
		}
		n := int64(1)
		for _, d := range dims {
			n *= d
		}
		return n, nil
	case *typemodel.Record:
		return int64(t.FieldCount()), nil
	default:
		return 1, nil
	}
}

// GetArrayDim implements spec.md §4.3's get_array_dim: resolved extents
// for every dimension of the current array type.
func (c *Cursor) GetArrayDim() ([]int64, error) {
	t, ok := c.top().node.Type.(*typemodel.Array)
	if !ok {
		return nil, errs.New(errs.InvalidType, "cursor: current node is not an array")
	}
	return c.resolveDims(t)
}

// PathString renders the current position as a "/"-delimited path (spec.md
// §7: "the evaluator annotates cursor-position errors with the failing
// path"), one segment per frame below the root: a record field's declared
// name, or an array/union element's ordinal index.
func (c *Cursor) PathString() string {
	if c.n <= 1 {
		return "/"
	}
	segs := make([]string, 0, c.n-1)
	for i := 1; i < c.n; i++ {
		parent := c.stack[i-1].node
		fr := c.stack[i]
		if rec, ok := parent.Type.(*typemodel.Record); ok && fr.parentIndex >= 0 && fr.parentIndex < len(rec.Fields) {
			segs = append(segs, rec.Fields[fr.parentIndex].Name)
			continue
		}
		segs = append(segs, strconv.Itoa(fr.parentIndex))
	}
	return "/" + strings.Join(segs, "/")
}

// GetStringLength implements spec.md §4.6's get_string_length.
func (c *Cursor) GetStringLength() (int64, error) {
	bits, err := c.GetBitSize()
	if err != nil {
		return 0, err
	}
	if bits%8 != 0 {
		return 0, errs.New(errs.InvalidArgument, "cursor: bit-packed text with bit_size %d not a multiple of 8", bits)
	}
	return bits / 8, nil
}
