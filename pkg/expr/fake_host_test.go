package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// fakeNode is the minimal tree fakeHost navigates: a record of named
// children, or a leaf scalar value, or an array of elements.
type fakeNode struct {
	fields   map[string]*fakeNode
	order    []string
	elems    []*fakeNode
	attrs    *fakeNode
	scalar   Value
	isScalar bool
}

func rec(fields map[string]*fakeNode, order []string) *fakeNode {
	return &fakeNode{fields: fields, order: order}
}

func arr(elems ...*fakeNode) *fakeNode {
	return &fakeNode{elems: elems}
}

func leaf(v Value) *fakeNode {
	return &fakeNode{scalar: v, isScalar: true}
}

// fakeHost is a tiny in-memory Host used to exercise pkg/expr without
// pkg/cursor: a fixed tree plus a position stack that
// mimics cursor navigation closely enough to drive every evaluator path.
type fakeHost struct {
	root     *fakeNode
	cur      *fakeNode
	parents  []*fakeNode // ancestor chain for GotoParent
	vars     map[string][]int64
	fileName string
	version  int
}

func newFakeHost(root *fakeNode) *fakeHost {
	return &fakeHost{root: root, cur: root, vars: map[string][]int64{}, fileName: "test.dat", version: 1}
}

// fakeMark snapshots cur plus the parent chain, since Reset must restore
// both "where we are" and "how we got there" (GotoParent needs it).
type fakeMark struct {
	cur     *fakeNode
	parents []*fakeNode
}

func (h *fakeHost) Mark() any {
	parents := make([]*fakeNode, len(h.parents))
	copy(parents, h.parents)
	return fakeMark{cur: h.cur, parents: parents}
}

func (h *fakeHost) Reset(mark any) {
	m := mark.(fakeMark)
	h.cur = m.cur
	h.parents = m.parents
}

func (h *fakeHost) GotoRoot() {
	h.cur = h.root
	h.parents = nil
}

func (h *fakeHost) GotoParent() error {
	if len(h.parents) == 0 {
		return fmt.Errorf("already at root")
	}
	h.cur = h.parents[len(h.parents)-1]
	h.parents = h.parents[:len(h.parents)-1]
	return nil
}

func (h *fakeHost) GotoField(name string) error {
	if h.cur.fields == nil {
		return fmt.Errorf("not a record")
	}
	child, ok := h.cur.fields[name]
	if !ok {
		return fmt.Errorf("no such field %q", name)
	}
	h.parents = append(h.parents, h.cur)
	h.cur = child
	return nil
}

func (h *fakeHost) GotoIndex(idx int64) error {
	if h.cur.elems == nil {
		return fmt.Errorf("not an array")
	}
	if idx < 0 || int(idx) >= len(h.cur.elems) {
		return fmt.Errorf("index %d out of bounds", idx)
	}
	h.parents = append(h.parents, h.cur)
	h.cur = h.cur.elems[idx]
	return nil
}

func (h *fakeHost) GotoAttributes() error {
	if h.cur.attrs == nil {
		return fmt.Errorf("no attributes")
	}
	h.parents = append(h.parents, h.cur)
	h.cur = h.cur.attrs
	return nil
}

func (h *fakeHost) GotoASCIILine(lineIdx int64) error {
	return h.GotoIndex(lineIdx)
}

// PathString renders the chain of h.parents/h.cur, matching how pkg/cursor
// renders a real navigation failure's path.
func (h *fakeHost) PathString() string {
	chain := append(append([]*fakeNode{}, h.parents...), h.cur)
	segs := make([]string, 0, len(chain)-1)
	for i := 1; i < len(chain); i++ {
		parent, node := chain[i-1], chain[i]
		if parent.fields != nil {
			for name, f := range parent.fields {
				if f == node {
					segs = append(segs, name)
					break
				}
			}
			continue
		}
		for idx, e := range parent.elems {
			if e == node {
				segs = append(segs, strconv.Itoa(idx))
				break
			}
		}
	}
	return "/" + strings.Join(segs, "/")
}

func (h *fakeHost) NumElements() (int64, error) {
	if h.cur.elems != nil {
		return int64(len(h.cur.elems)), nil
	}
	if h.cur.fields != nil {
		return int64(len(h.cur.fields)), nil
	}
	return 1, nil
}

func (h *fakeHost) Dim(k int) (int64, error) {
	if k != 0 {
		return 0, fmt.Errorf("dim %d out of range", k)
	}
	return h.NumElements()
}

func (h *fakeHost) NumDims() (int, error) {
	if h.cur.elems != nil {
		return 1, nil
	}
	return 0, nil
}

func (h *fakeHost) IndexInParent() (int64, error) {
	if len(h.parents) == 0 {
		return 0, fmt.Errorf("root has no parent")
	}
	parent := h.parents[len(h.parents)-1]
	for i, e := range parent.elems {
		if e == h.cur {
			return int64(i), nil
		}
	}
	return 0, fmt.Errorf("not an array element")
}

func (h *fakeHost) BitSize() (int64, error)   { return 8, nil }
func (h *fakeHost) ByteSize() (int64, error)  { return 1, nil }
func (h *fakeHost) BitOffset() (int64, error) { return 0, nil }
func (h *fakeHost) ByteOffset() (int64, error) {
	return 0, nil
}

func (h *fakeHost) StringLength() (int64, error) {
	s, err := h.ReadString()
	if err != nil {
		return 0, err
	}
	return int64(len(s)), nil
}

func (h *fakeHost) ReadBool() (bool, error) {
	v, err := h.ReadAny()
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func (h *fakeHost) ReadInt() (int64, error) {
	v, err := h.ReadAny()
	if err != nil {
		return 0, err
	}
	return v.AsInt()
}

func (h *fakeHost) ReadFloat() (float64, error) {
	v, err := h.ReadAny()
	if err != nil {
		return 0, err
	}
	return v.AsFloat()
}

// ReadString stringifies whatever scalar sits at the current position,
// matching how evalStr() uses a Host's ReadString to render a path's
// underlying value regardless of its native kind.
func (h *fakeHost) ReadString() (string, error) {
	v, err := h.ReadAny()
	if err != nil {
		return "", err
	}
	switch v.Kind {
	case KindString:
		return v.Str, nil
	case KindBool:
		return strconv.FormatBool(v.Bool), nil
	case KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("cannot read a void value as a string")
}

func (h *fakeHost) ReadBytes(offset, length int64) ([]byte, error) {
	s, err := h.ReadString()
	if err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > int64(len(s)) {
		return nil, fmt.Errorf("byte range out of bounds")
	}
	return []byte(s[offset : offset+length]), nil
}

func (h *fakeHost) ReadAny() (Value, error) {
	if !h.cur.isScalar {
		return Value{}, fmt.Errorf("not a scalar")
	}
	return h.cur.scalar, nil
}

func (h *fakeHost) FileSize() (int64, error) { return 1024, nil }
func (h *fakeHost) FileName() string         { return h.fileName }
func (h *fakeHost) ProductClass() string     { return "TESTCLASS" }
func (h *fakeHost) ProductType() string      { return "TESTTYPE" }
func (h *fakeHost) ProductFormat() string    { return "memory" }
func (h *fakeHost) ProductVersion() int      { return h.version }

func (h *fakeHost) VarGet(name string, idx *int64) (int64, error) {
	i := int64(0)
	if idx != nil {
		i = *idx
	}
	arr, ok := h.vars[name]
	if !ok || i < 0 || int(i) >= len(arr) {
		return 0, fmt.Errorf("unknown product variable %q[%d]", name, i)
	}
	return arr[i], nil
}

func (h *fakeHost) VarSet(name string, idx *int64, val int64) error {
	i := int64(0)
	if idx != nil {
		i = *idx
	}
	arr := h.vars[name]
	for int64(len(arr)) <= i {
		arr = append(arr, 0)
	}
	arr[i] = val
	h.vars[name] = arr
	return nil
}

func (h *fakeHost) VarSize(name string) (int64, error) {
	return int64(len(h.vars[name])), nil
}
