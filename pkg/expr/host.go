package expr

import "fmt"

// Value is the tagged result of evaluating a node. Exactly one of the
// typed fields is meaningful, selected by Kind.
type Value struct {
	Kind  ResultKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	// NodePos, when Kind == KindNode, is an opaque snapshot of cursor
	// position produced and consumed only by the Host implementation
	// (pkg/cursor). expr never inspects it.
	NodePos any
}

func boolVal(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func intVal(i int64) Value    { return Value{Kind: KindInt, Int: i} }
func floatVal(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func stringVal(s string) Value { return Value{Kind: KindString, Str: s} }
func voidVal() Value           { return Value{Kind: KindVoid} }

// AsFloat promotes an int or float Value to float64; used wherever the
// grammar allows mixed int/float operands.
func (v Value) AsFloat() (float64, error) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), nil
	case KindFloat:
		return v.Float, nil
	}
	return 0, fmt.Errorf("expr: expected numeric value, got %v", v.Kind)
}

// AsInt requires an exact int Value (used by subscript/loop bounds).
func (v Value) AsInt() (int64, error) {
	if v.Kind != KindInt {
		return 0, fmt.Errorf("expr: expected int value, got %v", v.Kind)
	}
	return v.Int, nil
}

func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, fmt.Errorf("expr: expected bool value, got %v", v.Kind)
	}
	return v.Bool, nil
}

func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("expr: expected string value, got %v", v.Kind)
	}
	return v.Str, nil
}

// Host is everything the evaluator needs from a live cursor. pkg/cursor
// implements this so pkg/expr never imports it (see ast.go package doc).
// Every navigation method mutates the receiver in place; callers save a
// NodePos (via Mark/Reset) when they need to restore position afterward
// (used by `at` and by every aggregation function).
type Host interface {
	// Mark snapshots the current position; Reset restores it.
	Mark() any
	Reset(mark any)

	// PathString renders the current position as a "/"-delimited path,
	// used to annotate navigation failures with the path being navigated.
	PathString() string

	GotoRoot()
	GotoParent() error
	GotoField(name string) error
	GotoIndex(idx int64) error
	GotoAttributes() error
	GotoASCIILine(lineIdx int64) error

	NumElements() (int64, error)
	Dim(k int) (int64, error)
	NumDims() (int, error)
	IndexInParent() (int64, error)

	BitSize() (int64, error)
	ByteSize() (int64, error)
	BitOffset() (int64, error)
	ByteOffset() (int64, error)
	StringLength() (int64, error)

	ReadBool() (bool, error)
	ReadInt() (int64, error)
	ReadFloat() (float64, error)
	ReadString() (string, error)
	ReadBytes(offset, length int64) ([]byte, error)

	// ReadAny reads the scalar at the current position using whatever
	// type is natively stored there, wrapped in a Value of the matching
	// Kind. Used for implicit path-to-value coercion: a path expression
	// used where a scalar is expected (an operand of +, ==, and, ...)
	// reads through to its underlying value.
	ReadAny() (Value, error)

	FileSize() (int64, error)
	FileName() string
	ProductClass() string
	ProductType() string
	ProductFormat() string
	ProductVersion() int

	// Product variables ($name[i]).
	VarGet(name string, idx *int64) (int64, error)
	VarSet(name string, idx *int64, val int64) error

	// VarSize reports the current length of the named product variable,
	// the iteration bound for exists($name, ...)/index($name, ...).
	VarSize(name string) (int64, error)
}

// resolveValue dereferences a KindNode Value to the scalar stored at that
// position, leaving every other Kind untouched. Host position is restored
// before returning.
func resolveValue(v Value, h Host) (Value, error) {
	if v.Kind != KindNode {
		return v, nil
	}
	if h == nil {
		return Value{}, fmt.Errorf("expr: cannot read a path value without a cursor")
	}
	mark := h.Mark()
	defer h.Reset(mark)
	h.Reset(v.NodePos)
	return h.ReadAny()
}
