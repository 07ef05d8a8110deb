package expr

import (
	"fmt"
	"math"

	"github.com/scicoda/coda/internal/errs"
)

// EvalError wraps a failure with the node that produced it, matching
// spec.md §7 ("the evaluator annotates cursor-position errors with the
// failing path").
type EvalError struct {
	Node *Node
	Err  error
}

func (e *EvalError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("expr: %v (in %s)", e.Err, e.Node.String())
	}
	return fmt.Sprintf("expr: %v", e.Err)
}
func (e *EvalError) Unwrap() error { return e.Err }

func evalErr(n *Node, format string, args ...any) error {
	return &EvalError{Node: n, Err: fmt.Errorf(format, args...)}
}

// info carries per-evaluation mutable state: with-scoped index variables
// and, at most one at a time, the product-variable search currently in
// progress for an enclosing exists($name,...)/index($name,...) (spec.md
// §4.7 "Product variables"). Nested searches are rejected, matching the
// single variable_name/variable_index slot of the original evaluator.
type info struct {
	vars map[string]int64

	varName  string // "" when no search is active
	varIndex int64
}

func newInfo() *info {
	return &info{vars: map[string]int64{}}
}

func (i *info) withVar(name string, v int64, fn func() (Value, error)) (Value, error) {
	old, had := i.vars[name]
	i.vars[name] = v
	defer func() {
		if had {
			i.vars[name] = old
		} else {
			delete(i.vars, name)
		}
	}()
	return fn()
}

// Eval evaluates n against host. A nil host is only valid when n.IsConstant()
// returns true (spec.md §8 property 6); evaluating a non-constant node with
// a nil host returns an error rather than panicking.
func Eval(n *Node, host Host) (Value, error) {
	if n.IsConstant() {
		return evalConstant(n)
	}
	if host == nil {
		return Value{}, evalErr(n, "expression requires a cursor but none was supplied")
	}
	return eval(n, host, newInfo())
}

// EvalConstant evaluates a node known to be constant without a cursor.
func EvalConstant(n *Node) (Value, error) { return evalConstant(n) }

func evalConstant(n *Node) (Value, error) { return eval(n, nil, newInfo()) }

// evalScalar evaluates n and, if the result is a path (KindNode), reads
// through to its underlying scalar value. Every operator that expects a
// bool/int/float/string operand evaluates its operands this way so that
// paths can be used directly wherever a value is expected.
func evalScalar(n *Node, h Host, in *info) (Value, error) {
	v, err := eval(n, h, in)
	if err != nil {
		return Value{}, err
	}
	rv, err := resolveValue(v, h)
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	return rv, nil
}

func eval(n *Node, h Host, in *info) (Value, error) {
	switch n.Tag {
	case TagLiteralBool:
		return boolVal(n.BoolVal), nil
	case TagLiteralInt:
		return intVal(n.IntVal), nil
	case TagLiteralFloat:
		return floatVal(n.FloatVal), nil
	case TagLiteralString, TagLiteralRawString:
		return stringVal(n.StrVal), nil

	case TagAdd, TagSub, TagMul, TagDiv, TagMod:
		return evalArith(n, h, in)
	case TagPow:
		return evalPow(n, h, in)
	case TagNeg:
		return evalUnaryNumeric(n, h, in, func(f float64) float64 { return -f }, func(i int64) int64 { return -i })
	case TagAbs:
		return evalUnaryNumeric(n, h, in, math.Abs, func(i int64) int64 {
			if i < 0 {
				return -i
			}
			return i
		})
	case TagCeil:
		return evalFloatToFloat(n, h, in, math.Ceil)
	case TagFloor:
		return evalFloatToFloat(n, h, in, math.Floor)
	case TagRound:
		return evalFloatToFloat(n, h, in, roundHalfAwayFromZero)
	case TagIsNaN:
		return evalFloatPredicate(n, h, in, math.IsNaN)
	case TagIsInf:
		return evalFloatPredicate(n, h, in, func(f float64) bool { return math.IsInf(f, 0) })
	case TagIsPlusInf:
		return evalFloatPredicate(n, h, in, func(f float64) bool { return math.IsInf(f, 1) })
	case TagIsMinInf:
		return evalFloatPredicate(n, h, in, func(f float64) bool { return math.IsInf(f, -1) })
	case TagBitAnd, TagBitOr:
		return evalBitwise(n, h, in)

	case TagEq, TagNe, TagLt, TagLe, TagGt, TagGe:
		return evalCompare(n, h, in)

	case TagNot:
		v, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		b, err := v.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return boolVal(!b), nil
	case TagAnd:
		l, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		lb, err := l.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if !lb {
			return boolVal(false), nil
		}
		r, err := evalScalar(n.Operands[1], h, in)
		if err != nil {
			return Value{}, err
		}
		rb, err := r.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return boolVal(rb), nil
	case TagOr:
		l, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		lb, err := l.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if lb {
			return boolVal(true), nil
		}
		r, err := evalScalar(n.Operands[1], h, in)
		if err != nil {
			return Value{}, err
		}
		rb, err := r.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return boolVal(rb), nil

	case TagAdd_, TagMin, TagMax, TagCount, TagAll, TagExists, TagIndexOf, TagUnboundIndex:
		return evalAggregate(n, h, in)

	case TagHere:
		return Value{Kind: KindNode, NodePos: h.Mark()}, nil
	case TagRoot:
		mark := h.Mark()
		h.GotoRoot()
		pos := h.Mark()
		h.Reset(mark)
		return Value{Kind: KindNode, NodePos: pos}, nil
	case TagParent:
		mark := h.Mark()
		if err := h.GotoParent(); err != nil {
			h.Reset(mark)
			return Value{}, evalErr(n, "%w", err)
		}
		pos := h.Mark()
		h.Reset(mark)
		return Value{Kind: KindNode, NodePos: pos}, nil
	case TagField:
		return evalNavigate(n, h, in, func() error { return h.GotoField(n.Ident) })
	case TagSubscript:
		idxV, err := evalScalar(n.Operands[1], h, in)
		if err != nil {
			return Value{}, err
		}
		idx, err := idxV.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return evalNavigate(n, h, in, func() error { return h.GotoIndex(idx) })
	case TagAttribute:
		return evalNavigate(n, h, in, func() error { return h.GotoAttributes() })
	case TagASCIILine:
		lineV, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		line, err := lineV.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return evalNavigate(n, h, in, func() error { return h.GotoASCIILine(line) })
	case TagGoto:
		base, err := eval(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		if base.Kind != KindNode {
			return Value{}, evalErr(n, "goto requires a node expression")
		}
		h.Reset(base.NodePos)
		return eval(n.Operands[1], h, in)
	case TagAt:
		mark := h.Mark()
		defer h.Reset(mark)
		base, err := eval(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		if base.Kind != KindNode {
			return Value{}, evalErr(n, "at() path argument must be a node")
		}
		h.Reset(base.NodePos)
		return eval(n.Operands[1], h, in)

	case TagBitSize:
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.BitSize() })
	case TagByteSize:
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.ByteSize() })
	case TagBitOffset:
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.BitOffset() })
	case TagByteOffset:
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.ByteOffset() })
	case TagNumElements:
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.NumElements() })
	case TagLength:
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.StringLength() })
	case TagIndexInParent:
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.IndexInParent() })
	case TagNumDims:
		return evalNodeMetaIntFn(n, h, in, func() (int64, error) {
			d, err := h.NumDims()
			return int64(d), err
		})
	case TagDim:
		kV, err := evalScalar(n.Operands[1], h, in)
		if err != nil {
			return Value{}, err
		}
		k, err := kV.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return evalNodeMetaInt(n, h, in, func() (int64, error) { return h.Dim(int(k)) })

	case TagFileSize:
		sz, err := h.FileSize()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return intVal(sz), nil
	case TagFileName:
		return stringVal(h.FileName()), nil
	case TagProductClass:
		return stringVal(h.ProductClass()), nil
	case TagProductType:
		return stringVal(h.ProductType()), nil
	case TagProductFormat:
		return stringVal(h.ProductFormat()), nil
	case TagProductVersion:
		return intVal(int64(h.ProductVersion())), nil

	case TagStr, TagStrTime, TagTime, TagSubstr, TagLTrim, TagRTrim, TagTrim, TagBytes, TagRegex:
		return evalStringFn(n, h, in)

	case TagVarRef:
		if in.varName == n.Ident {
			return intVal(in.varIndex), nil
		}
		v, err := h.VarGet(n.Ident, nil)
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return intVal(v), nil
	case TagVarIndex:
		if in.varName == n.Ident {
			return Value{}, evalErr(n, "cannot use index on product variable '%s' when performing a search", n.Ident)
		}
		idxV, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		idx, err := idxV.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		v, err := h.VarGet(n.Ident, &idx)
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return intVal(v), nil
	case TagVarSearchExists, TagVarSearchIndex:
		return evalVarSearch(n, h, in)
	case TagVarAssign:
		v, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		iv, err := v.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if err := h.VarSet(n.Ident, nil, iv); err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return voidVal(), nil
	case TagVarIndexAssign:
		idxV, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		idx, err := idxV.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		v, err := evalScalar(n.Operands[1], h, in)
		if err != nil {
			return Value{}, err
		}
		iv, err := v.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if err := h.VarSet(n.Ident, &idx, iv); err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return voidVal(), nil

	case TagIndexVar:
		return intVal(in.vars[n.Ident]), nil
	case TagFor:
		return evalFor(n, h, in)
	case TagIf:
		c, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		cb, err := c.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if cb {
			return eval(n.Operands[1], h, in)
		}
		return eval(n.Operands[2], h, in)
	case TagWith:
		vV, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		vi, err := vV.AsInt()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return in.withVar(n.Ident, vi, func() (Value, error) { return eval(n.Operands[1], h, in) })
	case TagSequence:
		if _, err := eval(n.Operands[0], h, in); err != nil {
			return Value{}, err
		}
		return eval(n.Operands[1], h, in)
	}
	return Value{}, evalErr(n, "unhandled tag %d", n.Tag)
}

// evalVarSearch implements the product-variable form of exists/index:
// exists($name, pred) and index($name, pred) scan $name's own index range
// (0..size) binding $name (read bare, without an explicit index) to the
// current search index while pred is evaluated. Nested searches over the
// same evaluation are rejected, matching the single active search slot of
// the original evaluator.
func evalVarSearch(n *Node, h Host, in *info) (Value, error) {
	if in.varName != "" {
		return Value{}, evalErr(n, "cannot perform search within search for product variables")
	}
	size, err := h.VarSize(n.Ident)
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	in.varName = n.Ident
	defer func() { in.varName = "" }()
	for i := int64(0); i < size; i++ {
		in.varIndex = i
		cond, err := evalScalar(n.Operands[0], h, in)
		if err != nil {
			return Value{}, err
		}
		b, err := cond.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if b {
			if n.Tag == TagVarSearchExists {
				return boolVal(true), nil
			}
			return intVal(i), nil
		}
	}
	if n.Tag == TagVarSearchExists {
		return boolVal(false), nil
	}
	return intVal(-1), nil
}

func evalNavigate(n *Node, h Host, in *info, move func() error) (Value, error) {
	mark := h.Mark()
	if err := move(); err != nil {
		h.Reset(mark)
		return Value{}, evalErr(n, "%w", annotatePath(err, h))
	}
	pos := h.Mark()
	h.Reset(mark)
	return Value{Kind: KindNode, NodePos: pos}, nil
}

// annotatePath attaches the current navigation path to a *errs.Error
// (spec.md §7: "the evaluator annotates cursor-position errors with the
// failing path"), leaving any other error kind untouched.
func annotatePath(err error, h Host) error {
	ce, ok := err.(*errs.Error)
	if !ok {
		return err
	}
	return ce.WithPath(h.PathString())
}

func evalNodeMetaInt(n *Node, h Host, in *info, get func() (int64, error)) (Value, error) {
	base, err := eval(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	if base.Kind != KindNode {
		return Value{}, evalErr(n, "expected a node expression")
	}
	mark := h.Mark()
	defer h.Reset(mark)
	h.Reset(base.NodePos)
	v, err := get()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	return intVal(v), nil
}

func evalNodeMetaIntFn(n *Node, h Host, in *info, get func() (int64, error)) (Value, error) {
	return evalNodeMetaInt(n, h, in, get)
}

func evalFor(n *Node, h Host, in *info) (Value, error) {
	aV, err := evalScalar(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	a, err := aV.AsInt()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	bV, err := evalScalar(n.Operands[1], h, in)
	if err != nil {
		return Value{}, err
	}
	b, err := bV.AsInt()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	step := n.Step
	if step == 0 {
		step = 1
	}
	var count int64
	for i := a; (step > 0 && i <= b) || (step < 0 && i >= b); i += step {
		if count > DefaultLimits().MaxLoopIterations {
			return Value{}, evalErr(n, "for-loop exceeded maximum iteration count")
		}
		count++
		if _, err := in.withVar(n.Ident, i, func() (Value, error) { return eval(n.Operands[2], h, in) }); err != nil {
			return Value{}, err
		}
	}
	return voidVal(), nil
}
