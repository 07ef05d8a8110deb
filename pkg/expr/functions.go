package expr

import (
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// defaultTimeLayout matches the ISO-8601-ish layout product metadata most
// commonly uses for time strings; strtime/time fall back to it when no
// explicit format operand is given.
const defaultTimeLayout = "2006-01-02T15:04:05.000000"

func evalStringFn(n *Node, h Host, in *info) (Value, error) {
	switch n.Tag {
	case TagStr:
		return evalStr(n, h, in)
	case TagStrTime:
		return evalStrTime(n, h, in)
	case TagTime:
		return evalTime(n, h, in)
	case TagSubstr:
		return evalSubstr(n, h, in)
	case TagLTrim, TagRTrim, TagTrim:
		return evalTrim(n, h, in)
	case TagBytes:
		return evalBytes(n, h, in)
	case TagRegex:
		return evalRegex(n, h, in)
	}
	return Value{}, evalErr(n, "unhandled string function tag")
}

// evalStr renders any scalar value (or a node's own scalar content) as a
// string, per spec.md §4.7's `str()` conversion function.
func evalStr(n *Node, h Host, in *info) (Value, error) {
	v, err := eval(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case KindString:
		return v, nil
	case KindBool:
		return stringVal(strconv.FormatBool(v.Bool)), nil
	case KindInt:
		return stringVal(strconv.FormatInt(v.Int, 10)), nil
	case KindFloat:
		return stringVal(strconv.FormatFloat(v.Float, 'g', -1, 64)), nil
	case KindNode:
		mark := h.Mark()
		defer h.Reset(mark)
		h.Reset(v.NodePos)
		s, err := h.ReadString()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		return stringVal(s), nil
	}
	return Value{}, evalErr(n, "str() cannot convert a void value")
}

func timeLayout(n *Node, h Host, in *info, fmtOperand *Node) (string, error) {
	if fmtOperand == nil {
		return defaultTimeLayout, nil
	}
	fv, err := evalScalar(fmtOperand, h, in)
	if err != nil {
		return "", err
	}
	s, err := fv.AsString()
	if err != nil {
		return "", evalErr(n, "%w", err)
	}
	return s, nil
}

// evalStrTime converts a double holding seconds since the Unix epoch into
// a formatted string (Operands[1], if present, overrides the layout).
func evalStrTime(n *Node, h Host, in *info) (Value, error) {
	secV, err := evalScalar(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	sec, err := secV.AsFloat()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	layout, err := timeLayout(n, h, in, n.Operands[1])
	if err != nil {
		return Value{}, err
	}
	t := time.Unix(0, 0).UTC().Add(time.Duration(sec * float64(time.Second)))
	return stringVal(t.Format(layout)), nil
}

// evalTime is strtime's inverse: parses a string into seconds since the
// Unix epoch.
func evalTime(n *Node, h Host, in *info) (Value, error) {
	sV, err := evalScalar(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	s, err := sV.AsString()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	layout, err := timeLayout(n, h, in, n.Operands[1])
	if err != nil {
		return Value{}, err
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Value{}, evalErr(n, "time(): %w", err)
	}
	return floatVal(float64(t.UnixNano()) / float64(time.Second)), nil
}

func evalSubstr(n *Node, h Host, in *info) (Value, error) {
	sV, err := evalScalar(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	s, err := sV.AsString()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	offV, err := evalScalar(n.Operands[1], h, in)
	if err != nil {
		return Value{}, err
	}
	off, err := offV.AsInt()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	lenV, err := evalScalar(n.Operands[2], h, in)
	if err != nil {
		return Value{}, err
	}
	length, err := lenV.AsInt()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	if off < 0 || length < 0 || off+length > int64(len(s)) {
		return Value{}, evalErr(n, "substr(): range [%d:%d] out of bounds for a %d-byte string", off, off+length, len(s))
	}
	return stringVal(s[off : off+length]), nil
}

func evalTrim(n *Node, h Host, in *info) (Value, error) {
	sV, err := evalScalar(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	s, err := sV.AsString()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	cutset := " \t\r\n"
	if n.Operands[1] != nil {
		cV, err := evalScalar(n.Operands[1], h, in)
		if err != nil {
			return Value{}, err
		}
		cutset, err = cV.AsString()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
	}
	switch n.Tag {
	case TagLTrim:
		return stringVal(strings.TrimLeft(s, cutset)), nil
	case TagRTrim:
		return stringVal(strings.TrimRight(s, cutset)), nil
	default:
		return stringVal(strings.Trim(s, cutset)), nil
	}
}

// evalBytes reads a raw byte range starting at a node's own offset,
// returned as a Go string holding a copy of those bytes (spec.md §4.7's
// `bytes()` escape hatch for reading opaque data a field's type doesn't
// otherwise expose).
func evalBytes(n *Node, h Host, in *info) (Value, error) {
	baseV, err := eval(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	if baseV.Kind != KindNode {
		return Value{}, evalErr(n, "bytes() requires a node expression")
	}
	offV, err := evalScalar(n.Operands[1], h, in)
	if err != nil {
		return Value{}, err
	}
	off, err := offV.AsInt()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	lenV, err := evalScalar(n.Operands[2], h, in)
	if err != nil {
		return Value{}, err
	}
	length, err := lenV.AsInt()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	mark := h.Mark()
	defer h.Reset(mark)
	h.Reset(baseV.NodePos)
	b, err := h.ReadBytes(off, length)
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	return stringVal(string(b)), nil
}

// evalRegex matches Operands[1] (subject) against the Operands[0] pattern
// compiled by dlclark/regexp2 with Singleline only, so `.` matches
// newline; `$` keeps regexp2's default and also matches before a final
// newline of the subject, not only at its very end.
// With a third operand it returns the text of the named or numbered
// capture group instead of a bool, or "" when there is no match.
func evalRegex(n *Node, h Host, in *info) (Value, error) {
	patV, err := evalScalar(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	pat, err := patV.AsString()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	subV, err := evalScalar(n.Operands[1], h, in)
	if err != nil {
		return Value{}, err
	}
	subj, err := subV.AsString()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	re, err := regexp2.Compile(pat, regexp2.Singleline)
	if err != nil {
		return Value{}, evalErr(n, "regex(): invalid pattern: %w", err)
	}
	if n.Operands[2] == nil {
		ok, err := re.MatchString(subj)
		if err != nil {
			return Value{}, evalErr(n, "regex(): %w", err)
		}
		return boolVal(ok), nil
	}
	m, err := re.FindStringMatch(subj)
	if err != nil {
		return Value{}, evalErr(n, "regex(): %w", err)
	}
	if m == nil {
		return stringVal(""), nil
	}
	groupV, err := evalScalar(n.Operands[2], h, in)
	if err != nil {
		return Value{}, err
	}
	var g *regexp2.Group
	switch groupV.Kind {
	case KindInt:
		g = m.GroupByNumber(int(groupV.Int))
	case KindString:
		g = m.GroupByName(groupV.Str)
	default:
		return Value{}, evalErr(n, "regex(): group must be an int or a string")
	}
	if g == nil || len(g.Captures) == 0 {
		return stringVal(""), nil
	}
	return stringVal(g.String()), nil
}
