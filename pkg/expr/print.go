package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects how Print escapes literal text and renders its output,
// matching spec.md §4.7's three pretty-print targets.
type Dialect int

const (
	DialectPlain Dialect = iota
	DialectXML
	DialectHTML
)

type printer struct {
	dialect Dialect
	buf     strings.Builder
}

// Print renders n back into expression source text. The result always
// reparses to a structurally equal tree (spec.md §8 property: pretty-
// printing is a faithful round trip).
func Print(n *Node, d Dialect) (string, error) {
	p := &printer{dialect: d}
	if err := p.print(n); err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

func (p *printer) keyword(s string) string {
	switch p.dialect {
	case DialectHTML:
		return "<b>" + s + "</b>"
	default:
		return s
	}
}

func (p *printer) escape(s string) string {
	switch p.dialect {
	case DialectXML:
		r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
		return r.Replace(s)
	case DialectHTML:
		r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
		return r.Replace(s)
	default:
		return s
	}
}

func (p *printer) writeString(q string) {
	p.buf.WriteString(p.escape(q))
}

func (p *printer) call(name string, operands ...*Node) error {
	p.buf.WriteString(p.keyword(name))
	p.buf.WriteByte('(')
	for i, op := range operands {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		if err := p.print(op); err != nil {
			return err
		}
	}
	p.buf.WriteByte(')')
	return nil
}

func (p *printer) binary(op string, a, b *Node) error {
	p.buf.WriteByte('(')
	if err := p.print(a); err != nil {
		return err
	}
	opText := " " + op + " "
	if op != p.keyword("and") && op != p.keyword("or") {
		opText = p.escape(opText)
	}
	p.buf.WriteString(opText)
	if err := p.print(b); err != nil {
		return err
	}
	p.buf.WriteByte(')')
	return nil
}

func (p *printer) print(n *Node) error {
	if n == nil {
		return fmt.Errorf("expr: print: nil node")
	}
	switch n.Tag {
	case TagLiteralBool:
		p.writeString(strconv.FormatBool(n.BoolVal))
	case TagLiteralInt:
		p.writeString(strconv.FormatInt(n.IntVal, 10))
	case TagLiteralFloat:
		p.writeString(strconv.FormatFloat(n.FloatVal, 'g', -1, 64))
	case TagLiteralString:
		p.writeString(strconv.Quote(n.StrVal))
	case TagLiteralRawString:
		if n.rawIdent {
			p.writeString(n.StrVal)
			break
		}
		p.writeString("r\"" + n.StrVal + "\"")

	case TagAdd:
		return p.binary("+", n.Operands[0], n.Operands[1])
	case TagSub:
		return p.binary("-", n.Operands[0], n.Operands[1])
	case TagMul:
		return p.binary("*", n.Operands[0], n.Operands[1])
	case TagDiv:
		return p.binary("/", n.Operands[0], n.Operands[1])
	case TagMod:
		return p.binary("%", n.Operands[0], n.Operands[1])
	case TagPow:
		return p.binary("^", n.Operands[0], n.Operands[1])
	case TagBitAnd:
		return p.binary("&", n.Operands[0], n.Operands[1])
	case TagBitOr:
		return p.binary("|", n.Operands[0], n.Operands[1])
	case TagEq:
		return p.binary("==", n.Operands[0], n.Operands[1])
	case TagNe:
		return p.binary("!=", n.Operands[0], n.Operands[1])
	case TagLt:
		return p.binary("<", n.Operands[0], n.Operands[1])
	case TagLe:
		return p.binary("<=", n.Operands[0], n.Operands[1])
	case TagGt:
		return p.binary(">", n.Operands[0], n.Operands[1])
	case TagGe:
		return p.binary(">=", n.Operands[0], n.Operands[1])
	case TagAnd:
		return p.binary(p.keyword("and"), n.Operands[0], n.Operands[1])
	case TagOr:
		return p.binary(p.keyword("or"), n.Operands[0], n.Operands[1])

	case TagNeg:
		p.writeString("-(")
		if err := p.print(n.Operands[0]); err != nil {
			return err
		}
		p.buf.WriteByte(')')
	case TagNot:
		p.writeString("!(")
		if err := p.print(n.Operands[0]); err != nil {
			return err
		}
		p.buf.WriteByte(')')

	case TagAbs:
		return p.call("abs", n.Operands[0])
	case TagCeil:
		return p.call("ceil", n.Operands[0])
	case TagFloor:
		return p.call("floor", n.Operands[0])
	case TagRound:
		return p.call("round", n.Operands[0])
	case TagIsNaN:
		return p.call("isnan", n.Operands[0])
	case TagIsInf:
		return p.call("isinf", n.Operands[0])
	case TagIsPlusInf:
		return p.call("isplusinf", n.Operands[0])
	case TagIsMinInf:
		return p.call("isminf", n.Operands[0])

	case TagAdd_:
		return p.call("add", n.Operands[0], n.Operands[1])
	case TagMin:
		return p.call("min", n.Operands[0], n.Operands[1])
	case TagMax:
		return p.call("max", n.Operands[0], n.Operands[1])
	case TagCount:
		return p.call("count", n.Operands[0])
	case TagAll:
		return p.call("all", n.Operands[0], n.Operands[1])
	case TagExists:
		return p.call("exists", n.Operands[0], n.Operands[1])
	case TagIndexOf:
		return p.call("index", n.Operands[0], n.Operands[1])
	case TagUnboundIndex:
		return p.call("unboundindex", n.Operands[0], n.Operands[1])
	case TagIndexInParent:
		return p.call("index", n.Operands[0])

	case TagHere:
		p.writeString(".")
	case TagRoot:
		p.writeString("/")
	case TagParent:
		p.writeString("..")
	case TagField:
		p.writeString("/" + n.Ident)
	case TagSubscript:
		p.writeString("[")
		if err := p.print(n.Operands[1]); err != nil {
			return err
		}
		p.writeString("]")
	case TagAttribute:
		p.writeString("@")
	case TagASCIILine:
		return p.call("asciiline", n.Operands[0])
	case TagGoto:
		if frag, ok, err := p.chainFragment(n); err != nil {
			return err
		} else if ok {
			p.writeString(frag)
			return nil
		}
		return p.call("goto", n.Operands[0], n.Operands[1])
	case TagAt:
		return p.call("at", n.Operands[0], n.Operands[1])

	case TagBitSize:
		return p.call("bitsize", n.Operands[0])
	case TagByteSize:
		return p.call("bytesize", n.Operands[0])
	case TagBitOffset:
		return p.call("bitoffset", n.Operands[0])
	case TagByteOffset:
		return p.call("byteoffset", n.Operands[0])
	case TagNumElements:
		return p.call("numelements", n.Operands[0])
	case TagDim:
		return p.call("dim", n.Operands[0], n.Operands[1])
	case TagNumDims:
		return p.call("numdims", n.Operands[0])
	case TagLength:
		return p.call("length", n.Operands[0])
	case TagFileSize:
		return p.call("filesize")
	case TagFileName:
		return p.call("filename")
	case TagProductClass:
		return p.call("productclass")
	case TagProductType:
		return p.call("producttype")
	case TagProductFormat:
		return p.call("productformat")
	case TagProductVersion:
		return p.call("productversion")

	case TagStr:
		return p.call("str", n.Operands[0])
	case TagStrTime:
		return p.printOptionalArg("strtime", n.Operands[0], n.Operands[1])
	case TagTime:
		return p.printOptionalArg("time", n.Operands[0], n.Operands[1])
	case TagSubstr:
		return p.call("substr", n.Operands[0], n.Operands[1], n.Operands[2])
	case TagLTrim:
		return p.printOptionalArg("ltrim", n.Operands[0], n.Operands[1])
	case TagRTrim:
		return p.printOptionalArg("rtrim", n.Operands[0], n.Operands[1])
	case TagTrim:
		return p.printOptionalArg("trim", n.Operands[0], n.Operands[1])
	case TagBytes:
		return p.call("bytes", n.Operands[0], n.Operands[1], n.Operands[2])
	case TagRegex:
		if n.Operands[2] != nil {
			return p.call("regex", n.Operands[0], n.Operands[1], n.Operands[2])
		}
		return p.call("regex", n.Operands[0], n.Operands[1])

	case TagVarRef:
		p.writeString("$" + n.Ident)
	case TagVarIndex:
		p.writeString("$" + n.Ident + "[")
		if err := p.print(n.Operands[0]); err != nil {
			return err
		}
		p.writeString("]")
	case TagVarSearchExists:
		return p.call("exists", identVarNode(n.Ident), n.Operands[0])
	case TagVarSearchIndex:
		return p.call("index", identVarNode(n.Ident), n.Operands[0])
	case TagVarAssign:
		p.writeString("$" + n.Ident + " = ")
		return p.print(n.Operands[0])
	case TagVarIndexAssign:
		p.writeString("$" + n.Ident + "[")
		if err := p.print(n.Operands[0]); err != nil {
			return err
		}
		p.writeString("] = ")
		return p.print(n.Operands[1])

	case TagIndexVar:
		p.writeString(n.Ident)
	case TagFor:
		step := n.Step
		if step == 0 {
			return p.call("for", identNode(n.Ident), n.Operands[0], n.Operands[1], n.Operands[2])
		}
		return p.call("for", identNode(n.Ident), n.Operands[0], n.Operands[1], intLiteral(step), n.Operands[2])
	case TagIf:
		return p.call("if", n.Operands[0], n.Operands[1], n.Operands[2])
	case TagWith:
		return p.call("with", identNode(n.Ident), n.Operands[0], n.Operands[1])
	case TagSequence:
		if err := p.print(n.Operands[0]); err != nil {
			return err
		}
		p.writeString("; ")
		return p.print(n.Operands[1])

	default:
		return fmt.Errorf("expr: print: unhandled tag %d", n.Tag)
	}
	return nil
}

// chainFragment recognizes a nested Goto(base, step) tree built by the
// parser's path-chaining sugar (buildGoto in parser.go) and renders it as
// compact path syntax ("/a/b[2]") instead of an explicit goto(a, b) call.
// It reports ok=false for anything that isn't chain-shaped, so the caller
// falls back to the general call form.
func (p *printer) chainFragment(n *Node) (string, bool, error) {
	switch n.Tag {
	case TagHere:
		return ".", true, nil
	case TagRoot:
		return "/", true, nil
	case TagParent:
		return "..", true, nil
	case TagField:
		return "/" + n.Ident, true, nil
	case TagAttribute:
		return "@", true, nil
	case TagSubscript:
		inner, err := p.sub(n.Operands[1])
		if err != nil {
			return "", false, err
		}
		return "[" + inner + "]", true, nil
	case TagGoto:
		baseFrag, ok, err := p.chainFragment(n.Operands[0])
		if err != nil || !ok {
			return "", ok, err
		}
		stepFrag, ok, err := p.chainFragment(n.Operands[1])
		if err != nil || !ok {
			return "", ok, err
		}
		if strings.HasPrefix(stepFrag, "/") && (strings.HasSuffix(baseFrag, "/") || strings.HasSuffix(baseFrag, "@")) {
			stepFrag = stepFrag[1:]
		}
		return baseFrag + stepFrag, true, nil
	}
	return "", false, nil
}

// sub renders n into its own string without disturbing the printer's main
// buffer, used by chainFragment to build fragments speculatively.
func (p *printer) sub(n *Node) (string, error) {
	saved := p.buf
	p.buf = strings.Builder{}
	err := p.print(n)
	s := p.buf.String()
	p.buf = saved
	return s, err
}

// printOptionalArg prints name(a) or name(a, b) depending on whether b is
// present, for the functions whose trailing format/cutset argument is
// optional.
func (p *printer) printOptionalArg(name string, a, b *Node) error {
	if b == nil {
		return p.call(name, a)
	}
	return p.call(name, a, b)
}

// identNode and intLiteral synthesize printer-only placeholder nodes for
// positions (a for()/with() bound name, a literal step) that the grammar
// spells as a bare token rather than a sub-expression.
func identNode(name string) *Node {
	return &Node{Tag: TagLiteralRawString, StrVal: name, rawIdent: true}
}

// identVarNode synthesizes a placeholder printed as "$name", used for the
// bare $var argument of the product-variable search form of exists/index.
func identVarNode(name string) *Node {
	return &Node{Tag: TagLiteralRawString, StrVal: "$" + name, rawIdent: true}
}

func intLiteral(v int64) *Node {
	return &Node{Tag: TagLiteralInt, IntVal: v}
}
