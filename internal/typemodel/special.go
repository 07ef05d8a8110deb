package typemodel

import "github.com/scicoda/coda/pkg/expr"

// SpecialKind is the Special subclass's discriminator (spec.md §3).
type SpecialKind int

const (
	SpecialTime SpecialKind = iota
	SpecialVSFInteger
	SpecialComplex
	SpecialNoData
)

func (k SpecialKind) String() string {
	switch k {
	case SpecialTime:
		return "time"
	case SpecialVSFInteger:
		return "vsf_integer"
	case SpecialComplex:
		return "complex"
	case SpecialNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// Special is the Special subclass of spec.md §3: a type whose logical
// value is derived from BaseType via an optional ValueExpr.
type Special struct {
	Base
	Kind      SpecialKind
	BaseType  Type
	ValueExpr *expr.Node // nil for vsf_integer/complex/no_data, whose value
	// is computed structurally (internal/coerce's special.go) rather than
	// by a general expression.
}

// NewSpecial constructs a Special type. BaseType must be non-nil for
// time/vsf_integer/complex; no_data is the lone kind that may omit it
// (used as the synthetic frame an unavailable optional field resolves to,
// per spec.md §4.3).
func NewSpecial(name string, bitSize BitSize, attrs *Record, format Format, kind SpecialKind, base Type, valueExpr *expr.Node) (*Special, error) {
	if kind != SpecialNoData && base == nil {
		return nil, newf("typemodel: %q: special kind %s requires a base type", name, kind)
	}
	b, err := NewBase(name, ClassSpecial, RTBytes, bitSize, attrs, format)
	if err != nil {
		return nil, err
	}
	return &Special{Base: b, Kind: kind, BaseType: base, ValueExpr: valueExpr}, nil
}

// NoData is the shared singleton synthetic frame spec.md §4.3 mandates
// ("Optional fields that evaluate unavailable resolve to a synthetic
// no_data frame"); it carries zero bit_size since it occupies no space in
// the product file.
var NoData = mustNoData()

func mustNoData() *Special {
	s, err := NewSpecial("no_data", BitSize{Kind: BitSizeLiteral, Literal: 0}, nil, FormatMemory, SpecialNoData, nil, nil)
	if err != nil {
		panic(err)
	}
	return s
}
