package typemodel

import "github.com/scicoda/coda/pkg/expr"

// Field is one member of a Record (spec.md §3).
type Field struct {
	Name      string // field name; unique within the record, forms the name set
	RealName  string // hash-keyed real-name index entry; defaults to Name
	Optional  bool
	Hidden    bool
	Available *expr.Node // available_expr; nil means always available
	BitOffset *expr.Node // bit_offset_expr; nil means "natural running offset"
	Type      Type
}

// Record is the Record subclass of spec.md §3: an ordered field sequence,
// optionally a union.
type Record struct {
	Base
	Fields []Field

	IsUnion        bool
	UnionFieldExpr *expr.Node // non-nil iff IsUnion (construction-validated)

	nameIndex     map[string]int
	realNameIndex map[string]int
}

// NewRecord constructs a Record type, validating spec.md §4.1's
// "union field-expr non-null iff is_union" and building the name /
// real-name indexes used by goto_record_field_by_name.
func NewRecord(name string, attrs *Record, format Format, fields []Field, isUnion bool, unionExpr *expr.Node) (*Record, error) {
	if isUnion && unionExpr == nil {
		return nil, newf("typemodel: %q: union record requires a union_field_expr", name)
	}
	if !isUnion && unionExpr != nil {
		return nil, newf("typemodel: %q: union_field_expr set but is_union is false", name)
	}
	nameIdx := make(map[string]int, len(fields))
	realIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := nameIdx[f.Name]; dup {
			return nil, newf("typemodel: %q: duplicate field name %q", name, f.Name)
		}
		nameIdx[f.Name] = i
		rn := f.RealName
		if rn == "" {
			rn = f.Name
		}
		realIdx[rn] = i
	}
	base, err := NewBase(name, ClassRecord, RTBytes, BitSize{Kind: BitSizeDynamic, Expr: dummySizeExpr()}, attrs, format)
	if err != nil {
		return nil, err
	}
	// Records computed their own natural bit_size by summing field
	// sizes; callers that know a static total may instead call
	// NewRecordWithStaticSize.
	return &Record{Base: base, Fields: fields, IsUnion: isUnion, UnionFieldExpr: unionExpr,
		nameIndex: nameIdx, realNameIndex: realIdx}, nil
}

// NewRecordWithStaticSize is NewRecord for a record whose total bit_size
// is known at definition time (the common case for fixed binary/ASCII
// records with no optional or dynamically-sized fields).
func NewRecordWithStaticSize(name string, attrs *Record, format Format, fields []Field, isUnion bool, unionExpr *expr.Node, bitSize int64) (*Record, error) {
	r, err := NewRecord(name, attrs, format, fields, isUnion, unionExpr)
	if err != nil {
		return nil, err
	}
	r.bitSize = BitSize{Kind: BitSizeLiteral, Literal: bitSize}
	return r, nil
}

// dummySizeExpr stands in for "the dynamic-type tree resolves this, the
// static Type never does" — a record's own aggregate bit_size is computed
// per-instance from its (possibly dynamic) fields, never read from the
// static Type by name, so this Expr node is never evaluated; it exists
// only so BitSize's "dynamic requires an Expr" invariant holds uniformly
// across every Type subclass.
func dummySizeExpr() *expr.Node {
	return &expr.Node{Tag: expr.TagHere, Kind: expr.KindNode}
}

// FieldCount returns the number of fields (spec.md §4.1).
func (r *Record) FieldCount() int { return len(r.Fields) }

// FieldByIndex returns field k, or an error if k is out of range.
func (r *Record) FieldByIndex(k int) (*Field, error) {
	if k < 0 || k >= len(r.Fields) {
		return nil, newf("typemodel: field index %d out of range [0,%d)", k, len(r.Fields))
	}
	return &r.Fields[k], nil
}

// FieldByName looks up a field by its exact Name (the name-set lookup of
// spec.md §3; distinct from the RealName hash index used by
// goto_record_field_by_name-style real-name lookups).
func (r *Record) FieldByName(name string) (int, *Field, bool) {
	i, ok := r.nameIndex[name]
	if !ok {
		return 0, nil, false
	}
	return i, &r.Fields[i], true
}

// FieldByRealName looks up a field by its RealName via the hash-keyed
// real-name index (spec.md §3: "real-names form a hash-keyed index").
func (r *Record) FieldByRealName(realName string) (int, *Field, bool) {
	i, ok := r.realNameIndex[realName]
	if !ok {
		return 0, nil, false
	}
	return i, &r.Fields[i], true
}
