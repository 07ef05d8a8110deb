// Package typemodel implements the immutable type description machinery
// (spec.md §3 "Type (C1)", §4.1). A Type is constructed once — at
// .codadef load or during XML/NetCDF schema-lift (internal/xmlschema) —
// and never mutated afterward; dynamic per-product state lives one layer
// up in internal/dynamictype.
//
// Queries on a Type never perform I/O: static bit-size, attribute lookup,
// field lookup, array rank and fixed dimensions are all answered from the
// in-memory description. Anything that depends on product content (a
// dynamic size, an available_expr) is routed through a cursor instead
// (pkg/cursor), which is why Type stores compiled *expr.Node trees rather
// than evaluating them itself.
package typemodel

import (
	"fmt"

	"github.com/scicoda/coda/pkg/expr"
)

// Class is the coarse kind of a logical entity (spec.md §3).
type Class int

const (
	ClassInteger Class = iota
	ClassReal
	ClassText
	ClassRaw
	ClassArray
	ClassRecord
	ClassSpecial
)

func (c Class) String() string {
	switch c {
	case ClassInteger:
		return "integer"
	case ClassReal:
		return "real"
	case ClassText:
		return "text"
	case ClassRaw:
		return "raw"
	case ClassArray:
		return "array"
	case ClassRecord:
		return "record"
	case ClassSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// ReadType is the primitive stored representation (spec.md §3).
type ReadType int

const (
	RTInt8 ReadType = iota
	RTUint8
	RTInt16
	RTUint16
	RTInt32
	RTUint32
	RTInt64
	RTUint64
	RTFloat
	RTDouble
	RTChar
	RTString
	RTBytes
)

func (r ReadType) String() string {
	names := [...]string{"int8", "uint8", "int16", "uint16", "int32", "uint32",
		"int64", "uint64", "float", "double", "char", "string", "bytes"}
	if int(r) < 0 || int(r) >= len(names) {
		return "invalid"
	}
	return names[r]
}

// IsNumeric reports whether r is one of the 10 numeric read-types the
// coercion lattice (internal/coerce) and array engine widen between.
func (r ReadType) IsNumeric() bool { return r <= RTDouble }

// BitSizeKind distinguishes a literal bit_size from the two dynamic
// sentinels spec.md §3 defines.
type BitSizeKind int

const (
	BitSizeLiteral BitSizeKind = iota
	BitSizeDynamic    // size_expr evaluates the bit count directly
	BitSizeByteExpr   // size_expr evaluates a byte count; bits = 8×that
)

// BitSize is either a literal non-negative bit count or one of the two
// dynamic sentinels, paired with the expression that resolves it.
type BitSize struct {
	Kind    BitSizeKind
	Literal int64       // valid iff Kind == BitSizeLiteral
	Expr    *expr.Node  // valid iff Kind != BitSizeLiteral
}

// Format identifies which backend (internal/backend) owns instances of a
// type (spec.md §3 "format tag").
type Format int

const (
	FormatASCII Format = iota
	FormatBinary
	FormatMemory
	FormatXML
	FormatNetCDF
	FormatCDF
	FormatGRIB
	FormatHDF4
	FormatHDF5
)

func (f Format) String() string {
	names := [...]string{"ascii", "binary", "memory", "xml", "netcdf", "cdf", "grib", "hdf4", "hdf5"}
	if int(f) < 0 || int(f) >= len(names) {
		return "invalid"
	}
	return names[f]
}

// Type is the read-only, immutable description every logical entity
// carries. Concrete subclasses (Record, Array, Number, Text, Special)
// embed Base and attach their own fields; callers hold a Type interface
// value and use a type switch (or the Class() query) to dispatch, mirroring
// spec.md §4.1's "read-only queries: class, read-type, bit-size...".
type Type interface {
	Class() Class
	ReadType() ReadType
	BitSize() BitSize
	Attributes() *Record // nil if the type declares no attributes
	Format() Format
	Name() string // descriptive name for error messages; not a spec field
}

// Base carries the fields common to every Type.
type Base struct {
	class      Class
	readType   ReadType
	bitSize    BitSize
	attributes *Record
	format     Format
	name       string
}

func (b *Base) Class() Class         { return b.class }
func (b *Base) ReadType() ReadType   { return b.readType }
func (b *Base) BitSize() BitSize     { return b.bitSize }
func (b *Base) Attributes() *Record  { return b.attributes }
func (b *Base) Format() Format       { return b.format }
func (b *Base) Name() string         { return b.name }

// NewBase validates and constructs the common fields of any Type. Callers
// (NewNumber, NewText, NewArray, NewRecord, NewSpecial) embed the result.
func NewBase(name string, class Class, readType ReadType, bitSize BitSize, attrs *Record, format Format) (Base, error) {
	if class < ClassInteger || class > ClassSpecial {
		return Base{}, fmt.Errorf("typemodel: %q: class %d out of range", name, class)
	}
	if bitSize.Kind == BitSizeLiteral && bitSize.Literal < 0 {
		return Base{}, fmt.Errorf("typemodel: %q: negative literal bit_size %d", name, bitSize.Literal)
	}
	if bitSize.Kind != BitSizeLiteral && bitSize.Expr == nil {
		return Base{}, fmt.Errorf("typemodel: %q: dynamic bit_size requires a size_expr", name)
	}
	if class == ClassInteger || class == ClassReal {
		if err := validateNumericBitSize(readType, bitSize); err != nil {
			return Base{}, fmt.Errorf("typemodel: %q: %w", name, err)
		}
	}
	return Base{class: class, readType: readType, bitSize: bitSize, attributes: attrs, format: format, name: name}, nil
}

// validateNumericBitSize enforces spec.md §4.1's "integer read-types
// compatible with bit-sizes 1..64 (signed) / 1..64 (unsigned)".
func validateNumericBitSize(rt ReadType, bs BitSize) error {
	if bs.Kind != BitSizeLiteral {
		return nil // dynamic; validated at resolution time against the evaluated size
	}
	switch rt {
	case RTInt8, RTUint8, RTInt16, RTUint16, RTInt32, RTUint32, RTInt64, RTUint64:
		if bs.Literal < 1 || bs.Literal > 64 {
			return fmt.Errorf("bit_size %d out of range [1,64] for %s", bs.Literal, rt)
		}
	case RTFloat:
		if bs.Literal != 32 {
			return fmt.Errorf("bit_size %d invalid for float (must be 32)", bs.Literal)
		}
	case RTDouble:
		if bs.Literal != 64 {
			return fmt.Errorf("bit_size %d invalid for double (must be 64)", bs.Literal)
		}
	}
	return nil
}
