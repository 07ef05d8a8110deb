package typemodel

// Conversion is the 4-tuple spec.md's glossary defines: a linear mapping
// from a raw numeric value to a physical-unit double, with a sentinel raw
// value that maps to NaN instead of being scaled.
type Conversion struct {
	Numerator   float64
	Denominator float64
	AddOffset   float64
	InvalidSet  bool
	InvalidValue float64
	Unit        string
}

// Apply implements spec.md §4.5 step 5: "raw == invalid ? NaN : raw *
// numerator/denominator + add_offset".
func (c *Conversion) Apply(raw float64) float64 {
	if c.InvalidSet && raw == c.InvalidValue {
		return nan()
	}
	return raw*c.Numerator/c.Denominator + c.AddOffset
}

func nan() float64 {
	var f float64
	return f / f // 0/0 = NaN without importing math just for this
}

// ASCIIMapping overrides the numeric parse of an ASCII-backend field with
// an explicit string→value table (spec.md §3 "ASCII mappings").
type ASCIIMapping struct {
	Text  string
	Value int64
}

// Number is the Number subclass of spec.md §3: integer or real class,
// carrying unit, endianness, optional conversion and ASCII mappings.
type Number struct {
	Base
	Unit         string
	LittleEndian bool
	Conversion   *Conversion // nil if the type declares no conversion
	ASCIIMap     []ASCIIMapping
}

// NewNumber constructs a Number type, validating the common Base fields.
func NewNumber(name string, class Class, readType ReadType, bitSize BitSize, attrs *Record, format Format,
	unit string, littleEndian bool, conv *Conversion) (*Number, error) {
	if class != ClassInteger && class != ClassReal {
		return nil, newf("NewNumber: class must be integer or real, got %s", class)
	}
	base, err := NewBase(name, class, readType, bitSize, attrs, format)
	if err != nil {
		return nil, err
	}
	return &Number{Base: base, Unit: unit, LittleEndian: littleEndian, Conversion: conv}, nil
}

// HasConversion reports whether effective-read-type promotion to double
// applies (spec.md §4.5 step 2).
func (n *Number) HasConversion() bool { return n.Conversion != nil }
