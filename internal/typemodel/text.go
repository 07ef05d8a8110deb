package typemodel

// SpecialTextKind is the "special-text subkind" of spec.md §3: plain
// text, or one of three line-oriented flavors an ASCII-backend record can
// declare.
type SpecialTextKind int

const (
	TextPlain SpecialTextKind = iota
	TextLineWithEOL
	TextLineWithoutEOL
	TextWhitespace
)

// Text is the Text subclass of spec.md §3. FixedValue, when non-empty,
// constrains every instance of this type to that exact byte sequence —
// used both for validation (a magic/version string) and, per §4.1's
// construction rule, to derive byte_size as len(FixedValue).
type Text struct {
	Base
	FixedValue string
	Special    SpecialTextKind

	// Encoding names the byte encoding the field's bytes are stored in
	// on disk (e.g. "windows-1252", "iso-8859-1"); empty means the bytes
	// are already ASCII/UTF-8 and need no transcoding. ASCII and binary
	// definitions may declare this for legacy fixed-width char fields;
	// internal/textenc performs the actual decode.
	Encoding string
}

// NewText constructs a Text type. When fixedValue is non-empty the
// byte_size implied by bitSize must equal len(fixedValue)*8, per spec.md
// §4.1's construction validation ("text with fixed value has byte_size =
// |fixed_value|").
func NewText(name string, bitSize BitSize, attrs *Record, format Format, fixedValue string, special SpecialTextKind) (*Text, error) {
	return NewTextEncoded(name, bitSize, attrs, format, fixedValue, special, "")
}

// NewTextEncoded is NewText plus an explicit source encoding for fields
// whose bytes are not already ASCII/UTF-8.
func NewTextEncoded(name string, bitSize BitSize, attrs *Record, format Format, fixedValue string, special SpecialTextKind, encoding string) (*Text, error) {
	base, err := NewBase(name, ClassText, RTString, bitSize, attrs, format)
	if err != nil {
		return nil, err
	}
	if fixedValue != "" && bitSize.Kind == BitSizeLiteral {
		want := int64(len(fixedValue)) * 8
		if bitSize.Literal != want {
			return nil, newf("typemodel: %q: fixed_value length %d bytes but bit_size is %d bits", name, len(fixedValue), bitSize.Literal)
		}
	}
	return &Text{Base: base, FixedValue: fixedValue, Special: special, Encoding: encoding}, nil
}
