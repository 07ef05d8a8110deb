// Package textenc decodes fixed-width text/char fields declared with a
// non-UTF-8 source encoding (spec.md §4.4's read_string, extended for
// binary/ASCII definitions that predate UTF-8 and were written in a
// legacy single-byte code page) into UTF-8 Go strings.
package textenc

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/scicoda/coda/internal/errs"
)

// byName maps the lower-cased encoding names a Text type's Encoding field
// may carry to their golang.org/x/text/encoding/charmap implementation.
// This is deliberately a small, fixed set: the legacy code pages that
// actually appear in scientific archives, not the full charmap catalog.
var byName = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
}

// Decode transcodes b from the named encoding into a UTF-8 string. An
// empty name is a no-op: b is already ASCII/UTF-8.
func Decode(name string, b []byte) (string, error) {
	if name == "" {
		return string(b), nil
	}
	enc, ok := byName[name]
	if !ok {
		return "", errs.New(errs.InvalidFormat, "textenc: unsupported text encoding %q", name)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errs.New(errs.InvalidFormat, "textenc: decoding %q: %v", name, err)
	}
	return string(out), nil
}
