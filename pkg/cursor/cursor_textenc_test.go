package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/options"
	"github.com/scicoda/coda/pkg/product"
)

// buildEncodedTextType describes a single 4-byte char field declared in
// windows-1252, the legacy encoding some ASCII/binary archives still use
// for free-text fields (instrument names, operator comments).
func buildEncodedTextType(t *testing.T) typemodel.Type {
	t.Helper()
	txt, err := typemodel.NewTextEncoded("label",
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 32}, nil,
		typemodel.FormatBinary, "", typemodel.TextPlain, "windows-1252")
	require.NoError(t, err)

	fields := []typemodel.Field{{Name: "label", Type: txt}}
	rec, err := typemodel.NewRecordWithStaticSize("rec", nil, typemodel.FormatBinary, fields, false, nil, 32)
	require.NoError(t, err)
	return rec
}

// TestCursorReadStringTranscodesDeclaredEncoding checks that a text field
// declared with a non-UTF-8 source encoding comes back as proper UTF-8:
// 0xE9 in windows-1252 is 'é', which is invalid UTF-8 on its own.
func TestCursorReadStringTranscodesDeclaredEncoding(t *testing.T) {
	def := &codadef.Definition{Class: "test", Type: "enc", Version: 1, Root: buildEncodedTextType(t)}
	o := options.Default()
	o.UseMmap = false
	p := product.OpenMemory("enc.bin", []byte{'c', 0xE9, 'p', '0'}, def, o)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)
	require.NoError(t, c.GotoField("label"))

	s, err := c.ReadString()
	require.NoError(t, err)
	require.Equal(t, "cép0", s)
}
