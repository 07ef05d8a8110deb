package cursor_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/cursor"
	"github.com/scicoda/coda/pkg/options"
	"github.com/scicoda/coda/pkg/product"
)

// buildRecordType describes a fixed binary record with three fields: a
// big-endian int32, a big-endian float32, and a fixed-length array of
// three big-endian int16s.
func buildRecordType(t *testing.T) typemodel.Type {
	t.Helper()

	i32, err := typemodel.NewNumber("a", typemodel.ClassInteger, typemodel.RTInt32,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 32}, nil, typemodel.FormatBinary,
		"", false, nil)
	require.NoError(t, err)

	f32, err := typemodel.NewNumber("b", typemodel.ClassReal, typemodel.RTFloat,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 32}, nil, typemodel.FormatBinary,
		"", false, nil)
	require.NoError(t, err)

	elem, err := typemodel.NewNumber("int16", typemodel.ClassInteger, typemodel.RTInt16,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 16}, nil, typemodel.FormatBinary,
		"", false, nil)
	require.NoError(t, err)

	arr, err := typemodel.NewArray("arr", typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 48}, nil,
		typemodel.FormatBinary, elem, 1, []typemodel.Dim{{Literal: 3}}, typemodel.OrderC)
	require.NoError(t, err)

	fields := []typemodel.Field{
		{Name: "a", Type: i32},
		{Name: "b", Type: f32},
		{Name: "arr", Type: arr},
	}
	rec, err := typemodel.NewRecordWithStaticSize("rec", nil, typemodel.FormatBinary, fields, false, nil, 112)
	require.NoError(t, err)
	return rec
}

func buildBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, int32(1000000)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, float32(2.5)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, int16(1)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, int16(-2)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, int16(3)))
	return buf.Bytes()
}

func openTestProduct(t *testing.T) *product.Product {
	t.Helper()
	def := &codadef.Definition{Class: "test", Type: "rec", Version: 1, Root: buildRecordType(t)}
	o := options.Default()
	o.UseMmap = false
	return product.OpenMemory("test.bin", buildBytes(t), def, o)
}

func TestCursorNavigatesRecordFieldsByNameAndIndex(t *testing.T) {
	p := openTestProduct(t)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)

	require.NoError(t, c.GotoField("a"))
	a, err := cursor.ReadScalar[int32](c)
	require.NoError(t, err)
	require.EqualValues(t, 1000000, a)

	require.NoError(t, c.GotoParent())
	require.NoError(t, c.GotoRecordFieldByIndex(1))
	b, err := cursor.ReadScalar[float32](c)
	require.NoError(t, err)
	require.InDelta(t, 2.5, b, 1e-6)
}

func TestCursorIteratesArrayElements(t *testing.T) {
	p := openTestProduct(t)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)

	require.NoError(t, c.GotoField("arr"))
	n, err := c.GetNumElements()
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	require.NoError(t, c.GotoFirstArrayElement())
	want := []int64{1, -2, 3}
	for i, w := range want {
		if i > 0 {
			require.NoError(t, c.GotoNextArrayElement())
		}
		v, err := cursor.ReadScalar[int64](c)
		require.NoError(t, err)
		require.Equal(t, w, v)
	}

	require.NoError(t, c.GotoParent())
	arr, err := cursor.ReadArray[int64](c)
	require.NoError(t, err)
	require.Equal(t, want, arr)
}

func TestCursorFieldOffsetsAreByteAligned(t *testing.T) {
	p := openTestProduct(t)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)

	require.NoError(t, c.GotoField("b"))
	off := c.GetFileBitOffset()
	require.EqualValues(t, 32, off)

	require.NoError(t, c.GotoParent())
	require.NoError(t, c.GotoField("arr"))
	off = c.GetFileBitOffset()
	require.EqualValues(t, 64, off)
}

func TestGotoParentAtRootFails(t *testing.T) {
	p := openTestProduct(t)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)
	require.Error(t, c.GotoParent())
}

func TestGotoFieldUnknownNameFails(t *testing.T) {
	p := openTestProduct(t)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)
	require.Error(t, c.GotoField("nonexistent"))
}
