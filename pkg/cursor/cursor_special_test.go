package cursor_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/cursor"
	"github.com/scicoda/coda/pkg/expr"
	"github.com/scicoda/coda/pkg/options"
	"github.com/scicoda/coda/pkg/product"
)

func float64Type(t *testing.T, name string) *typemodel.Number {
	t.Helper()
	ty, err := typemodel.NewNumber(name, typemodel.ClassReal, typemodel.RTDouble,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 64}, nil, typemodel.FormatBinary, "", false, nil)
	require.NoError(t, err)
	return ty
}

func int32Type(t *testing.T, name string) *typemodel.Number {
	t.Helper()
	ty, err := typemodel.NewNumber(name, typemodel.ClassInteger, typemodel.RTInt32,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 32}, nil, typemodel.FormatBinary, "", false, nil)
	require.NoError(t, err)
	return ty
}

// TestSpecialTimeReadsThroughBaseType builds a record with a single "time"
// field whose base type is a plain double holding seconds since epoch, and
// confirms ReadScalar[float64] returns that value unchanged (no value_expr
// declared).
func TestSpecialTimeReadsThroughBaseType(t *testing.T) {
	base := float64Type(t, "seconds")
	sp, err := typemodel.NewSpecial("t", typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 64},
		nil, typemodel.FormatBinary, typemodel.SpecialTime, base, nil)
	require.NoError(t, err)

	fields := []typemodel.Field{{Name: "t", Type: sp}}
	rec, err := typemodel.NewRecordWithStaticSize("rec", nil, typemodel.FormatBinary, fields, false, nil, 64)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, float64(1700000000.5)))

	def := &codadef.Definition{Class: "test", Type: "time", Version: 1, Root: rec}
	o := options.Default()
	o.UseMmap = false
	p := product.OpenMemory("time.bin", buf.Bytes(), def, o)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)
	require.NoError(t, c.GotoField("t"))

	v, err := cursor.ReadScalar[float64](c)
	require.NoError(t, err)
	require.InDelta(t, 1700000000.5, v, 1e-6)
}

// TestSpecialVSFIntegerAppliesScale builds a record with a "v" field whose
// base type is the conventional {scale_factor:int32, value:double} record,
// and confirms the read applies value * 10^(-scale_factor).
func TestSpecialVSFIntegerAppliesScale(t *testing.T) {
	baseFields := []typemodel.Field{
		{Name: "scale_factor", Type: int32Type(t, "scale_factor")},
		{Name: "value", Type: float64Type(t, "value")},
	}
	base, err := typemodel.NewRecordWithStaticSize("vsf_base", nil, typemodel.FormatBinary, baseFields, false, nil, 96)
	require.NoError(t, err)

	sp, err := typemodel.NewSpecial("v", typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 96},
		nil, typemodel.FormatBinary, typemodel.SpecialVSFInteger, base, nil)
	require.NoError(t, err)

	fields := []typemodel.Field{{Name: "v", Type: sp}}
	rec, err := typemodel.NewRecordWithStaticSize("rec", nil, typemodel.FormatBinary, fields, false, nil, 96)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, int32(2)))   // scale_factor = 2
	require.NoError(t, binary.Write(&buf, binary.BigEndian, float64(12345))) // value = 12345

	def := &codadef.Definition{Class: "test", Type: "vsf", Version: 1, Root: rec}
	o := options.Default()
	o.UseMmap = false
	p := product.OpenMemory("vsf.bin", buf.Bytes(), def, o)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)
	require.NoError(t, c.GotoField("v"))

	v, err := cursor.ReadScalar[float64](c)
	require.NoError(t, err)
	require.InDelta(t, 123.45, v, 1e-9) // 12345 * 10^-2
}

// TestUseBaseTypeOfSpecialTypeBypassesInterception confirms the override
// steers a scalar read straight through the special type's base value,
// skipping value_expr entirely (spec.md §4.3/§4.9).
func TestUseBaseTypeOfSpecialTypeBypassesInterception(t *testing.T) {
	valueExpr, err := expr.Parse(". + 100", expr.DefaultLimits())
	require.NoError(t, err)

	base := float64Type(t, "seconds")
	sp, err := typemodel.NewSpecial("t", typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 64},
		nil, typemodel.FormatBinary, typemodel.SpecialTime, base, valueExpr)
	require.NoError(t, err)

	fields := []typemodel.Field{{Name: "t", Type: sp}}
	rec, err := typemodel.NewRecordWithStaticSize("rec", nil, typemodel.FormatBinary, fields, false, nil, 64)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, float64(5)))

	def := &codadef.Definition{Class: "test", Type: "time", Version: 1, Root: rec}
	o := options.Default()
	o.UseMmap = false
	p := product.OpenMemory("time.bin", buf.Bytes(), def, o)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)
	require.NoError(t, c.GotoField("t"))

	withValueExpr, err := cursor.ReadScalar[float64](c)
	require.NoError(t, err)
	require.InDelta(t, 105, withValueExpr, 1e-9) // value_expr applied: 5 + 100

	require.NoError(t, c.UseBaseTypeOfSpecialType())
	raw, err := cursor.ReadScalar[float64](c)
	require.NoError(t, err)
	require.InDelta(t, 5, raw, 1e-9) // bypassed: the untransformed base value
}
