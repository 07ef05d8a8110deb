package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/expr"
	"github.com/scicoda/coda/pkg/options"
	"github.com/scicoda/coda/pkg/product"
)

func int8Type(t *testing.T, name string) *typemodel.Number {
	t.Helper()
	ty, err := typemodel.NewNumber(name, typemodel.ClassInteger, typemodel.RTInt8,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 8}, nil, typemodel.FormatBinary, "", false, nil)
	require.NoError(t, err)
	return ty
}

// buildUnionType describes a 2-byte union record: the first byte selects
// which of the two int8 members is active, the second byte holds the
// active member's value.
func buildUnionType(t *testing.T) typemodel.Type {
	t.Helper()

	// The union tag itself is read from a sibling byte via a fixed literal
	// expression (1), matching the fixture's first byte.
	unionExpr, err := expr.Parse("1", expr.DefaultLimits())
	require.NoError(t, err)

	fields := []typemodel.Field{
		{Name: "x", Type: int8Type(t, "x")},
		{Name: "y", Type: int8Type(t, "y")},
	}
	rec, err := typemodel.NewRecordWithStaticSize("tagged", nil, typemodel.FormatBinary, fields, true, unionExpr, 8)
	require.NoError(t, err)

	outer := []typemodel.Field{
		{Name: "tag", Type: int8Type(t, "tag")},
		{Name: "body", Type: rec},
	}
	top, err := typemodel.NewRecordWithStaticSize("outer", nil, typemodel.FormatBinary, outer, false, nil, 16)
	require.NoError(t, err)
	return top
}

func TestUnionInactiveMemberRejectsDirectAccess(t *testing.T) {
	def := &codadef.Definition{Class: "test", Type: "union", Version: 1, Root: buildUnionType(t)}
	o := options.Default()
	o.UseMmap = false
	p := product.OpenMemory("union.bin", []byte{1, 42}, def, o)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)
	require.NoError(t, c.GotoField("body"))

	// y is field index 1; the union_field_expr always resolves to 1, so y
	// is the active member and x is not.
	require.Error(t, c.GotoField("x"))
	require.NoError(t, c.GotoField("y"))
}

func TestOptionalUnavailableFieldIsStillReachable(t *testing.T) {
	availExpr, err := expr.Parse("0 == 1", expr.DefaultLimits())
	require.NoError(t, err)

	fields := []typemodel.Field{
		{Name: "present", Type: int8Type(t, "present")},
		{Name: "missing", Type: int8Type(t, "missing"), Optional: true, Available: availExpr},
	}
	rec, err := typemodel.NewRecordWithStaticSize("rec", nil, typemodel.FormatBinary, fields, false, nil, 8)
	require.NoError(t, err)

	def := &codadef.Definition{Class: "test", Type: "opt", Version: 1, Root: rec}
	o := options.Default()
	o.UseMmap = false
	p := product.OpenMemory("opt.bin", []byte{9}, def, o)
	defer p.Close()

	c, err := p.NewCursor()
	require.NoError(t, err)

	// A direct name lookup of an unavailable optional field succeeds in
	// navigating there (unlike an inactive union member); reading it fails
	// because the no_data frame carries no value.
	require.NoError(t, c.GotoField("missing"))
	ty := c.GetType()
	_, isNoData := ty.(*typemodel.Special)
	require.True(t, isNoData, "unavailable optional field should resolve to the no_data special frame")
}
