package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldConstantArithmetic(t *testing.T) {
	n := mustParse(t, "1 + 2 * 3")
	assert.True(t, n.IsConstant())

	v, err := EvalConstant(n)
	require.NoError(t, err)
	got, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 7, got)
}

func TestFoldPathExpressionsNeverConstant(t *testing.T) {
	for _, src := range []string{".", "/a", "bitsize(.)", "count(./a)"} {
		n := mustParse(t, src)
		assert.False(t, n.IsConstant(), "%q must not be constant-folded: it requires a cursor", src)
	}
}

func TestFoldProductMetadataNeverConstant(t *testing.T) {
	for _, src := range []string{"filesize()", "filename()", "productclass()", "producttype()", "productformat()", "productversion()"} {
		n := mustParse(t, src)
		assert.False(t, n.IsConstant(), "%q reads live product state and must never fold", src)
	}
}

func TestFoldSubscriptNeverConstantEvenWithLiteralIndex(t *testing.T) {
	// Subscript always touches the cursor via GotoIndex, regardless of
	// whether the index operand happens to be a literal.
	n := mustParse(t, "/a[0]")
	assert.False(t, n.IsConstant())
}

func TestFoldVarAssignNeverConstant(t *testing.T) {
	n := mustParse(t, "$x = 1")
	assert.False(t, n.IsConstant())

	n = mustParse(t, "$x[0] = 1")
	assert.False(t, n.IsConstant())
}

func TestFoldVarSearchNeverConstant(t *testing.T) {
	n := mustParse(t, "exists($count, true)")
	assert.False(t, n.IsConstant())
}

func TestFoldBooleanShortCircuitStillConstant(t *testing.T) {
	n := mustParse(t, "true or false")
	assert.True(t, n.IsConstant())
}

func TestEqualStructuralComparison(t *testing.T) {
	a := mustParse(t, "1 + 2")
	b := mustParse(t, "1 + 2")
	c := mustParse(t, "1 + 3")
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}
