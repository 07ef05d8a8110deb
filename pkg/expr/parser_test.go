package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Parse(src, DefaultLimits())
	require.NoError(t, err, "parsing %q", src)
	return n
}

func TestParserPrecedenceAndAssociativity(t *testing.T) {
	// * binds tighter than +, so 1 + 2 * 3 groups as 1 + (2 * 3).
	n := mustParse(t, "1 + 2 * 3")
	require.Equal(t, TagAdd, n.Tag)
	assert.Equal(t, TagMul, n.Operands[1].Tag)

	// ^ is right-associative: 2 ^ 3 ^ 2 groups as 2 ^ (3 ^ 2).
	n = mustParse(t, "2 ^ 3 ^ 2")
	require.Equal(t, TagPow, n.Tag)
	assert.Equal(t, TagPow, n.Operands[1].Tag, "pow must be right-associative")

	// Unary minus binds tighter than pow's right recursion starts, but the
	// grammar makes pow loosen than unary so "-x^y" parses as (-x)^y.
	n = mustParse(t, "-2^2")
	require.Equal(t, TagPow, n.Tag)
	assert.Equal(t, TagNeg, n.Operands[0].Tag)
}

func TestParserPathChaining(t *testing.T) {
	n := mustParse(t, "/a/b[2]@c")
	// The whole chain folds into nested TagGoto nodes; Print should recover
	// the compact path syntax.
	s, err := Print(n, DialectPlain)
	require.NoError(t, err)
	assert.Equal(t, "/a/b[2]@c", s)
}

func TestParserSequence(t *testing.T) {
	n := mustParse(t, "1; 2; 3")
	require.Equal(t, TagSequence, n.Tag)
	assert.Equal(t, TagSequence, n.Operands[0].Tag)
}

func TestParserForRequiresIJK(t *testing.T) {
	_, err := Parse("for(q, 0, 10, q)", DefaultLimits())
	assert.Error(t, err, "for() must reject bound names other than i, j, k")

	n := mustParse(t, "for(i, 0, 10, i)")
	assert.Equal(t, TagFor, n.Tag)
	assert.Equal(t, "i", n.Ident)
}

func TestParserForWithStep(t *testing.T) {
	n := mustParse(t, "for(i, 0, 10, 2, i)")
	require.Equal(t, TagFor, n.Tag)
	assert.EqualValues(t, 2, n.Step)
}

func TestParserWithRequiresIJK(t *testing.T) {
	_, err := Parse("with(x, 1, x)", DefaultLimits())
	assert.Error(t, err)

	n := mustParse(t, "with(j, 1, j)")
	assert.Equal(t, TagWith, n.Tag)
	assert.Equal(t, "j", n.Ident)
}

func TestParserBareIndexVar(t *testing.T) {
	n := mustParse(t, "with(k, 5, k + 1)")
	body := n.Operands[1]
	require.Equal(t, TagAdd, body.Tag)
	assert.Equal(t, TagIndexVar, body.Operands[0].Tag)
	assert.Equal(t, "k", body.Operands[0].Ident)
}

func TestParserUnknownBareIdentifier(t *testing.T) {
	_, err := Parse("banana", DefaultLimits())
	assert.Error(t, err)
}

func TestParserRegexArity(t *testing.T) {
	n := mustParse(t, `regex("a", "b")`)
	assert.Equal(t, KindBool, n.Kind)

	n = mustParse(t, `regex("a", "b", 1)`)
	assert.Equal(t, KindString, n.Kind)

	_, err := Parse(`regex("a")`, DefaultLimits())
	assert.Error(t, err)
}

func TestParserVariableSearchForm(t *testing.T) {
	n := mustParse(t, "exists($count, i > 3)")
	require.Equal(t, TagVarSearchExists, n.Tag)
	assert.Equal(t, "count", n.Ident)

	n = mustParse(t, "index($count, i > 3)")
	require.Equal(t, TagVarSearchIndex, n.Tag)
	assert.Equal(t, "count", n.Ident)
}

func TestParserPlainExistsIsUnaffectedByVarSearchDetection(t *testing.T) {
	n := mustParse(t, "exists(./arr, . > 3)")
	assert.Equal(t, TagExists, n.Tag, "exists(path, pred) must not be mistaken for the product-variable form")
}

func TestParserVarAssignAndIndexAssign(t *testing.T) {
	n := mustParse(t, "$x = 5")
	require.Equal(t, TagVarAssign, n.Tag)
	assert.Equal(t, "x", n.Ident)

	n = mustParse(t, "$x[2] = 5")
	require.Equal(t, TagVarIndexAssign, n.Tag)
	assert.Equal(t, "x", n.Ident)
}

func TestParserIndexOverload(t *testing.T) {
	n := mustParse(t, "index(.)")
	assert.Equal(t, TagIndexInParent, n.Tag)

	n = mustParse(t, "index(./arr, . > 3)")
	assert.Equal(t, TagIndexOf, n.Tag)

	_, err := Parse("index(., 1, 2)", DefaultLimits())
	assert.Error(t, err)
}

func TestParserDepthLimitRejected(t *testing.T) {
	lim := Limits{MaxDepth: 3, MaxLoopIterations: 100}
	_, err := Parse("1 + (1 + (1 + 1))", lim)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "MaxDepth", verr.Limit)
}

func TestParserTrailingInputRejected(t *testing.T) {
	_, err := Parse("1 1", DefaultLimits())
	assert.Error(t, err)
}
