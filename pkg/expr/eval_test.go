package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSrc(t *testing.T, h Host, src string) Value {
	t.Helper()
	n, err := Parse(src, DefaultLimits())
	require.NoError(t, err, "parsing %q", src)
	v, err := Eval(n, h)
	require.NoError(t, err, "evaluating %q", src)
	return v
}

func TestEvalArithmeticIntAndFloat(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))

	v := evalSrc(t, h, "3 + 4 * 2")
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 11, i)

	v = evalSrc(t, h, "3 + 0.5")
	f, err := v.AsFloat()
	require.NoError(t, err)
	assert.InDelta(t, 3.5, f, 1e-9)
}

func TestEvalIntegerDivisionByZero(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	n := mustParse(t, "1 / 0")
	_, err := Eval(n, h)
	assert.Error(t, err)
}

func TestEvalPowConstantIntegerExponent(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	v := evalSrc(t, h, "2 ^ 10")
	f, err := v.AsFloat()
	require.NoError(t, err)
	assert.Equal(t, 1024.0, f)
}

func TestEvalFieldNavigationAndImplicitScalarRead(t *testing.T) {
	root := rec(map[string]*fakeNode{
		"temperature": leaf(floatVal(21.5)),
	}, []string{"temperature"})
	h := newFakeHost(root)

	// A bare path evaluates to a node reference, not its scalar content.
	v := evalSrc(t, h, "/temperature")
	assert.Equal(t, KindNode, v.Kind)

	// Operators read through a path operand to its underlying value.
	v = evalSrc(t, h, "/temperature > 20")
	b, err := v.AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	// str() explicitly resolves a node argument to its scalar text.
	v = evalSrc(t, h, "str(/temperature)")
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "21.5", s)
}

func TestEvalSubscriptAndArrayMeta(t *testing.T) {
	root := rec(map[string]*fakeNode{
		"arr": arr(leaf(intVal(1)), leaf(intVal(4)), leaf(intVal(2)), leaf(intVal(5)), leaf(intVal(3))),
	}, []string{"arr"})
	h := newFakeHost(root)

	v := evalSrc(t, h, "/arr[1] == 4")
	b, err := v.AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	v = evalSrc(t, h, "numelements(/arr)")
	n, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

// TestEvalCountAggregate checks count(/arr) over [1,4,2,5,3], which is 5:
// count() takes only a path and returns the element count, with no
// per-element predicate form. It then checks index(/arr, . > 3) == 1.
func TestEvalCountAggregate(t *testing.T) {
	root := rec(map[string]*fakeNode{
		"arr": arr(leaf(intVal(1)), leaf(intVal(4)), leaf(intVal(2)), leaf(intVal(5)), leaf(intVal(3))),
	}, []string{"arr"})
	h := newFakeHost(root)

	n, err := Parse("count(/arr)", DefaultLimits())
	require.NoError(t, err)
	v, err := Eval(n, h)
	require.NoError(t, err)
	c, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 5, c)

	n, err = Parse("index(/arr, . > 3)", DefaultLimits())
	require.NoError(t, err)
	v, err = Eval(n, h)
	require.NoError(t, err)
	idx, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 1, idx, "first element > 3 is at index 1 (value 4)")
}

func TestEvalExistsAndAllOverArray(t *testing.T) {
	root := rec(map[string]*fakeNode{
		"arr": arr(leaf(intVal(1)), leaf(intVal(4)), leaf(intVal(2)), leaf(intVal(5)), leaf(intVal(3))),
	}, []string{"arr"})
	h := newFakeHost(root)

	v := evalSrc(t, h, "exists(/arr, . > 3)")
	b, err := v.AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	v = evalSrc(t, h, "all(/arr, . > 0)")
	b, err = v.AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	v = evalSrc(t, h, "all(/arr, . > 3)")
	b, err = v.AsBool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestEvalAddMinMaxAggregate(t *testing.T) {
	root := rec(map[string]*fakeNode{
		"arr": arr(leaf(intVal(1)), leaf(intVal(4)), leaf(intVal(2)), leaf(intVal(5)), leaf(intVal(3))),
	}, []string{"arr"})
	h := newFakeHost(root)

	v := evalSrc(t, h, "add(/arr, .)")
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 15, i)

	v = evalSrc(t, h, "max(/arr, .)")
	i, err = v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 5, i)

	v = evalSrc(t, h, "min(/arr, .)")
	i, err = v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 1, i)
}

func TestEvalIfBranches(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	v := evalSrc(t, h, "if(1 > 0, 10, 20)")
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 10, i)

	v = evalSrc(t, h, "if(1 < 0, 10, 20)")
	i, err = v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 20, i)
}

func TestEvalWithAndForBindIndexVars(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))

	v := evalSrc(t, h, "with(i, 7, i * 2)")
	n, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 14, n)

	// Bare i/j/k default to zero when never bound.
	v = evalSrc(t, h, "j")
	n, err = v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestEvalForLoopRunsForSideEffectOnVariables(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	n := mustParse(t, "for(i, 0, 4, $total[0] = $total[0] + i)")
	h.vars["total"] = []int64{0}
	_, err := Eval(n, h)
	require.NoError(t, err)
	got, err := h.VarGet("total", ptr64(0))
	require.NoError(t, err)
	assert.EqualValues(t, 10, got, "sum of 0..4 inclusive")
}

func ptr64(i int64) *int64 { return &i }

func TestEvalProductVariableAssignAndRead(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	n := mustParse(t, "$count = 3")
	_, err := Eval(n, h)
	require.NoError(t, err)

	v := evalSrc(t, h, "$count")
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 3, i)
}

func TestEvalProductVariableSearch(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	h.vars["idx"] = []int64{10, 20, 30, 40}

	v := evalSrc(t, h, "exists($idx, $idx == 2)")
	b, err := v.AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	v = evalSrc(t, h, "index($idx, $idx == 2)")
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 2, i)

	v = evalSrc(t, h, "exists($idx, $idx == 99)")
	b, err = v.AsBool()
	require.NoError(t, err)
	assert.False(t, b)

	v = evalSrc(t, h, "index($idx, $idx == 99)")
	i, err = v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, -1, i)
}

func TestEvalProductVariableSearchRejectsNesting(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	h.vars["a"] = []int64{1, 2}
	h.vars["b"] = []int64{1, 2}
	n := mustParse(t, "exists($a, exists($b, $b == $a))")
	_, err := Eval(n, h)
	assert.Error(t, err, "nested product-variable searches must be rejected")
}

func TestEvalProductVariableSearchForbidsExplicitIndexing(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))
	h.vars["a"] = []int64{1, 2, 3}
	n := mustParse(t, "exists($a, $a[0] == 1)")
	_, err := Eval(n, h)
	assert.Error(t, err, "indexing $name inside its own search scope must be rejected")
}

func TestEvalConstantRequiresNoHost(t *testing.T) {
	n := mustParse(t, "1 + 2")
	require.True(t, n.IsConstant())
	v, err := Eval(n, nil)
	require.NoError(t, err)
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 3, i)
}

func TestEvalNonConstantRequiresHost(t *testing.T) {
	n := mustParse(t, ".")
	_, err := Eval(n, nil)
	assert.Error(t, err)
}

func TestEvalStringFunctions(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))

	v := evalSrc(t, h, `str(42)`)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	v = evalSrc(t, h, `substr("hello world", 6, 5)`)
	s, err = v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "world", s)

	v = evalSrc(t, h, `trim("  hi  ")`)
	s, err = v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	v = evalSrc(t, h, `ltrim("xxhixx", "x")`)
	s, err = v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "hixx", s)
}

func TestEvalRegexBoolAndGroupForms(t *testing.T) {
	h := newFakeHost(leaf(intVal(0)))

	v := evalSrc(t, h, `regex("^a.*z$", "abcz")`)
	b, err := v.AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	v = evalSrc(t, h, `regex("(?<year>[0-9]{4})-[0-9]{2}", "2026-07", "year")`)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "2026", s)

	v = evalSrc(t, h, `regex("([0-9]{4})-([0-9]{2})", "2026-07", 2)`)
	s, err = v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "07", s)

	v = evalSrc(t, h, `regex("zzz", "abcz", 1)`)
	s, err = v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "", s, "no match must return empty string, not an error")
}

func TestEvalEmptyAggregateArrayErrors(t *testing.T) {
	root := rec(map[string]*fakeNode{"arr": arr()}, []string{"arr"})
	h := newFakeHost(root)
	n := mustParse(t, "add(/arr, .)")
	_, err := Eval(n, h)
	assert.Error(t, err)
}
