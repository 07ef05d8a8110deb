package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrintRoundTrip checks spec.md §8's pretty-print property: Parse(Print(n))
// must be structurally equal to n for every expression shape the grammar
// supports, including the newly added product-variable search and
// with/for index-variable forms.
func TestPrintRoundTrip(t *testing.T) {
	cases := []string{
		"1 + 2 * 3",
		"-2 ^ 2",
		"!(true and false)",
		"/a/b[2]@c",
		"../x",
		"bitsize(.)",
		"count(/arr)",
		"add(/arr, .)",
		"exists(/arr, . > 3)",
		"index(/arr, . > 3)",
		"unboundindex(/arr, . > 3)",
		"index(.)",
		`str(42)`,
		`substr("hello", 1, 2)`,
		`ltrim("xxhi", "x")`,
		`trim(" hi ")`,
		`bytes(., 0, 4)`,
		`regex("a", "b")`,
		`regex("a", "b", 1)`,
		"$count",
		"$count[2]",
		"$count = 5",
		"$count[2] = 5",
		"exists($count, i > 3)",
		"index($count, i > 3)",
		"with(i, 1, i + 1)",
		"for(i, 0, 10, i)",
		"for(i, 0, 10, 2, i)",
		"if(1 > 0, 1, 2)",
		"1; 2; 3",
	}
	for _, src := range cases {
		n, err := Parse(src, DefaultLimits())
		require.NoError(t, err, "parsing %q", src)
		printed, err := Print(n, DialectPlain)
		require.NoError(t, err, "printing %q", src)
		reparsed, err := Parse(printed, DefaultLimits())
		require.NoError(t, err, "reparsing printed form %q (from %q)", printed, src)
		assert.True(t, Equal(n, reparsed), "round trip mismatch for %q: printed as %q", src, printed)
	}
}

func TestPrintXMLEscapesLiteralAngleBrackets(t *testing.T) {
	n := mustParse(t, `"<a>" == "<b>"`)
	s, err := Print(n, DialectXML)
	require.NoError(t, err)
	assert.NotContains(t, s, "<a>")
	assert.Contains(t, s, "&lt;a&gt;")
}

func TestPrintHTMLBoldsKeywords(t *testing.T) {
	n := mustParse(t, "true and false")
	s, err := Print(n, DialectHTML)
	require.NoError(t, err)
	assert.Contains(t, s, "<b>and</b>")

	s, err = Print(n, DialectPlain)
	require.NoError(t, err)
	assert.NotContains(t, s, "<b>")
}
