package cross

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOrder(t *testing.T) {
	code := "a = {{SELECT 1}}\nprint(a)\nb = {{SELECT 2}}"
	fragments, _ := Extract(code)

	assert.Len(t, fragments, 2)
	assert.Equal(t, Fragment{Var: "a", Query: "SELECT 1"}, fragments[0])
	assert.Equal(t, Fragment{Var: "b", Query: "SELECT 2"}, fragments[1])
}

func TestExtractMultiline(t *testing.T) {
	code := "sales = {{\n  SELECT *\n  FROM sales\n  WHERE year = 2025\n}}"
	fragments, processed := Extract(code)

	assert.Len(t, fragments, 1)
	assert.Equal(t, "sales", fragments[0].Var)
	assert.Equal(t, "SELECT *\n  FROM sales\n  WHERE year = 2025", fragments[0].Query)
	assert.NotContains(t, processed, "{{")
}

func TestExtractNoMatch(t *testing.T) {
	code := "x = 1\nprint(x)"
	fragments, processed := Extract(code)

	assert.Empty(t, fragments)
	assert.Equal(t, code, processed)
}

func TestExtractPlaceholders(t *testing.T) {
	code := "a = {{SELECT 1}}\nb = {{SELECT 2}}\nc = {{SELECT 3}}"
	fragments, processed := Extract(code)

	// one inert comment per fragment, no brace syntax left behind
	assert.Equal(t, len(fragments), strings.Count(processed, "# "))
	assert.Zero(t, strings.Count(processed, "{{"))
	assert.Zero(t, strings.Count(processed, "}}"))
}

func TestExtractDuplicateVars(t *testing.T) {
	code := "t = {{SELECT 1}}\nt = {{SELECT 2}}"
	fragments, _ := Extract(code)

	assert.Len(t, fragments, 2)
	assert.Equal(t, "t", fragments[0].Var)
	assert.Equal(t, "t", fragments[1].Var)
}

func TestExtractPreview(t *testing.T) {
	long := "SELECT one, two, three, four, five, six FROM somewhere"
	_, processed := Extract("t = {{" + long + "}}")

	assert.Contains(t, processed, "# t = ")
	assert.Contains(t, processed, "...")
	assert.NotContains(t, processed, "FROM somewhere")
}
