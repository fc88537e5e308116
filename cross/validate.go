package cross

import (
	"fmt"

	"go.starlark.net/syntax"
)

// ValidateSyntax is a cheap pre-check before real execution: it never
// touches a connector and never mutates a namespace. It fails when
// the source holds no {{ }} fragment at all, or when the transformed
// script does not parse.
func (it *Executor) ValidateSyntax(code string) (bool, string) {
	fragments, processed := Extract(code)
	if len(fragments) == 0 {
		return false, "no embedded query found with {{ SQL }} syntax"
	}
	if _, err := syntax.Parse("<script>", processed, 0); err != nil {
		return false, fmt.Sprintf("syntax error: %v", err)
	}
	return true, ""
}
