// Package cross implements the mixed-language execution core: it
// extracts {{ SQL }} fragments embedded in script source, runs them
// against a database connector, binds their result tables into a
// shared namespace and executes the remaining script against it.
package cross

import (
	"fmt"
	"regexp"
	"strings"
)

// Fragment is one extracted `name = {{ query }}` occurrence.
type Fragment struct {
	Var   string
	Query string
}

// fragmentPattern matches `name = {{ query }}` with possibly
// multi-line, non-greedy query text.
var fragmentPattern = regexp.MustCompile(`(?s)(\w+)\s*=\s*\{\{\s*(.+?)\s*\}\}`)

const previewLen = 30

// Extract finds every fragment in source order and returns them along
// with a copy of the source where each match is replaced by an inert
// comment, so the remainder runs as a plain script. The comment holds
// no brace syntax: a transformed source never re-extracts.
func Extract(code string) ([]Fragment, string) {
	var fragments []Fragment
	processed := fragmentPattern.ReplaceAllStringFunc(code, func(match string) string {
		groups := fragmentPattern.FindStringSubmatch(match)
		frag := Fragment{Var: groups[1], Query: strings.TrimSpace(groups[2])}
		fragments = append(fragments, frag)
		return fmt.Sprintf("# %s = %s", frag.Var, preview(frag.Query))
	})
	return fragments, processed
}

func preview(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > previewLen {
		return flat[:previewLen] + "..."
	}
	return flat
}
