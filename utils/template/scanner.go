// Package template implements the embedded expression language used in
// prompt and format strings. A template is plain text interleaved with
// bracketed tokens: plain variable references like {name}, and typed
// directives like {join:items:out} that bind names for reuse later in
// the same string.
package template

import (
	"regexp"
	"strings"
)

// ReduceFunc folds one matched token into the scan state. groups holds the
// full match at index 0 followed by the pattern's submatches. The returned
// string replaces the token in the rendered output.
type ReduceFunc[S any] func(state S, groups []string) (S, string)

// Scan performs a single left-to-right pass over input. Every match of
// pattern is handed to reduce along with the state accumulated so far;
// the token is replaced in the output by the string reduce returns.
// Unmatched text passes through unchanged. finalize runs exactly once
// after the full pass, on the final state.
//
// The scan is order-sensitive: the state visible to a match reflects only
// the matches to its left.
func Scan[S any](input string, pattern *regexp.Regexp, initial S, reduce ReduceFunc[S], finalize func(S) S) (string, S) {
	state := initial

	var out strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringSubmatchIndex(input, -1) {
		out.WriteString(input[last:loc[0]])

		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = input[loc[2*i]:loc[2*i+1]]
			}
		}

		var rendered string
		state, rendered = reduce(state, groups)
		out.WriteString(rendered)
		last = loc[1]
	}
	out.WriteString(input[last:])

	if finalize != nil {
		state = finalize(state)
	}
	return out.String(), state
}
