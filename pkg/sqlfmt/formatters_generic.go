// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import "strings"

// formatGeneric is the always-matching fallback structural formatter. It
// re-joins tokens with normalized single-space separation, without
// attempting per-clause layout: the statement ends up on one logical
// line (subject to later wrapping; a "--" line comment still ends its
// line), which is always syntactically valid and never loses information,
// even for a statement family this package has no dedicated formatter for.
func formatGeneric(ctx *formatContext) (string, bool) {
	var b strings.Builder
	var prev *token
	for i := range ctx.tokens {
		t := &ctx.tokens[i]
		if t.Kind == tokWhitespace {
			continue
		}
		if prev != nil && prev.Kind == tokComment && strings.HasPrefix(prev.Value, "--") {
			b.WriteByte('\n')
		} else if prev != nil && needsSpace(prev, t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Value)
		prev = t
	}
	return b.String(), true
}

// needsSpace decides whether a and b, adjacent non-whitespace tokens in
// the original source, should be separated by a space in re-joined
// output. No space is written after "(" or ".", nor before ")", ",", ";"
// or "."; every other pair gets a single space.
func needsSpace(a, b *token) bool {
	if a.Kind == tokPunct && (a.Value == "(" || a.Value == ".") {
		return false
	}
	if b.Kind == tokPunct && (b.Value == ")" || b.Value == "," || b.Value == ";" || b.Value == ".") {
		return false
	}
	return true
}
