// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import (
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// wrapText wraps every over-width line of an already structurally
// formatted statement to opts.MaxWidth, per spec.md §4.2 step 6. Comment
// lines and lines carrying a placeholder (a protected, unbreakable
// region) are exempt.
func wrapText(text string, opts change.FormatOptions) string {
	if opts.MaxWidth == 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		out = append(out, wrapLine(line, opts)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, opts change.FormatOptions) []string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	extra := strings.Repeat(" ", int(opts.Indent))

	if strings.HasPrefix(trimmed, "--") || containsPlaceholder(line) {
		return []string{line}
	}

	maxWidth := int(opts.MaxWidth)
	var out []string
	rest := trimmed
	curIndent := indent

	for {
		full := curIndent + rest
		if len(full) <= maxWidth {
			out = append(out, full)
			return out
		}

		tokens, ok := scan(rest)
		if !ok {
			out = append(out, full)
			return out
		}

		breakAt, cut := chooseBreak(tokens, maxWidth-len(curIndent))
		if breakAt < 0 {
			out = append(out, full)
			return out
		}

		head := strings.TrimRight(rest[:breakAt], " ")
		tail := strings.TrimLeft(rest[cut:], " ")
		if tail == "" || tail == rest {
			out = append(out, full)
			return out
		}

		out = append(out, curIndent+head)
		rest = tail
		curIndent = indent + extra
	}
}

// chooseBreak picks a break point inside a line's tokens (scanned with
// no leading indent) honoring the priority order from spec.md §4.2 step
// 6: top-level comma, preferred-wrap keyword boundary, any depth-0
// whitespace, any whitespace. breakAt is where the kept head ends; cut is
// where the continuation resumes (breakAt for a comma break, since the
// comma stays with the head).
func chooseBreak(tokens []token, limit int) (breakAt, cut int) {
	breakAt, cut = -1, -1

	// Priority 1: first top-level comma before limit. The comma stays
	// with the head; remaining items wrap on later passes through the
	// caller's loop.
	for _, t := range tokens {
		if t.Kind == tokPunct && t.Value == "," && t.Depth == 0 && t.End <= limit {
			return t.End, t.End
		}
	}

	// Priority 2: last whitespace immediately before a preferred-wrap
	// keyword, before limit.
	for i, t := range tokens {
		if t.Kind != tokWord || !wrapPreferredKeywords[t.Upper] || t.Start > limit {
			continue
		}
		if i == 0 {
			continue
		}
		if ws := tokens[i-1]; ws.Kind == tokWhitespace && !splitsCompound(tokens, i-1) {
			breakAt, cut = ws.Start, ws.End
		}
	}
	if breakAt >= 0 {
		return
	}

	// Priority 3: last depth-0 whitespace before limit.
	for i, t := range tokens {
		if t.Kind == tokWhitespace && t.Depth == 0 && t.Start <= limit && !splitsCompound(tokens, i) {
			breakAt, cut = t.Start, t.End
		}
	}
	if breakAt >= 0 {
		return
	}

	// Priority 4: last whitespace at any depth before limit.
	for i, t := range tokens {
		if t.Kind == tokWhitespace && t.Start <= limit && !splitsCompound(tokens, i) {
			breakAt, cut = t.Start, t.End
		}
	}
	return breakAt, cut
}

// splitsCompound reports whether breaking at the whitespace token wsIdx
// would separate a two-word compound prefix ("CREATE PUBLICATION",
// "COMMENT ON", "GRANT ALL ON", ...) the wrapper must keep on one line.
func splitsCompound(tokens []token, wsIdx int) bool {
	prev := prevSignificant(tokens, wsIdx-1)
	next := nextSignificant(tokens, wsIdx+1)
	if prev < 0 || next < 0 {
		return false
	}
	if tokens[prev].Kind != tokWord || tokens[next].Kind != tokWord {
		return false
	}
	return isCompoundPrefix(tokens[prev].Upper, tokens[next].Upper)
}
