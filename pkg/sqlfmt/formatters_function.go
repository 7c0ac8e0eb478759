// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import (
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// functionClauseKeywords starts a new clause line in a CREATE
// FUNCTION/PROCEDURE statement's tail, after the parameter list closes.
var functionClauseKeywords = map[string]bool{
	"RETURNS": true, "LANGUAGE": true, "TRANSFORM": true, "WINDOW": true,
	"IMMUTABLE": true, "STABLE": true, "VOLATILE": true, "LEAKPROOF": true,
	"STRICT": true, "CALLED": true, "SECURITY": true, "PARALLEL": true,
	"COST": true, "ROWS": true, "SUPPORT": true, "SET": true, "AS": true,
	"BEGIN": true, "RETURN": true,
}

// formatFunction lays out CREATE [OR REPLACE] FUNCTION/PROCEDURE: a
// header line opening the parameter list, one aligned parameter per
// line, the closing paren alone, then one clause per line for
// everything after the parameter list (RETURNS, LANGUAGE, volatility,
// AS body, ...).
func formatFunction(ctx *formatContext) (string, bool) {
	openIdx := -1
	for i, t := range ctx.tokens {
		if t.Kind == tokPunct && t.Value == "(" && t.Depth == 0 {
			openIdx = i
			break
		}
	}
	if openIdx < 0 {
		return "", false
	}
	closeIdx, ok := matchParen(ctx.tokens, openIdx)
	if !ok {
		return "", false
	}

	header := strings.TrimSpace(ctx.body[:ctx.tokens[openIdx].Start])
	params := splitTopLevelItems(ctx.tokens[openIdx+1:closeIdx], ctx.body)
	tail := ctx.tokens[closeIdx+1:]

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(" (")

	if len(params) > 0 {
		b.WriteByte('\n')
		for _, line := range decorateItems(alignParams(params, ctx.opts), ctx.opts) {
			b.WriteString(ctx.indent(1))
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString(")")
	} else {
		b.WriteString(")")
	}

	for _, clause := range splitClauses(tail, ctx.body, functionClauseKeywords) {
		b.WriteByte('\n')
		b.WriteString(ctx.indent(1))
		b.WriteString(clause)
	}

	return b.String(), true
}

// splitTopLevelItems splits a parenthesized list's inner tokens on
// depth-1 commas (depth 0 relative to the inner tokens themselves, since
// they were sliced out of their enclosing parens) and returns each raw
// item's trimmed source text.
func splitTopLevelItems(inner []token, body string) []string {
	if len(inner) == 0 {
		return nil
	}
	baseDepth := inner[0].Depth
	var items []string
	start := inner[0].Start
	for _, t := range inner {
		if t.Kind == tokPunct && t.Value == "," && t.Depth == baseDepth {
			items = append(items, strings.TrimSpace(body[start:t.Start]))
			start = t.End
		}
	}
	items = append(items, strings.TrimSpace(body[start:inner[len(inner)-1].End]))
	return items
}

// alignParams splits each "name type..." item into a name and the
// remainder, padding names to the longest when AlignColumns is set.
func alignParams(items []string, opts change.FormatOptions) []string {
	if !opts.AlignColumns {
		return items
	}
	names := make([]string, len(items))
	rests := make([]string, len(items))
	maxName := 0
	for i, item := range items {
		name, rest, ok := strings.Cut(item, " ")
		if !ok {
			names[i], rests[i] = item, ""
			continue
		}
		names[i], rests[i] = name, strings.TrimSpace(rest)
		if len(name) > maxName {
			maxName = len(name)
		}
	}
	out := make([]string, len(items))
	for i := range items {
		if rests[i] == "" {
			out[i] = names[i]
			continue
		}
		out[i] = names[i] + strings.Repeat(" ", maxName-len(names[i])+1) + rests[i]
	}
	return out
}

// splitClauses walks tail's tokens, starting a new clause at each
// depth-0 token whose uppercase value is in boundary, and returns each
// clause's raw trimmed source text.
func splitClauses(tail []token, body string, boundary map[string]bool) []string {
	var starts []int
	for i, t := range tail {
		if t.Kind == tokWord && t.Depth == 0 && boundary[t.Upper] {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil
	}
	var clauses []string
	for i, s := range starts {
		end := len(tail)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		from := tail[s].Start
		to := tail[end-1].End
		clauses = append(clauses, strings.TrimSpace(body[from:to]))
	}
	return clauses
}
