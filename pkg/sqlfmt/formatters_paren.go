// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import (
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// alignKeyValueItems pads each "key = value" item's key to the longest
// key in the block, when AlignKeyValues is set. Items with no top-level
// "=" (a bare option name) are left as-is and excluded from the
// max-width computation, mirroring alignTableItems's treatment of
// table-level constraints.
func alignKeyValueItems(items []string, opts change.FormatOptions) []string {
	if !opts.AlignKeyValues {
		return items
	}
	keys := make([]string, len(items))
	rests := make([]string, len(items))
	skip := make([]bool, len(items))
	maxKey := 0
	for i, item := range items {
		key, rest, ok := strings.Cut(item, "=")
		if !ok {
			keys[i] = item
			skip[i] = true
			continue
		}
		keys[i] = strings.TrimSpace(key)
		rests[i] = strings.TrimSpace(rest)
		if len(keys[i]) > maxKey {
			maxKey = len(keys[i])
		}
	}
	out := make([]string, len(items))
	for i := range items {
		if skip[i] {
			out[i] = keys[i]
			continue
		}
		out[i] = keys[i] + strings.Repeat(" ", maxKey-len(keys[i])) + " = " + rests[i]
	}
	return out
}

// decorateItems applies the configured comma style to a block of list
// items: trailing commas end every line but the last, leading commas
// begin every line but the first. Indentation is not included.
func decorateItems(items []string, opts change.FormatOptions) []string {
	out := make([]string, len(items))
	for i, item := range items {
		switch {
		case opts.CommaStyle == change.CommaLeading && i > 0:
			out[i] = ", " + item
		case opts.CommaStyle != change.CommaLeading && i < len(items)-1:
			out[i] = item + ","
		default:
			out[i] = item
		}
	}
	return out
}

// writeParenList renders header + " (" + one indented item per line +
// ")" + an optional trailing tail clause, the shape shared by
// formatCreateTable and every parenthesized-item-list formatter in this
// file.
func writeParenList(ctx *formatContext, header string, items []string, tail string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(" (")
	if len(items) > 0 {
		b.WriteByte('\n')
		for _, item := range decorateItems(items, ctx.opts) {
			b.WriteString(ctx.indent(1))
			b.WriteString(item)
			b.WriteByte('\n')
		}
	}
	b.WriteString(")")
	if tail != "" {
		b.WriteByte('\n')
		b.WriteString(ctx.indent(1))
		b.WriteString(tail)
	}
	return b.String()
}

// formatCreateType lays out the three parenthesized forms of CREATE
// TYPE ... AS: ENUM (one bare label per line), RANGE (a key=value
// option block, aligned like CREATE COLLATION), and composite (a
// column-like field list, aligned like CREATE TABLE). A CREATE TYPE
// with no AS ... ( form at all (a shell type, or a base type defined by
// INPUT/OUTPUT functions without ENUM/RANGE) falls through to
// formatGeneric.
func formatCreateType(ctx *formatContext) (string, bool) {
	asIdx, ok := findDepth0Word(ctx.tokens, "AS", 0)
	if !ok {
		return "", false
	}

	next := nextSignificant(ctx.tokens, asIdx+1)
	if next < 0 {
		return "", false
	}

	openIdx := next
	kind := "composite"
	if ctx.tokens[next].Kind == tokWord {
		switch ctx.tokens[next].Upper {
		case "ENUM":
			kind = "enum"
		case "RANGE":
			kind = "range"
		default:
			return "", false
		}
		openIdx = nextSignificant(ctx.tokens, next+1)
	}
	if openIdx < 0 || ctx.tokens[openIdx].Kind != tokPunct || ctx.tokens[openIdx].Value != "(" {
		return "", false
	}
	closeIdx, ok := matchParen(ctx.tokens, openIdx)
	if !ok {
		return "", false
	}

	header := strings.TrimSpace(ctx.body[:ctx.tokens[openIdx].Start])
	items := splitTopLevelItems(ctx.tokens[openIdx+1:closeIdx], ctx.body)
	tail := strings.TrimSpace(ctx.body[ctx.tokens[closeIdx].End:])

	switch kind {
	case "range":
		items = alignKeyValueItems(items, ctx.opts)
	case "composite":
		items = alignTableItems(items, ctx.opts)
	}

	return writeParenList(ctx, header, items, tail), true
}

// formatCreateCollation lays out CREATE COLLATION name (key = value,
// ...), aligning the option block like CREATE TYPE ... AS RANGE. The
// simple "CREATE COLLATION name FROM existing" form has no parens and
// falls through to formatGeneric.
func formatCreateCollation(ctx *formatContext) (string, bool) {
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
	items := alignKeyValueItems(splitTopLevelItems(ctx.tokens[openIdx+1:closeIdx], ctx.body), ctx.opts)
	tail := strings.TrimSpace(ctx.body[ctx.tokens[closeIdx].End:])

	return writeParenList(ctx, header, items, tail), true
}

// formatCreateAggregate lays out CREATE AGGREGATE name (arg_types)
// (SFUNC = ..., STYPE = ..., ...): the argument-type list is left on
// the header line untouched, and the key=value definition block is
// aligned the same way as CREATE COLLATION's option list.
func formatCreateAggregate(ctx *formatContext) (string, bool) {
	argOpen := -1
	for i, t := range ctx.tokens {
		if t.Kind == tokPunct && t.Value == "(" && t.Depth == 0 {
			argOpen = i
			break
		}
	}
	if argOpen < 0 {
		return "", false
	}
	argClose, ok := matchParen(ctx.tokens, argOpen)
	if !ok {
		return "", false
	}

	defOpen := nextSignificant(ctx.tokens, argClose+1)
	if defOpen < 0 || ctx.tokens[defOpen].Kind != tokPunct || ctx.tokens[defOpen].Value != "(" {
		return "", false
	}
	defClose, ok := matchParen(ctx.tokens, defOpen)
	if !ok {
		return "", false
	}

	header := strings.TrimSpace(ctx.body[:ctx.tokens[defOpen].Start])
	items := alignKeyValueItems(splitTopLevelItems(ctx.tokens[defOpen+1:defClose], ctx.body), ctx.opts)
	tail := strings.TrimSpace(ctx.body[ctx.tokens[defClose].End:])

	return writeParenList(ctx, header, items, tail), true
}
