// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import (
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// tableConstraintLeadKeywords are the first words of a table-level
// constraint item (as opposed to a column definition). Items starting
// with one of these are left unpadded by alignTableItems: their first
// word is not a column name and aligning against it would misalign the
// actual column defs in the block.
var tableConstraintLeadKeywords = map[string]bool{
	"CONSTRAINT": true, "PRIMARY": true, "FOREIGN": true,
	"UNIQUE": true, "CHECK": true, "EXCLUDE": true, "LIKE": true,
}

// formatCreateTable lays out CREATE TABLE: a header line opening the
// column/constraint list, one item per line with column definitions
// aligned (pad names to the longest column name in the block) when the
// option is set, then the closing paren and any trailing clause
// (INHERITS, WITH, TABLESPACE, PARTITION BY) on its own line.
func formatCreateTable(ctx *formatContext) (string, bool) {
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
	items := alignTableItems(splitTopLevelItems(ctx.tokens[openIdx+1:closeIdx], ctx.body), ctx.opts)
	tail := strings.TrimSpace(ctx.body[ctx.tokens[closeIdx].End:])

	return writeParenList(ctx, header, items, tail), true
}

// alignTableItems pads each column definition's name to the longest
// column name in the block, per spec.md §4.2 step 4. Table-level
// constraint items (CONSTRAINT, PRIMARY KEY, FOREIGN KEY, UNIQUE,
// CHECK, EXCLUDE, LIKE) are left as-is and excluded from the max-width
// computation.
func alignTableItems(items []string, opts change.FormatOptions) []string {
	if !opts.AlignColumns {
		return items
	}
	names := make([]string, len(items))
	rests := make([]string, len(items))
	skip := make([]bool, len(items))
	maxName := 0
	for i, item := range items {
		name, rest, ok := strings.Cut(item, " ")
		if !ok || tableConstraintLeadKeywords[strings.ToUpper(name)] {
			names[i] = item
			skip[i] = true
			continue
		}
		names[i], rests[i] = name, strings.TrimSpace(rest)
		if len(name) > maxName {
			maxName = len(name)
		}
	}
	out := make([]string, len(items))
	for i := range items {
		if skip[i] {
			out[i] = names[i]
			continue
		}
		out[i] = names[i] + strings.Repeat(" ", maxName-len(names[i])+1) + rests[i]
	}
	return out
}
