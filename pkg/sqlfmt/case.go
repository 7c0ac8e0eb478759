// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import (
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// applyKeywordCase re-cases structural keyword tokens per spec.md §4.2
// step 5, leaving protected ranges (CHECK clauses, WITH/OPTIONS/SET/RESET
// option-list payloads) and non-keyword tokens untouched. tokens must
// come from a successful (safe) scan of body; a scan that failed to
// balance parentheses never reaches this function.
func applyKeywordCase(body string, tokens []token, opts change.FormatOptions) string {
	if opts.KeywordCase == change.KeywordCasePreserve || opts.KeywordCase == "" {
		return body
	}

	protect := casingProtectedRanges(tokens)
	nameIdx := objectNameIndex(tokens)

	var out strings.Builder
	cursor := 0
	for i, t := range tokens {
		if t.Kind != tokWord || !structuralKeywords[t.Upper] {
			continue
		}
		if i == nameIdx || dotAdjacent(tokens, i) {
			continue
		}
		if rangeCovered(protect, t.Start, t.End) {
			continue
		}
		if !contextAllowsCasing(tokens, i) {
			continue
		}
		out.WriteString(body[cursor:t.Start])
		if opts.KeywordCase == change.KeywordCaseUpper {
			out.WriteString(t.Upper)
		} else {
			out.WriteString(strings.ToLower(t.Value))
		}
		cursor = t.End
	}
	out.WriteString(body[cursor:])
	return out.String()
}

// casingProtectedRanges locates CHECK(...), WITH(...), OPTIONS(...),
// SET(...), and RESET(...) payloads, the key=value option block of a
// CREATE COLLATION/RANGE/AGGREGATE, and the column/type definition span
// of an ALTER TABLE ADD COLUMN or ALTER COLUMN ... TYPE action: none of
// their contents are ever recased, since they may contain user
// expressions, option names, or type names that only coincidentally
// match a structural keyword.
func casingProtectedRanges(tokens []token) []protectedRange {
	var ranges []protectedRange
	triggers := map[string]bool{"CHECK": true, "WITH": true, "OPTIONS": true, "SET": true, "RESET": true}

	for i, t := range tokens {
		if t.Kind != tokWord || !triggers[t.Upper] {
			continue
		}
		j := nextSignificant(tokens, i+1)
		if j < 0 || tokens[j].Kind != tokPunct || tokens[j].Value != "(" {
			continue
		}
		if close, ok := matchParen(tokens, j); ok {
			ranges = append(ranges, protectedRange{start: tokens[j].Start, end: tokens[close].End})
		}
	}

	head := headWords(tokens, 3)
	switch {
	case containsWord(head, "COLLATION"):
		if r, ok := protectKeywordParen(tokens, "COLLATION"); ok {
			ranges = append(ranges, r)
		}
	case containsWord(head, "AGGREGATE"):
		if r, ok := protectAggregateDef(tokens); ok {
			ranges = append(ranges, r)
		}
	case containsWord(head, "TYPE"):
		if r, ok := protectKeywordParen(tokens, "RANGE"); ok {
			ranges = append(ranges, r)
		}
	}
	if containsWord(head, "ALTER") && containsWord(head, "TABLE") {
		ranges = append(ranges, alterTableDefSpans(tokens)...)
	}

	return ranges
}

// protectKeywordParen protects the first depth-0 parenthesized group
// that follows the depth-0 occurrence of kw, e.g. the option list of
// CREATE COLLATION name (...) or the key=value block of CREATE TYPE ...
// AS RANGE (...).
func protectKeywordParen(tokens []token, kw string) (protectedRange, bool) {
	idx, ok := findDepth0Word(tokens, kw, 0)
	if !ok {
		return protectedRange{}, false
	}
	j := nextSignificant(tokens, idx+1)
	for j >= 0 && !(tokens[j].Kind == tokPunct && tokens[j].Value == "(") {
		if tokens[j].Depth != 0 {
			return protectedRange{}, false
		}
		j = nextSignificant(tokens, j+1)
	}
	if j < 0 {
		return protectedRange{}, false
	}
	close, ok := matchParen(tokens, j)
	if !ok {
		return protectedRange{}, false
	}
	return protectedRange{start: tokens[j].Start, end: tokens[close].End}, true
}

// protectAggregateDef protects CREATE AGGREGATE's definition block, the
// second top-level parenthesized group (the first is the argument-type
// list: CREATE AGGREGATE name (arg_types) (SFUNC = ..., STYPE = ...)).
func protectAggregateDef(tokens []token) (protectedRange, bool) {
	idx, ok := findDepth0Word(tokens, "AGGREGATE", 0)
	if !ok {
		return protectedRange{}, false
	}
	argOpen := nextSignificant(tokens, idx+1)
	for argOpen >= 0 && !(tokens[argOpen].Kind == tokPunct && tokens[argOpen].Value == "(") {
		argOpen = nextSignificant(tokens, argOpen+1)
	}
	if argOpen < 0 {
		return protectedRange{}, false
	}
	argClose, ok := matchParen(tokens, argOpen)
	if !ok {
		return protectedRange{}, false
	}
	defOpen := nextSignificant(tokens, argClose+1)
	if defOpen < 0 || tokens[defOpen].Kind != tokPunct || tokens[defOpen].Value != "(" {
		return protectedRange{}, false
	}
	defClose, ok := matchParen(tokens, defOpen)
	if !ok {
		return protectedRange{}, false
	}
	return protectedRange{start: tokens[defOpen].Start, end: tokens[defClose].End}, true
}

// alterTableDefSpans protects the type/definition portion of each ADD
// COLUMN and ALTER COLUMN ... TYPE action in an ALTER TABLE statement,
// from just after the column name (or TYPE keyword) to the next
// depth-0 comma, USING clause, or end of statement.
func alterTableDefSpans(tokens []token) []protectedRange {
	var ranges []protectedRange
	for i, t := range tokens {
		if t.Kind != tokWord || t.Depth != 0 {
			continue
		}
		switch t.Upper {
		case "COLUMN":
			if !precededBy(tokens, i, "ADD") {
				continue
			}
			nameIdx := nextSignificant(tokens, i+1)
			if nameIdx < 0 {
				continue
			}
			start := tokens[nameIdx].End
			end := nextDepth0Boundary(tokens, nameIdx+1)
			if end > start {
				ranges = append(ranges, protectedRange{start: start, end: end})
			}
		case "TYPE":
			if !precededByAlterColumn(tokens, i) {
				continue
			}
			start := t.End
			end := nextDepth0Boundary(tokens, i+1)
			if end > start {
				ranges = append(ranges, protectedRange{start: start, end: end})
			}
		}
	}
	return ranges
}

// precededByAlterColumn reports whether the TYPE token at idx is the
// TYPE in "ALTER COLUMN name TYPE".
func precededByAlterColumn(tokens []token, idx int) bool {
	nameIdx := prevSignificant(tokens, idx-1)
	if nameIdx < 0 {
		return false
	}
	columnIdx := prevSignificant(tokens, nameIdx-1)
	if columnIdx < 0 || tokens[columnIdx].Kind != tokWord || tokens[columnIdx].Upper != "COLUMN" {
		return false
	}
	alterIdx := prevSignificant(tokens, columnIdx-1)
	return alterIdx >= 0 && tokens[alterIdx].Kind == tokWord && tokens[alterIdx].Upper == "ALTER"
}

// nextDepth0Boundary returns the byte offset where the current
// ALTER TABLE action ends: the next depth-0 comma or USING keyword, or
// the end of the statement.
func nextDepth0Boundary(tokens []token, from int) int {
	for i := from; i < len(tokens); i++ {
		t := tokens[i]
		if t.Depth != 0 {
			continue
		}
		if (t.Kind == tokPunct && t.Value == ",") || (t.Kind == tokWord && t.Upper == "USING") {
			return t.Start
		}
	}
	if len(tokens) == 0 {
		return 0
	}
	return tokens[len(tokens)-1].End
}

// objectKindWords are the single tokens that can close a CREATE/DROP/
// ALTER statement's object-kind phrase; the word after one of these
// (skipping IF [NOT] EXISTS and ONLY) is the object name.
var objectKindWords = map[string]bool{
	"TABLE": true, "VIEW": true, "INDEX": true, "TRIGGER": true,
	"POLICY": true, "FUNCTION": true, "PROCEDURE": true, "AGGREGATE": true,
	"DOMAIN": true, "TYPE": true, "COLLATION": true, "LANGUAGE": true,
	"SEQUENCE": true, "RULE": true, "PUBLICATION": true,
	"SUBSCRIPTION": true, "WRAPPER": true, "SERVER": true, "SCHEMA": true,
	"ROLE": true, "EXTENSION": true,
}

// objectKindModifiers may appear between the verb and the kind word
// (CREATE OR REPLACE, CREATE UNIQUE INDEX CONCURRENTLY, CREATE
// MATERIALIZED VIEW, CREATE FOREIGN DATA WRAPPER, ...).
var objectKindModifiers = map[string]bool{
	"OR": true, "REPLACE": true, "UNIQUE": true, "CONCURRENTLY": true,
	"MATERIALIZED": true, "EVENT": true, "FOREIGN": true, "DATA": true,
	"TRUSTED": true, "PROCEDURAL": true, "GLOBAL": true, "LOCAL": true,
	"TEMPORARY": true, "TEMP": true, "UNLOGGED": true, "RECURSIVE": true,
}

// objectNameIndex returns the token index of the object name in a
// CREATE/DROP/ALTER statement head, or -1 when there is none (the name
// is quoted, or the statement has another shape). The name token is
// never cased even when it collides with a structural keyword — a table
// legitimately named "language" must stay as written.
func objectNameIndex(tokens []token) int {
	i := nextSignificant(tokens, 0)
	if i < 0 || tokens[i].Kind != tokWord {
		return -1
	}
	switch tokens[i].Upper {
	case "CREATE", "DROP", "ALTER":
	default:
		return -1
	}

	kindSeen := false
	for j := i + 1; j < len(tokens); j++ {
		t := tokens[j]
		if t.Kind == tokWhitespace || t.Kind == tokComment {
			continue
		}
		if t.Kind != tokWord {
			return -1
		}
		if !kindSeen {
			if objectKindWords[t.Upper] {
				kindSeen = true
				continue
			}
			if objectKindModifiers[t.Upper] {
				continue
			}
			return -1
		}
		switch t.Upper {
		case "IF", "NOT", "EXISTS", "ONLY":
			continue
		}
		return j
	}
	return -1
}

// dotAdjacent reports whether the token at i is directly preceded or
// followed by a '.', i.e. is one segment of a qualified identifier.
func dotAdjacent(tokens []token, i int) bool {
	if i > 0 && tokens[i-1].Kind == tokPunct && tokens[i-1].Value == "." {
		return true
	}
	if i+1 < len(tokens) && tokens[i+1].Kind == tokPunct && tokens[i+1].Value == "." {
		return true
	}
	return false
}

// contextAllowsCasing applies the few context-sensitive restrictions
// spec.md §4.2 step 5 calls out by name: SAFE/UNSAFE/RESTRICTED only case
// after PARALLEL, DEFINER only after SECURITY, KEY only after
// PRIMARY/FOREIGN.
func contextAllowsCasing(tokens []token, i int) bool {
	switch tokens[i].Upper {
	case "SAFE", "UNSAFE", "RESTRICTED":
		return precededBy(tokens, i, "PARALLEL")
	case "DEFINER":
		return precededBy(tokens, i, "SECURITY")
	case "KEY":
		return precededBy(tokens, i, "PRIMARY") || precededBy(tokens, i, "FOREIGN")
	}
	return true
}

func precededBy(tokens []token, i int, word string) bool {
	j := prevSignificant(tokens, i-1)
	return j >= 0 && tokens[j].Kind == tokWord && tokens[j].Upper == word
}

func nextSignificant(tokens []token, from int) int {
	for i := from; i < len(tokens); i++ {
		if tokens[i].Kind != tokWhitespace && tokens[i].Kind != tokComment {
			return i
		}
	}
	return -1
}

func prevSignificant(tokens []token, from int) int {
	for i := from; i >= 0; i-- {
		if tokens[i].Kind != tokWhitespace && tokens[i].Kind != tokComment {
			return i
		}
	}
	return -1
}

// matchParen returns the index of the token closing the '(' at openIdx,
// counting nested parens in between.
func matchParen(tokens []token, openIdx int) (int, bool) {
	count := 1
	for i := openIdx + 1; i < len(tokens); i++ {
		switch {
		case tokens[i].Kind == tokPunct && tokens[i].Value == "(":
			count++
		case tokens[i].Kind == tokPunct && tokens[i].Value == ")":
			count--
			if count == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
