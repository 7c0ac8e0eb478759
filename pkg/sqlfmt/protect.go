// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

const placeholderFmt = "__PLACEHOLDER_%d__"

// protectedRange is a byte span of the original statement that must
// survive reassembly untouched.
type protectedRange struct {
	start, end int
}

// protectRegions replaces every non-formattable region (routine/view/rule
// bodies, COMMENT payload literals, standalone dollar-quoted blocks) with
// a placeholder token, per spec.md §4.2 step 2. It returns the rewritten
// body and the ordered list of original texts the placeholders stand in
// for, indexed by placeholder number.
func protectRegions(body string, tokens []token, opts change.FormatOptions) (string, []string) {
	head := headWords(tokens, 5)
	var ranges []protectedRange

	switch {
	case opts.PreserveRoutineBody && (containsWord(head, "FUNCTION") || containsWord(head, "PROCEDURE")):
		ranges = append(ranges, protectRoutineBody(tokens)...)
	case opts.PreserveViewBody && containsWord(head, "VIEW"):
		if r, ok := protectAfterKeyword(tokens, "AS", len(body)); ok {
			ranges = append(ranges, r)
		}
	case opts.PreserveRuleBody && containsWord(head, "RULE"):
		if r, ok := protectAfterKeyword(tokens, "DO", len(body)); ok {
			ranges = append(ranges, r)
		}
	}

	if containsWord(head, "COMMENT") {
		if r, ok := protectCommentLiteral(tokens); ok {
			ranges = append(ranges, r)
		}
	}

	for _, t := range tokens {
		if t.Kind != tokString || !strings.HasPrefix(t.Value, "$") {
			continue
		}
		if rangeCovered(ranges, t.Start, t.End) {
			continue
		}
		ranges = append(ranges, protectedRange{start: t.Start, end: t.End})
	}

	return applyProtection(body, ranges)
}

// headWords returns the first n word tokens' uppercase values, used to
// route a statement to its protection (and later, structural-formatter)
// family without a full parse.
func headWords(tokens []token, n int) []string {
	var out []string
	for _, t := range tokens {
		if t.Kind != tokWord {
			continue
		}
		out = append(out, t.Upper)
		if len(out) == n {
			break
		}
	}
	return out
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

// protectRoutineBody protects the literal(s) following a depth-0 AS
// keyword: a single quoted/dollar-quoted body, or the two comma-separated
// string literals of a C-language AS 'objfile', 'symbol' form.
func protectRoutineBody(tokens []token) []protectedRange {
	idx, ok := findDepth0Word(tokens, "AS", 0)
	if !ok {
		return nil
	}
	var ranges []protectedRange
	i := idx + 1
	expectString := true
	for i < len(tokens) {
		t := tokens[i]
		if t.Kind == tokWhitespace || t.Kind == tokComment {
			i++
			continue
		}
		if expectString && t.Kind == tokString {
			ranges = append(ranges, protectedRange{start: t.Start, end: t.End})
			expectString = false
			i++
			continue
		}
		if !expectString && t.Kind == tokPunct && t.Value == "," {
			expectString = true
			i++
			continue
		}
		break
	}
	return ranges
}

// protectAfterKeyword finds the first depth-0 occurrence of kw and
// protects everything from the next significant token to bodyLen. The
// whitespace after kw is left outside the range so the placeholder
// stays a token of its own.
func protectAfterKeyword(tokens []token, kw string, bodyLen int) (protectedRange, bool) {
	idx, ok := findDepth0Word(tokens, kw, 0)
	if !ok {
		return protectedRange{}, false
	}
	start := tokens[idx].End
	if j := nextSignificant(tokens, idx+1); j >= 0 {
		start = tokens[j].Start
	}
	if start >= bodyLen {
		return protectedRange{}, false
	}
	return protectedRange{start: start, end: bodyLen}, true
}

// protectCommentLiteral protects the literal payload of a
// "COMMENT ON ... IS <literal>" statement, unless the payload is the bare
// keyword NULL (spec.md §4.2 step 2).
func protectCommentLiteral(tokens []token) (protectedRange, bool) {
	idx, ok := findDepth0Word(tokens, "IS", 0)
	if !ok {
		return protectedRange{}, false
	}
	for i := idx + 1; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind == tokWhitespace || t.Kind == tokComment {
			continue
		}
		if t.Kind == tokWord && t.Upper == "NULL" {
			return protectedRange{}, false
		}
		if t.Kind == tokString {
			return protectedRange{start: t.Start, end: t.End}, true
		}
		break
	}
	return protectedRange{}, false
}

func findDepth0Word(tokens []token, kw string, from int) (int, bool) {
	for i := from; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind == tokWord && t.Depth == 0 && t.Upper == kw {
			return i, true
		}
	}
	return 0, false
}

func rangeCovered(ranges []protectedRange, start, end int) bool {
	for _, r := range ranges {
		if start >= r.start && end <= r.end {
			return true
		}
	}
	return false
}

// applyProtection rewrites body, substituting each non-overlapping range
// (sorted, first occurrence wins on overlap) with a placeholder token.
func applyProtection(body string, ranges []protectedRange) (string, []string) {
	if len(ranges) == 0 {
		return body, nil
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	var kept []protectedRange
	for _, r := range ranges {
		if len(kept) > 0 && r.start < kept[len(kept)-1].end {
			continue
		}
		kept = append(kept, r)
	}

	var out strings.Builder
	var placeholders []string
	cursor := 0
	for _, r := range kept {
		out.WriteString(body[cursor:r.start])
		out.WriteString(fmt.Sprintf(placeholderFmt, len(placeholders)))
		placeholders = append(placeholders, body[r.start:r.end])
		cursor = r.end
	}
	out.WriteString(body[cursor:])

	return out.String(), placeholders
}

// restorePlaceholders substitutes every placeholder token in s with its
// original text (spec.md §4.2 step 7).
func restorePlaceholders(s string, placeholders []string) string {
	for i, orig := range placeholders {
		s = strings.ReplaceAll(s, fmt.Sprintf(placeholderFmt, i), orig)
	}
	return s
}

// containsPlaceholder reports whether s contains a placeholder token
// anywhere, used by the line-wrapper to exempt protected lines.
func containsPlaceholder(s string) bool {
	return strings.Contains(s, "__PLACEHOLDER_")
}
