// SPDX-License-Identifier: Apache-2.0

package sqlfmt

import (
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// formatContext carries the protected body and its tokens through
// dispatch into whichever structural formatter handles the statement.
// Every structural formatter, including DROP TRIGGER, goes through this
// single context rather than hand-building its own string (spec.md §9
// Q1).
type formatContext struct {
	opts   change.FormatOptions
	body   string
	tokens []token
}

func (c *formatContext) indent(level int) string {
	return strings.Repeat(" ", int(c.opts.Indent)*level)
}

// head returns c's first n word tokens' uppercase values.
func (c *formatContext) head(n int) []string {
	return headWords(c.tokens, n)
}

// Format normalizes one SQL statement per spec.md §4.2: split leading
// comments, protect non-formattable regions, dispatch to a structural
// formatter, apply keyword casing, wrap long lines, and restore
// placeholders. Any statement the scanner cannot safely tokenize (an
// unterminated string, dollar-quote, or unmatched parenthesis in a
// structural region) is returned completely unchanged.
func Format(stmt string, opts change.FormatOptions) string {
	comments, body := splitLeadingComments(stmt)

	tokens, safe := scan(body)
	if !safe {
		return stmt
	}

	protectedBody, placeholders := protectRegions(body, tokens, opts)
	protectedTokens, ok := scan(protectedBody)
	if !ok {
		return stmt
	}

	ctx := &formatContext{opts: opts, body: protectedBody, tokens: protectedTokens}
	structured := dispatch(ctx)

	cased := structured
	if sTokens, sOk := scan(structured); sOk {
		cased = applyKeywordCase(structured, sTokens, opts)
	}

	wrapped := wrapText(cased, opts)
	final := restorePlaceholders(wrapped, placeholders)

	if comments != "" {
		return comments + "\n" + final
	}
	return final
}

// structuralFormatter attempts to re-emit ctx's statement in its own
// family's layout, reporting ok=false if it doesn't recognize enough of
// the statement to proceed (in which case dispatch falls through to the
// next entry).
type structuralFormatter func(ctx *formatContext) (string, bool)

// dispatchTable is the ordered, closed list of per-statement-family
// formatters (spec.md §4.2 step 4). The first one that both matches the
// statement head and successfully formats it wins; formatGeneric always
// matches and never fails, so it terminates the table.
var dispatchTable = []struct {
	matches func(head []string) bool
	format  structuralFormatter
}{
	{matchesFunction, formatFunction},
	{matchesTable, formatCreateTable},
	{matchesForeignTable, formatCreateTable},
	{matchesIndex, formatCreateIndex},
	{matchesEventTrigger, formatCreateEventTrigger},
	{matchesTrigger, formatCreateTrigger},
	{matchesPolicy, formatCreatePolicy},
	{matchesLanguage, formatCreateLanguage},
	{matchesSubscription, formatCreateSubscription},
	{matchesForeignDataWrapper, formatCreateForeignDataWrapper},
	{matchesServer, formatCreateServer},
	{matchesDomain, formatCreateDomain},
	{matchesType, formatCreateType},
	{matchesCollation, formatCreateCollation},
	{matchesAggregate, formatCreateAggregate},
	{matchesView, formatCreateView},
	{matchesRule, formatCreateRule},
	{matchesAlter, formatAlterActions},
	{func([]string) bool { return true }, formatGeneric},
}

// dispatch walks dispatchTable and returns the first match's output.
// formatGeneric's catch-all entry always matches and always succeeds, so
// this is guaranteed to return. head looks at the statement's first 5
// words (rather than the minimum 3 a bare "CREATE kind name" needs) so
// that "CREATE OR REPLACE <kind>" and multi-word kinds like "EVENT
// TRIGGER" or "FOREIGN DATA WRAPPER" still carry their kind keyword.
func dispatch(ctx *formatContext) string {
	head := ctx.head(5)
	for _, entry := range dispatchTable {
		if !entry.matches(head) {
			continue
		}
		if out, ok := entry.format(ctx); ok {
			return out
		}
	}
	return ctx.body
}

// isCreate reports whether head opens with CREATE, guarding every
// "CREATE <kind>" matcher below against ALTER statements that merely
// happen to mention the same kind keyword (ALTER FUNCTION, ALTER
// DOMAIN, ALTER POLICY, ...), which belong to formatAlterActions
// instead.
func isCreate(head []string) bool {
	return len(head) > 0 && head[0] == "CREATE"
}

func matchesFunction(head []string) bool {
	return isCreate(head) && (containsWord(head, "FUNCTION") || containsWord(head, "PROCEDURE"))
}

func matchesTable(head []string) bool {
	return isCreate(head) && containsWord(head, "TABLE") && !containsWord(head, "FOREIGN")
}

func matchesForeignTable(head []string) bool {
	return isCreate(head) && containsWord(head, "FOREIGN") && containsWord(head, "TABLE")
}

func matchesIndex(head []string) bool {
	return isCreate(head) && containsWord(head, "INDEX")
}

func matchesEventTrigger(head []string) bool {
	return isCreate(head) && containsWord(head, "EVENT") && containsWord(head, "TRIGGER")
}

func matchesTrigger(head []string) bool {
	return isCreate(head) && containsWord(head, "TRIGGER") && !containsWord(head, "EVENT")
}

func matchesPolicy(head []string) bool {
	return isCreate(head) && containsWord(head, "POLICY")
}

func matchesLanguage(head []string) bool {
	return isCreate(head) && containsWord(head, "LANGUAGE")
}

func matchesSubscription(head []string) bool {
	return isCreate(head) && containsWord(head, "SUBSCRIPTION")
}

func matchesForeignDataWrapper(head []string) bool {
	return isCreate(head) && containsWord(head, "FOREIGN") && containsWord(head, "DATA") && containsWord(head, "WRAPPER")
}

func matchesServer(head []string) bool {
	return isCreate(head) && containsWord(head, "SERVER") && !(len(head) > 1 && head[1] == "FOREIGN")
}

func matchesDomain(head []string) bool {
	return isCreate(head) && containsWord(head, "DOMAIN")
}

func matchesType(head []string) bool {
	return isCreate(head) && containsWord(head, "TYPE")
}

func matchesCollation(head []string) bool {
	return isCreate(head) && containsWord(head, "COLLATION")
}

func matchesAggregate(head []string) bool {
	return isCreate(head) && containsWord(head, "AGGREGATE")
}

func matchesView(head []string) bool {
	return isCreate(head) && containsWord(head, "VIEW")
}

func matchesRule(head []string) bool {
	return isCreate(head) && containsWord(head, "RULE")
}

func matchesAlter(head []string) bool {
	return len(head) > 0 && head[0] == "ALTER"
}
