// SPDX-License-Identifier: Apache-2.0

package sqlfmt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/sqlfmt"
)

// TestColumnAlignment covers S4: a CREATE FUNCTION statement's
// parameters are rendered one per line, aligned, with the body clause
// kept intact and readable.
func TestColumnAlignment(t *testing.T) {
	t.Parallel()

	input := "CREATE FUNCTION audit.to_record_id(entity_oid oid, pkey_cols text[], rec jsonb) RETURNS uuid LANGUAGE sql STABLE AS $function$SELECT gen_random_uuid()$function$;"
	out := sqlfmt.Format(input, change.DefaultFormatOptions())

	require.Contains(t, out, "CREATE FUNCTION audit.to_record_id (")
	assert.Contains(t, out, "entity_oid oid,")
	assert.Contains(t, out, "pkey_cols  text[],")
	assert.Contains(t, out, "rec        jsonb")
	assert.Contains(t, out, "RETURNS uuid")
	assert.Contains(t, out, "LANGUAGE sql")
	assert.Contains(t, out, "STABLE")
	assert.Contains(t, out, "AS $function$SELECT gen_random_uuid()$function$")
}

// TestCommentLiteralPreservation covers S5: a COMMENT ON ... IS literal
// payload survives byte-identical, including its escape sequences.
func TestCommentLiteralPreservation(t *testing.T) {
	t.Parallel()

	input := `COMMENT ON FUNCTION public.f() IS E'keep \'quote\' exact';`
	out := sqlfmt.Format(input, change.DefaultFormatOptions())

	assert.Contains(t, out, `E'keep \'quote\' exact'`)
}

// TestMalformedCheckFailsSafe covers S6: an unterminated paren in a
// structural region leaves the statement untouched, with no casing
// applied.
func TestMalformedCheckFailsSafe(t *testing.T) {
	t.Parallel()

	input := "ALTER TABLE t ADD CONSTRAINT c CHECK (foo > 0"
	opts := change.DefaultFormatOptions()
	opts.KeywordCase = change.KeywordCaseLower

	out := sqlfmt.Format(input, opts)
	assert.Equal(t, input, out)
}

// TestIdempotence covers the formatter property: formatting an
// already-formatted statement a second time produces the same output.
func TestIdempotence(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"create table public.events (id serial primary key, name text not null, created_at timestamptz)",
		"CREATE INDEX idx_events_name ON public.events USING btree (name) WHERE name IS NOT NULL",
		"CREATE FUNCTION audit.to_record_id(entity_oid oid, pkey_cols text[], rec jsonb) RETURNS uuid LANGUAGE sql STABLE AS $function$SELECT gen_random_uuid()$function$;",
	}
	opts := change.DefaultFormatOptions()

	for _, in := range inputs {
		once := sqlfmt.Format(in, opts)
		twice := sqlfmt.Format(once, opts)
		assert.Equal(t, once, twice, "not idempotent for %q", in)
	}
}

// TestCompoundPrefixNeverBroken covers the formatter property that
// certain two-word heads are never split across a wrap boundary.
func TestCompoundPrefixNeverBroken(t *testing.T) {
	t.Parallel()

	input := "CREATE PUBLICATION pub_all_long_name_for_wrapping_purposes FOR ALL TABLES WITH (publish = 'insert, update, delete')"
	opts := change.DefaultFormatOptions()
	opts.MaxWidth = 20

	out := sqlfmt.Format(input, opts)
	firstLine := strings.SplitN(out, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(firstLine, "CREATE PUBLICATION"))
}

// TestKeywordCaseUpper checks structural keywords are cased while
// object names — including names that collide with keywords, and
// qualified-identifier segments — are left exactly as written.
func TestKeywordCaseUpper(t *testing.T) {
	t.Parallel()

	opts := change.DefaultFormatOptions()
	opts.KeywordCase = change.KeywordCaseUpper

	out := sqlfmt.Format("create table language (id int not null)", opts)
	assert.Contains(t, out, "CREATE TABLE language (")
	assert.Contains(t, out, "id int NOT NULL")

	out = sqlfmt.Format("create index idx on public.check (id)", opts)
	assert.Contains(t, out, "CREATE INDEX idx")
	assert.Contains(t, out, "public.check")
	assert.NotContains(t, out, "public.CHECK")
}

// TestKeywordCaseSkipsCheckPayload checks CHECK clause contents are a
// protected range for casing.
func TestKeywordCaseSkipsCheckPayload(t *testing.T) {
	t.Parallel()

	opts := change.DefaultFormatOptions()
	opts.KeywordCase = change.KeywordCaseLower

	out := sqlfmt.Format("ALTER TABLE t ADD CONSTRAINT c CHECK (state IN ('ON', 'OFF'))", opts)
	assert.Contains(t, out, "(state IN ('ON', 'OFF'))")
	assert.Contains(t, out, "alter table t")
}

// TestViewBodyPreserved checks everything after a view's top-level AS
// survives byte-identical.
func TestViewBodyPreserved(t *testing.T) {
	t.Parallel()

	body := "SELECT id,  name\nFROM events WHERE  deleted_at IS NULL"
	out := sqlfmt.Format("CREATE VIEW public.active_events AS "+body, change.DefaultFormatOptions())
	assert.Contains(t, out, body)
}

// TestLeadingCommaStyle checks comma_style=leading moves separators to
// the start of each continuation item line, and stays idempotent.
func TestLeadingCommaStyle(t *testing.T) {
	t.Parallel()

	opts := change.DefaultFormatOptions()
	opts.CommaStyle = change.CommaLeading
	opts.AlignColumns = false

	out := sqlfmt.Format("CREATE TABLE public.events (id serial, name text)", opts)
	assert.Contains(t, out, "\n  id serial\n")
	assert.Contains(t, out, "\n  , name text\n")
	assert.Equal(t, out, sqlfmt.Format(out, opts))
}

// TestWrapBound covers the formatter property that every non-comment
// line ends up within MaxWidth unless it is a single unbreakable token.
func TestWrapBound(t *testing.T) {
	t.Parallel()

	opts := change.DefaultFormatOptions()
	opts.MaxWidth = 40

	input := "GRANT SELECT, INSERT, UPDATE, DELETE, TRUNCATE, REFERENCES ON TABLE public.extremely_long_table_name TO some_role_name"
	out := sqlfmt.Format(input, opts)

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") || len(strings.Fields(line)) <= 1 {
			continue
		}
		assert.LessOrEqual(t, len(line), 40, "line over width: %q", line)
	}
}

// TestSplitOnTopLevelSemicolons checks the splitter honors string and
// dollar-quote boundaries rather than splitting inside them.
func TestSplitOnTopLevelSemicolons(t *testing.T) {
	t.Parallel()

	script := "CREATE TABLE a (id int); CREATE FUNCTION f() RETURNS void LANGUAGE sql AS $$SELECT 1; SELECT 2;$$;"
	stmts, safe := sqlfmt.Split(script)
	require.True(t, safe)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[1], "SELECT 1; SELECT 2;")
}
