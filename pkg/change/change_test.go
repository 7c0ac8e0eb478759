// SPDX-License-Identifier: Apache-2.0

package change_test

import (
	"context"
	"testing"

	"github.com/oapi-codegen/nullable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdelta/pgdelta/pkg/change"
)

func TestStableIDConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   change.StableID
		want string
	}{
		{"schema", change.Schema("audit"), "schema:audit"},
		{"table", change.Table("public", "events"), "table:public.events"},
		{"column", change.Column("public", "events", "id"), "column:public.events.id"},
		{"sequence", change.Sequence("public", "events_id_seq"), "sequence:public.events_id_seq"},
		{"trigger", change.Trigger("public", "events", "set_updated_at"), "trigger:public.events.set_updated_at"},
		{"procedure", change.Procedure("audit", "to_record_id", "oid", "text[]"), "procedure:audit.to_record_id(oid,text[])"},
		{"acl", change.ACL(change.Table("public", "events"), "reader"), "acl:table:public.events::grantee:reader"},
		{"membership", change.Membership("admin", "deploy"), "membership:admin->deploy"},
		{"defacl", change.DefaultACL("owner", "table", "public", "reader"), "defacl:owner:table:public:reader"},
		{"comment", change.Comment(change.Table("public", "events")), "comment:table:public.events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.id))
		})
	}
}

func TestStableIDClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, change.Unknown("relkind-x").IsUnknown())
	assert.False(t, change.Table("public", "events").IsUnknown())

	assert.True(t, change.ACL(change.Table("public", "events"), "reader").IsMetadata())
	assert.True(t, change.Membership("admin", "deploy").IsMetadata())
	assert.True(t, change.DefaultACL("o", "table", "public", "g").IsMetadata())
	assert.False(t, change.Table("public", "events").IsMetadata())
	assert.False(t, change.Comment(change.Table("public", "events")).IsMetadata())

	assert.Equal(t, "table", change.Table("public", "events").Kind())
	assert.Equal(t, "public.events", change.Table("public", "events").Rest())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, change.Validate(&change.CreateTable{Schema: "public", Name: "events"}))

	overlapping := &change.ManifestChange{
		Op:         change.OpAlter,
		Kind:       change.ObjectTable,
		Sc:         change.ScopeObject,
		CreatesIDs: []change.StableID{"table:public.a"},
		DropsIDs:   []change.StableID{"table:public.a"},
	}
	assert.Error(t, change.Validate(overlapping))

	selfRequiring := &change.ManifestChange{
		Op:         change.OpCreate,
		Kind:       change.ObjectTable,
		Sc:         change.ScopeObject,
		CreatesIDs: []change.StableID{"table:public.a"},
		RequireIDs: []change.StableID{"table:public.a"},
	}
	assert.Error(t, change.Validate(selfRequiring))
}

func TestCreateTableSerialize(t *testing.T) {
	t.Parallel()

	ct := &change.CreateTable{
		Schema: "public",
		Name:   "events",
		Owner:  "admin",
		Columns: []change.ColumnDef{
			{Name: "id", Type: "bigint", PrimaryKey: true},
			{Name: "name", Type: "text", NotNull: true},
		},
	}

	sql, err := ct.Serialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "public"."events" ("id" bigint PRIMARY KEY, "name" text NOT NULL);`, sql)

	assert.Contains(t, ct.Creates(), change.Table("public", "events"))
	assert.Contains(t, ct.Creates(), change.Column("public", "events", "id"))
	assert.Contains(t, ct.Requires(), change.Role("admin"))
	assert.Contains(t, ct.Requires(), change.Schema("public"))
}

func TestCreateSequenceSerializeOwnedBy(t *testing.T) {
	t.Parallel()

	cs := &change.CreateSequence{
		Schema:  "public",
		Name:    "events_id_seq",
		OwnedBy: &change.ColumnRef{Schema: "public", Table: "events", Column: "id"},
	}

	sql, err := cs.Serialize(context.Background())
	require.NoError(t, err)
	assert.Contains(t, sql, `CREATE SEQUENCE "public"."events_id_seq";`)
	assert.Contains(t, sql, `OWNED BY "public"."events"."id";`)
}

func TestSetCommentSerialize(t *testing.T) {
	t.Parallel()

	set := &change.SetComment{
		Object: change.Table("public", "events"),
		Text:   nullable.NewNullableWithValue("it's the events table"),
	}
	sql, err := set.Serialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `COMMENT ON TABLE public.events IS 'it''s the events table';`, sql)

	clear := &change.SetComment{
		Object: change.Column("public", "events", "id"),
		Text:   nullable.NewNullNullable[string](),
	}
	sql, err = clear.Serialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "COMMENT ON COLUMN public.events.id IS NULL;", sql)

	assert.Equal(t, change.ScopeComment, set.Scope())
	assert.Equal(t, change.ObjectTable, set.ObjectType())
	assert.Equal(t, []change.StableID{change.Comment(change.Table("public", "events"))}, set.Creates())
}

func TestGrantPrivilegeSerialize(t *testing.T) {
	t.Parallel()

	grant := &change.GrantPrivilege{
		Object:     change.Table("public", "events"),
		ObjectKind: change.ObjectTable,
		Grantee:    "reader",
		Privileges: []string{"SELECT", "INSERT"},
	}
	sql, err := grant.Serialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `GRANT SELECT, INSERT ON TABLE public.events TO "reader";`, sql)
	assert.Equal(t, change.ScopePrivilege, grant.Scope())
	assert.Equal(t, change.OpAlter, grant.Operation())

	revoke := &change.GrantPrivilege{
		Object:     change.Table("public", "events"),
		ObjectKind: change.ObjectTable,
		Grantee:    "reader",
		Privileges: []string{"ALL"},
		Revoke:     true,
	}
	sql, err = revoke.Serialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `REVOKE ALL ON TABLE public.events FROM "reader";`, sql)
}

// TestCreateTriggerFunctionDependency checks the trigger-function
// requirement is emitted exactly when the diff layer supplied the
// function signature, and omitted otherwise.
func TestCreateTriggerFunctionDependency(t *testing.T) {
	t.Parallel()

	withSig := &change.CreateTrigger{
		Schema:            "public",
		Table:             "events",
		Name:              "set_updated_at",
		FunctionSignature: "audit.set_updated_at()",
	}
	assert.Contains(t, withSig.Requires(), change.StableID("procedure:audit.set_updated_at()"))
	assert.Contains(t, withSig.Requires(), change.Table("public", "events"))

	withoutSig := &change.CreateTrigger{
		Schema: "public",
		Table:  "events",
		Name:   "set_updated_at",
	}
	assert.Equal(t, []change.StableID{change.Table("public", "events")}, withoutSig.Requires())
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	require.NoError(t, change.ValidateName("events"))

	long := make([]byte, change.MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, change.ValidateName(string(long)))
}
