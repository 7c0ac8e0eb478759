// SPDX-License-Identifier: Apache-2.0

package scheduler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/scheduler"
)

// fakeChange is a minimal change.Change used to drive the scheduler
// without depending on pkg/change's concrete constructors.
type fakeChange struct {
	op       change.Operation
	objType  change.ObjectType
	scope    change.Scope
	creates  []change.StableID
	drops    []change.StableID
	requires []change.StableID
	veto     func(dependentID, referencedID change.StableID) bool
}

func (f *fakeChange) Operation() change.Operation    { return f.op }
func (f *fakeChange) ObjectType() change.ObjectType  { return f.objType }
func (f *fakeChange) Scope() change.Scope            { return f.scope }
func (f *fakeChange) Creates() []change.StableID     { return f.creates }
func (f *fakeChange) Drops() []change.StableID       { return f.drops }
func (f *fakeChange) Requires() []change.StableID    { return f.requires }
func (f *fakeChange) Serialize(context.Context) (string, error) {
	return "", nil
}
func (f *fakeChange) AcceptsDependency(dependentID, referencedID change.StableID) bool {
	if f.veto == nil {
		return true
	}
	return f.veto(dependentID, referencedID)
}

func createTable(schema, name string) *fakeChange {
	return &fakeChange{
		op:      change.OpCreate,
		objType: change.ObjectTable,
		scope:   change.ScopeObject,
		creates: []change.StableID{change.Table(schema, name)},
	}
}

func dropTable(schema, name string) *fakeChange {
	return &fakeChange{
		op:      change.OpDrop,
		objType: change.ObjectTable,
		scope:   change.ScopeObject,
		drops:   []change.StableID{change.Table(schema, name)},
	}
}

// createTableWithColumn models a CreateTable that also brings a column
// into existence, the way the real diff-layer implementation does; S1
// needs the column stable ID to be a catalog dependency target.
func createTableWithColumn(schema, table, column string) *fakeChange {
	return &fakeChange{
		op:      change.OpCreate,
		objType: change.ObjectTable,
		scope:   change.ScopeObject,
		creates: []change.StableID{change.Table(schema, table), change.Column(schema, table, column)},
	}
}

func createSequence(schema, name string) *fakeChange {
	return &fakeChange{
		op:      change.OpCreate,
		objType: change.ObjectSequence,
		scope:   change.ScopeObject,
		creates: []change.StableID{change.Sequence(schema, name)},
	}
}

func createRole(name string) *fakeChange {
	return &fakeChange{
		op:      change.OpCreate,
		objType: change.ObjectRole,
		scope:   change.ScopeObject,
		creates: []change.StableID{change.Role(name)},
	}
}

// TestSequenceOwnershipCycle covers S1: a sequence-ownership dependency
// runs both directions in the catalog snapshot, and must be broken
// rather than raised as a CycleError.
func TestSequenceOwnershipCycle(t *testing.T) {
	t.Parallel()

	events := createTableWithColumn("public", "events", "id")
	eventsSeq := createSequence("public", "events_id_seq")

	snapshot := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: change.Column("public", "events", "id"), Referenced: change.Sequence("public", "events_id_seq")},
			{Dependent: change.Sequence("public", "events_id_seq"), Referenced: change.Column("public", "events", "id")},
		},
	}

	out, err := scheduler.Schedule([]change.Change{events, eventsSeq}, scheduler.CatalogSnapshot{}, snapshot)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, change.Change(eventsSeq), out[0])
	assert.Same(t, change.Change(events), out[1])
}

// TestRoleBeforeTable covers S2: an explicit requirement orders the
// dependency's creator ahead of its dependent even though it appears
// later in the input.
func TestRoleBeforeTable(t *testing.T) {
	t.Parallel()

	admin := createRole("admin")
	posts := createTable("public", "posts")
	posts.requires = []change.StableID{change.Role("admin")}

	out, err := scheduler.Schedule([]change.Change{posts, admin}, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, change.Change(admin), out[0])
	assert.Same(t, change.Change(posts), out[1])
}

// TestDropInversion covers S3: the drop phase inverts catalog edges so
// a dependent is dropped before the object it depends on.
func TestDropInversion(t *testing.T) {
	t.Parallel()

	users := dropTable("public", "users")
	posts := dropTable("public", "posts")

	snapshot := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: change.Table("public", "posts"), Referenced: change.Table("public", "users")},
		},
	}

	out, err := scheduler.Schedule([]change.Change{users, posts}, snapshot, scheduler.CatalogSnapshot{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, change.Change(posts), out[0])
	assert.Same(t, change.Change(users), out[1])
}

// TestStability covers property 2: changes with no constraint between
// them keep their input relative order.
func TestStability(t *testing.T) {
	t.Parallel()

	a := createTable("public", "a")
	b := createTable("public", "b")
	c := createTable("public", "c")

	out, err := scheduler.Schedule([]change.Change{c, a, b}, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{})
	require.NoError(t, err)
	require.Equal(t, []change.Change{c, a, b}, out)
}

// TestDeterminism covers property 3: repeated calls on identical input
// yield byte-for-byte (here, pointer-for-pointer) identical output.
func TestDeterminism(t *testing.T) {
	t.Parallel()

	admin := createRole("admin")
	posts := createTable("public", "posts")
	posts.requires = []change.StableID{change.Role("admin")}
	changes := []change.Change{posts, admin}

	first, err := scheduler.Schedule(changes, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{})
	require.NoError(t, err)
	second, err := scheduler.Schedule(changes, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestPhasePartition covers property 6: every drop precedes every
// create/alter regardless of input interleaving.
func TestPhasePartition(t *testing.T) {
	t.Parallel()

	changes := []change.Change{
		createTable("public", "a"),
		dropTable("public", "old_a"),
		createTable("public", "b"),
		dropTable("public", "old_b"),
	}

	out, err := scheduler.Schedule(changes, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{})
	require.NoError(t, err)
	require.Len(t, out, 4)

	seenCreate := false
	for _, c := range out {
		if c.Operation() == change.OpCreate {
			seenCreate = true
		}
		if c.Operation() == change.OpDrop {
			assert.False(t, seenCreate, "drop %v scheduled after a create", c.Drops())
		}
	}
}

// TestUnresolvableCycleReports covers properties 4 and 5's negative
// case: a cycle with no sequence-ownership edge to discard must raise
// CycleError naming every participating change and edge.
func TestUnresolvableCycleReports(t *testing.T) {
	t.Parallel()

	a := createTable("public", "a")
	b := createTable("public", "b")
	a.requires = []change.StableID{change.Table("public", "b")}
	b.requires = []change.StableID{change.Table("public", "a")}

	_, err := scheduler.Schedule([]change.Change{a, b}, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{})
	require.Error(t, err)

	var cycleErr scheduler.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, scheduler.PhaseCreateAlter, cycleErr.Phase)
	assert.Len(t, cycleErr.Nodes, 2)
	assert.NotEmpty(t, cycleErr.Edges)
}

// TestDependencySafety covers property 1: no emitted order places a
// change before a prerequisite established via a catalog row.
func TestDependencySafety(t *testing.T) {
	t.Parallel()

	parent := createTable("public", "parent")
	child := createTable("public", "child")

	snapshot := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: change.Table("public", "child"), Referenced: change.Table("public", "parent")},
		},
	}

	out, err := scheduler.Schedule([]change.Change{child, parent}, scheduler.CatalogSnapshot{}, snapshot)
	require.NoError(t, err)

	positions := map[change.Change]int{}
	for i, c := range out {
		positions[c] = i
	}
	assert.Less(t, positions[change.Change(parent)], positions[change.Change(child)])
}

// TestDefaultPrivilegeBeforeCreate covers the scheduler's built-in
// Custom rule: a default-privilege entry runs before any non-role,
// non-schema create so new objects pick up the default grants.
func TestDefaultPrivilegeBeforeCreate(t *testing.T) {
	t.Parallel()

	table := createTable("public", "posts")
	defacl := &fakeChange{
		op:      change.OpAlter,
		objType: change.ObjectTable,
		scope:   change.ScopeDefaultPrivilege,
		creates: []change.StableID{change.DefaultACL("owner", "table", "public", "reader")},
	}

	out, err := scheduler.Schedule([]change.Change{table, defacl}, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, change.Change(defacl), out[0])
	assert.Same(t, change.Change(table), out[1])
}

// TestAcceptsDependencyVeto checks a change can veto an incoming catalog
// edge, so the ordering it would have forced never materializes.
func TestAcceptsDependencyVeto(t *testing.T) {
	t.Parallel()

	parent := createTable("public", "parent")
	child := createTable("public", "child")
	child.veto = func(dep, ref change.StableID) bool {
		return ref != change.Table("public", "parent")
	}

	snapshot := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: change.Table("public", "child"), Referenced: change.Table("public", "parent")},
		},
	}

	out, err := scheduler.Schedule([]change.Change{child, parent}, scheduler.CatalogSnapshot{}, snapshot)
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Without the vetoed edge, input order wins.
	assert.Same(t, change.Change(child), out[0])
	assert.Same(t, change.Change(parent), out[1])
}

// TestUnknownStableIDRowsSkipped checks dependency rows naming an
// "unknown:" stable ID are tolerated and discarded.
func TestUnknownStableIDRowsSkipped(t *testing.T) {
	t.Parallel()

	a := createTable("public", "a")
	b := createTable("public", "b")

	snapshot := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: change.Table("public", "b"), Referenced: change.Unknown("pg_toast entry")},
			{Dependent: change.Unknown("pg_toast entry"), Referenced: change.Table("public", "a")},
		},
	}

	out, err := scheduler.Schedule([]change.Change{b, a}, scheduler.CatalogSnapshot{}, snapshot)
	require.NoError(t, err)
	require.Equal(t, []change.Change{b, a}, out)
}

func TestPreSortGroupsByPhaseThenSchema(t *testing.T) {
	t.Parallel()

	dropB := dropTable("b", "x")
	createA := createTable("a", "x")
	createB := createTable("b", "x")

	out := scheduler.PreSort([]change.Change{createB, dropB, createA})
	require.Len(t, out, 3)
	assert.Same(t, change.Change(dropB), out[0])
	assert.Same(t, change.Change(createA), out[1])
	assert.Same(t, change.Change(createB), out[2])
}

// TestPreSortReversesHierarchyForDrops checks the object-type hierarchy
// runs in reverse in the drop phase: a table (created after sequences
// in the hierarchy) is dropped before the sequence it depends on, even
// when the input lists the sequence first.
func TestPreSortReversesHierarchyForDrops(t *testing.T) {
	t.Parallel()

	dropSeq := &fakeChange{
		op:      change.OpDrop,
		objType: change.ObjectSequence,
		scope:   change.ScopeObject,
		drops:   []change.StableID{change.Sequence("public", "events_id_seq")},
	}
	dropTbl := dropTable("public", "events")
	createSeq := createSequence("public", "orders_id_seq")
	createTbl := createTable("public", "orders")

	out := scheduler.PreSort([]change.Change{dropSeq, dropTbl, createTbl, createSeq})
	require.Len(t, out, 4)
	// Drops first, dependents before dependencies.
	assert.Same(t, change.Change(dropTbl), out[0])
	assert.Same(t, change.Change(dropSeq), out[1])
	// Creates keep the forward hierarchy: sequence before table.
	assert.Same(t, change.Change(createSeq), out[2])
	assert.Same(t, change.Change(createTbl), out[3])
}
