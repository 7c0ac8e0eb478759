// SPDX-License-Identifier: Apache-2.0

package pgdelta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/pgdelta"
	"github.com/pgdelta/pgdelta/pkg/scheduler"
)

// TestPlanChangesSequenceOwnershipCycle is spec.md §8 scenario S1, run
// through the full PlanChanges pipeline rather than scheduler.Schedule
// directly, to exercise the orchestration wiring end to end.
func TestPlanChangesSequenceOwnershipCycle(t *testing.T) {
	t.Parallel()

	changes := []change.Change{
		&change.CreateTable{
			Schema: "public",
			Name:   "events",
			Columns: []change.ColumnDef{
				{Name: "id", Type: "bigint", PrimaryKey: true},
			},
		},
		&change.CreateSequence{
			Schema: "public",
			Name:   "events_id_seq",
			OwnedBy: &change.ColumnRef{
				Schema: "public", Table: "events", Column: "id",
			},
		},
	}

	branch := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: "column:public.events.id", Referenced: "sequence:public.events_id_seq"},
			{Dependent: "sequence:public.events_id_seq", Referenced: "column:public.events.id"},
		},
	}

	plan, err := pgdelta.PlanChanges(context.Background(), changes, scheduler.CatalogSnapshot{}, branch, pgdelta.PlanOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, plan.Changes, 2)

	assert.IsType(t, &change.CreateSequence{}, plan.Changes[0])
	assert.IsType(t, &change.CreateTable{}, plan.Changes[1])
	require.Len(t, plan.Statements, 2)
	assert.NotEmpty(t, plan.RunID)
}

// TestPlanChangesRoleBeforeTable is spec.md §8 scenario S2.
func TestPlanChangesRoleBeforeTable(t *testing.T) {
	t.Parallel()

	changes := []change.Change{
		&change.CreateTable{
			Schema: "public",
			Name:   "posts",
			Owner:  "admin",
			Columns: []change.ColumnDef{
				{Name: "id", Type: "bigint", PrimaryKey: true},
			},
		},
		&change.CreateRole{Name: "admin"},
	}

	plan, err := pgdelta.PlanChanges(context.Background(), changes, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{}, pgdelta.PlanOptions{}, pgdelta.NewNoopLogger())
	require.NoError(t, err)

	require.Len(t, plan.Changes, 2)
	assert.IsType(t, &change.CreateRole{}, plan.Changes[0])
	assert.IsType(t, &change.CreateTable{}, plan.Changes[1])
}

// TestPlanChangesDropInversion is spec.md §8 scenario S3.
func TestPlanChangesDropInversion(t *testing.T) {
	t.Parallel()

	changes := []change.Change{
		&change.DropTable{Schema: "public", Name: "users"},
		&change.DropTable{Schema: "public", Name: "posts"},
	}

	main := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: "table:public.posts", Referenced: "table:public.users"},
		},
	}

	plan, err := pgdelta.PlanChanges(context.Background(), changes, main, scheduler.CatalogSnapshot{}, pgdelta.PlanOptions{}, nil)
	require.NoError(t, err)

	require.Len(t, plan.Changes, 2)
	dropped0 := plan.Changes[0].(*change.DropTable)
	dropped1 := plan.Changes[1].(*change.DropTable)
	assert.Equal(t, "posts", dropped0.Name)
	assert.Equal(t, "users", dropped1.Name)
}

func TestPlanChangesFormatsStatements(t *testing.T) {
	t.Parallel()

	changes := []change.Change{
		&change.CreateRole{Name: "admin"},
	}
	opts := change.DefaultFormatOptions()
	opts.KeywordCase = change.KeywordCaseLower

	plan, err := pgdelta.PlanChanges(context.Background(), changes, scheduler.CatalogSnapshot{}, scheduler.CatalogSnapshot{}, pgdelta.PlanOptions{Format: &opts}, nil)
	require.NoError(t, err)
	require.Len(t, plan.Statements, 1)
	assert.NotEmpty(t, plan.Script())
}
