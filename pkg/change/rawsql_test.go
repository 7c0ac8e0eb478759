// SPDX-License-Identifier: Apache-2.0

package change_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdelta/pgdelta/pkg/change"
)

func TestNewGenericRawSQLClassifiesCreateTable(t *testing.T) {
	t.Parallel()

	g := change.NewGenericRawSQL("CREATE TABLE public.events (id bigint)")

	assert.Equal(t, change.OpCreate, g.Operation())
	assert.Equal(t, change.ObjectTable, g.ObjectType())
	assert.Equal(t, []change.StableID{change.Table("public", "events")}, g.Creates())
	assert.Equal(t, []change.StableID{change.Schema("public")}, g.Requires())
}

func TestNewGenericRawSQLClassifiesDrop(t *testing.T) {
	t.Parallel()

	g := change.NewGenericRawSQL("DROP TABLE public.events")
	assert.Equal(t, change.OpDrop, g.Operation())
}

// Unparseable SQL degrades to an alter with no known dependencies; the
// raw text must still round-trip through Serialize untouched.
func TestNewGenericRawSQLParseFailurePassesThrough(t *testing.T) {
	t.Parallel()

	raw := "FROBNICATE ALL THE THINGS"
	g := change.NewGenericRawSQL(raw)

	assert.Equal(t, change.OpAlter, g.Operation())
	assert.Empty(t, g.Creates())
	assert.Empty(t, g.Requires())

	sql, err := g.Serialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, sql)
}
