// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pgdelta/pgdelta/pkg/catalog"
	"github.com/pgdelta/pgdelta/pkg/scheduler"
)

const defaultPostgresVersion = "15.3"

func TestFixtureRoundTrip(t *testing.T) {
	t.Parallel()

	snapshot := scheduler.CatalogSnapshot{
		Rows: []scheduler.DependencyRow{
			{Dependent: "column:public.events.id", Referenced: "sequence:public.events_id_seq"},
			{Dependent: "sequence:public.events_id_seq", Referenced: "column:public.events.id"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, catalog.WriteFixture(&buf, snapshot))

	got, err := catalog.LoadFixture(&buf)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestLoadFixtureRejectsNewerVersion(t *testing.T) {
	t.Parallel()

	_, err := catalog.LoadFixture(bytes.NewBufferString(`{"version":"v99.0.0","rows":[]}`))
	assert.ErrorIs(t, err, catalog.ErrUnsupportedSnapshotVersion)
}

// withPostgresContainer starts a disposable Postgres container for catalog
// reader tests. Skipped unless CI or POSTGRES_VERSION is set in the
// environment.
func withPostgresContainer(t *testing.T, fn func(*sql.DB)) {
	t.Helper()
	if os.Getenv("CI") == "" && os.Getenv("POSTGRES_VERSION") == "" {
		t.Skip("set POSTGRES_VERSION to run catalog integration tests against a real Postgres")
	}

	ctx := context.Background()
	pgVersion := os.Getenv("POSTGRES_VERSION")
	if pgVersion == "" {
		pgVersion = defaultPostgresVersion
	}

	ctr, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:"+pgVersion),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fn(db)
}

func TestReaderLoadFindsSequenceOwnershipDependency(t *testing.T) {
	t.Parallel()

	withPostgresContainer(t, func(db *sql.DB) {
		ctx := context.Background()
		_, err := db.ExecContext(ctx, `CREATE TABLE events (id bigserial PRIMARY KEY)`)
		require.NoError(t, err)

		reader := catalog.NewReader(&catalog.RDB{Conn: db})
		snapshot, err := reader.Load(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, snapshot.Rows)
		assert.Contains(t, snapshot.Rows, scheduler.DependencyRow{
			Dependent:  "sequence:public.events_id_seq",
			Referenced: "table:public.events",
		})
	})
}
