// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/lib/pq"
)

const (
	lockNotAvailableErrorCode pq.ErrorCode = "55P03"
	maxBackoffDuration                     = 1 * time.Minute
	backoffInterval                        = 1 * time.Second
)

// DB is the subset of *sql.DB the catalog reader needs. Grounded on
// pkg/db.DB; a separate interface here keeps pkg/catalog from depending on
// pkg/db, which belongs to the teacher's migration-execution surface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	Close() error
}

// RDB wraps a *sql.DB and retries queries that hit lock_not_available,
// exactly as pkg/db.RDB does for migration execution. Catalog extraction
// runs against a live database and can race DDL elsewhere, so reads get
// the same backoff treatment as writes do in the teacher.
type RDB struct {
	Conn *sql.DB
}

// QueryContext wraps sql.DB.QueryContext, retrying on lock_timeout errors.
func (db *RDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	b := backoff.New(maxBackoffDuration, backoffInterval)

	for {
		rows, err := db.Conn.QueryContext(ctx, query, args...)
		if err == nil {
			return rows, nil
		}

		pqErr := &pq.Error{}
		if errors.As(err, &pqErr) && pqErr.Code == lockNotAvailableErrorCode {
			if err := sleepCtx(ctx, b.Duration()); err != nil {
				return nil, err
			}
			continue
		}

		return nil, err
	}
}

func (db *RDB) Close() error {
	return db.Conn.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Open connects to url and wraps the connection in an RDB.
func Open(url string) (*RDB, error) {
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &RDB{Conn: conn}, nil
}
