// SPDX-License-Identifier: Apache-2.0

package pgdelta

import "github.com/google/uuid"

// NewRunID generates a fresh identifier for one diff-planning run, used
// only to correlate log lines across catalog loading, scheduling, and
// formatting for a single invocation. It is threaded through as a plain
// string and never consulted by pkg/scheduler or pkg/sqlfmt, which stay
// deterministic (spec.md §5) and do not take a run identifier.
func NewRunID() string {
	return uuid.NewString()
}
