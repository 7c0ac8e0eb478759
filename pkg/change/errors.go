// SPDX-License-Identifier: Apache-2.0

package change

import "fmt"

// DuplicateStableIDError is returned by ValidateBatch when two distinct
// changes in the batch create the same stable ID.
type DuplicateStableIDError struct {
	ID StableID
}

func (e DuplicateStableIDError) Error() string {
	return fmt.Sprintf("stable id %q is created by more than one change in the same phase", e.ID)
}

// InvalidChangeError is raised when a Change violates one of the
// invariants in spec.md §3 (e.g. drops ∩ creates != ∅, or requires
// contains an ID the change itself creates).
type InvalidChangeError struct {
	Reason string
}

func (e InvalidChangeError) Error() string {
	return e.Reason
}

// UnknownObjectKindError is raised when a stable ID's prefix does not
// match any recognized object kind.
type UnknownObjectKindError struct {
	ID StableID
}

func (e UnknownObjectKindError) Error() string {
	return fmt.Sprintf("stable id %q does not match a recognized object kind", e.ID)
}
