// SPDX-License-Identifier: Apache-2.0

package change

// Validate checks the per-Change invariants from spec.md §3:
// drops and creates never overlap, and requires never names an ID the
// change itself creates. Cross-change invariants need the whole batch;
// see ValidateBatch.
func Validate(c Change) error {
	creates := toSet(c.Creates())
	for _, id := range c.Drops() {
		if creates[id] {
			return InvalidChangeError{Reason: "change both creates and drops " + string(id)}
		}
	}
	for _, id := range c.Requires() {
		if creates[id] {
			return InvalidChangeError{Reason: "change requires " + string(id) + " which it also creates"}
		}
	}
	return nil
}

// ValidateBatch runs Validate over every change and additionally checks
// that no two changes create the same stable ID. The check runs over the
// whole batch rather than per phase, so it also rejects two changes in
// different phases that create the same ID.
func ValidateBatch(changes []Change) error {
	seen := make(map[StableID]bool)
	for _, c := range changes {
		if err := Validate(c); err != nil {
			return err
		}
		for _, id := range c.Creates() {
			if seen[id] {
				return DuplicateStableIDError{ID: id}
			}
			seen[id] = true
		}
	}
	return nil
}

func toSet(ids []StableID) map[StableID]bool {
	set := make(map[StableID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
