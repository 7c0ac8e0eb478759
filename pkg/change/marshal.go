// SPDX-License-Identifier: Apache-2.0

package change

import (
	"sigs.k8s.io/yaml"
)

// Summary is a wire-friendly, lossy projection of a Change used by the CLI
// to print a plan for inspection (`pgdelta schedule --output yaml`). It is not
// round-tripped back into a Change — Serialize is the only thing the
// scheduler/orchestrator ever needs from the real value.
type Summary struct {
	Operation  Operation  `json:"operation"`
	ObjectType ObjectType `json:"object_type"`
	Scope      Scope      `json:"scope"`
	Creates    []StableID `json:"creates,omitempty"`
	Drops      []StableID `json:"drops,omitempty"`
	Requires   []StableID `json:"requires,omitempty"`
}

// Summarize projects c into its wire-friendly Summary.
func Summarize(c Change) Summary {
	return Summary{
		Operation:  c.Operation(),
		ObjectType: c.ObjectType(),
		Scope:      c.Scope(),
		Creates:    c.Creates(),
		Drops:      c.Drops(),
		Requires:   c.Requires(),
	}
}

// MarshalPlanYAML renders an ordered list of changes as YAML, following
// the same sigs.k8s.io/yaml round-trip (JSON tags, YAML output) the
// teacher uses for its migration file format.
func MarshalPlanYAML(changes []Change) ([]byte, error) {
	summaries := make([]Summary, len(changes))
	for i, c := range changes {
		summaries[i] = Summarize(c)
	}
	return yaml.Marshal(summaries)
}
