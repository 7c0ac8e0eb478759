// SPDX-License-Identifier: Apache-2.0

package change

import "context"

// ManifestChange is a Change built directly from explicit metadata rather
// than inferred from parsing SQL (contrast GenericRawSQL). It backs the
// `pgdelta schedule` subcommand's change-set manifest format, validated
// against pkg/pgdelta's JSON schema before these are constructed: the
// manifest author (a diff module, or a human writing a fixture) states
// the operation/object-type/scope/creates/drops/requires directly instead
// of relying on statement-head sniffing.
type ManifestChange struct {
	Op         Operation
	Kind       ObjectType
	Sc         Scope
	CreatesIDs []StableID
	DropsIDs   []StableID
	RequireIDs []StableID
	SQL        string
}

func (m *ManifestChange) Operation() Operation   { return m.Op }
func (m *ManifestChange) ObjectType() ObjectType { return m.Kind }
func (m *ManifestChange) Scope() Scope           { return m.Sc }
func (m *ManifestChange) Creates() []StableID    { return m.CreatesIDs }
func (m *ManifestChange) Drops() []StableID      { return m.DropsIDs }
func (m *ManifestChange) Requires() []StableID   { return m.RequireIDs }

func (m *ManifestChange) Serialize(ctx context.Context) (string, error) {
	return m.SQL, nil
}
