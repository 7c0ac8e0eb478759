// SPDX-License-Identifier: Apache-2.0

// Package change defines the Change contract consumed by pkg/scheduler and
// produced by per-object diff modules, plus the stable-ID naming scheme
// those modules and the scheduler both rely on.
package change

import "context"

// Operation is the kind of DDL action a Change performs.
type Operation string

const (
	OpCreate Operation = "create"
	OpAlter  Operation = "alter"
	OpDrop   Operation = "drop"
)

// ObjectType is the kind of database object a Change targets.
type ObjectType string

const (
	ObjectSchema             ObjectType = "schema"
	ObjectRole               ObjectType = "role"
	ObjectExtension          ObjectType = "extension"
	ObjectTable              ObjectType = "table"
	ObjectView               ObjectType = "view"
	ObjectMaterializedView   ObjectType = "materialized_view"
	ObjectIndex              ObjectType = "index"
	ObjectTrigger            ObjectType = "trigger"
	ObjectRLSPolicy          ObjectType = "rls_policy"
	ObjectRule               ObjectType = "rule"
	ObjectProcedure          ObjectType = "procedure"
	ObjectSequence           ObjectType = "sequence"
	ObjectDomain             ObjectType = "domain"
	ObjectEnum               ObjectType = "enum"
	ObjectCompositeType      ObjectType = "composite_type"
	ObjectRange              ObjectType = "range"
	ObjectCollation          ObjectType = "collation"
	ObjectLanguage           ObjectType = "language"
	ObjectPublication        ObjectType = "publication"
	ObjectSubscription       ObjectType = "subscription"
	ObjectForeignDataWrapper ObjectType = "foreign_data_wrapper"
	ObjectServer             ObjectType = "server"
	ObjectUserMapping        ObjectType = "user_mapping"
	ObjectForeignTable       ObjectType = "foreign_table"
	ObjectEventTrigger       ObjectType = "event_trigger"
	ObjectAggregate          ObjectType = "aggregate"
)

// Scope narrows what aspect of an object a Change affects.
type Scope string

const (
	ScopeObject           Scope = "object"
	ScopeComment          Scope = "comment"
	ScopePrivilege        Scope = "privilege"
	ScopeMembership       Scope = "membership"
	ScopeDefaultPrivilege Scope = "default_privilege"
	ScopeOwner            Scope = "owner"
)

// KeywordCase controls how the formatter cases structural keywords.
type KeywordCase string

const (
	KeywordCasePreserve KeywordCase = "preserve"
	KeywordCaseUpper    KeywordCase = "upper"
	KeywordCaseLower    KeywordCase = "lower"
)

// CommaStyle controls where the formatter places separating commas in a
// wrapped list.
type CommaStyle string

const (
	CommaLeading  CommaStyle = "leading"
	CommaTrailing CommaStyle = "trailing"
)

// FormatOptions configures pkg/sqlfmt. Missing fields (zero values) are
// replaced by DefaultFormatOptions before use; callers that parse options
// from JSON/YAML should call that to pick up documented defaults.
type FormatOptions struct {
	KeywordCase         KeywordCase `json:"keyword_case,omitempty" yaml:"keyword_case,omitempty"`
	Indent              uint32      `json:"indent,omitempty" yaml:"indent,omitempty"`
	MaxWidth            uint32      `json:"max_width,omitempty" yaml:"max_width,omitempty"`
	CommaStyle          CommaStyle  `json:"comma_style,omitempty" yaml:"comma_style,omitempty"`
	AlignColumns        bool        `json:"align_columns" yaml:"align_columns"`
	AlignKeyValues      bool        `json:"align_key_values" yaml:"align_key_values"`
	PreserveRoutineBody bool        `json:"preserve_routine_bodies" yaml:"preserve_routine_bodies"`
	PreserveViewBody    bool        `json:"preserve_view_bodies" yaml:"preserve_view_bodies"`
	PreserveRuleBody    bool        `json:"preserve_rule_bodies" yaml:"preserve_rule_bodies"`
}

// DefaultFormatOptions returns the documented defaults from spec §6.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		KeywordCase:         KeywordCasePreserve,
		Indent:              2,
		MaxWidth:            100,
		CommaStyle:          CommaTrailing,
		AlignColumns:        true,
		AlignKeyValues:      true,
		PreserveRoutineBody: true,
		PreserveViewBody:    true,
		PreserveRuleBody:    true,
	}
}

// Change is an immutable record describing one DDL action. Concrete
// implementations live alongside the diff modules that produce them;
// pkg/scheduler only ever consumes this interface.
type Change interface {
	Operation() Operation
	ObjectType() ObjectType
	Scope() Scope

	// Creates lists the stable IDs this change brings into existence.
	Creates() []StableID
	// Drops lists the stable IDs this change removes.
	Drops() []StableID
	// Requires lists the stable IDs this change needs to already exist.
	Requires() []StableID

	// Serialize renders the raw DDL text for this change.
	Serialize(ctx context.Context) (string, error)
}

// DependencyVetoer is implemented by a Change that wants to veto an
// incoming catalog dependency edge, e.g. to break a known false-positive
// cycle before the scheduler ever sees it.
type DependencyVetoer interface {
	// AcceptsDependency reports whether an edge from referenced to
	// dependent should be created. Called only on the change that requires
	// or creates the edge's dependent ID.
	AcceptsDependency(dependentID, referencedID StableID) bool
}

// AcceptsDependency returns true unless c implements DependencyVetoer and
// that implementation rejects the edge.
func AcceptsDependency(c Change, dependentID, referencedID StableID) bool {
	if v, ok := c.(DependencyVetoer); ok {
		return v.AcceptsDependency(dependentID, referencedID)
	}
	return true
}
