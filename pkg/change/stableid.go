// SPDX-License-Identifier: Apache-2.0

package change

import (
	"fmt"
	"strings"
)

// StableID identifies a database object across catalog snapshots. The same
// object must always produce the same StableID; two distinct objects must
// never produce the same one.
//
// Encoding follows "kind:qualified.name", with a handful of metadata kinds
// using their own compound shape (see the constructors below).
type StableID string

const (
	unknownPrefix    = "unknown:"
	aclPrefix        = "acl:"
	aclColumnPrefix  = "aclcol:"
	defaclPrefix     = "defacl:"
	membershipPrefix = "membership:"
	commentPrefix    = "comment:"
)

// IsUnknown reports whether id was produced for an object the diff layer
// could not classify. Scheduler constraint-building discards dependency
// rows that reference unknown IDs (spec: catalog constraints).
func (id StableID) IsUnknown() bool {
	return strings.HasPrefix(string(id), unknownPrefix)
}

// Kind returns the object-kind prefix of id ("table", "column",
// "procedure", ...), or "" if id has no kind separator.
func (id StableID) Kind() string {
	s := string(id)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i]
	}
	return ""
}

// Rest returns everything after id's kind prefix: the qualified object
// name for first-class kinds, or the compound payload for metadata kinds.
func (id StableID) Rest() string {
	s := string(id)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// IsMetadata reports whether id names an ACL, default-privilege,
// column-ACL, or role-membership entry rather than a first-class object.
// Metadata IDs are recognized purely by prefix.
func (id StableID) IsMetadata() bool {
	s := string(id)
	return strings.HasPrefix(s, aclPrefix) ||
		strings.HasPrefix(s, aclColumnPrefix) ||
		strings.HasPrefix(s, defaclPrefix) ||
		strings.HasPrefix(s, membershipPrefix)
}

// Schema returns the stable ID for a schema object.
func Schema(name string) StableID {
	return StableID(fmt.Sprintf("schema:%s", name))
}

// Role returns the stable ID for a role.
func Role(name string) StableID {
	return StableID(fmt.Sprintf("role:%s", name))
}

// Table returns the stable ID for a table, view, materialized view, or any
// other relation addressed as schema.name.
func Table(schema, name string) StableID {
	return StableID(fmt.Sprintf("table:%s.%s", schema, name))
}

// Column returns the stable ID for a column of a relation.
func Column(schema, table, column string) StableID {
	return StableID(fmt.Sprintf("column:%s.%s.%s", schema, table, column))
}

// Index returns the stable ID for an index.
func Index(schema, name string) StableID {
	return StableID(fmt.Sprintf("index:%s.%s", schema, name))
}

// Sequence returns the stable ID for a sequence.
func Sequence(schema, name string) StableID {
	return StableID(fmt.Sprintf("sequence:%s.%s", schema, name))
}

// Trigger returns the stable ID for a trigger, qualified by the table it is
// defined on, since Postgres trigger names are only unique per-table.
func Trigger(schema, table, name string) StableID {
	return StableID(fmt.Sprintf("trigger:%s.%s.%s", schema, table, name))
}

// RLSPolicy returns the stable ID for a row-level security policy.
func RLSPolicy(schema, table, name string) StableID {
	return StableID(fmt.Sprintf("rls_policy:%s.%s.%s", schema, table, name))
}

// Rule returns the stable ID for a rewrite rule.
func Rule(schema, table, name string) StableID {
	return StableID(fmt.Sprintf("rule:%s.%s.%s", schema, table, name))
}

// Procedure returns the stable ID for a function/procedure/aggregate,
// disambiguated by its argument type list exactly as Postgres does.
func Procedure(schema, name string, argTypes ...string) StableID {
	return StableID(fmt.Sprintf("procedure:%s.%s(%s)", schema, name, strings.Join(argTypes, ",")))
}

// Type returns the stable ID for a domain, enum, composite, or range type.
func Type(schema, name string) StableID {
	return StableID(fmt.Sprintf("type:%s.%s", schema, name))
}

// Extension returns the stable ID for an extension.
func Extension(name string) StableID {
	return StableID(fmt.Sprintf("extension:%s", name))
}

// Unknown returns a stable ID for an object the caller could not classify.
// Dependency rows mentioning an Unknown ID are tolerated and skipped by the
// scheduler rather than treated as an error.
func Unknown(raw string) StableID {
	return StableID(unknownPrefix + raw)
}

// ACL returns the stable ID for a grant of privileges on object to grantee.
func ACL(object StableID, grantee string) StableID {
	return StableID(fmt.Sprintf("%s%s::grantee:%s", aclPrefix, object, grantee))
}

// ACLColumn returns the stable ID for a column-level grant.
func ACLColumn(column StableID, grantee string) StableID {
	return StableID(fmt.Sprintf("%s%s::grantee:%s", aclColumnPrefix, column, grantee))
}

// Membership returns the stable ID for a role granted as a member of another.
func Membership(role, member string) StableID {
	return StableID(fmt.Sprintf("%s%s->%s", membershipPrefix, role, member))
}

// DefaultACL returns the stable ID for a default-privilege entry.
func DefaultACL(grantor, objType, schema, grantee string) StableID {
	return StableID(fmt.Sprintf("%s%s:%s:%s:%s", defaclPrefix, grantor, objType, schema, grantee))
}

// Comment returns the stable ID for a comment attached to object.
func Comment(object StableID) StableID {
	return StableID(fmt.Sprintf("%s%s", commentPrefix, object))
}

// sqlObjectKeyword maps a stable-ID kind to the keyword DDL uses to
// address that object in COMMENT ON and GRANT/REVOKE ... ON.
var sqlObjectKeyword = map[string]string{
	"schema":     "SCHEMA",
	"role":       "ROLE",
	"extension":  "EXTENSION",
	"table":      "TABLE",
	"column":     "COLUMN",
	"index":      "INDEX",
	"sequence":   "SEQUENCE",
	"procedure":  "FUNCTION",
	"type":       "TYPE",
	"trigger":    "TRIGGER",
	"rls_policy": "POLICY",
	"rule":       "RULE",
}

// objectPhrase renders id as the object reference DDL expects after ON,
// e.g. "TABLE public.events" or "FUNCTION audit.to_record_id(oid)".
// Names pass through with the casing the catalog recorded; stable IDs
// never carry quoting.
func objectPhrase(id StableID) string {
	kw, ok := sqlObjectKeyword[id.Kind()]
	if !ok {
		return id.Rest()
	}
	return kw + " " + id.Rest()
}

// stableIDObjectType maps a stable-ID kind back to the ObjectType
// enumeration, for changes (comments, grants) addressed by stable ID
// alone. "type" IDs do not record which flavor of type they name, so
// they report the composite kind; the scheduler treats all type flavors
// as one dependency-hierarchy group.
var stableIDObjectType = map[string]ObjectType{
	"schema":     ObjectSchema,
	"role":       ObjectRole,
	"extension":  ObjectExtension,
	"table":      ObjectTable,
	"column":     ObjectTable,
	"index":      ObjectIndex,
	"sequence":   ObjectSequence,
	"procedure":  ObjectProcedure,
	"type":       ObjectCompositeType,
	"trigger":    ObjectTrigger,
	"rls_policy": ObjectRLSPolicy,
	"rule":       ObjectRule,
}

func objectTypeOf(id StableID) ObjectType {
	if t, ok := stableIDObjectType[id.Kind()]; ok {
		return t
	}
	return ObjectTable
}
