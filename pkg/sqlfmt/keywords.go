// SPDX-License-Identifier: Apache-2.0

package sqlfmt

// structuralKeywords is the closed set of words eligible for keyword-case
// transformation, per spec.md §4.2 step 5. Object names, qualified
// identifiers, and anything inside a protected range are never cased
// even if they happen to match one of these.
var structuralKeywords = map[string]bool{
	"CREATE": true, "ALTER": true, "DROP": true, "TABLE": true, "VIEW": true,
	"MATERIALIZED": true, "INDEX": true, "UNIQUE": true, "TRIGGER": true,
	"POLICY": true, "FUNCTION": true, "PROCEDURE": true, "AGGREGATE": true,
	"DOMAIN": true, "TYPE": true, "COLLATION": true, "LANGUAGE": true,
	"SEQUENCE": true, "RULE": true, "EVENT": true, "PUBLICATION": true,
	"SUBSCRIPTION": true, "FOREIGN": true, "DATA": true, "WRAPPER": true,
	"SERVER": true, "SCHEMA": true, "ROLE": true, "EXTENSION": true,
	"RETURNS": true, "RETURN": true, "AS": true, "REPLACE": true, "OR": true,
	"STABLE": true, "IMMUTABLE": true, "VOLATILE": true, "STRICT": true,
	"SECURITY": true, "DEFINER": true, "INVOKER": true, "PARALLEL": true,
	"SAFE": true, "UNSAFE": true, "RESTRICTED": true, "COST": true,
	"LEAKPROOF": true, "WINDOW": true, "NOT": true, "NULL": true,
	"DEFAULT": true, "PRIMARY": true, "KEY": true,
	"REFERENCES": true, "CHECK": true, "CONSTRAINT": true, "EXCLUDE": true,
	"USING": true, "WITH": true, "WITHOUT": true, "OIDS": true,
	"INHERITS": true, "PARTITION": true, "BY": true, "OF": true,
	"ADD": true, "COLUMN": true, "RENAME": true, "TO": true, "OWNER": true,
	"SET": true, "RESET": true, "CASCADE": true, "RESTRICT": true,
	"IF": true, "EXISTS": true, "ONLY": true, "FOR": true, "EACH": true,
	"ROW": true, "STATEMENT": true, "BEFORE": true, "AFTER": true,
	"INSTEAD": true, "EXECUTE": true, "WHEN": true,
	"DO": true, "ALSO": true, "ON": true, "GRANT": true,
	"REVOKE": true, "ALL": true, "PRIVILEGES": true, "IN": true,
	"ENUM": true, "RANGE": true, "SUBTYPE": true, "COMMENT": true,
	"IS": true, "FROM": true, "INHERIT": true, "NO": true,
	"DEFERRABLE": true, "INITIALLY": true, "DEFERRED": true, "IMMEDIATE": true,
	"MATCH": true, "FULL": true, "SIMPLE": true, "PARTIAL": true,
	"LOCALE": true, "LC_COLLATE": true, "LC_CTYPE": true, "WHERE": true,
	"CONCURRENTLY": true, "TABLESPACE": true, "STORAGE": true,
	"GENERATED": true, "ALWAYS": true, "IDENTITY": true, "INPUT": true,
	"OUTPUT": true, "RECEIVE": true, "SEND": true, "ANALYZE": true,
	"VALIDATOR": true, "HANDLER": true, "OPTIONS": true, "TEMPLATE": true,
	"CONNECTION": true, "LIMIT": true, "PUBLISH": true, "INSERT": true,
	"UPDATE": true, "DELETE": true, "TRUNCATE": true,
	"REFERENCING": true, "VERSION": true, "INLINE": true,
	"PERMISSIVE": true, "RESTRICTIVE": true, "OWNED": true, "COLLATE": true,
}

// wrapPreferredKeywords get priority as a line-wrap break point, per
// spec.md §4.2 step 6.
var wrapPreferredKeywords = map[string]bool{
	"ADD": true, "CHECK": true, "CONSTRAINT": true, "FOREIGN": true,
	"MATCH": true, "ON": true, "REFERENCES": true, "USING": true,
	"WHERE": true, "WITH": true,
}

// compoundPrefixes are adjacent word pairs the line wrapper must never
// split across lines, per spec.md §4.2 step 6.
var compoundPrefixes = [][2]string{
	{"CREATE", "PUBLICATION"}, {"COMMENT", "ON"},
	{"GRANT", "ALL"}, {"REVOKE", "ALL"}, {"ALL", "ON"},
	{"CREATE", "TABLE"}, {"CREATE", "VIEW"}, {"CREATE", "INDEX"},
	{"CREATE", "FUNCTION"}, {"CREATE", "PROCEDURE"}, {"CREATE", "TRIGGER"},
	{"CREATE", "SEQUENCE"}, {"CREATE", "SCHEMA"}, {"CREATE", "ROLE"},
	{"CREATE", "EXTENSION"}, {"CREATE", "DOMAIN"}, {"CREATE", "TYPE"},
	{"CREATE", "POLICY"}, {"CREATE", "RULE"}, {"CREATE", "AGGREGATE"},
	{"CREATE", "LANGUAGE"}, {"CREATE", "COLLATION"}, {"CREATE", "SERVER"},
	{"CREATE", "SUBSCRIPTION"}, {"ALTER", "TABLE"}, {"ALTER", "COLUMN"},
	{"DROP", "TABLE"}, {"DROP", "INDEX"}, {"DROP", "TRIGGER"},
	{"GRANT", "SELECT"}, {"GRANT", "INSERT"}, {"GRANT", "UPDATE"},
}

func isCompoundPrefix(a, b string) bool {
	for _, p := range compoundPrefixes {
		if p[0] == a && p[1] == b {
			return true
		}
	}
	return false
}
