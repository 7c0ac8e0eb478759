// SPDX-License-Identifier: Apache-2.0

package pgdelta

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// manifestSchemaJSON is the JSON Schema for the change-set manifest the
// `pgdelta schedule` subcommand reads: a FormatOptions block plus a list
// of raw-SQL changes (operation/object_type/scope/creates/drops/requires/
// sql), the shape ParseManifest turns into change.ManifestChange values.
const manifestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "pgdelta change-set manifest",
  "type": "object",
  "required": ["changes"],
  "properties": {
    "format": {
      "type": "object",
      "properties": {
        "keyword_case": {"enum": ["preserve", "upper", "lower"]},
        "indent": {"type": "integer", "minimum": 0},
        "max_width": {"type": "integer", "minimum": 1},
        "comma_style": {"enum": ["leading", "trailing"]},
        "align_columns": {"type": "boolean"},
        "align_key_values": {"type": "boolean"},
        "preserve_routine_bodies": {"type": "boolean"},
        "preserve_view_bodies": {"type": "boolean"},
        "preserve_rule_bodies": {"type": "boolean"}
      },
      "additionalProperties": false
    },
    "changes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["operation", "object_type", "scope", "sql"],
        "properties": {
          "operation": {"enum": ["create", "alter", "drop"]},
          "object_type": {
            "enum": [
              "schema", "role", "extension", "table", "view",
              "materialized_view", "index", "trigger", "rls_policy", "rule",
              "procedure", "sequence", "domain", "enum", "composite_type",
              "range", "collation", "language", "publication",
              "subscription", "foreign_data_wrapper", "server",
              "user_mapping", "foreign_table", "event_trigger", "aggregate"
            ]
          },
          "scope": {
            "enum": [
              "object", "comment", "privilege", "membership",
              "default_privilege", "owner"
            ]
          },
          "creates": {"type": "array", "items": {"type": "string"}},
          "drops": {"type": "array", "items": {"type": "string"}},
          "requires": {"type": "array", "items": {"type": "string"}},
          "sql": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// ValidateManifest validates a serialized change-set manifest (as read by
// `pgdelta schedule --manifest`) against manifestSchemaJSON before the
// orchestrator builds change.Change records from it, the same
// validate-before-use step internal/jsonschema exercises for pgroll's own
// operation schema.
func ValidateManifest(manifest []byte) error {
	sch, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(manifestSchemaJSON)))
	if err != nil {
		return fmt.Errorf("compiling manifest schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("manifest.json", sch); err != nil {
		return fmt.Errorf("adding manifest schema resource: %w", err)
	}
	compiled, err := c.Compile("manifest.json")
	if err != nil {
		return fmt.Errorf("compiling manifest schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifest))
	if err != nil {
		return fmt.Errorf("parsing manifest JSON: %w", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("manifest failed schema validation: %w", err)
	}
	return nil
}
