// SPDX-License-Identifier: Apache-2.0

package change

import (
	"context"
	"fmt"

	"github.com/oapi-codegen/nullable"
)

// SetComment represents a COMMENT ON ... IS ... change. Text distinguishes
// "set to this string" from "explicitly cleared" (COMMENT ... IS NULL):
// an unset Text means "no comment change at all" (this Change would not
// have been produced), a Text set to null means clear the comment, and a
// Text set to a value means set it — the same three-state shape
// op_alter_column.go uses nullable for on the teacher's optional column
// attributes.
type SetComment struct {
	Object StableID
	Text   nullable.Nullable[string]
}

func (c *SetComment) Operation() Operation   { return OpAlter }
func (c *SetComment) ObjectType() ObjectType { return objectTypeOf(c.Object) }
func (c *SetComment) Scope() Scope           { return ScopeComment }
func (c *SetComment) Creates() []StableID    { return []StableID{Comment(c.Object)} }
func (c *SetComment) Drops() []StableID      { return nil }
func (c *SetComment) Requires() []StableID   { return []StableID{c.Object} }

func (c *SetComment) Serialize(ctx context.Context) (string, error) {
	if !c.Text.IsSpecified() || c.Text.IsNull() {
		return fmt.Sprintf("COMMENT ON %s IS NULL;", objectPhrase(c.Object)), nil
	}
	text, _ := c.Text.Get()
	return fmt.Sprintf("COMMENT ON %s IS %s;", objectPhrase(c.Object), quoteLiteral(text)), nil
}

// quoteLiteral single-quotes a SQL string literal, doubling embedded
// quotes. pkg/sqlfmt's scanner recognizes this exact escaping rule when it
// re-tokenizes COMMENT payloads for protection.
func quoteLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'', '\'')
		} else {
			out = append(out, s[i])
		}
	}
	out = append(out, '\'')
	return string(out)
}
