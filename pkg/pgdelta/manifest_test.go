// SPDX-License-Identifier: Apache-2.0

package pgdelta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/pgdelta"
)

func TestParseManifest(t *testing.T) {
	t.Parallel()

	manifest := []byte(`{
		"format": {"keyword_case": "upper"},
		"changes": [
			{
				"operation": "create",
				"object_type": "role",
				"scope": "object",
				"creates": ["role:admin"],
				"sql": "create role admin;"
			},
			{
				"operation": "create",
				"object_type": "table",
				"scope": "object",
				"creates": ["table:public.posts"],
				"requires": ["role:admin"],
				"sql": "create table public.posts (id bigint primary key);"
			}
		]
	}`)

	require.NoError(t, pgdelta.ValidateManifest(manifest))

	changes, opts, err := pgdelta.ParseManifest(manifest)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, change.KeywordCaseUpper, opts.KeywordCase)
	assert.Equal(t, uint32(100), opts.MaxWidth)
	assert.Equal(t, []change.StableID{"role:admin"}, changes[0].Creates())
	assert.Equal(t, []change.StableID{"role:admin"}, changes[1].Requires())
}

func TestParseManifestDefaultsFormat(t *testing.T) {
	t.Parallel()

	changes, opts, err := pgdelta.ParseManifest([]byte(`{"changes": []}`))
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, change.DefaultFormatOptions(), opts)
}
