// SPDX-License-Identifier: Apache-2.0

package pgdelta

import (
	"encoding/json"
	"fmt"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// manifestDoc is the decoded shape of a change-set manifest, after
// ValidateManifest has confirmed it matches manifestSchemaJSON.
type manifestDoc struct {
	Format  *manifestFormat  `json:"format"`
	Changes []manifestChange `json:"changes"`
}

type manifestFormat struct {
	KeywordCase         string `json:"keyword_case"`
	Indent              uint32 `json:"indent"`
	MaxWidth            uint32 `json:"max_width"`
	CommaStyle          string `json:"comma_style"`
	AlignColumns        *bool  `json:"align_columns"`
	AlignKeyValues      *bool  `json:"align_key_values"`
	PreserveRoutineBody *bool  `json:"preserve_routine_bodies"`
	PreserveViewBody    *bool  `json:"preserve_view_bodies"`
	PreserveRuleBody    *bool  `json:"preserve_rule_bodies"`
}

type manifestChange struct {
	Operation  string   `json:"operation"`
	ObjectType string   `json:"object_type"`
	Scope      string   `json:"scope"`
	Creates    []string `json:"creates"`
	Drops      []string `json:"drops"`
	Requires   []string `json:"requires"`
	SQL        string   `json:"sql"`
}

// ParseManifest decodes a change-set manifest into change.Change records
// plus the format options it declares (or the documented defaults, if the
// manifest omits the "format" block). Callers should run ValidateManifest
// first; ParseManifest itself performs no schema validation.
func ParseManifest(manifest []byte) ([]change.Change, change.FormatOptions, error) {
	var doc manifestDoc
	if err := json.Unmarshal(manifest, &doc); err != nil {
		return nil, change.FormatOptions{}, fmt.Errorf("decoding change-set manifest: %w", err)
	}

	opts := change.DefaultFormatOptions()
	if doc.Format != nil {
		applyManifestFormat(&opts, doc.Format)
	}

	changes := make([]change.Change, 0, len(doc.Changes))
	for _, mc := range doc.Changes {
		changes = append(changes, &change.ManifestChange{
			Op:         change.Operation(mc.Operation),
			Kind:       change.ObjectType(mc.ObjectType),
			Sc:         change.Scope(mc.Scope),
			CreatesIDs: toStableIDs(mc.Creates),
			DropsIDs:   toStableIDs(mc.Drops),
			RequireIDs: toStableIDs(mc.Requires),
			SQL:        mc.SQL,
		})
	}

	return changes, opts, nil
}

func applyManifestFormat(opts *change.FormatOptions, f *manifestFormat) {
	if f.KeywordCase != "" {
		opts.KeywordCase = change.KeywordCase(f.KeywordCase)
	}
	if f.Indent != 0 {
		opts.Indent = f.Indent
	}
	if f.MaxWidth != 0 {
		opts.MaxWidth = f.MaxWidth
	}
	if f.CommaStyle != "" {
		opts.CommaStyle = change.CommaStyle(f.CommaStyle)
	}
	if f.AlignColumns != nil {
		opts.AlignColumns = *f.AlignColumns
	}
	if f.AlignKeyValues != nil {
		opts.AlignKeyValues = *f.AlignKeyValues
	}
	if f.PreserveRoutineBody != nil {
		opts.PreserveRoutineBody = *f.PreserveRoutineBody
	}
	if f.PreserveViewBody != nil {
		opts.PreserveViewBody = *f.PreserveViewBody
	}
	if f.PreserveRuleBody != nil {
		opts.PreserveRuleBody = *f.PreserveRuleBody
	}
}

func toStableIDs(ss []string) []change.StableID {
	if len(ss) == 0 {
		return nil
	}
	ids := make([]change.StableID, len(ss))
	for i, s := range ss {
		ids[i] = change.StableID(s)
	}
	return ids
}
