// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// ConnectionURL builds the connection string Open expects from a base
// Postgres URL: search_path is pinned to the schema under diff, so the
// main and branch catalogs resolve unqualified names identically, and
// any extra libpq parameters (statement_timeout for a slow catalog,
// application_name for log filtering) are merged into the query string.
// An empty schema with no extras returns the URL unchanged.
func ConnectionURL(connStr, schema string, extra map[string]string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("parsing connection string: %w", err)
	}

	if schema == "" && len(extra) == 0 {
		return connStr, nil
	}

	q := u.Query()
	if schema != "" {
		q.Set("options", fmt.Sprintf("-c search_path=%s", schema))
	}
	for k, v := range extra {
		q.Set(k, v)
	}

	// url.Values encodes spaces as '+', which libpq rejects inside the
	// options parameter.
	u.RawQuery = strings.ReplaceAll(q.Encode(), "+", "%20")

	return u.String(), nil
}
