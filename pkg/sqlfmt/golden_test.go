// SPDX-License-Identifier: Apache-2.0

package sqlfmt_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/sqlfmt"
)

const goldenDir = "./testdata"

// TestGoldenFixtures formats each testdata/*.txtar fixture's input.sql
// under the default format options and checks it against that fixture's
// want.sql, byte for byte.
func TestGoldenFixtures(t *testing.T) {
	t.Parallel()

	files, err := os.ReadDir(goldenDir)
	require.NoError(t, err)

	for _, file := range files {
		t.Run(file.Name(), func(t *testing.T) {
			ac, err := txtar.ParseFile(filepath.Join(goldenDir, file.Name()))
			require.NoError(t, err)
			require.Len(t, ac.Files, 2)

			input := strings.TrimSpace(string(ac.Files[0].Data))
			want := strings.TrimSpace(string(ac.Files[1].Data))

			got := sqlfmt.Format(input, change.DefaultFormatOptions())
			assert.Equal(t, want, got)
		})
	}
}
