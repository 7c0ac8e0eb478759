// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgdelta/pgdelta/cmd/flags"
	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/sqlfmt"
)

// formatCmd normalizes raw SQL read from stdin or a file using
// pkg/sqlfmt, the protect/parse/reassemble formatter spec.md §4.2
// describes. It performs no scheduling and touches no database.
func formatCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Normalize raw SQL statements read from stdin or a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = os.Stdin
			if inputPath != "" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer f.Close()
				src = f
			}

			raw, err := io.ReadAll(src)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			opts := formatOptionsFromFlags()

			statements, safe := sqlfmt.Split(string(raw))
			if !safe {
				fmt.Print(string(raw))
				return nil
			}

			for _, stmt := range statements {
				formatted := sqlfmt.Format(stmt, opts)
				if !strings.HasSuffix(strings.TrimRight(formatted, " \t\n"), ";") {
					formatted += ";"
				}
				fmt.Println(formatted)
				fmt.Println()
			}
			return nil
		},
	}

	flags.FormatFlags(cmd)
	cmd.Flags().StringVar(&inputPath, "file", "", "Read SQL from this file instead of stdin")

	return cmd
}

func formatOptionsFromFlags() change.FormatOptions {
	opts := change.DefaultFormatOptions()

	if kc := flags.KeywordCase(); kc != "" {
		opts.KeywordCase = change.KeywordCase(kc)
	}
	if mw := flags.MaxWidth(); mw > 0 {
		opts.MaxWidth = uint32(mw)
	}
	return opts
}
