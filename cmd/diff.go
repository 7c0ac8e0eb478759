// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgdelta/pgdelta/cmd/flags"
	"github.com/pgdelta/pgdelta/pkg/catalog"
)

// diffCmd extracts the pg_depend-derived dependency snapshot from the
// main and branch databases and writes them as two catalog snapshot
// fixtures. Per-object-type diffing (the modules that would turn those
// snapshots plus two schema dumps into an ordered list of change.Change
// records) is an external collaborator spec.md §1 names out of core
// scope; this subcommand covers the catalog-extraction half of that
// collaborator so the `schedule` subcommand has real fixtures to consume.
func diffCmd() *cobra.Command {
	var mainOut, branchOut string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Extract catalog dependency snapshots from the main and branch databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			mainURL, err := catalog.ConnectionURL(flags.PostgresURL(), flags.Schema(), nil)
			if err != nil {
				return fmt.Errorf("building main connection string: %w", err)
			}
			branchURL, err := catalog.ConnectionURL(flags.BranchPostgresURL(), flags.Schema(), nil)
			if err != nil {
				return fmt.Errorf("building branch connection string: %w", err)
			}

			if err := extractSnapshot(ctx, mainURL, mainOut); err != nil {
				return fmt.Errorf("extracting main snapshot: %w", err)
			}
			if err := extractSnapshot(ctx, branchURL, branchOut); err != nil {
				return fmt.Errorf("extracting branch snapshot: %w", err)
			}

			return nil
		},
	}

	flags.PgConnectionFlags(cmd)
	cmd.Flags().StringVar(&mainOut, "main-out", "main.json", "Output path for the main catalog snapshot")
	cmd.Flags().StringVar(&branchOut, "branch-out", "branch.json", "Output path for the branch catalog snapshot")

	return cmd
}

func extractSnapshot(ctx context.Context, url, outPath string) error {
	db, err := catalog.Open(url)
	if err != nil {
		return err
	}
	defer db.Close()

	snapshot, err := catalog.NewReader(db).Load(ctx)
	if err != nil {
		return err
	}

	f, err := createFile(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return catalog.WriteFixture(f, snapshot)
}
