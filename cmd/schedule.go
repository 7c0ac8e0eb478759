// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgdelta/pgdelta/pkg/catalog"
	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/pgdelta"
	"github.com/pgdelta/pgdelta/pkg/scheduler"
)

// scheduleCmd reads a change-set manifest (the shape pkg/pgdelta.
// ValidateManifest/ParseManifest understand) and two catalog snapshot
// fixtures, orders the changes with pkg/scheduler, formats each
// statement with pkg/sqlfmt, and prints the resulting script.
func scheduleCmd() *cobra.Command {
	var manifestPath, mainSnapshotPath, branchSnapshotPath, output string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Order a change-set manifest into an execution-safe migration script",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestBytes, err := os.ReadFile(manifestPath)
			if err != nil {
				return fmt.Errorf("reading manifest: %w", err)
			}

			if err := pgdelta.ValidateManifest(manifestBytes); err != nil {
				return err
			}

			changes, opts, err := pgdelta.ParseManifest(manifestBytes)
			if err != nil {
				return err
			}

			main, err := readSnapshot(mainSnapshotPath)
			if err != nil {
				return fmt.Errorf("reading main snapshot: %w", err)
			}
			branch, err := readSnapshot(branchSnapshotPath)
			if err != nil {
				return fmt.Errorf("reading branch snapshot: %w", err)
			}

			progress := pgdelta.StartProgress("scheduling changes...")
			plan, err := pgdelta.PlanChanges(context.Background(), changes, main, branch, pgdelta.PlanOptions{Format: &opts}, pgdelta.NewLogger())
			if err != nil {
				progress.Fail("scheduling failed")
				return err
			}
			progress.Success(fmt.Sprintf("scheduled %d changes", len(plan.Changes)))

			if output == "yaml" {
				out, err := change.MarshalPlanYAML(plan.Changes)
				if err != nil {
					return fmt.Errorf("marshaling plan: %w", err)
				}
				fmt.Print(string(out))
				return nil
			}

			fmt.Print(plan.Script())
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Path to the change-set manifest (required)")
	cmd.Flags().StringVar(&mainSnapshotPath, "main-snapshot", "main.json", "Path to the main catalog snapshot fixture")
	cmd.Flags().StringVar(&branchSnapshotPath, "branch-snapshot", "branch.json", "Path to the branch catalog snapshot fixture")
	cmd.Flags().StringVar(&output, "output", "script", "Output format: script (formatted DDL) or yaml (ordered change summaries)")
	cmd.MarkFlagRequired("manifest")

	return cmd
}

func readSnapshot(path string) (scheduler.CatalogSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return scheduler.CatalogSnapshot{}, nil
		}
		return scheduler.CatalogSnapshot{}, err
	}
	defer f.Close()

	return catalog.LoadFixture(f)
}
