// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the pgdelta version.
var Version = "development"

func init() {
	viper.SetEnvPrefix("PGDELTA")
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:          "pgdelta",
	Short:        "pgdelta plans PostgreSQL schema migrations by diffing two catalog snapshots",
	SilenceUsage: true,
	Version:      Version,
}

// Execute registers all subcommands and runs the root command.
func Execute() error {
	rootCmd.AddCommand(diffCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(formatCmd())

	return rootCmd.Execute()
}
