// Package cmd implements crmctl, the operator console for the CRM backend.
package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	sqlitePath string
	verbose    bool
}

// NewRootCommand builds the crmctl command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "crmctl",
		Short: "CRM operations console",
		Long: color.New(color.FgCyan, color.Bold).Sprint("crmctl") + `

Import client sheets, inspect reports and manage the CRM database
using the same configuration as the API server (config.toml, .env, CRM_*).`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "Use this SQLite database instead of the configured one")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newImportCommand(opts),
		newClearCommand(opts),
		newReportCommand(opts),
		newHistoryCommand(opts),
		newMigrateCommand(opts),
	)
	return root
}

// Execute runs crmctl with the process arguments
func Execute() error {
	return NewRootCommand().Execute()
}
