package cmd

import (
	"errors"
	"strconv"

	"github.com/fatih/color"
	importapp "github.com/lojacrm/backend/internal/application/import"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var errConfirmationRequired = errors.New("refusing to delete all data without --yes")

func newClearCommand(opts *rootOptions) *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   "clear",
		Short: "Delete all clients, preferences, sales, sizes and brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "This deletes every CRM record. Re-run with --yes to confirm.")
				return errConfirmationRequired
			}
			return runClear(cmd, opts)
		},
	}
	c.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all data")
	return c
}

func runClear(cmd *cobra.Command, opts *rootOptions) error {
	s, err := openStack(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.purge.ClearAll(cmd.Context())
	out := cmd.OutOrStdout()

	if result != nil {
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Table", "Deleted"})
		table.SetBorder(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		failed := make(map[importapp.PurgeTable]bool, len(result.Failed))
		for _, t := range result.Failed {
			failed[t] = true
		}
		for _, t := range importapp.PurgeOrder {
			deleted := strconv.FormatInt(result.Deleted[t], 10)
			if failed[t] {
				deleted = "failed"
			}
			table.Append([]string{string(t), deleted})
		}
		table.Render()
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(out, "✗ %v\n", err)
		return err
	}
	color.New(color.FgGreen).Fprintln(out, "✓ All data cleared")
	return nil
}
