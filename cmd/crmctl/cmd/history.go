package cmd

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "history",
		Short: "List recent import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStack(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.history.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				color.New(color.FgYellow).Fprintln(out, "No imports yet")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Started", "File", "Status", "Rows", "Imported", "Errors"})
			table.SetBorder(false)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, r := range runs {
				table.Append([]string{
					r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.FileName,
					string(r.Status),
					strconv.Itoa(r.TotalRows),
					strconv.Itoa(r.ImportedRows),
					strconv.Itoa(r.ErrorRows),
				})
			}
			table.Render()
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	return c
}
