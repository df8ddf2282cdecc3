package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	reportapp "github.com/lojacrm/backend/internal/application/report"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "report",
		Short: "Print CRM reports",
	}

	ranking := &cobra.Command{
		Use:   "ranking",
		Short: "Sales per salesperson, highest total first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStack(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.reports.GetSalespersonRanking(cmd.Context())
			if err != nil {
				return err
			}
			printRanking(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	var window int
	birthdays := &cobra.Command{
		Use:   "birthdays",
		Short: "Clients with a birthday in the next days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStack(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.reports.GetUpcomingBirthdays(cmd.Context(), window)
			if err != nil {
				return err
			}
			printBirthdays(cmd.OutOrStdout(), rows, window)
			return nil
		},
	}
	birthdays.Flags().IntVar(&window, "window", reportapp.BirthdayWindowMonth, "Days ahead: 0 (today), 7 or 30")

	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Client and sale totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStack(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			d, err := s.reports.GetDashboard(cmd.Context())
			if err != nil {
				return err
			}
			printDashboard(cmd.OutOrStdout(), d)
			return nil
		},
	}

	c.AddCommand(ranking, birthdays, dashboard)
	return c
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func printRanking(w io.Writer, rows []reportapp.SalespersonRankingResponse) {
	if len(rows) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No sales recorded")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Salesperson", "Total", "Sales", "Clients", "Avg Ticket"})
	table.SetBorder(false)
	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(r.Rank),
			r.Salesperson,
			money(r.TotalValue),
			strconv.FormatInt(r.SaleCount, 10),
			strconv.FormatInt(r.UniqueClients, 10),
			money(r.AverageTicket),
		})
	}
	table.Render()
}

func printBirthdays(w io.Writer, rows []reportapp.BirthdayResponse, window int) {
	if len(rows) == 0 {
		color.New(color.FgYellow).Fprintf(w, "No birthdays in the next %d days\n", window)
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Client", "Phone", "Birthday", "In Days", "Turning"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range rows {
		table.Append([]string{
			r.Name,
			r.Phone,
			r.NextBirthday.Format("02/01"),
			strconv.Itoa(r.DaysUntil),
			strconv.Itoa(r.TurningAge),
		})
	}
	table.Render()
}

func printDashboard(w io.Writer, d *reportapp.DashboardResponse) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Clients", "Sales", "Revenue", "Avg Ticket"})
	table.SetBorder(false)
	table.Append([]string{
		fmt.Sprint(d.ClientCount),
		fmt.Sprint(d.SaleCount),
		money(d.Revenue),
		money(d.AverageTicket),
	})
	table.Render()
}
