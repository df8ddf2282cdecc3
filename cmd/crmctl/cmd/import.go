package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	importapp "github.com/lojacrm/backend/internal/application/import"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const maxPrintedRowErrors = 20

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a client sheet (.xlsx, .xlsm or .csv)",
		Long: `Runs the same import as POST /imports/clients: brands and sizes are
reconciled first, then every row is resolved, linked and merged in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, opts *rootOptions, path string) error {
	s, err := openStack(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	progress := func(p sheetimport.Progress) {
		if p.State != sheetimport.StateUploading {
			return
		}
		if p.Total > 0 && bar.GetMax() != p.Total {
			bar.ChangeMax(p.Total)
		}
		_ = bar.Set(p.Current)
	}

	result, err := s.importer.Import(cmd.Context(), importapp.ImportSource{
		FileName: filepath.Base(path),
		Size:     info.Size(),
		Reader:   f,
	}, progress)
	_ = bar.Finish()

	out := cmd.OutOrStdout()
	if result != nil {
		printImportResult(out, result)
	}
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "✗ Import failed: %v\n", err)
		return err
	}
	color.New(color.FgGreen).Fprintf(out, "✓ Imported %d of %d rows\n", result.Imported, result.Total)
	return nil
}

func printImportResult(w io.Writer, result *importapp.ImportResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run", "Rows", "Imported", "Errors", "Sales", "New References"})
	table.SetBorder(false)
	table.Append([]string{
		result.RunID.String(),
		strconv.Itoa(result.Total),
		strconv.Itoa(result.Imported),
		strconv.Itoa(result.Errors),
		strconv.Itoa(result.SalesCreated),
		strconv.FormatInt(result.ReferencesCreated, 10),
	})
	table.Render()

	if !result.SupportsPurchaseCount {
		color.New(color.FgYellow).Fprintln(w, "! sales table has no purchase_count column, counts were not stored")
	}

	if len(result.RowErrors) == 0 {
		return
	}
	fmt.Fprintln(w)
	errs := tablewriter.NewWriter(w)
	errs.SetHeader([]string{"Row", "Column", "Message"})
	errs.SetBorder(false)
	errs.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, re := range result.RowErrors {
		if i == maxPrintedRowErrors {
			break
		}
		errs.Append([]string{strconv.Itoa(re.Row), re.Column, re.Message})
	}
	errs.Render()
	if hidden := len(result.RowErrors) - maxPrintedRowErrors; hidden > 0 || result.IsTruncated {
		fmt.Fprintf(w, "... more row errors not shown (%d collected)\n", len(result.RowErrors))
	}
}
