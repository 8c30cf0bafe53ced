package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"funnelboard/adapters/excel"
	"funnelboard/domain/funnel"
	"funnelboard/internal/config"
	"funnelboard/internal/pipeline"
	"funnelboard/internal/render"
	"funnelboard/internal/sampledata"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func main() {
	var file, sheet string

	rootCmd := &cobra.Command{
		Use:   "funnelctl",
		Short: "Inspect a sales pipeline spreadsheet without starting the dashboard",
	}
	rootCmd.PersistentFlags().StringVar(&file, "file", config.DefaultDatasetFile, "Dataset file (.xlsx or .csv)")
	rootCmd.PersistentFlags().StringVar(&sheet, "sheet", "", "Worksheet name (default: first sheet)")

	load := func() (*funnel.Dataset, error) {
		return excel.LoadDataset(excel.ExcelConfig{FilePath: file, Sheet: sheet})
	}

	rootCmd.AddCommand(
		newTablesCmd(load),
		newOptionsCmd(load),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type loaderFunc func() (*funnel.Dataset, error)

func newTablesCmd(load loaderFunc) *cobra.Command {
	var axis, metric, export string
	filters := make(map[funnel.Dimension]*[]string, funnel.DimensionCount)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the absolute and percentage tables for a selection",
		Long: `Print the absolute and percentage tables for a selection.

Filters default to every option. Repeat a filter flag or pass a comma list to
select several values, e.g.

  funnelctl tables --axis "Final Source" --metric dollars --fiscal-year FY24 --theatre AMER,EMEA`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load()
			if err != nil {
				return err
			}

			sel := funnel.DefaultSelection(pipeline.ExtractOptions(ds))
			if sel.Axis, err = funnel.ParseAxis(axis); err != nil {
				return err
			}
			if sel.Metric, err = funnel.ParseMetric(metric); err != nil {
				return err
			}
			for _, dim := range funnel.Dimensions() {
				if cmd.Flags().Changed(flagName(dim)) {
					sel.Select(dim, *filters[dim]...)
				}
			}

			view := render.Dashboard(ds, sel)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d of %d rows)\n\n", view.Chart.Title, view.MatchedRows, ds.Len())
			printTable(out, view.Absolute)
			fmt.Fprintln(out)
			printTable(out, view.Percentage)

			if export == "" {
				return nil
			}
			if err := writeExport(export, view); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nwrote %s\n", export)
			return nil
		},
	}

	cmd.Flags().StringVar(&axis, "axis", string(funnel.AxisIndustry), `Grouping axis: "Industry" or "Final Source"`)
	cmd.Flags().StringVar(&metric, "metric", string(funnel.MetricCounts), "Metric: counts or dollars")
	cmd.Flags().StringVar(&export, "export", "", "Also write both tables to this .xlsx file")
	for _, dim := range funnel.Dimensions() {
		values := []string{}
		filters[dim] = &values
		cmd.Flags().StringSliceVar(filters[dim], flagName(dim), nil, fmt.Sprintf("Selected %s values", dim.Column()))
	}

	return cmd
}

func newOptionsCmd(load loaderFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the selectable values of every filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load()
			if err != nil {
				return err
			}
			opts := pipeline.ExtractOptions(ds)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoWrapText(false)
			table.SetHeader([]string{"Filter", "Flag", "Options"})
			for _, dim := range funnel.Dimensions() {
				table.Append([]string{dim.Column(), "--" + flagName(dim), strings.Join(opts.For(dim), ", ")})
			}
			table.Render()
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var out, format string
	cfg := sampledata.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic opportunity dataset (.xlsx or .csv)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtName := strings.ToLower(strings.TrimSpace(format))
			if fmtName == "" {
				fmtName = "xlsx"
				if strings.EqualFold(filepath.Ext(out), ".csv") {
					fmtName = "csv"
				}
			}

			ds, err := sampledata.Generate(cfg)
			if err != nil {
				return fmt.Errorf("error generating dataset: %w", err)
			}

			switch fmtName {
			case "csv":
				err = sampledata.WriteCSV(out, ds)
			case "xlsx":
				err = sampledata.WriteXLSX(out, ds)
			default:
				return fmt.Errorf("unsupported format: %s", fmtName)
			}
			if err != nil {
				return fmt.Errorf("error writing %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d columns, %d rows)\n", out, len(ds.Headers), len(ds.Rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", config.DefaultDatasetFile, "Output file path")
	cmd.Flags().StringVar(&format, "format", "", "Output format: xlsx or csv (default inferred from --out)")
	cmd.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "Number of opportunities")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (deterministic)")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Share of blank Industry/Theatre/Region cells")
	cmd.Flags().Float64Var(&cfg.AdvanceRate, "advance-rate", cfg.AdvanceRate, "Chance of moving to the next stage")

	return cmd
}

// writeExport saves both tables as a workbook. The file is only reported
// written once Close has succeeded.
func writeExport(path string, view render.View) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	werr := excel.WriteWorkbook(f,
		excel.Sheet{Name: "Absolute", Header: view.Absolute.Header, Rows: view.Absolute.Rows},
		excel.Sheet{Name: "Percentage", Header: view.Percentage.Header, Rows: view.Percentage.Rows},
	)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return fmt.Errorf("close %s: %w", path, cerr)
	}
	return nil
}

// flagName turns the query key of a dimension into a flag, e.g. fiscal-year
func flagName(dim funnel.Dimension) string {
	return strings.ReplaceAll(dim.Param(), "_", "-")
}

func printTable(w io.Writer, t render.Table) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(t.Header)
	table.AppendBulk(t.Rows)
	table.Render()
}
