package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"titanicdash/domain/dataset"
	"titanicdash/internal"
	"titanicdash/internal/config"
	"titanicdash/internal/container"
	"titanicdash/internal/pipeline"
)

type rootOptions struct {
	source  string
	dump    bool
	noColor bool
}

// session is one loaded dataset plus the wiring that produced it
type session struct {
	container *container.Container
	dataset   *dataset.Dataset
	out       io.Writer
	dump      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "titanic-report",
		Short:         "Print passenger dataset summaries and filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.source, "source", "", "Dataset URL or path (defaults to DATASET_URL or the public CSV)")
	rootCmd.PersistentFlags().BoolVar(&opts.dump, "dump", false, "Dump raw result structures instead of tables")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newInfoCmd(opts),
		newSummaryCmd(opts),
		newHeadCmd(opts),
		newFilterCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

func open(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.source != "" {
		cfg.Data.SourceURL = opts.source
	}

	// Keep the CLI output clean unless asked otherwise.
	level := internal.LogLevelWarn
	if os.Getenv("LOG_LEVEL") != "" {
		level = internal.ParseLogLevel(cfg.LogLevel)
	}

	c, err := container.New(cfg, internal.NewLogger(level))
	if err != nil {
		return nil, err
	}
	ds, err := c.Pipeline.Load(cmd.Context(), cfg.Data.SourceURL)
	if err != nil {
		return nil, err
	}
	return &session{container: c, dataset: ds, out: cmd.OutOrStdout(), dump: opts.dump}, nil
}

func (s *session) roles() pipeline.Roles {
	return s.container.Pipeline.Roles()
}

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show row count and per-column non-null counts and types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, opts)
			if err != nil {
				return err
			}
			info := pipeline.Info(s.dataset)
			if s.dump {
				spew.Fdump(s.out, info)
				return nil
			}

			heading(s.out, "Dataset")
			fmt.Fprintf(s.out, "source: %s\nloaded: %s\nrows: %d\ncolumns: %d\nchecksum: %s\n\n",
				info.Source, info.LoadedAt, info.Rows, info.Columns, s.dataset.Checksum().Short())
			tw := newTable(s.out, "#", "Column", "Non-Null", "Type")
			for i, f := range info.Fields {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i, f.Column, f.NonNull, f.Type)
			}
			return tw.Flush()
		},
	}
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show column, categorical, survival and descriptive summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, opts)
			if err != nil {
				return err
			}
			ds := s.dataset

			columns := pipeline.SummarizeColumns(ds)
			categorical, err := pipeline.SummarizeCategorical(ds, pipeline.CategoricalColumns(ds.Schema()))
			if err != nil {
				return err
			}
			survival, err := pipeline.SummarizeSurvival(ds, s.roles())
			if err != nil {
				return err
			}
			describe := pipeline.Describe(ds)

			if s.dump {
				spew.Fdump(s.out, columns, categorical, survival, describe)
				return nil
			}

			heading(s.out, "Columns")
			tw := newTable(s.out, "Column", "Type", "Distinct", "Missing", "Missing %")
			for _, c := range columns {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\n", c.Column, c.Type, c.Distinct, c.Missing, c.MissingPct)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			heading(s.out, "Categorical columns")
			tw = newTable(s.out, "Column", "Mode", "Count", "Distinct")
			for _, c := range categorical {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.Column, noData(c.ModeLabel()), c.ModeCount, c.DistinctCount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			heading(s.out, "Survival")
			tw = newTable(s.out, "Group", "Count", "Mean age", "Mean fare")
			for _, g := range survival {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", g.Group, g.Count, noData(g.MeanAge.String()), noData(g.MeanFare.String()))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			heading(s.out, "Describe")
			tw = newTable(s.out, "Column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
			for _, d := range describe {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", d.Column, d.Count,
					noData(d.Mean.String()), noData(d.Std.String()), noData(d.Min.String()),
					noData(d.Q25.String()), noData(d.Median.String()), noData(d.Q75.String()), noData(d.Max.String()))
			}
			return tw.Flush()
		},
	}
}

func newHeadCmd(opts *rootOptions) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head",
		Short: "Print the first rows of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, opts)
			if err != nil {
				return err
			}
			return s.printRows(s.dataset, n)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 10, "Number of rows; clamped to the dataset size")
	return cmd
}

func newFilterCmd(opts *rootOptions) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter passengers by class or age range",
	}
	cmd.PersistentFlags().IntVarP(&n, "rows", "n", 10, "Number of matching rows to print")

	classCmd := &cobra.Command{
		Use:     "class CLASS",
		Short:   "Passengers of one class, with their age groups",
		Example: "titanic-report filter class 2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("class must be an integer: %w", err)
			}
			s, err := open(cmd, opts)
			if err != nil {
				return err
			}
			view, err := pipeline.FilterByCategory(s.dataset, s.roles().Class, dataset.NewNumericValue(float64(class)))
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%d passengers in class %d\n", view.Len(), class)
			if err := s.printAgeGroups(view); err != nil {
				return err
			}
			return s.printRows(view, n)
		},
	}

	ageCmd := &cobra.Command{
		Use:     "age MIN MAX",
		Short:   "Passengers aged MIN to MAX inclusive, by age group",
		Example: "titanic-report filter age 18 29",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			low, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("MIN must be a number: %w", err)
			}
			high, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("MAX must be a number: %w", err)
			}
			s, err := open(cmd, opts)
			if err != nil {
				return err
			}
			view, err := pipeline.FilterByRange(s.dataset, s.roles().Age, low, high)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%d passengers aged %g to %g\n", view.Len(), low, high)
			if err := s.printAgeGroups(view); err != nil {
				return err
			}
			return s.printRows(view, n)
		},
	}

	cmd.AddCommand(classCmd, ageCmd)
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var class int
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the dataset, or one class of it, to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, opts)
			if err != nil {
				return err
			}

			var table dataset.Table = s.dataset
			sheet := "passengers"
			if class != 0 {
				view, err := pipeline.FilterByCategory(s.dataset, s.roles().Class, dataset.NewNumericValue(float64(class)))
				if err != nil {
					return err
				}
				table, sheet = view, fmt.Sprintf("class %d", class)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := s.container.Exporter.Export(f, table, sheet); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(s.out, "wrote %d rows to %s\n", table.Len(), args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&class, "class", 0, "Only export this passenger class")
	return cmd
}

func (s *session) printRows(t dataset.Table, n int) error {
	records := pipeline.Head(t, n)
	if s.dump {
		spew.Fdump(s.out, records)
		return nil
	}

	heading(s.out, fmt.Sprintf("First %d of %d rows", len(records), t.Len()))
	tw := newTable(s.out, t.Schema().Names()...)
	for _, r := range records {
		cells := make([]string, r.Len())
		for i, v := range r.Values() {
			cells[i] = v.Display()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (s *session) printAgeGroups(t dataset.Table) error {
	counts, err := pipeline.CountAgeGroups(t)
	if err != nil {
		return err
	}
	if s.dump {
		spew.Fdump(s.out, counts)
		return nil
	}
	tw := newTable(s.out, "Age group", "Count")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.X, c.Count)
	}
	return tw.Flush()
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	color.New(color.Bold, color.FgCyan).Fprintln(w, title)
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

// noData highlights undefined statistics
func noData(s string) string {
	if s == dataset.NoDataLabel {
		return color.YellowString(s)
	}
	return s
}
