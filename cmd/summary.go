package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/orderpulse/report-cli/internal/exporter"
	"github.com/orderpulse/report-cli/internal/layout"
	"github.com/orderpulse/report-cli/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [extracts...]",
	Short: "Export the full summary workbook for one or more extracts",
	Long: `Compute every section of the summary layout (supplier, subcategory,
region, restaurant and product breakdowns, top-N slices, regional
contribution) and write one XLSX workbook per input extract.

Examples:
  # One week, default layout and filename
  report-cli summary "PD W44.xlsx"

  # Several weeks concurrently, custom layout, saved runs
  report-cli summary w42.xlsx w43.xlsx w44.xlsx --layout layout.yaml --out-dir reports --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummary,
}

func init() {
	f := summaryCmd.Flags()
	f.String("layout", "", "layout YAML file (default: built-in weekly summary)")
	f.String("out-dir", ".", "directory for the output workbooks")
	f.String("sheet", "", "XLSX sheet name (default first sheet)")
	f.Int("skip-rows", 0, "rows above the header to discard")
	f.Bool("strict", false, "fail when an extract lacks a section's fields instead of skipping the sheet")
	f.Bool("save", false, "persist each run to the report store")

	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	layoutPath, _ := cmd.Flags().GetString("layout")
	outDir, _ := cmd.Flags().GetString("out-dir")
	sheet, _ := cmd.Flags().GetString("sheet")
	skipRows, _ := cmd.Flags().GetInt("skip-rows")
	strict, _ := cmd.Flags().GetBool("strict")
	save, _ := cmd.Flags().GetBool("save")

	l := layout.Default()
	if layoutPath != "" {
		var err error
		l, err = layout.Load(layoutPath)
		if err != nil {
			return err
		}
	}
	if l.Measure == "" {
		l.Measure = cfg.Report.MeasureField
	}

	zap.L().Info("building summaries",
		zap.Int("extracts", len(args)),
		zap.Int("sections", len(l.Sections)),
		zap.Int("concurrency", cfg.Report.Concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Report.Concurrency)

	for _, input := range args {
		g.Go(func() error {
			out, err := buildSummary(gctx, input, outDir, sheet, skipRows, l, strict, save)
			if err != nil {
				return eris.Wrapf(err, "summary: %s", input)
			}
			fmt.Printf("%s -> %s\n", input, out)
			return nil
		})
	}

	return g.Wait()
}

// buildSummary loads one extract, builds the workbook, and returns the
// output path.
func buildSummary(ctx context.Context, input, outDir, sheet string, skipRows int, l *layout.Layout, strict, save bool) (string, error) {
	ds, err := loadExtract(ctx, input, sheet, skipRows)
	if err != nil {
		return "", err
	}

	sheets, coerced, err := layout.Build(ds, l, layout.BuildOptions{
		Strict: strict,
		Memo:   report.NewMemo(),
	})
	if err != nil {
		return "", err
	}
	if coerced > 0 {
		zap.L().Warn("non-numeric measure cells coerced to zero",
			zap.String("input", input),
			zap.Int("count", coerced),
		)
	}

	out := filepath.Join(outDir, summaryName(input))
	if err := exporter.WriteWorkbook(out, sheets); err != nil {
		return "", err
	}

	if save {
		params := map[string]any{"layout": l}
		tables := map[string]any{"sheets": sheetNames(sheets), "workbook": out}
		if err := saveRun(ctx, "summary", input, params, tables, coerced); err != nil {
			return "", err
		}
	}
	return out, nil
}

// summaryName derives the workbook filename from the extract name and the
// export date, e.g. "summary_PD-W44_2026-08-29.xlsx".
func summaryName(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	base = strings.ReplaceAll(base, " ", "-")
	return "summary_" + base + "_" + time.Now().Format("2006-01-02") + ".xlsx"
}

func sheetNames(sheets []exporter.Sheet) []string {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	return names
}
