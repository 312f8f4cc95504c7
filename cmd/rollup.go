package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/orderpulse/report-cli/internal/report"
)

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Per-region breakdown of GMV by several dimensions",
	Long: `Partition the extract by a top-level dimension (typically region) and,
within each partition, break GMV down by each requested sub-dimension.

Examples:
  # Default sub-dimensions: sub_cat, Supplier, Restaurant_name
  report-cli rollup --input "PD W44.xlsx" --partition region

  # Custom sub-dimensions; semicolons separate specs, commas separate fields
  report-cli rollup --input w44.csv --partition region --sub "Supplier;Supplier,product_name"`,
	RunE: runRollup,
}

func init() {
	f := rollupCmd.Flags()
	f.String("input", "", "extract file (path or ftp:// URL)")
	f.String("partition", "region", "top-level partition field")
	f.String("sub", "sub_cat;Supplier;Restaurant_name", "sub-group specs: semicolon-separated lists of comma-separated fields")
	f.String("measure", "", "measure field to sum (default from config)")
	f.String("sheet", "", "XLSX sheet name (default first sheet)")
	f.Int("skip-rows", 0, "rows above the header to discard")
	f.String("format", "table", "output format: table or json")
	f.Bool("save", false, "persist the run to the report store")
	_ = rollupCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(rollupCmd)
}

func parseSubSpecs(raw string) ([][]string, error) {
	var specs [][]string
	for _, part := range strings.Split(raw, ";") {
		fields := splitAndTrim(part)
		if len(fields) == 0 {
			continue
		}
		specs = append(specs, fields)
	}
	if len(specs) == 0 {
		return nil, eris.New("rollup: --sub must name at least one sub-group spec")
	}
	return specs, nil
}

func runRollup(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	input, _ := cmd.Flags().GetString("input")
	partition, _ := cmd.Flags().GetString("partition")
	subRaw, _ := cmd.Flags().GetString("sub")
	measure, _ := cmd.Flags().GetString("measure")
	sheet, _ := cmd.Flags().GetString("sheet")
	skipRows, _ := cmd.Flags().GetInt("skip-rows")
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")

	subSpecs, err := parseSubSpecs(subRaw)
	if err != nil {
		return err
	}
	if measure == "" {
		measure = cfg.Report.MeasureField
	}

	ds, err := loadExtract(ctx, input, sheet, skipRows)
	if err != nil {
		return err
	}

	results, err := report.Rollup(ds, partition, subSpecs, report.Options{MeasureField: measure})
	if err != nil {
		return err
	}

	switch format {
	case "json":
		if err := writeJSON(os.Stdout, results); err != nil {
			return err
		}
	case "table":
		for _, res := range results {
			fmt.Printf("\n=== %s: %s (total %s €) ===\n", partition, res.Partition, prettyAmount(fmt.Sprintf("%d", res.Total)))
			for _, t := range res.Tables {
				fmt.Println()
				if err := writeTable(os.Stdout, t); err != nil {
					return err
				}
			}
		}
	default:
		return eris.Errorf("rollup: unsupported format %q (want table or json)", format)
	}

	if save {
		params := map[string]any{
			"partition": partition,
			"sub":       subSpecs,
			"measure":   measure,
		}
		coerced := 0
		for _, res := range results {
			for _, t := range res.Tables {
				if t.CoercionCount > coerced {
					coerced = t.CoercionCount
				}
			}
		}
		if err := saveRun(ctx, "rollup", input, params, results, coerced); err != nil {
			return err
		}
		fmt.Println("Run saved.")
	}
	return nil
}
