package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderpulse/report-cli/internal/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare grouped GMV between two periods",
	Long: `Aggregate two extracts with the same grouping key and derive the
per-group difference and growth percentage from the earlier to the later
period.

Examples:
  # Supplier GMV, week 43 vs week 44
  report-cli compare --last "PD W43.xlsx" --this "PD W44.xlsx" --group-by Supplier

  # Keep only suppliers present in both weeks
  report-cli compare --last w43.csv --this w44.csv --group-by Supplier --join inner`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.String("last", "", "earlier period extract (path or ftp:// URL)")
	f.String("this", "", "later period extract (path or ftp:// URL)")
	f.String("group-by", "", "comma-separated grouping fields")
	f.String("measure", "", "measure field to sum (default from config)")
	f.String("join", "", "key join mode: outer or inner (default from config)")
	f.String("zero-base", "", "growth when the earlier period is 0: undefined or zero (default from config)")
	f.String("sheet", "", "XLSX sheet name (default first sheet)")
	f.Int("skip-rows", 0, "rows above the header to discard")
	f.String("format", "table", "output format: table, csv, or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("save", false, "persist the run to the report store")
	_ = compareCmd.MarkFlagRequired("last")
	_ = compareCmd.MarkFlagRequired("this")
	_ = compareCmd.MarkFlagRequired("group-by")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lastInput, _ := cmd.Flags().GetString("last")
	thisInput, _ := cmd.Flags().GetString("this")
	groupByRaw, _ := cmd.Flags().GetString("group-by")
	measure, _ := cmd.Flags().GetString("measure")
	joinRaw, _ := cmd.Flags().GetString("join")
	zeroBaseRaw, _ := cmd.Flags().GetString("zero-base")
	sheet, _ := cmd.Flags().GetString("sheet")
	skipRows, _ := cmd.Flags().GetInt("skip-rows")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	groupBy := splitAndTrim(groupByRaw)
	if len(groupBy) == 0 {
		return eris.New("compare: --group-by must name at least one field")
	}
	if measure == "" {
		measure = cfg.Report.MeasureField
	}
	if joinRaw == "" {
		joinRaw = cfg.Report.Join
	}
	if zeroBaseRaw == "" {
		zeroBaseRaw = cfg.Report.ZeroBase
	}

	join, err := report.ParseJoinMode(joinRaw)
	if err != nil {
		return err
	}
	policy, err := report.ParseZeroBasePolicy(zeroBaseRaw)
	if err != nil {
		return err
	}

	opts := report.Options{MeasureField: measure}

	lastDS, err := loadExtract(ctx, lastInput, sheet, skipRows)
	if err != nil {
		return err
	}
	thisDS, err := loadExtract(ctx, thisInput, sheet, skipRows)
	if err != nil {
		return err
	}

	lastTable, err := report.Aggregate(lastDS, groupBy, opts)
	if err != nil {
		return eris.Wrap(err, "compare: earlier period")
	}
	thisTable, err := report.Aggregate(thisDS, groupBy, opts)
	if err != nil {
		return eris.Wrap(err, "compare: later period")
	}

	if n := lastTable.CoercionCount + thisTable.CoercionCount; n > 0 {
		zap.L().Warn("non-numeric measure cells coerced to zero",
			zap.String("measure", measure),
			zap.Int("count", n),
		)
	}

	result, err := report.Compare(lastTable, thisTable, join, policy)
	if err != nil {
		return err
	}

	if err := writeOut(format, outputPath, result, result); err != nil {
		return err
	}

	if save {
		params := map[string]any{
			"group_by":  groupBy,
			"measure":   measure,
			"join":      join,
			"zero_base": policy,
		}
		coerced := lastTable.CoercionCount + thisTable.CoercionCount
		source := lastInput + "," + thisInput
		if err := saveRun(ctx, "compare", source, params, result, coerced); err != nil {
			return err
		}
		fmt.Println("Run saved.")
	}
	return nil
}
