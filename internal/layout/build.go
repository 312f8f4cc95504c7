package layout

import (
	"go.uber.org/zap"

	"github.com/orderpulse/report-cli/internal/dataset"
	"github.com/orderpulse/report-cli/internal/exporter"
	"github.com/orderpulse/report-cli/internal/report"
)

// BuildOptions configures workbook building.
type BuildOptions struct {
	// Strict fails on a section whose fields are missing from the extract.
	// When false (interactive default), such sections are logged and
	// skipped, matching the dashboard behavior of warning and showing an
	// empty table.
	Strict bool
	// Memo, when non-nil, caches aggregations shared between sections
	// (e.g. a breakdown and its top-N slice).
	Memo *report.Memo
}

// Build computes every section of the layout against the extract and returns
// the workbook sheets plus the total number of coerced measure cells.
func Build(ds *dataset.Dataset, l *Layout, opts BuildOptions) ([]exporter.Sheet, int, error) {
	if err := l.Validate(); err != nil {
		return nil, 0, err
	}

	measure := l.Measure
	aggOpts := report.Options{MeasureField: measure}

	var sheets []exporter.Sheet
	coerced := 0

	for _, sec := range l.Sections {
		secOpts := aggOpts
		secOpts.CountDistinct = sec.CountDistinct

		var (
			cols []string
			rows [][]string
			n    int
			err  error
		)

		switch {
		case sec.Contribution:
			var t *report.ContributionTable
			t, err = report.Contribution(ds, sec.GroupBy[0], sec.GroupBy[1], secOpts)
			if err == nil {
				cols, rows, n = t.Columns(), t.Records(), t.CoercionCount
			}
		case sec.TopN > 0:
			var t *report.AggregateTable
			t, err = opts.Memo.Aggregate(ds, sec.GroupBy, secOpts)
			if err == nil {
				t, err = report.TopPerGroup(t, len(sec.GroupBy)-1, sec.TopN)
			}
			if err == nil {
				cols, rows, n = t.Columns(), t.Records(), t.CoercionCount
			}
		default:
			var t *report.AggregateTable
			t, err = opts.Memo.Aggregate(ds, sec.GroupBy, secOpts)
			if err == nil {
				if len(sec.GroupBy) > 1 {
					// Multi-key sheets read region-major: partition keys
					// ascending, GMV descending within.
					t = cloneSorted(t, len(sec.GroupBy)-1)
				}
				cols, rows, n = t.Columns(), t.Records(), t.CoercionCount
			}
		}

		if err != nil {
			if !opts.Strict && dataset.IsSchemaError(err) {
				zap.L().Warn("skipping section: extract lacks required field",
					zap.String("sheet", sec.Sheet),
					zap.Error(err),
				)
				continue
			}
			return nil, 0, err
		}

		coerced = maxInt(coerced, n)
		sheets = append(sheets, exporter.Sheet{Name: sec.Sheet, Columns: cols, Rows: rows})
	}

	return sheets, coerced, nil
}

// cloneSorted returns a key-major sorted copy so the memoized table keeps
// its canonical total-descending order.
func cloneSorted(t *report.AggregateTable, prefix int) *report.AggregateTable {
	c := *t
	c.Rows = append([]report.AggRow(nil), t.Rows...)
	c.SortKeyMajor(prefix)
	return &c
}

// Every section coerces the same measure column, so the workbook-level count
// is the max, not the sum.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
