package report

import (
	"strconv"
)

// The presentation contract: every table exposes its ordered column names
// (key fields first, then measure/derived columns) and its rows as strings,
// so display and export collaborators never reach into row structs.

// Column names shared across tables.
const (
	ColTotalGMV     = "Total GMV (€)"
	ColTotalOrders  = "Total Orders"
	ColThisPeriod   = "This Period (€)"
	ColLastPeriod   = "Last Period (€)"
	ColDifference   = "Difference (€)"
	ColGrowth       = "Growth (%)"
	ColContribution = "Contribution (%)"
	ColRegionTotal  = "Region Total GMV (€)"
)

// Columns returns the ordered output column names.
func (t *AggregateTable) Columns() []string {
	cols := append([]string(nil), t.GroupBy...)
	cols = append(cols, ColTotalGMV)
	if t.DistinctField != "" {
		cols = append(cols, ColTotalOrders)
	}
	return cols
}

// Records returns the rows as strings in column order.
func (t *AggregateTable) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := append([]string(nil), r.Key...)
		row = append(row, formatInt(r.Total))
		if t.DistinctField != "" {
			row = append(row, formatInt(r.Orders))
		}
		out[i] = row
	}
	return out
}

// Columns returns the ordered output column names.
func (t *ComparisonTable) Columns() []string {
	cols := append([]string(nil), t.GroupBy...)
	return append(cols, ColLastPeriod, ColThisPeriod, ColDifference, ColGrowth)
}

// Records returns the rows as strings in column order. Undefined growth
// renders as "n/a".
func (t *ComparisonTable) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := append([]string(nil), r.Key...)
		row = append(row, formatInt(r.Last), formatInt(r.This), formatInt(r.Difference))
		if r.GrowthValid {
			row = append(row, strconv.FormatFloat(r.Growth, 'f', 1, 64))
		} else {
			row = append(row, "n/a")
		}
		out[i] = row
	}
	return out
}

// Columns returns the ordered output column names.
func (t *ContributionTable) Columns() []string {
	return []string{t.PartitionField, t.DimField, ColTotalGMV, ColRegionTotal, ColContribution}
}

// Records returns the rows as strings in column order.
func (t *ContributionTable) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = []string{
			r.Key[0],
			r.Key[1],
			formatInt(r.Total),
			formatInt(r.PartitionTotal),
			strconv.FormatFloat(r.Pct, 'f', 2, 64),
		}
	}
	return out
}
