// Package report implements the period-over-period GMV aggregation engine:
// grouped sums over a dataset, two-period comparison with growth rates,
// per-region rollups, top-N slices, and contribution shares. All functions
// are pure: they read a Dataset and produce new tables.
package report

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/orderpulse/report-cli/internal/dataset"
)

// DefaultMeasureField is the measure summed when Options.MeasureField is
// empty.
const DefaultMeasureField = "GMV"

// Options configures an aggregation.
type Options struct {
	// MeasureField is the numeric column to sum. Defaults to "GMV".
	MeasureField string
	// CountDistinct, when set, adds a distinct-value count of the named
	// field per group (e.g. "order_id" -> Total Orders).
	CountDistinct string
}

func (o Options) measure() string {
	if o.MeasureField == "" {
		return DefaultMeasureField
	}
	return o.MeasureField
}

// AggRow is one group: the key tuple and its summed measure in whole
// currency units.
type AggRow struct {
	Key    []string
	Total  int64
	Orders int64 // distinct count; meaningful only when the table has one
}

// AggregateTable is an ordered set of grouped sums for one grouping key.
type AggregateTable struct {
	GroupBy       []string
	MeasureField  string
	DistinctField string // "" when no distinct count was requested
	Rows          []AggRow
	// CoercionCount is how many measure cells failed numeric parsing and
	// were summed as zero.
	CoercionCount int
}

// keySep joins key parts into a map key. 0x1f (unit separator) cannot occur
// in spreadsheet cell text produced by the fetchers.
const keySep = "\x1f"

// Aggregate partitions records by the exact values of the groupBy fields,
// sums the measure within each group, rounds each sum half-away-from-zero to
// whole currency units, and sorts descending by the sum with ties broken by
// the key tuple ascending. The result is deterministic regardless of input
// record order. An empty dataset yields an empty table.
func Aggregate(ds *dataset.Dataset, groupBy []string, opts Options) (*AggregateTable, error) {
	if ds == nil {
		return nil, eris.New("aggregate: nil dataset")
	}
	if len(groupBy) == 0 {
		return nil, eris.New("aggregate: empty grouping key")
	}
	for _, f := range groupBy {
		if !ds.HasField(f) {
			return nil, eris.Wrap(&dataset.SchemaError{Field: f}, "aggregate: grouping field")
		}
	}
	if opts.CountDistinct != "" && !ds.HasField(opts.CountDistinct) {
		return nil, eris.Wrap(&dataset.SchemaError{Field: opts.CountDistinct}, "aggregate: count field")
	}

	measures, coerced, err := dataset.CoerceMeasure(ds, opts.measure())
	if err != nil {
		return nil, eris.Wrap(err, "aggregate: measure field")
	}

	type group struct {
		key      []string
		sum      float64
		distinct map[string]struct{}
	}
	groups := make(map[string]*group)

	for i := 0; i < ds.Len(); i++ {
		parts := make([]string, len(groupBy))
		for j, f := range groupBy {
			parts[j] = ds.Value(i, f)
		}
		mk := strings.Join(parts, keySep)

		g, ok := groups[mk]
		if !ok {
			g = &group{key: parts}
			if opts.CountDistinct != "" {
				g.distinct = make(map[string]struct{})
			}
			groups[mk] = g
		}
		g.sum += measures[i]
		if g.distinct != nil {
			g.distinct[ds.Value(i, opts.CountDistinct)] = struct{}{}
		}
	}

	rows := make([]AggRow, 0, len(groups))
	for _, g := range groups {
		row := AggRow{Key: g.key, Total: roundUnit(g.sum)}
		if g.distinct != nil {
			row.Orders = int64(len(g.distinct))
		}
		rows = append(rows, row)
	}

	t := &AggregateTable{
		GroupBy:       append([]string(nil), groupBy...),
		MeasureField:  opts.measure(),
		DistinctField: opts.CountDistinct,
		Rows:          rows,
		CoercionCount: coerced,
	}
	t.sortTotalDesc()
	return t, nil
}

// sortTotalDesc orders rows descending by total, ties by key tuple ascending.
func (t *AggregateTable) sortTotalDesc() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		if t.Rows[i].Total != t.Rows[j].Total {
			return t.Rows[i].Total > t.Rows[j].Total
		}
		return compareKeys(t.Rows[i].Key, t.Rows[j].Key) < 0
	})
}

// SortKeyMajor re-orders the table ascending by the first prefix key fields,
// then descending by total, remaining key fields ascending. This is the sheet
// order used for multi-key breakdowns (region first, highest GMV on top
// within each region).
func (t *AggregateTable) SortKeyMajor(prefix int) {
	if prefix < 0 {
		prefix = 0
	}
	if prefix > len(t.GroupBy) {
		prefix = len(t.GroupBy)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		ki, kj := t.Rows[i].Key, t.Rows[j].Key
		if c := compareKeys(ki[:prefix], kj[:prefix]); c != 0 {
			return c < 0
		}
		if t.Rows[i].Total != t.Rows[j].Total {
			return t.Rows[i].Total > t.Rows[j].Total
		}
		return compareKeys(ki, kj) < 0
	})
}

// Sum returns the grand total across all groups.
func (t *AggregateTable) Sum() int64 {
	var s int64
	for _, r := range t.Rows {
		s += r.Total
	}
	return s
}

// ToDataset converts the table back into a dataset whose records carry the
// key fields plus the measure column. Re-aggregating that dataset by the
// same key is the identity.
func (t *AggregateTable) ToDataset() (*dataset.Dataset, error) {
	fields := append(append([]string(nil), t.GroupBy...), t.MeasureField)
	records := make([]dataset.Record, len(t.Rows))
	for i, r := range t.Rows {
		rec := make(dataset.Record, len(fields))
		for j, f := range t.GroupBy {
			rec[f] = r.Key[j]
		}
		rec[t.MeasureField] = formatInt(r.Total)
		records[i] = rec
	}
	return dataset.FromRecords(fields, records)
}

// compareKeys compares two key tuples element-wise.
func compareKeys(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
