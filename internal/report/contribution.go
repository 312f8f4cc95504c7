package report

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/orderpulse/report-cli/internal/dataset"
)

// ContributionRow is one (partition, dimension) pair with its share of the
// partition's total.
type ContributionRow struct {
	Key            []string // [partition value, dimension value]
	Total          int64
	PartitionTotal int64
	// Pct is Total's share of PartitionTotal in percent, two decimals.
	Pct float64
}

// ContributionTable lists each dimension value's share of its partition's
// total measure (e.g. each supplier's share of its region's GMV).
type ContributionTable struct {
	PartitionField string
	DimField       string
	MeasureField   string
	Rows           []ContributionRow
	CoercionCount  int
}

// Contribution computes, per partition value, each dimension value's percent
// share of the partition total. Shares are computed on the unrounded sums so
// they add up to 100 within each partition (modulo the two-decimal display
// rounding). Rows sort partition ascending, share descending, dimension
// ascending.
func Contribution(ds *dataset.Dataset, partitionField, dimField string, opts Options) (*ContributionTable, error) {
	if ds == nil {
		return nil, eris.New("contribution: nil dataset")
	}
	if partitionField == "" || dimField == "" {
		return nil, eris.New("contribution: partition and dimension fields are required")
	}
	for _, f := range []string{partitionField, dimField} {
		if !ds.HasField(f) {
			return nil, eris.Wrap(&dataset.SchemaError{Field: f}, "contribution")
		}
	}

	measures, coerced, err := dataset.CoerceMeasure(ds, opts.measure())
	if err != nil {
		return nil, eris.Wrap(err, "contribution: measure field")
	}

	type pair struct {
		key []string
		sum float64
	}
	pairs := make(map[string]*pair)
	partTotals := make(map[string]float64)

	for i := 0; i < ds.Len(); i++ {
		pv := ds.Value(i, partitionField)
		dv := ds.Value(i, dimField)
		mk := pv + keySep + dv

		p, ok := pairs[mk]
		if !ok {
			p = &pair{key: []string{pv, dv}}
			pairs[mk] = p
		}
		p.sum += measures[i]
		partTotals[pv] += measures[i]
	}

	out := &ContributionTable{
		PartitionField: partitionField,
		DimField:       dimField,
		MeasureField:   opts.measure(),
		CoercionCount:  coerced,
	}
	for _, p := range pairs {
		row := ContributionRow{
			Key:            p.key,
			Total:          roundUnit(p.sum),
			PartitionTotal: roundUnit(partTotals[p.key[0]]),
		}
		if pt := partTotals[p.key[0]]; pt != 0 {
			row.Pct = roundPct(p.sum/pt*100, 2)
		}
		out.Rows = append(out.Rows, row)
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if a.Key[0] != b.Key[0] {
			return a.Key[0] < b.Key[0]
		}
		if a.Pct != b.Pct {
			return a.Pct > b.Pct
		}
		return strings.Compare(a.Key[1], b.Key[1]) < 0
	})

	return out, nil
}
