package report

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/orderpulse/report-cli/internal/dataset"
)

// RollupResult bundles one partition value's total with its breakdown tables,
// one per requested sub-grouping.
type RollupResult struct {
	Partition string
	Total     int64
	Tables    []*AggregateTable // parallel to the subSpecs argument
}

// Rollup applies Aggregate once per distinct value of partitionField
// (typically "region"): records are filtered to the partition, the partition
// total is summed, and each entry of subSpecs produces one AggregateTable
// over the filtered rows. The partitions in the result are exactly the
// distinct values present in the input, ordered descending by partition
// total with ties broken by partition value ascending.
func Rollup(ds *dataset.Dataset, partitionField string, subSpecs [][]string, opts Options) ([]RollupResult, error) {
	if ds == nil {
		return nil, eris.New("rollup: nil dataset")
	}
	if partitionField == "" {
		return nil, eris.New("rollup: empty partition field")
	}
	if len(subSpecs) == 0 {
		return nil, eris.New("rollup: no sub-group specs")
	}

	values, err := ds.DistinctValues(partitionField)
	if err != nil {
		return nil, eris.Wrap(err, "rollup: partition field")
	}

	results := make([]RollupResult, 0, len(values))
	for _, v := range values {
		part, err := ds.Filter(partitionField, v)
		if err != nil {
			return nil, eris.Wrapf(err, "rollup: filter partition %q", v)
		}

		measures, _, err := dataset.CoerceMeasure(part, opts.measure())
		if err != nil {
			return nil, eris.Wrap(err, "rollup: measure field")
		}
		var total float64
		for _, m := range measures {
			total += m
		}

		res := RollupResult{
			Partition: v,
			Total:     roundUnit(total),
			Tables:    make([]*AggregateTable, 0, len(subSpecs)),
		}
		for _, spec := range subSpecs {
			t, err := Aggregate(part, spec, opts)
			if err != nil {
				return nil, eris.Wrapf(err, "rollup: partition %q", v)
			}
			res.Tables = append(res.Tables, t)
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Total != results[j].Total {
			return results[i].Total > results[j].Total
		}
		return results[i].Partition < results[j].Partition
	})

	return results, nil
}
