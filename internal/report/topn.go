package report

import (
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultTopN is the slice size used when a top-N table is requested without
// an explicit limit.
const DefaultTopN = 5

// TopPerGroup returns a new table keeping the top n rows by total within
// each distinct prefix of the first prefixLen key fields. Input order does
// not matter: the result is key-major sorted (prefix ascending, total
// descending), so e.g. a (region, Supplier, Restaurant_name) aggregate with
// prefixLen 2 yields the top n restaurants per supplier per region.
func TopPerGroup(t *AggregateTable, prefixLen, n int) (*AggregateTable, error) {
	if t == nil {
		return nil, eris.New("topn: nil table")
	}
	if prefixLen <= 0 || prefixLen >= len(t.GroupBy) {
		return nil, eris.Errorf("topn: prefix length %d out of range for %d key fields", prefixLen, len(t.GroupBy))
	}
	if n <= 0 {
		n = DefaultTopN
	}

	out := &AggregateTable{
		GroupBy:       append([]string(nil), t.GroupBy...),
		MeasureField:  t.MeasureField,
		DistinctField: t.DistinctField,
		CoercionCount: t.CoercionCount,
	}

	sorted := &AggregateTable{GroupBy: t.GroupBy, Rows: append([]AggRow(nil), t.Rows...)}
	sorted.SortKeyMajor(prefixLen)

	var prevPrefix string
	first := true
	kept := 0
	for _, r := range sorted.Rows {
		prefix := strings.Join(r.Key[:prefixLen], keySep)
		if first || prefix != prevPrefix {
			first = false
			prevPrefix = prefix
			kept = 0
		}
		if kept >= n {
			continue
		}
		out.Rows = append(out.Rows, r)
		kept++
	}

	return out, nil
}
