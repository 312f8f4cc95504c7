package report

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// JoinMode selects how the two periods' key sets are combined.
type JoinMode string

const (
	// JoinOuter keeps every key present in either period; the missing
	// side's measure is 0. This is the default.
	JoinOuter JoinMode = "outer"
	// JoinInner keeps only keys present in both periods.
	JoinInner JoinMode = "inner"
)

// ZeroBasePolicy selects how growth is reported when the earlier period's
// measure is zero.
type ZeroBasePolicy string

const (
	// ZeroBaseUndefined reports growth as undefined (GrowthValid=false).
	// Growth from a zero base has no meaningful percentage. Default.
	ZeroBaseUndefined ZeroBasePolicy = "undefined"
	// ZeroBaseZero reports 0% growth for new entrants.
	ZeroBaseZero ZeroBasePolicy = "zero"
)

// ParseJoinMode validates a join mode string.
func ParseJoinMode(s string) (JoinMode, error) {
	switch JoinMode(s) {
	case JoinOuter, JoinInner:
		return JoinMode(s), nil
	default:
		return "", eris.Errorf("compare: join mode must be %q or %q (got %q)", JoinOuter, JoinInner, s)
	}
}

// ParseZeroBasePolicy validates a zero-base policy string.
func ParseZeroBasePolicy(s string) (ZeroBasePolicy, error) {
	switch ZeroBasePolicy(s) {
	case ZeroBaseUndefined, ZeroBaseZero:
		return ZeroBasePolicy(s), nil
	default:
		return "", eris.Errorf("compare: zero-base policy must be %q or %q (got %q)", ZeroBaseUndefined, ZeroBaseZero, s)
	}
}

// CompareRow holds one key's measures across the two periods.
type CompareRow struct {
	Key        []string
	Last       int64 // earlier period
	This       int64 // later period
	Difference int64 // This - Last
	// Growth is Difference/Last*100 rounded to one decimal. It is only
	// meaningful when GrowthValid is true.
	Growth      float64
	GrowthValid bool
}

// ComparisonTable joins two same-key aggregates and derives deltas.
type ComparisonTable struct {
	GroupBy  []string
	Join     JoinMode
	ZeroBase ZeroBasePolicy
	Rows     []CompareRow
}

// Compare joins two AggregateTables produced with the same grouping key on
// identical-schema datasets for two periods. last is the earlier period,
// this the later. Rows sort descending by the later period's measure, ties
// by key tuple ascending. Empty inputs yield an empty table.
func Compare(last, this *AggregateTable, join JoinMode, policy ZeroBasePolicy) (*ComparisonTable, error) {
	if last == nil || this == nil {
		return nil, eris.New("compare: nil aggregate table")
	}
	if len(last.GroupBy) != len(this.GroupBy) {
		return nil, eris.Errorf("compare: grouping key arity mismatch: [%s] vs [%s]",
			strings.Join(last.GroupBy, ","), strings.Join(this.GroupBy, ","))
	}
	if join == "" {
		join = JoinOuter
	}
	if policy == "" {
		policy = ZeroBaseUndefined
	}

	lastByKey := make(map[string]int64, len(last.Rows))
	for _, r := range last.Rows {
		lastByKey[strings.Join(r.Key, keySep)] = r.Total
	}
	thisByKey := make(map[string]int64, len(this.Rows))
	for _, r := range this.Rows {
		thisByKey[strings.Join(r.Key, keySep)] = r.Total
	}

	out := &ComparisonTable{
		GroupBy:  append([]string(nil), this.GroupBy...),
		Join:     join,
		ZeroBase: policy,
	}

	emit := func(key []string, a, b int64) {
		row := CompareRow{
			Key:        key,
			Last:       a,
			This:       b,
			Difference: b - a,
		}
		if a != 0 {
			row.Growth = roundPct(float64(row.Difference)/float64(a)*100, 1)
			row.GrowthValid = true
		} else if policy == ZeroBaseZero {
			row.Growth = 0
			row.GrowthValid = true
		}
		out.Rows = append(out.Rows, row)
	}

	seen := make(map[string]struct{}, len(this.Rows))
	for _, r := range this.Rows {
		mk := strings.Join(r.Key, keySep)
		a, inLast := lastByKey[mk]
		if join == JoinInner && !inLast {
			continue
		}
		seen[mk] = struct{}{}
		emit(r.Key, a, r.Total)
	}
	if join == JoinOuter {
		for _, r := range last.Rows {
			mk := strings.Join(r.Key, keySep)
			if _, ok := seen[mk]; ok {
				continue
			}
			emit(r.Key, r.Total, 0)
		}
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		if out.Rows[i].This != out.Rows[j].This {
			return out.Rows[i].This > out.Rows[j].This
		}
		return compareKeys(out.Rows[i].Key, out.Rows[j].Key) < 0
	})

	return out, nil
}
