package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggTable(groupBy []string, rows ...AggRow) *AggregateTable {
	return &AggregateTable{GroupBy: groupBy, MeasureField: "GMV", Rows: rows}
}

func TestCompare_OuterScenario(t *testing.T) {
	last := aggTable([]string{"region"},
		AggRow{Key: []string{"North"}, Total: 100},
	)
	this := aggTable([]string{"region"},
		AggRow{Key: []string{"North"}, Total: 120},
		AggRow{Key: []string{"South"}, Total: 10},
	)

	result, err := Compare(last, this, JoinOuter, ZeroBaseUndefined)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)

	north := result.Rows[0]
	assert.Equal(t, []string{"North"}, north.Key)
	assert.Equal(t, int64(100), north.Last)
	assert.Equal(t, int64(120), north.This)
	assert.Equal(t, int64(20), north.Difference)
	assert.True(t, north.GrowthValid)
	assert.Equal(t, 20.0, north.Growth)

	south := result.Rows[1]
	assert.Equal(t, []string{"South"}, south.Key)
	assert.Equal(t, int64(0), south.Last)
	assert.Equal(t, int64(10), south.This)
	assert.Equal(t, int64(10), south.Difference)
	assert.False(t, south.GrowthValid)
}

func TestCompare_OuterCompleteness(t *testing.T) {
	last := aggTable([]string{"region"},
		AggRow{Key: []string{"North"}, Total: 100},
		AggRow{Key: []string{"West"}, Total: 40},
	)
	this := aggTable([]string{"region"},
		AggRow{Key: []string{"North"}, Total: 120},
		AggRow{Key: []string{"South"}, Total: 10},
	)

	result, err := Compare(last, this, JoinOuter, ZeroBaseUndefined)
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, r := range result.Rows {
		counts[r.Key[0]]++
	}
	assert.Equal(t, map[string]int{"North": 1, "West": 1, "South": 1}, counts)

	for _, r := range result.Rows {
		if r.Key[0] == "West" {
			assert.Equal(t, int64(40), r.Last)
			assert.Equal(t, int64(0), r.This)
			assert.Equal(t, int64(-40), r.Difference)
		}
	}
}

func TestCompare_InnerDropsOneSidedKeys(t *testing.T) {
	last := aggTable([]string{"region"},
		AggRow{Key: []string{"North"}, Total: 100},
		AggRow{Key: []string{"West"}, Total: 40},
	)
	this := aggTable([]string{"region"},
		AggRow{Key: []string{"North"}, Total: 120},
		AggRow{Key: []string{"South"}, Total: 10},
	)

	result, err := Compare(last, this, JoinInner, ZeroBaseUndefined)
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, []string{"North"}, result.Rows[0].Key)
}

func TestCompare_GrowthSign(t *testing.T) {
	last := aggTable([]string{"region"},
		AggRow{Key: []string{"up"}, Total: 100},
		AggRow{Key: []string{"down"}, Total: 100},
		AggRow{Key: []string{"flat"}, Total: 100},
	)
	this := aggTable([]string{"region"},
		AggRow{Key: []string{"up"}, Total: 150},
		AggRow{Key: []string{"down"}, Total: 80},
		AggRow{Key: []string{"flat"}, Total: 100},
	)

	result, err := Compare(last, this, JoinOuter, ZeroBaseUndefined)
	require.NoError(t, err)

	byKey := map[string]CompareRow{}
	for _, r := range result.Rows {
		byKey[r.Key[0]] = r
	}

	assert.Greater(t, byKey["up"].Difference, int64(0))
	assert.Greater(t, byKey["up"].Growth, 0.0)
	assert.Less(t, byKey["down"].Difference, int64(0))
	assert.Less(t, byKey["down"].Growth, 0.0)
	assert.Equal(t, int64(0), byKey["flat"].Difference)
	assert.Equal(t, 0.0, byKey["flat"].Growth)
	assert.True(t, byKey["flat"].GrowthValid)
}

func TestCompare_GrowthRoundedToOneDecimal(t *testing.T) {
	last := aggTable([]string{"region"}, AggRow{Key: []string{"North"}, Total: 3})
	this := aggTable([]string{"region"}, AggRow{Key: []string{"North"}, Total: 4})

	result, err := Compare(last, this, JoinOuter, ZeroBaseUndefined)
	require.NoError(t, err)

	// 1/3 * 100 = 33.333... -> 33.3
	assert.Equal(t, 33.3, result.Rows[0].Growth)
}

func TestCompare_ZeroBasePolicies(t *testing.T) {
	last := aggTable([]string{"region"}, AggRow{Key: []string{"North"}, Total: 0})
	this := aggTable([]string{"region"}, AggRow{Key: []string{"North"}, Total: 50})

	undef, err := Compare(last, this, JoinOuter, ZeroBaseUndefined)
	require.NoError(t, err)
	assert.False(t, undef.Rows[0].GrowthValid)

	zero, err := Compare(last, this, JoinOuter, ZeroBaseZero)
	require.NoError(t, err)
	assert.True(t, zero.Rows[0].GrowthValid)
	assert.Equal(t, 0.0, zero.Rows[0].Growth)
}

func TestCompare_SortsByThisPeriodDescending(t *testing.T) {
	last := aggTable([]string{"region"},
		AggRow{Key: []string{"A"}, Total: 500},
	)
	this := aggTable([]string{"region"},
		AggRow{Key: []string{"B"}, Total: 10},
		AggRow{Key: []string{"C"}, Total: 300},
	)

	result, err := Compare(last, this, JoinOuter, ZeroBaseUndefined)
	require.NoError(t, err)

	require.Len(t, result.Rows, 3)
	// A dropped to 0 this period, so it sorts last.
	assert.Equal(t, []string{"C"}, result.Rows[0].Key)
	assert.Equal(t, []string{"B"}, result.Rows[1].Key)
	assert.Equal(t, []string{"A"}, result.Rows[2].Key)
}

func TestCompare_ArityMismatch(t *testing.T) {
	last := aggTable([]string{"region"})
	this := aggTable([]string{"region", "Supplier"})

	_, err := Compare(last, this, JoinOuter, ZeroBaseUndefined)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arity mismatch")
}

func TestCompare_NilTables(t *testing.T) {
	_, err := Compare(nil, aggTable([]string{"region"}), JoinOuter, ZeroBaseUndefined)
	assert.Error(t, err)
}

func TestCompare_EmptyModesDefault(t *testing.T) {
	last := aggTable([]string{"region"}, AggRow{Key: []string{"West"}, Total: 40})
	this := aggTable([]string{"region"})

	result, err := Compare(last, this, "", "")
	require.NoError(t, err)

	assert.Equal(t, JoinOuter, result.Join)
	assert.Equal(t, ZeroBaseUndefined, result.ZeroBase)
	require.Len(t, result.Rows, 1) // outer keeps the last-only key
}

func TestParseJoinMode(t *testing.T) {
	mode, err := ParseJoinMode("inner")
	require.NoError(t, err)
	assert.Equal(t, JoinInner, mode)

	_, err = ParseJoinMode("left")
	assert.Error(t, err)
}

func TestParseZeroBasePolicy(t *testing.T) {
	policy, err := ParseZeroBasePolicy("zero")
	require.NoError(t, err)
	assert.Equal(t, ZeroBaseZero, policy)

	_, err = ParseZeroBasePolicy("nan")
	assert.Error(t, err)
}
