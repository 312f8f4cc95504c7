package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rollupDataset(t *testing.T) [][]string {
	t.Helper()
	return [][]string{
		{"North", "Acme", "Bistro", "100"},
		{"North", "Acme", "Cafe", "50"},
		{"North", "Bolt", "Bistro", "25"},
		{"South", "Acme", "Diner", "300"},
		{"South", "Bolt", "Diner", "10"},
	}
}

func TestRollup_Basic(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "Restaurant_name", "GMV"},
		rollupDataset(t),
	)

	results, err := Rollup(ds, "region", [][]string{{"Supplier"}, {"Restaurant_name"}}, Options{})
	require.NoError(t, err)

	require.Len(t, results, 2)

	// South totals 310, North 175: descending by partition total.
	assert.Equal(t, "South", results[0].Partition)
	assert.Equal(t, int64(310), results[0].Total)
	assert.Equal(t, "North", results[1].Partition)
	assert.Equal(t, int64(175), results[1].Total)

	require.Len(t, results[0].Tables, 2)
	supplier := results[0].Tables[0]
	assert.Equal(t, []string{"Supplier"}, supplier.GroupBy)
	require.Len(t, supplier.Rows, 2)
	assert.Equal(t, []string{"Acme"}, supplier.Rows[0].Key)
	assert.Equal(t, int64(300), supplier.Rows[0].Total)
}

func TestRollup_PartitionCompleteness(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "Restaurant_name", "GMV"},
		rollupDataset(t),
	)

	results, err := Rollup(ds, "region", [][]string{{"Supplier"}}, Options{})
	require.NoError(t, err)

	got := make(map[string]bool)
	for _, r := range results {
		got[r.Partition] = true
	}
	values, err := ds.DistinctValues("region")
	require.NoError(t, err)
	want := make(map[string]bool)
	for _, v := range values {
		want[v] = true
	}
	assert.Equal(t, want, got)
}

func TestRollup_SubTableScopedToPartition(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "Restaurant_name", "GMV"},
		rollupDataset(t),
	)

	results, err := Rollup(ds, "region", [][]string{{"Restaurant_name"}}, Options{})
	require.NoError(t, err)

	for _, res := range results {
		for _, row := range res.Tables[0].Rows {
			if res.Partition == "North" {
				assert.NotEqual(t, []string{"Diner"}, row.Key)
			}
		}
	}
}

func TestRollup_TieBrokenByPartitionValue(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "GMV"},
		[][]string{
			{"South", "Acme", "50"},
			{"North", "Acme", "50"},
		},
	)

	results, err := Rollup(ds, "region", [][]string{{"Supplier"}}, Options{})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "North", results[0].Partition)
	assert.Equal(t, "South", results[1].Partition)
}

func TestRollup_Errors(t *testing.T) {
	ds := makeDataset(t, []string{"region", "GMV"}, nil)

	_, err := Rollup(nil, "region", [][]string{{"Supplier"}}, Options{})
	assert.Error(t, err)

	_, err = Rollup(ds, "", [][]string{{"Supplier"}}, Options{})
	assert.Error(t, err)

	_, err = Rollup(ds, "region", nil, Options{})
	assert.Error(t, err)

	_, err = Rollup(ds, "nope", [][]string{{"Supplier"}}, Options{})
	assert.Error(t, err)
}
