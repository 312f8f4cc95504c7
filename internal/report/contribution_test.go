package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpulse/report-cli/internal/dataset"
)

func TestContribution_Basic(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "GMV"},
		[][]string{
			{"North", "Acme", "75"},
			{"North", "Bolt", "25"},
			{"South", "Acme", "200"},
		},
	)

	table, err := Contribution(ds, "region", "Supplier", Options{})
	require.NoError(t, err)

	assert.Equal(t, "region", table.PartitionField)
	assert.Equal(t, "Supplier", table.DimField)
	require.Len(t, table.Rows, 3)

	// Partition ascending, share descending within.
	assert.Equal(t, []string{"North", "Acme"}, table.Rows[0].Key)
	assert.Equal(t, 75.0, table.Rows[0].Pct)
	assert.Equal(t, int64(100), table.Rows[0].PartitionTotal)

	assert.Equal(t, []string{"North", "Bolt"}, table.Rows[1].Key)
	assert.Equal(t, 25.0, table.Rows[1].Pct)

	assert.Equal(t, []string{"South", "Acme"}, table.Rows[2].Key)
	assert.Equal(t, 100.0, table.Rows[2].Pct)
}

func TestContribution_SharesSumToHundred(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "GMV"},
		[][]string{
			{"North", "Acme", "33.33"},
			{"North", "Bolt", "33.33"},
			{"North", "Core", "33.34"},
		},
	)

	table, err := Contribution(ds, "region", "Supplier", Options{})
	require.NoError(t, err)

	var sum float64
	for _, r := range table.Rows {
		sum += r.Pct
	}
	assert.InDelta(t, 100.0, sum, 0.02)
}

func TestContribution_ZeroPartitionTotal(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "GMV"},
		[][]string{{"North", "Acme", "0"}},
	)

	table, err := Contribution(ds, "region", "Supplier", Options{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, 0.0, table.Rows[0].Pct)
}

func TestContribution_CoercionCount(t *testing.T) {
	ds := makeDataset(t,
		[]string{"region", "Supplier", "GMV"},
		[][]string{
			{"North", "Acme", "50"},
			{"North", "Bolt", "n/a"},
		},
	)

	table, err := Contribution(ds, "region", "Supplier", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, table.CoercionCount)
}

func TestContribution_MissingField(t *testing.T) {
	ds := makeDataset(t, []string{"region", "GMV"}, nil)

	_, err := Contribution(ds, "region", "Supplier", Options{})
	require.Error(t, err)
	assert.True(t, dataset.IsSchemaError(err))

	_, err = Contribution(ds, "", "Supplier", Options{})
	assert.Error(t, err)
}
