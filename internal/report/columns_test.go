package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateTable_ColumnsAndRecords(t *testing.T) {
	table := &AggregateTable{
		GroupBy: []string{"region"},
		Rows: []AggRow{
			{Key: []string{"North"}, Total: 150},
		},
	}

	assert.Equal(t, []string{"region", "Total GMV (€)"}, table.Columns())
	assert.Equal(t, [][]string{{"North", "150"}}, table.Records())
}

func TestAggregateTable_DistinctColumn(t *testing.T) {
	table := &AggregateTable{
		GroupBy:       []string{"Supplier"},
		DistinctField: "order_id",
		Rows: []AggRow{
			{Key: []string{"Acme"}, Total: 60, Orders: 2},
		},
	}

	assert.Equal(t, []string{"Supplier", "Total GMV (€)", "Total Orders"}, table.Columns())
	assert.Equal(t, [][]string{{"Acme", "60", "2"}}, table.Records())
}

func TestComparisonTable_Records(t *testing.T) {
	table := &ComparisonTable{
		GroupBy: []string{"region"},
		Rows: []CompareRow{
			{Key: []string{"North"}, Last: 100, This: 120, Difference: 20, Growth: 20, GrowthValid: true},
			{Key: []string{"South"}, Last: 0, This: 10, Difference: 10},
		},
	}

	assert.Equal(t,
		[]string{"region", "Last Period (€)", "This Period (€)", "Difference (€)", "Growth (%)"},
		table.Columns())

	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{"North", "100", "120", "20", "20.0"}, records[0])
	assert.Equal(t, []string{"South", "0", "10", "10", "n/a"}, records[1])
}

func TestContributionTable_Records(t *testing.T) {
	table := &ContributionTable{
		PartitionField: "region",
		DimField:       "Supplier",
		Rows: []ContributionRow{
			{Key: []string{"North", "Acme"}, Total: 75, PartitionTotal: 100, Pct: 75},
		},
	}

	assert.Equal(t,
		[]string{"region", "Supplier", "Total GMV (€)", "Region Total GMV (€)", "Contribution (%)"},
		table.Columns())
	assert.Equal(t, [][]string{{"North", "Acme", "75", "100", "75.00"}}, table.Records())
}
