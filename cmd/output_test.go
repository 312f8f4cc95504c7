package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpulse/report-cli/internal/report"
)

func sampleTable() *report.AggregateTable {
	return &report.AggregateTable{
		GroupBy: []string{"region"},
		Rows: []report.AggRow{
			{Key: []string{"North"}, Total: 1234567},
			{Key: []string{"South"}, Total: 30},
		},
	}
}

func TestWriteTable_FormatsAmounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "region")
	assert.Contains(t, out, "Total GMV (€)")
	assert.Contains(t, out, "1,234,567")
}

func TestWriteCSV_PlainIntegers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "North,1234567")
	assert.NotContains(t, out, "1,234,567")
}

func TestWriteOut_UnsupportedFormat(t *testing.T) {
	err := writeOut("yaml", "", sampleTable(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestIsAmountColumn(t *testing.T) {
	assert.True(t, isAmountColumn("Total GMV (€)"))
	assert.True(t, isAmountColumn("Difference (€)"))
	assert.False(t, isAmountColumn("Growth (%)"))
	assert.False(t, isAmountColumn("region"))
}

func TestPrettyAmount(t *testing.T) {
	assert.Equal(t, "1,234,567", prettyAmount("1234567"))
	assert.Equal(t, "-1,000", prettyAmount("-1000"))
	assert.Equal(t, "n/a", prettyAmount("n/a"))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"region", "Supplier"}, splitAndTrim(" region , Supplier "))
	assert.Equal(t, []string{"region"}, splitAndTrim("region,,"))
	assert.Nil(t, splitAndTrim(""))
}

func TestParseSubSpecs(t *testing.T) {
	specs, err := parseSubSpecs("sub_cat;Supplier;region,Restaurant_name")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"sub_cat"}, {"Supplier"}, {"region", "Restaurant_name"}}, specs)

	_, err = parseSubSpecs(" ; ")
	assert.Error(t, err)
}

func TestSummaryName(t *testing.T) {
	name := summaryName("/data/orders week 2.xlsx")
	assert.Regexp(t, `^summary_orders-week-2_\d{4}-\d{2}-\d{2}\.xlsx$`, name)
}
