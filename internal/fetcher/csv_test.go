package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "region,Supplier,GMV\nNorth,Acme,100\nSouth,Bolt,30\n"

	header, rows, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "Supplier", "GMV"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"North", "Acme", "100"}, rows[0])
}

func TestReadCSV_CustomDelimiter(t *testing.T) {
	input := "region;GMV\nNorth;100\n"

	header, rows, err := ReadCSV(strings.NewReader(input), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "GMV"}, header)
	assert.Equal(t, []string{"North", "100"}, rows[0])
}

func TestReadCSV_Comment(t *testing.T) {
	input := "# exported 2024-01-08\nregion,GMV\nNorth,100\n"

	header, rows, err := ReadCSV(strings.NewReader(input), CSVOptions{Comment: '#'})
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "GMV"}, header)
	require.Len(t, rows, 1)
}

func TestReadCSV_TrimSpace(t *testing.T) {
	input := "region,GMV\n North , 100 \n"

	_, rows, err := ReadCSV(strings.NewReader(input), CSVOptions{TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"North", "100"}, rows[0])
}

func TestReadCSV_VariableFieldCounts(t *testing.T) {
	input := "region,Supplier,GMV\nNorth,Acme\nSouth,Bolt,30,extra\n"

	header, rows, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, header, 3)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 4)
}

func TestReadCSV_EmptyInput(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")
}
