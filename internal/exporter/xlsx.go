// Package exporter writes report tables to downloadable XLSX workbooks, one
// named sheet per table.
package exporter

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet is one named tab: ordered column names plus string rows, as exposed
// by the report tables' Columns/Records contract.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Empty reports whether the sheet has no data rows. Empty sheets are skipped
// by WriteWorkbook, matching the summary workbook behavior of omitting
// breakdowns a given extract cannot produce.
func (s Sheet) Empty() bool { return len(s.Rows) == 0 }

// WriteWorkbook writes the non-empty sheets to an XLSX file at path. At
// least one sheet must have data, since an XLSX file with zero sheets is
// invalid.
func WriteWorkbook(path string, sheets []Sheet) error {
	f := xlsx.NewFile()
	added := 0

	for _, s := range sheets {
		if s.Empty() {
			continue
		}
		sheet, err := f.AddSheet(s.Name)
		if err != nil {
			return eris.Wrapf(err, "exporter: add sheet %q", s.Name)
		}

		header := sheet.AddRow()
		for _, col := range s.Columns {
			header.AddCell().SetString(col)
		}
		for _, rowData := range s.Rows {
			row := sheet.AddRow()
			for _, cell := range rowData {
				row.AddCell().SetString(cell)
			}
		}
		added++
	}

	if added == 0 {
		return eris.New("exporter: no non-empty sheets to write")
	}
	return eris.Wrapf(f.Save(path), "exporter: save %s", path)
}
