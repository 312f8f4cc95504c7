package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// tabular is the presentation contract every report table satisfies:
// ordered column names, then rows as strings in column order.
type tabular interface {
	Columns() []string
	Records() [][]string
}

// amountPrinter renders currency amounts with thousands separators for the
// on-screen table format. CSV and JSON output keep plain integers.
var amountPrinter = message.NewPrinter(language.English)

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, nil
}

// writeTable renders cols/rows as an aligned text table, formatting currency
// columns for readability.
func writeTable(w io.Writer, t tabular) error {
	cols := t.Columns()
	rows := t.Records()

	display := make([][]string, len(rows))
	for i, row := range rows {
		display[i] = make([]string, len(row))
		for j, cell := range row {
			if j < len(cols) && isAmountColumn(cols[j]) {
				display[i][j] = prettyAmount(cell)
			} else {
				display[i][j] = cell
			}
		}
	}

	widths := make([]int, len(cols))
	for j, c := range cols {
		widths[j] = len(c)
	}
	for _, row := range display {
		for j, cell := range row {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for j, c := range cols {
		if j > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%-*s", widths[j], c)
	}
	sb.WriteByte('\n')
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(strings.Repeat("-", total))
	sb.WriteByte('\n')

	for _, row := range display {
		for j, cell := range row {
			if j > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%-*s", widths[j], cell)
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return eris.Wrap(err, "write table")
}

func writeCSV(w io.Writer, t tabular) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(t.Columns()); err != nil {
		return eris.Wrap(err, "write CSV header")
	}
	for _, row := range t.Records() {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write CSV row")
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "write JSON")
}

// writeOut dispatches on the requested format. jsonValue is the structured
// table for JSON output; table/csv use the Columns/Records contract.
func writeOut(format, outputPath string, t tabular, jsonValue any) error {
	w, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	if w != os.Stdout {
		defer w.Close()
	}

	switch format {
	case "table":
		return writeTable(w, t)
	case "csv":
		return writeCSV(w, t)
	case "json":
		return writeJSON(w, jsonValue)
	default:
		return eris.Errorf("unsupported format %q (want table, csv, or json)", format)
	}
}

func isAmountColumn(name string) bool {
	return strings.HasSuffix(name, "(€)")
}

func prettyAmount(s string) string {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return amountPrinter.Sprintf("%d", v)
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
