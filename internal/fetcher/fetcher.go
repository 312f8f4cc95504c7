// Package fetcher loads weekly order extracts into datasets from local XLSX
// and CSV files or from an FTP drop.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/orderpulse/report-cli/internal/dataset"
)

// LoadOptions configures extract loading.
type LoadOptions struct {
	Sheet      string        // XLSX sheet name; default first sheet
	SkipRows   int           // rows above the header to discard
	Delimiter  rune          // CSV delimiter; default ','
	FTPTimeout time.Duration // timeout for ftp:// inputs
	TempDir    string        // scratch dir for ftp downloads; default os.TempDir()
}

// Load reads an extract from a local path or an ftp:// URL and binds it into
// a Dataset. Format is chosen by file extension: .xlsx uses the workbook
// reader, anything else is treated as delimited text.
func Load(ctx context.Context, input string, opts LoadOptions) (*dataset.Dataset, error) {
	path := input
	if strings.HasPrefix(input, "ftp://") {
		local, cleanup, err := stageFTP(ctx, input, opts)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = local
	}

	var header []string
	var rows [][]string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		header, rows, err = ReadXLSX(path, XLSXOptions{SheetName: opts.Sheet, SkipRows: opts.SkipRows})
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", path)
		}
		defer f.Close()
		header, rows, err = ReadCSV(f, CSVOptions{Delimiter: opts.Delimiter, TrimSpace: true})
	}
	if err != nil {
		return nil, err
	}

	ds, err := dataset.FromRows(header, rows)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: bind %s", input)
	}

	zap.L().Debug("extract loaded",
		zap.String("input", input),
		zap.Int("rows", ds.Len()),
		zap.Int("fields", len(ds.Fields())),
	)
	return ds, nil
}

// stageFTP downloads an ftp:// extract to a scratch file and returns its
// path with a cleanup func.
func stageFTP(ctx context.Context, ftpURL string, opts LoadOptions) (string, func(), error) {
	dir := opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}

	f, err := os.CreateTemp(dir, "extract-*"+filepath.Ext(ftpURL))
	if err != nil {
		return "", nil, eris.Wrap(err, "fetcher: create temp file")
	}
	f.Close()

	ftpf := NewFTPFetcher(FTPOptions{Timeout: opts.FTPTimeout})
	if _, err := ftpf.DownloadToFile(ctx, ftpURL, f.Name()); err != nil {
		os.Remove(f.Name())
		return "", nil, eris.Wrapf(err, "fetcher: download %s", ftpURL)
	}

	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
