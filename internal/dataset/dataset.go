// Package dataset holds the tabular data model for weekly order extracts:
// a Dataset is an ordered sequence of Records sharing one schema, loaded
// wholesale from a single uploaded file and never mutated afterwards.
package dataset

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Record is one row of an extract: field name -> raw cell value.
// Values are untyped at this boundary; measures are coerced on demand.
type Record map[string]string

// Dataset is an ordered, read-only collection of records with a fixed schema.
type Dataset struct {
	id       string
	fields   []string
	fieldSet map[string]struct{}
	records  []Record
}

// FromRows builds a Dataset from a header row and data rows, as produced by
// the fetchers. Header cells are trimmed; short rows are padded with empty
// strings so every record carries the full schema.
func FromRows(header []string, rows [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, eris.New("dataset: empty header row")
	}

	fields := make([]string, len(header))
	fieldSet := make(map[string]struct{}, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, eris.Errorf("dataset: blank column name at index %d", i)
		}
		if _, dup := fieldSet[name]; dup {
			return nil, eris.Errorf("dataset: duplicate column name %q", name)
		}
		fields[i] = name
		fieldSet[name] = struct{}{}
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(fields))
		for i, f := range fields {
			if i < len(row) {
				rec[f] = row[i]
			} else {
				rec[f] = ""
			}
		}
		records = append(records, rec)
	}

	return &Dataset{
		id:       uuid.New().String(),
		fields:   fields,
		fieldSet: fieldSet,
		records:  records,
	}, nil
}

// FromRecords builds a Dataset from already-keyed records. Fields absent from
// a record read as empty strings.
func FromRecords(fields []string, records []Record) (*Dataset, error) {
	header := make([]string, len(fields))
	copy(header, fields)

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = rec[f]
		}
		rows[i] = row
	}
	return FromRows(header, rows)
}

// ID identifies this loaded dataset instance. Used as a memoization key
// component; two loads of the same file get distinct IDs.
func (d *Dataset) ID() string { return d.id }

// Fields returns the schema in column order.
func (d *Dataset) Fields() []string {
	out := make([]string, len(d.fields))
	copy(out, d.fields)
	return out
}

// HasField reports whether the schema contains the exact field name.
// No normalization: "Supplier" and "supplier" are different fields.
func (d *Dataset) HasField(name string) bool {
	_, ok := d.fieldSet[name]
	return ok
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the i-th record. The returned map is the stored record;
// callers must not mutate it.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Value returns the raw value of field in record i.
func (d *Dataset) Value(i int, field string) string { return d.records[i][field] }

// DistinctValues returns the distinct values of field in first-occurrence
// order.
func (d *Dataset) DistinctValues(field string) ([]string, error) {
	if !d.HasField(field) {
		return nil, &SchemaError{Field: field}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range d.records {
		v := rec[field]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Filter returns a new Dataset restricted to records where field equals value
// exactly. The underlying record maps are shared, not copied; filtered views
// are read-only like their parent.
func (d *Dataset) Filter(field, value string) (*Dataset, error) {
	if !d.HasField(field) {
		return nil, &SchemaError{Field: field}
	}
	var records []Record
	for _, rec := range d.records {
		if rec[field] == value {
			records = append(records, rec)
		}
	}
	return &Dataset{
		id:       uuid.New().String(),
		fields:   d.fields,
		fieldSet: d.fieldSet,
		records:  records,
	}, nil
}
