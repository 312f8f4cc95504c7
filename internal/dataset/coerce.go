package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SchemaError reports a grouping or measure field that is absent from the
// dataset schema. Interactive callers may substitute an empty table; batch
// callers should treat it as fatal.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("field %q not present in dataset schema", e.Field)
}

// IsSchemaError reports whether err is, or wraps, a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// CoerceMeasure parses the measure field of every record as a float64 and
// returns the values in record order plus the number of cells that failed to
// parse. Unparseable or empty cells coerce to 0.0 rather than failing the
// computation; the count makes the loss auditable. The dataset itself is not
// modified.
func CoerceMeasure(d *Dataset, field string) ([]float64, int, error) {
	if !d.HasField(field) {
		return nil, 0, &SchemaError{Field: field}
	}

	values := make([]float64, d.Len())
	coerced := 0
	for i := 0; i < d.Len(); i++ {
		v, ok := parseNumeric(d.Value(i, field))
		if !ok {
			coerced++
			v = 0
		}
		values[i] = v
	}
	return values, coerced, nil
}

// parseNumeric parses a spreadsheet cell as a float. It tolerates surrounding
// whitespace, thousands separators, and a leading euro sign, since exports
// frequently carry formatted numbers.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimPrefix(s, "€")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
