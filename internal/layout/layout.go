// Package layout defines which tables a summary workbook contains: a list of
// named sections, each mapping a sheet name to a grouping key and options.
// Layouts come from a YAML file or from the built-in default that mirrors the
// weekly purchasing summary.
package layout

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Section describes one sheet of the summary workbook.
type Section struct {
	Sheet   string   `yaml:"sheet"`
	GroupBy []string `yaml:"group_by"`
	// CountDistinct adds a distinct-count column of the named field.
	CountDistinct string `yaml:"count_distinct,omitempty"`
	// TopN keeps the top N rows per leading key prefix (all key fields but
	// the last). 0 means no slicing.
	TopN int `yaml:"top_n,omitempty"`
	// Contribution renders each GroupBy[1] value's share of its GroupBy[0]
	// partition total instead of a plain aggregate. Requires exactly two
	// key fields.
	Contribution bool `yaml:"contribution,omitempty"`
}

// Layout is a named set of sections plus the measure they sum.
type Layout struct {
	Measure  string    `yaml:"measure,omitempty"` // default "GMV"
	Sections []Section `yaml:"sections"`
}

// Load reads a layout from a YAML file and validates it.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "layout: read %s", path)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, eris.Wrapf(err, "layout: parse %s", path)
	}
	if err := l.Validate(); err != nil {
		return nil, eris.Wrapf(err, "layout: %s", path)
	}
	return &l, nil
}

// Validate checks section shape before any data is touched.
func (l *Layout) Validate() error {
	if len(l.Sections) == 0 {
		return eris.New("no sections defined")
	}
	seen := make(map[string]struct{}, len(l.Sections))
	for i, s := range l.Sections {
		if strings.TrimSpace(s.Sheet) == "" {
			return eris.Errorf("section %d: empty sheet name", i)
		}
		if _, dup := seen[s.Sheet]; dup {
			return eris.Errorf("section %d: duplicate sheet name %q", i, s.Sheet)
		}
		seen[s.Sheet] = struct{}{}
		if len(s.GroupBy) == 0 {
			return eris.Errorf("section %q: empty group_by", s.Sheet)
		}
		if s.Contribution && len(s.GroupBy) != 2 {
			return eris.Errorf("section %q: contribution needs exactly two group_by fields", s.Sheet)
		}
		if s.TopN > 0 && len(s.GroupBy) < 2 {
			return eris.Errorf("section %q: top_n needs at least two group_by fields", s.Sheet)
		}
		if s.TopN < 0 {
			return eris.Errorf("section %q: negative top_n", s.Sheet)
		}
	}
	return nil
}

// Default returns the standard weekly purchasing summary layout.
func Default() *Layout {
	return &Layout{
		Measure: "GMV",
		Sections: []Section{
			{Sheet: "Supplier_GMV", GroupBy: []string{"Supplier"}, CountDistinct: "order_id"},
			{Sheet: "Subcategory_GMV", GroupBy: []string{"sub_cat"}},
			{Sheet: "Region_GMV", GroupBy: []string{"region"}},
			{Sheet: "Restaurant_GMV", GroupBy: []string{"Restaurant_name"}},
			{Sheet: "Restaurant_Region_GMV", GroupBy: []string{"region", "Restaurant_name"}},
			{Sheet: "Restaurant_Supplier_Region_GMV", GroupBy: []string{"region", "Supplier", "Restaurant_name"}},
			{Sheet: "Product_Supplier_Region_GMV", GroupBy: []string{"region", "Supplier", "product_name"}},
			{Sheet: "Top_Restaurants_Per_Supplier", GroupBy: []string{"region", "Supplier", "Restaurant_name"}, TopN: 5},
			{Sheet: "Top_Products_Per_Supplier", GroupBy: []string{"region", "Supplier", "product_name"}, TopN: 5},
			{Sheet: "Supplier_Region_Contribution", GroupBy: []string{"region", "Supplier"}, Contribution: true},
		},
	}
}
