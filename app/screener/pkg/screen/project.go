package screen

import (
	"fmt"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
)

// Column 展示列
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Row 投影后的行
type Row struct {
	Cells []string    `json:"cells"`
	Tags  []model.Tag `json:"tags"`
}

var catalog = map[string]string{
	"code":                               "Code",
	"name":                               "Name",
	"listing_date":                       "Listed",
	string(model.FieldMarketCap):         "Market Cap",
	string(model.FieldYearsElapsed):      "Years Elapsed",
	string(model.FieldYearsRemaining):    "Years Remaining",
	string(model.FieldRequiredCAGR):      "CAGR",
	string(model.FieldRevenue):           "Revenue",
	string(model.FieldCostOfRevenue):     "Cost of Revenue",
	string(model.FieldGrossMargin):       "Gross Margin",
	string(model.FieldOperatingIncome):   "Operating Income",
	string(model.FieldOperatingCashFlow): "Operating CF",
}

// DefaultColumns 默认展示列
var DefaultColumns = []string{
	"code",
	"name",
	"listing_date",
	string(model.FieldMarketCap),
	string(model.FieldYearsElapsed),
	string(model.FieldYearsRemaining),
	string(model.FieldRequiredCAGR),
}

// ResolveColumns 把列名解析为展示列，未知列名返回 ErrUnknownColumn
func ResolveColumns(keys []string) ([]Column, error) {
	if len(keys) == 0 {
		keys = DefaultColumns
	}
	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		label, ok := catalog[k]
		if !ok {
			return nil, fmt.Errorf("%q: %w", k, ErrUnknownColumn)
		}
		cols = append(cols, Column{Key: k, Label: label})
	}
	return cols, nil
}

// Project 投影并打标签
func Project(t model.Table, cols []Column) []Row {
	rows := make([]Row, 0, len(t))
	for i := range t {
		r := &t[i]
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = cell(r, c.Key)
		}
		rows = append(rows, Row{Cells: cells, Tags: Tags(r)})
	}
	return rows
}

func cell(r *model.CompanyRecord, key string) string {
	switch key {
	case "code":
		return r.Code
	case "name":
		return r.Name
	case "listing_date":
		return r.ListingDate
	}
	v, ok := r.Value(model.Field(key))
	if !ok {
		return ""
	}
	return v.String()
}
