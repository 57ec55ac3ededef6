package source

import (
	"fmt"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
)

// 非数值字段的规范名
const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldListingDate = "listing_date"
)

// SchemaAuto 按表头自动识别版本
const SchemaAuto = "auto"

// Column 规范字段与数据源列名的映射
type Column struct {
	Field    string
	Header   string
	Required bool
}

// Schema 一个版本的列映射表
type Schema struct {
	Version string
	Columns []Column
}

var schemaV1 = Schema{
	Version: "v1",
	Columns: []Column{
		{FieldCode, "コード", true},
		{FieldName, "銘柄名", true},
		{FieldListingDate, "上場日", false},
		{string(model.FieldMarketCap), "時価総額(百万円)", true},
		{string(model.FieldYearsElapsed), "経過年数", false},
		{string(model.FieldYearsRemaining), "残り年数", false},
		{string(model.FieldRequiredCAGR), "必要CAGR(%)", true},
	},
}

var schemaV2 = Schema{
	Version: "v2",
	Columns: append(append([]Column{}, schemaV1.Columns...),
		Column{string(model.FieldRevenue), "売上高(百万円)", true},
		Column{string(model.FieldCostOfRevenue), "売上原価(百万円)", true},
		Column{string(model.FieldOperatingIncome), "営業利益(百万円)", true},
		Column{string(model.FieldOperatingCashFlow), "営業CF(百万円)", true},
	),
}

var schemaV3 = Schema{
	Version: "v3",
	Columns: []Column{
		{FieldCode, "code", true},
		{FieldName, "name", true},
		{FieldListingDate, "listing_date", false},
		{string(model.FieldMarketCap), "market_cap", true},
		{string(model.FieldYearsElapsed), "years_elapsed", false},
		{string(model.FieldYearsRemaining), "years_remaining", false},
		{string(model.FieldRequiredCAGR), "required_cagr_pct", true},
		{string(model.FieldRevenue), "revenue", true},
		{string(model.FieldCostOfRevenue), "cost_of_revenue", true},
		{string(model.FieldOperatingIncome), "operating_income", true},
		{string(model.FieldOperatingCashFlow), "operating_cash_flow", true},
	},
}

// schemas 从旧到新
var schemas = []Schema{schemaV1, schemaV2, schemaV3}

// Versions 返回所有已知的版本号
func Versions() []string {
	out := make([]string, len(schemas))
	for i, s := range schemas {
		out[i] = s.Version
	}
	return out
}

// LookupSchema 按版本号查找映射表
func LookupSchema(version string) (Schema, error) {
	for _, s := range schemas {
		if s.Version == version {
			return s, nil
		}
	}
	return Schema{}, fmt.Errorf("%q: %w", version, ErrUnknownSchema)
}

// Mapping 绑定到具体表头的映射
type Mapping struct {
	Schema Schema
	index  map[string]int
}

// Bind 把映射表绑定到表头，缺少必需列时返回 ErrMissingColumn
func (s Schema) Bind(header []string) (*Mapping, error) {
	pos := make(map[string]int, len(header))
	for i, h := range normalizeHeader(header) {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	m := &Mapping{Schema: s, index: make(map[string]int, len(s.Columns))}
	for _, c := range s.Columns {
		i, ok := pos[c.Header]
		if !ok {
			if c.Required {
				return nil, fmt.Errorf("schema %s: column %q (%s): %w", s.Version, c.Header, c.Field, ErrMissingColumn)
			}
			continue
		}
		m.index[c.Field] = i
	}
	return m, nil
}

// DetectSchema 选出与表头匹配列数最多的版本并绑定，匹配数相同时取列更少的旧版本。
// 选中版本缺少必需列时直接返回 ErrMissingColumn，不回退到旧版本
func DetectSchema(header []string) (*Mapping, error) {
	present := make(map[string]bool, len(header))
	for _, h := range normalizeHeader(header) {
		present[h] = true
	}

	best, bestScore := -1, 0
	for i, s := range schemas {
		score := 0
		for _, c := range s.Columns {
			if present[c.Header] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("header %v: %w", normalizeHeader(header), ErrNoSchemaMatch)
	}
	return schemas[best].Bind(header)
}

// ResolveSchema 按版本号绑定表头；版本号为空或 auto 时自动识别
func ResolveSchema(version string, header []string) (*Mapping, error) {
	if version == "" || version == SchemaAuto {
		return DetectSchema(header)
	}
	s, err := LookupSchema(version)
	if err != nil {
		return nil, err
	}
	return s.Bind(header)
}

// Has 该字段是否映射到了某一列
func (m *Mapping) Has(field string) bool {
	_, ok := m.index[field]
	return ok
}

// Cell 读取某行中字段对应的单元格，缺列或短行返回空串
func (m *Mapping) Cell(row []string, field string) string {
	i, ok := m.index[field]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
