package v1

import "github.com/shopspring/decimal"

// ScreenRequest 筛选请求，数值条件为空表示不设该条件
type ScreenRequest struct {
	CagrMin              *decimal.Decimal `json:"cagr_min,omitempty"`
	CagrMax              *decimal.Decimal `json:"cagr_max,omitempty"`
	MinGrossMargin       *decimal.Decimal `json:"min_gross_margin,omitempty"`
	MinRevenue           *decimal.Decimal `json:"min_revenue,omitempty"`
	MinOperatingIncome   *decimal.Decimal `json:"min_operating_income,omitempty"`
	MinOperatingCashFlow *decimal.Decimal `json:"min_operating_cash_flow,omitempty"`
	Columns              []string         `json:"columns,omitempty"`
	WithInsight          bool             `json:"with_insight,omitempty"`
}

type Step struct {
	Field     string           `json:"field"`
	Lower     decimal.Decimal  `json:"lower"`
	Upper     *decimal.Decimal `json:"upper,omitempty"`
	Remaining int32            `json:"remaining"`
}

type Commentary struct {
	Field    string          `json:"field"`
	Value    decimal.Decimal `json:"value"`
	Severity string          `json:"severity"`
	Message  string          `json:"message"`
}

type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Row struct {
	Cells []string `json:"cells"`
	Tags  []string `json:"tags"`
}

type ScreenReply struct {
	DatasetId  string          `json:"dataset_id"`
	Total      int32           `json:"total"`
	Count      int32           `json:"count"`
	CagrMin    decimal.Decimal `json:"cagr_min"`
	CagrMax    decimal.Decimal `json:"cagr_max"`
	Steps      []*Step         `json:"steps"`
	Commentary []*Commentary   `json:"commentary"`
	Columns    []*Column       `json:"columns"`
	Rows       []*Row          `json:"rows"`
	Insight    string          `json:"insight,omitempty"`
}

type GetDatasetRequest struct{}

type ReloadDatasetRequest struct{}

type FieldRange struct {
	Field string          `json:"field"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
}

type DatasetReply struct {
	Id       string        `json:"id"`
	Source   string        `json:"source"`
	Schema   string        `json:"schema"`
	LoadedAt string        `json:"loaded_at"`
	Rows     int32         `json:"rows"`
	Dropped  int32         `json:"dropped"`
	Ranges   []*FieldRange `json:"ranges"`
}

type ListBandsRequest struct{}

type Level struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type Band struct {
	Field      string            `json:"field"`
	Boundaries []decimal.Decimal `json:"boundaries"`
	Levels     []*Level          `json:"levels"`
}

type ListBandsReply struct {
	Bands []*Band `json:"bands"`
}
