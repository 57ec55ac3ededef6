package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field 可筛选的数值字段
type Field string

const (
	FieldMarketCap         Field = "market_cap"
	FieldYearsElapsed      Field = "years_elapsed"
	FieldYearsRemaining    Field = "years_remaining"
	FieldRequiredCAGR      Field = "required_cagr"
	FieldRevenue           Field = "revenue"
	FieldCostOfRevenue     Field = "cost_of_revenue"
	FieldGrossMargin       Field = "gross_margin"
	FieldOperatingIncome   Field = "operating_income"
	FieldOperatingCashFlow Field = "operating_cash_flow"
)

// NumericFields 所有数值字段，按展示顺序排列
var NumericFields = []Field{
	FieldMarketCap,
	FieldYearsElapsed,
	FieldYearsRemaining,
	FieldRequiredCAGR,
	FieldRevenue,
	FieldCostOfRevenue,
	FieldGrossMargin,
	FieldOperatingIncome,
	FieldOperatingCashFlow,
}

// CompanyRecord 单个上市公司记录。金额单位为百万（币种由数据源决定），比率单位为 %
type CompanyRecord struct {
	Code              string              `json:"code"`
	Name              string              `json:"name"`
	ListingDate       string              `json:"listing_date"`
	MarketCap         decimal.NullDecimal `json:"market_cap"`
	YearsElapsed      decimal.NullDecimal `json:"years_elapsed"`
	YearsRemaining    decimal.NullDecimal `json:"years_remaining"`
	RequiredCAGR      decimal.Decimal     `json:"required_cagr"`
	Revenue           decimal.NullDecimal `json:"revenue"`
	CostOfRevenue     decimal.NullDecimal `json:"cost_of_revenue"`
	OperatingIncome   decimal.NullDecimal `json:"operating_income"`
	OperatingCashFlow decimal.NullDecimal `json:"operating_cash_flow"`
	// GrossMargin 加载时派生；Valid=false 表示毛利率无定义（营收为 0 或缺失）
	GrossMargin decimal.NullDecimal `json:"gross_margin"`
}

// Value 读取数值字段，ok=false 表示该值缺失
func (r *CompanyRecord) Value(f Field) (decimal.Decimal, bool) {
	var v decimal.NullDecimal
	switch f {
	case FieldRequiredCAGR:
		return r.RequiredCAGR, true
	case FieldMarketCap:
		v = r.MarketCap
	case FieldYearsElapsed:
		v = r.YearsElapsed
	case FieldYearsRemaining:
		v = r.YearsRemaining
	case FieldRevenue:
		v = r.Revenue
	case FieldCostOfRevenue:
		v = r.CostOfRevenue
	case FieldGrossMargin:
		v = r.GrossMargin
	case FieldOperatingIncome:
		v = r.OperatingIncome
	case FieldOperatingCashFlow:
		v = r.OperatingCashFlow
	default:
		return decimal.Zero, false
	}
	return v.Decimal, v.Valid
}

// Table 一组公司记录。筛选操作总是返回新的 Table，不修改原表
type Table []CompanyRecord

// Dataset 一次加载得到的数据快照
type Dataset struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Schema   string    `json:"schema"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  Table     `json:"-"`
	// Dropped 因必要 CAGR 缺失或非数值而被丢弃的行数
	Dropped int `json:"dropped"`
}

// Tag 行级定性标签
type Tag string

const (
	TagProfitable       Tag = "profitable"
	TagCashFlowPositive Tag = "cash-flow-positive"
	TagHighMargin       Tag = "high-margin"
)

// Severity 定性评级，用于前端着色
type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityCaution   Severity = "caution"
	SeverityNeutral   Severity = "neutral"
	SeverityGood      Severity = "good"
	SeverityExcellent Severity = "excellent"
)

// Valid 判断评级取值是否合法
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityCaution, SeverityNeutral, SeverityGood, SeverityExcellent:
		return true
	}
	return false
}
