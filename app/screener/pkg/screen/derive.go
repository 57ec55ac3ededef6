package screen

import (
	"github.com/shopspring/decimal"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
)

var (
	hundred         = decimal.NewFromInt(100)
	highMarginFloor = decimal.NewFromInt(60)
)

// GrossMargin 计算毛利率(%)，保留两位小数。
// 营收缺失或为 0 时返回 Valid=false；营收有效且成本缺失或为 0 时毛利率为 100。
func GrossMargin(revenue, cost decimal.NullDecimal) decimal.NullDecimal {
	if !revenue.Valid || revenue.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	if !cost.Valid || cost.Decimal.IsZero() {
		return decimal.NewNullDecimal(hundred)
	}
	margin := revenue.Decimal.Sub(cost.Decimal).Div(revenue.Decimal).Mul(hundred).Round(2)
	return decimal.NewNullDecimal(margin)
}

// Derive 填充记录的派生字段
func Derive(r *model.CompanyRecord) {
	r.GrossMargin = GrossMargin(r.Revenue, r.CostOfRevenue)
}
