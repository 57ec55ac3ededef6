package screen

import (
	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
)

// Tags 返回记录的定性标签，顺序固定
func Tags(r *model.CompanyRecord) []model.Tag {
	tags := make([]model.Tag, 0, 3)
	if r.OperatingIncome.Valid && r.OperatingIncome.Decimal.IsPositive() {
		tags = append(tags, model.TagProfitable)
	}
	if r.OperatingCashFlow.Valid && r.OperatingCashFlow.Decimal.IsPositive() {
		tags = append(tags, model.TagCashFlowPositive)
	}
	if r.GrossMargin.Valid && r.GrossMargin.Decimal.GreaterThanOrEqual(highMarginFloor) {
		tags = append(tags, model.TagHighMargin)
	}
	return tags
}
