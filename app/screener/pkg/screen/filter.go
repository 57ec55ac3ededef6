package screen

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
)

// FilterByRange 保留 lower <= field <= upper 的行，两端均包含
func FilterByRange(t model.Table, field model.Field, lower, upper decimal.Decimal) (model.Table, error) {
	if lower.GreaterThan(upper) {
		return nil, fmt.Errorf("%s [%s, %s]: %w", field, lower, upper, ErrInvalidBounds)
	}
	out := make(model.Table, 0, len(t))
	for i := range t {
		v, ok := t[i].Value(field)
		if !ok {
			continue
		}
		if v.GreaterThanOrEqual(lower) && v.LessThanOrEqual(upper) {
			out = append(out, t[i])
		}
	}
	return out, nil
}

// FilterByLowerBound 保留 field >= lower 的行；字段缺失的行被排除
func FilterByLowerBound(t model.Table, field model.Field, lower decimal.Decimal) model.Table {
	out := make(model.Table, 0, len(t))
	for i := range t {
		v, ok := t[i].Value(field)
		if ok && v.GreaterThanOrEqual(lower) {
			out = append(out, t[i])
		}
	}
	return out
}

// ObservedRange 返回字段的观测范围 (floor(min), ceil(max))，用作区间筛选的默认值
func ObservedRange(t model.Table, field model.Field) (lower, upper decimal.Decimal, ok bool) {
	for i := range t {
		v, has := t[i].Value(field)
		if !has {
			continue
		}
		if !ok {
			lower, upper, ok = v, v, true
			continue
		}
		lower = decimal.Min(lower, v)
		upper = decimal.Max(upper, v)
	}
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	return lower.Floor(), upper.Ceil(), true
}
