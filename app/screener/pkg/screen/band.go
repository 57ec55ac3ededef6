package screen

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
)

// Level 评级档位
type Level struct {
	Severity model.Severity `json:"severity"`
	Message  string         `json:"message"`
}

// BandTable 升序边界 b1..bn 与 n+1 个档位。
// value <= b(i+1) 时落在 Levels[i]，超过所有边界时落在最后一档。
type BandTable struct {
	Field      model.Field       `json:"field"`
	Boundaries []decimal.Decimal `json:"boundaries"`
	Levels     []Level           `json:"levels"`
}

// Validate 校验边界严格升序且档位数量匹配
func (b BandTable) Validate() error {
	if len(b.Levels) != len(b.Boundaries)+1 {
		return fmt.Errorf("%s: %d boundaries need %d levels, got %d: %w",
			b.Field, len(b.Boundaries), len(b.Boundaries)+1, len(b.Levels), ErrInvalidBands)
	}
	for i := 1; i < len(b.Boundaries); i++ {
		if !b.Boundaries[i].GreaterThan(b.Boundaries[i-1]) {
			return fmt.Errorf("%s: boundaries not ascending at %s: %w", b.Field, b.Boundaries[i], ErrInvalidBands)
		}
	}
	for _, l := range b.Levels {
		if !l.Severity.Valid() {
			return fmt.Errorf("%s: severity %q: %w", b.Field, l.Severity, ErrInvalidBands)
		}
	}
	return nil
}

// ClassifyBand 返回 value 所在的档位
func ClassifyBand(value decimal.Decimal, b BandTable) Level {
	for i, bound := range b.Boundaries {
		if value.LessThanOrEqual(bound) {
			return b.Levels[i]
		}
	}
	return b.Levels[len(b.Levels)-1]
}

func bounds(vs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

// DefaultBands 各滑块的默认评级表
func DefaultBands() map[model.Field]BandTable {
	return map[model.Field]BandTable{
		model.FieldRequiredCAGR: {
			Field:      model.FieldRequiredCAGR,
			Boundaries: bounds(20, 30, 40),
			Levels: []Level{
				{model.SeverityGood, "Achievable: many companies have reached this growth rate before."},
				{model.SeverityNeutral, "Within reach with effort, but the growth strategy needs scrutiny."},
				{model.SeverityCaution, "High growth required; few companies have succeeded here."},
				{model.SeverityCritical, "Extremely high growth required; check carefully whether it is realistic."},
			},
		},
		model.FieldRevenue: {
			Field:      model.FieldRevenue,
			Boundaries: bounds(500, 1000, 3000, 10000),
			Levels: []Level{
				{model.SeverityCritical, "Small revenue base; the business is still unproven."},
				{model.SeverityCaution, "Early revenue scale; growth is likely volatile."},
				{model.SeverityNeutral, "Moderate revenue scale."},
				{model.SeverityGood, "Solid revenue base for a newly listed company."},
				{model.SeverityExcellent, "Large revenue base; scale is already established."},
			},
		},
		model.FieldGrossMargin: {
			Field:      model.FieldGrossMargin,
			Boundaries: bounds(20, 40, 60, 80),
			Levels: []Level{
				{model.SeverityCritical, "Thin margins leave little room for growth investment."},
				{model.SeverityCaution, "Below-average margins; pricing power is limited."},
				{model.SeverityNeutral, "Average margin profile."},
				{model.SeverityGood, "High margins typical of software and platform models."},
				{model.SeverityExcellent, "Exceptional margins; strong pricing power."},
			},
		},
		model.FieldOperatingIncome: {
			Field:      model.FieldOperatingIncome,
			Boundaries: bounds(-500, 0, 300, 1000),
			Levels: []Level{
				{model.SeverityCritical, "Deep operating losses; funding runway matters."},
				{model.SeverityCaution, "Operating at a loss or break-even."},
				{model.SeverityNeutral, "Modestly profitable."},
				{model.SeverityGood, "Clearly profitable operations."},
				{model.SeverityExcellent, "Strong operating profit."},
			},
		},
		model.FieldOperatingCashFlow: {
			Field:      model.FieldOperatingCashFlow,
			Boundaries: bounds(-500, 0, 300, 1000),
			Levels: []Level{
				{model.SeverityCritical, "Heavy cash burn from operations."},
				{model.SeverityCaution, "Operations consume or barely cover cash."},
				{model.SeverityNeutral, "Operations generate some cash."},
				{model.SeverityGood, "Healthy operating cash generation."},
				{model.SeverityExcellent, "Strong self-funding cash flow."},
			},
		},
	}
}
