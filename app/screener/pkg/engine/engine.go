package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/cache"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/config"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/insight"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/logger"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/screen"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/source"
)

// SliderFields 五个滑块对应的字段，按筛选顺序排列
var SliderFields = []model.Field{
	model.FieldRequiredCAGR,
	model.FieldGrossMargin,
	model.FieldRevenue,
	model.FieldOperatingIncome,
	model.FieldOperatingCashFlow,
}

// Engine 核心筛选引擎。无状态，每次请求都从缓存的数据集重新计算
type Engine struct {
	src      source.Source
	cache    *cache.Cache
	bands    map[model.Field]screen.BandTable
	columns  []screen.Column
	narrator *insight.Narrator
}

// NewEngine 创建引擎实例，narrator 可以为 nil
func NewEngine(cfg *config.Config, src source.Source, c *cache.Cache, narrator *insight.Narrator) (*Engine, error) {
	bands, err := BandsFromConfig(cfg.Bands)
	if err != nil {
		return nil, err
	}
	cols, err := screen.ResolveColumns(cfg.Columns)
	if err != nil {
		return nil, err
	}
	return &Engine{
		src:      src,
		cache:    c,
		bands:    bands,
		columns:  cols,
		narrator: narrator,
	}, nil
}

// BandsFromConfig 以默认评级表为基础，用配置覆盖
func BandsFromConfig(cfg map[string]config.BandConfig) (map[model.Field]screen.BandTable, error) {
	bands := screen.DefaultBands()
	for key, bc := range cfg {
		field := model.Field(key)
		if _, ok := bands[field]; !ok {
			return nil, fmt.Errorf("bands.%s: %w", key, screen.ErrUnknownField)
		}
		b := screen.BandTable{Field: field, Boundaries: bc.Boundaries}
		for _, l := range bc.Levels {
			b.Levels = append(b.Levels, screen.Level{Severity: model.Severity(l.Severity), Message: l.Message})
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		bands[field] = b
	}
	return bands, nil
}

// Criteria 筛选条件，nil 表示不设该条件
type Criteria struct {
	// CAGRMin/CAGRMax 为空时取数据集的观测范围
	CAGRMin              *decimal.Decimal
	CAGRMax              *decimal.Decimal
	MinGrossMargin       *decimal.Decimal
	MinRevenue           *decimal.Decimal
	MinOperatingIncome   *decimal.Decimal
	MinOperatingCashFlow *decimal.Decimal
	// Columns 覆盖默认展示列
	Columns     []string
	WithInsight bool
}

func (c Criteria) lowerBound(f model.Field) *decimal.Decimal {
	switch f {
	case model.FieldGrossMargin:
		return c.MinGrossMargin
	case model.FieldRevenue:
		return c.MinRevenue
	case model.FieldOperatingIncome:
		return c.MinOperatingIncome
	case model.FieldOperatingCashFlow:
		return c.MinOperatingCashFlow
	}
	return nil
}

// Step 单步筛选后剩余的行数
type Step struct {
	Field     model.Field      `json:"field"`
	Lower     decimal.Decimal  `json:"lower"`
	Upper     *decimal.Decimal `json:"upper,omitempty"`
	Remaining int              `json:"remaining"`
}

// Commentary 滑块取值的定性评级
type Commentary struct {
	Field    model.Field     `json:"field"`
	Value    decimal.Decimal `json:"value"`
	Severity model.Severity  `json:"severity"`
	Message  string          `json:"message"`
}

// Result 一次筛选的结果
type Result struct {
	DatasetID  string          `json:"dataset_id"`
	Total      int             `json:"total"`
	Count      int             `json:"count"`
	CAGRMin    decimal.Decimal `json:"cagr_min"`
	CAGRMax    decimal.Decimal `json:"cagr_max"`
	Steps      []Step          `json:"steps"`
	Commentary []Commentary    `json:"commentary"`
	Columns    []screen.Column `json:"columns"`
	Rows       []screen.Row    `json:"rows"`
	Insight    string          `json:"insight,omitempty"`
}

// Screen 执行一次筛选。结果为空不是错误
func (e *Engine) Screen(ctx context.Context, c Criteria) (*Result, error) {
	ds, err := e.cache.Get(ctx, e.src)
	if err != nil {
		return nil, err
	}

	cols := e.columns
	if len(c.Columns) > 0 {
		if cols, err = screen.ResolveColumns(c.Columns); err != nil {
			return nil, err
		}
	}

	lo, hi, _ := screen.ObservedRange(ds.Records, model.FieldRequiredCAGR)
	if c.CAGRMin != nil {
		lo = *c.CAGRMin
	}
	if c.CAGRMax != nil {
		hi = *c.CAGRMax
	}
	// 只给出一侧时，默认的另一侧跟随调整，不会构成反向区间
	switch {
	case c.CAGRMax == nil && lo.GreaterThan(hi):
		hi = lo
	case c.CAGRMin == nil && hi.LessThan(lo):
		lo = hi
	}

	table, err := screen.FilterByRange(ds.Records, model.FieldRequiredCAGR, lo, hi)
	if err != nil {
		return nil, err
	}

	upper := hi
	res := &Result{
		DatasetID: ds.ID,
		Total:     len(ds.Records),
		CAGRMin:   lo,
		CAGRMax:   hi,
		Steps:     []Step{{Field: model.FieldRequiredCAGR, Lower: lo, Upper: &upper, Remaining: len(table)}},
		// 必要 CAGR 的评级看滑块上限
		Commentary: []Commentary{e.comment(model.FieldRequiredCAGR, hi)},
		Columns:    cols,
	}

	for _, f := range SliderFields[1:] {
		bound := c.lowerBound(f)
		if bound == nil {
			continue
		}
		table = screen.FilterByLowerBound(table, f, *bound)
		res.Steps = append(res.Steps, Step{Field: f, Lower: *bound, Remaining: len(table)})
		res.Commentary = append(res.Commentary, e.comment(f, *bound))
	}

	res.Count = len(table)
	res.Rows = screen.Project(table, cols)

	if c.WithInsight && e.narrator != nil {
		text, err := e.narrator.Narrate(ctx, summarize(res, table))
		if err != nil {
			logger.Log.Errorf("生成解读失败: %v", err)
		} else {
			res.Insight = text
		}
	}

	logger.Log.Debugf("筛选完成: dataset=%s total=%d count=%d", ds.ID, res.Total, res.Count)
	return res, nil
}

func (e *Engine) comment(f model.Field, v decimal.Decimal) Commentary {
	l := screen.ClassifyBand(v, e.bands[f])
	return Commentary{Field: f, Value: v, Severity: l.Severity, Message: l.Message}
}

// summarize 生成给 LLM 的结果摘要，最多列出 20 家公司
func summarize(res *Result, table model.Table) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "数据集共 %d 家公司，筛选后剩余 %d 家。\n", res.Total, res.Count)
	sb.WriteString("## 筛选条件\n")
	for _, s := range res.Steps {
		if s.Upper != nil {
			fmt.Fprintf(&sb, "- %s: %s ~ %s (剩余 %d)\n", s.Field, s.Lower, s.Upper, s.Remaining)
		} else {
			fmt.Fprintf(&sb, "- %s >= %s (剩余 %d)\n", s.Field, s.Lower, s.Remaining)
		}
	}
	sb.WriteString("## 定性评级\n")
	for _, c := range res.Commentary {
		fmt.Fprintf(&sb, "- %s=%s [%s] %s\n", c.Field, c.Value, c.Severity, c.Message)
	}
	sb.WriteString("## 入选公司\n")
	for i := range table {
		if i == 20 {
			fmt.Fprintf(&sb, "... 另有 %d 家\n", len(table)-20)
			break
		}
		r := &table[i]
		tags := screen.Tags(r)
		names := make([]string, len(tags))
		for j, t := range tags {
			names[j] = string(t)
		}
		fmt.Fprintf(&sb, "- %s %s: CAGR=%s%% 市值=%s 毛利率=%s 标签=[%s]\n",
			r.Code, r.Name, r.RequiredCAGR, nullString(r.MarketCap), nullString(r.GrossMargin), strings.Join(names, ","))
	}
	return sb.String()
}

func nullString(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return v.Decimal.String()
}

// FieldRange 字段的观测范围
type FieldRange struct {
	Field model.Field     `json:"field"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
}

// Summary 数据集概况
type Summary struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Schema   string       `json:"schema"`
	LoadedAt time.Time    `json:"loaded_at"`
	Rows     int          `json:"rows"`
	Dropped  int          `json:"dropped"`
	Ranges   []FieldRange `json:"ranges"`
}

// Describe 返回数据集概况，包含各数值字段的观测范围
func (e *Engine) Describe(ctx context.Context) (*Summary, error) {
	ds, err := e.cache.Get(ctx, e.src)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		ID:       ds.ID,
		Source:   ds.Source,
		Schema:   ds.Schema,
		LoadedAt: ds.LoadedAt,
		Rows:     len(ds.Records),
		Dropped:  ds.Dropped,
	}
	for _, f := range model.NumericFields {
		if lo, hi, ok := screen.ObservedRange(ds.Records, f); ok {
			s.Ranges = append(s.Ranges, FieldRange{Field: f, Min: lo, Max: hi})
		}
	}
	return s, nil
}

// Reload 丢弃缓存并重新加载数据源
func (e *Engine) Reload(ctx context.Context) (*Summary, error) {
	e.cache.Invalidate(e.src.ID())
	return e.Describe(ctx)
}

// Bands 返回生效的评级表，按滑块顺序排列
func (e *Engine) Bands() []screen.BandTable {
	out := make([]screen.BandTable, 0, len(SliderFields))
	for _, f := range SliderFields {
		out = append(out, e.bands[f])
	}
	return out
}
