package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/logger"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/screen"
)

// Load 读取数据源并计算派生字段。
// 必要 CAGR 缺失或无法解析的行被丢弃，其余行全部保留。
func Load(ctx context.Context, src Source, schema string) (*model.Dataset, error) {
	raw, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.ID(), err)
	}

	m, err := ResolveSchema(schema, raw.Header)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.ID(), err)
	}

	records := make(model.Table, 0, len(raw.Rows))
	dropped := 0
	for i, row := range raw.Rows {
		rec, err := m.Record(row)
		if err != nil {
			dropped++
			// 表头占第 1 行
			logger.Log.Debugf("丢弃第 %d 行 [%s]: %v", i+2, m.Cell(row, FieldCode), err)
			continue
		}
		screen.Derive(&rec)
		records = append(records, rec)
	}

	ds := &model.Dataset{
		ID:       uuid.NewString(),
		Source:   src.ID(),
		Schema:   m.Schema.Version,
		LoadedAt: time.Now(),
		Records:  records,
		Dropped:  dropped,
	}
	logger.Log.Infof("已加载数据集 %s: schema=%s rows=%d dropped=%d", ds.Source, ds.Schema, len(records), dropped)
	return ds, nil
}

// Record 把一行转换为记录。仅必要 CAGR 的缺失或解析失败会返回错误
func (m *Mapping) Record(row []string) (model.CompanyRecord, error) {
	rec := model.CompanyRecord{
		Code:        strings.TrimSpace(m.Cell(row, FieldCode)),
		Name:        strings.TrimSpace(m.Cell(row, FieldName)),
		ListingDate: strings.TrimSpace(m.Cell(row, FieldListingDate)),
	}

	cagr, err := ParseNumber(m.Cell(row, string(model.FieldRequiredCAGR)))
	if err != nil {
		return rec, fmt.Errorf("required cagr: %w", err)
	}
	if !cagr.Valid {
		return rec, fmt.Errorf("required cagr is empty")
	}
	rec.RequiredCAGR = cagr.Decimal

	optional := []struct {
		field model.Field
		dst   *decimal.NullDecimal
	}{
		{model.FieldMarketCap, &rec.MarketCap},
		{model.FieldYearsElapsed, &rec.YearsElapsed},
		{model.FieldYearsRemaining, &rec.YearsRemaining},
		{model.FieldRevenue, &rec.Revenue},
		{model.FieldCostOfRevenue, &rec.CostOfRevenue},
		{model.FieldOperatingIncome, &rec.OperatingIncome},
		{model.FieldOperatingCashFlow, &rec.OperatingCashFlow},
	}
	for _, o := range optional {
		v, err := ParseNumber(m.Cell(row, string(o.field)))
		if err != nil {
			logger.Log.Debugf("[%s] %s 无法解析，按缺失处理: %v", rec.Code, o.field, err)
			continue
		}
		*o.dst = v
	}
	return rec, nil
}

// ParseNumber 解析数值单元格。空值、"-"、"nan" 等返回 Valid=false
func ParseNumber(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	switch strings.ToLower(s) {
	case "", "-", "nan", "null", "none", "n/a", "na":
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
