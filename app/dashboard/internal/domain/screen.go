package domain

import (
	"github.com/iWorld-y/growth_radar/app/screener/pkg/engine"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/screen"
)

// Criteria 筛选条件
type Criteria = engine.Criteria

// ScreenResult 一次筛选的结果
type ScreenResult = engine.Result

// DatasetSummary 数据集概况
type DatasetSummary = engine.Summary

// BandTable 单个滑块的评级表
type BandTable = screen.BandTable
