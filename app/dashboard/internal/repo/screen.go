package repo

import (
	"context"

	"github.com/iWorld-y/growth_radar/app/dashboard/internal/domain"
)

// ScreenRepo 筛选数据仓库接口
type ScreenRepo interface {
	// Screen 按条件筛选
	Screen(ctx context.Context, c *domain.Criteria) (*domain.ScreenResult, error)
	// Describe 当前数据集概况
	Describe(ctx context.Context) (*domain.DatasetSummary, error)
	// Reload 丢弃缓存并重新加载
	Reload(ctx context.Context) (*domain.DatasetSummary, error)
	// Bands 生效的评级表
	Bands(ctx context.Context) ([]domain.BandTable, error)
}
