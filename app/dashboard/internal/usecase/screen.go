package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/growth_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/repo"
)

// maxColumns 单次请求最多展示的列数
const maxColumns = 16

// ScreenUseCase 筛选业务逻辑
type ScreenUseCase struct {
	repo repo.ScreenRepo
	log  *log.Helper
}

// NewScreenUseCase 创建筛选业务逻辑实例
func NewScreenUseCase(repo repo.ScreenRepo, logger log.Logger) *ScreenUseCase {
	return &ScreenUseCase{repo: repo, log: log.NewHelper(logger)}
}

// Screen 执行筛选，去除重复的展示列
func (uc *ScreenUseCase) Screen(ctx context.Context, c *domain.Criteria) (*domain.ScreenResult, error) {
	c.Columns = dedupColumns(c.Columns)
	res, err := uc.repo.Screen(ctx, c)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("screen failed: %v", err)
		return nil, err
	}
	return res, nil
}

// Dataset 当前数据集概况
func (uc *ScreenUseCase) Dataset(ctx context.Context) (*domain.DatasetSummary, error) {
	return uc.repo.Describe(ctx)
}

// Reload 重新加载数据集
func (uc *ScreenUseCase) Reload(ctx context.Context) (*domain.DatasetSummary, error) {
	return uc.repo.Reload(ctx)
}

// Bands 生效的评级表
func (uc *ScreenUseCase) Bands(ctx context.Context) ([]domain.BandTable, error) {
	return uc.repo.Bands(ctx)
}

func dedupColumns(cols []string) []string {
	if len(cols) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == maxColumns {
			break
		}
	}
	return out
}
