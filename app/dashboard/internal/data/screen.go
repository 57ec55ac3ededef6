package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/growth_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/growth_radar/app/dashboard/internal/repo"
)

type screenRepo struct {
	data *Data
	log  *log.Helper
}

// NewScreenRepo 创建筛选仓库
func NewScreenRepo(data *Data, logger log.Logger) repo.ScreenRepo {
	return &screenRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *screenRepo) Screen(ctx context.Context, c *domain.Criteria) (*domain.ScreenResult, error) {
	return r.data.engine.Screen(ctx, *c)
}

func (r *screenRepo) Describe(ctx context.Context) (*domain.DatasetSummary, error) {
	return r.data.engine.Describe(ctx)
}

func (r *screenRepo) Reload(ctx context.Context) (*domain.DatasetSummary, error) {
	s, err := r.data.engine.Reload(ctx)
	if err != nil {
		return nil, err
	}
	r.log.WithContext(ctx).Infof("dataset reloaded: id=%s rows=%d dropped=%d", s.ID, s.Rows, s.Dropped)
	return s, nil
}

func (r *screenRepo) Bands(ctx context.Context) ([]domain.BandTable, error) {
	return r.data.engine.Bands(), nil
}
