package data

import (
	"context"
	"io"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/growth_radar/app/dashboard/internal/conf"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/cache"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/engine"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/insight"
	srLogger "github.com/iWorld-y/growth_radar/app/screener/pkg/logger"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/source"
)

// Data 持有筛选引擎，数据集由引擎内的缓存共享
type Data struct {
	engine *engine.Engine
}

// NewData 初始化数据源、缓存和筛选引擎
func NewData(c *conf.Screener, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	cfg, err := c.ToConfig()
	if err != nil {
		return nil, nil, err
	}

	// 初始化 screener 的日志
	if err := srLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init screener logger: %v", err)
		_ = srLogger.InitLogger("info", "") // 降级处理
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, nil, err
	}

	narrator, err := insight.NewFromConfig(context.Background(), cfg)
	if err != nil {
		// 解读是可选功能，失败时降级
		helper.Warnf("Failed to init narrator, insight disabled: %v", err)
		narrator = nil
	}

	eng, err := engine.NewEngine(cfg, src, cache.New(cfg.Source.Schema), narrator)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		if closer, ok := src.(io.Closer); ok {
			closer.Close()
		}
	}
	return &Data{engine: eng}, cleanup, nil
}
