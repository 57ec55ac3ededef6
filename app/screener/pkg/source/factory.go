package source

import (
	"fmt"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/config"
)

// New 根据配置创建数据源
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Provider {
	case "", "csv":
		if cfg.CSV.URL != "" {
			return NewCSVURL(cfg.CSV.URL, cfg.CSV.Timeout), nil
		}
		if cfg.CSV.Path == "" {
			return nil, fmt.Errorf("csv path is missing")
		}
		return NewCSVFile(cfg.CSV.Path), nil

	case "postgres":
		if cfg.DB.Host == "" {
			return nil, fmt.Errorf("postgres host is missing")
		}
		if cfg.DB.Table == "" {
			return nil, fmt.Errorf("postgres table is missing")
		}
		return NewPostgres(cfg.DB)

	default:
		return nil, fmt.Errorf("%q: %w", cfg.Provider, ErrUnknownProvider)
	}
}
