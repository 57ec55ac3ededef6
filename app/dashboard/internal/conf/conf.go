package conf

import "github.com/iWorld-y/growth_radar/app/screener/pkg/config"

type Bootstrap struct {
	Server   *Server
	Screener *Screener
}

type Server struct {
	Http      *HTTP
	Grpc      *GRPC
	Cors      *Cors      `json:"cors"`
	RateLimit *RateLimit `json:"rate_limit"`
}

type HTTP struct {
	Addr    string
	Timeout string
}

type GRPC struct {
	Addr    string
	Timeout string
}

type Cors struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

// RateLimit HTTP 接口限流，Rps 为 0 时不限流
type RateLimit struct {
	Rps   float64 `json:"rps"`
	Burst int32   `json:"burst"`
}

type Screener struct {
	Source      *Source                      `json:"source"`
	Columns     []string                     `json:"columns"`
	Bands       map[string]config.BandConfig `json:"bands"`
	Llm         *LLM                         `json:"llm"`
	Log         *Log                         `json:"log"`
	Concurrency *Concurrency                 `json:"concurrency"`
}

type Source struct {
	Provider string `json:"provider"`
	Schema   string `json:"schema"`
	Csv      *CSV   `json:"csv"`
	Db       *DB    `json:"db"`
}

type CSV struct {
	Path    string `json:"path"`
	Url     string `json:"url"`
	Timeout int32  `json:"timeout"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Table    string `json:"table"`
}

// ToConfig 将服务配置转换为 screener 的 pkg/config.Config，未设置的项保留默认值
func (c *Screener) ToConfig() (*config.Config, error) {
	cfg := config.Default()
	if c == nil {
		return cfg, cfg.Validate()
	}

	if s := c.Source; s != nil {
		if s.Provider != "" {
			cfg.Source.Provider = s.Provider
		}
		if s.Schema != "" {
			cfg.Source.Schema = s.Schema
		}
		if s.Csv != nil {
			cfg.Source.CSV.Path = s.Csv.Path
			cfg.Source.CSV.URL = s.Csv.Url
			if s.Csv.Timeout > 0 {
				cfg.Source.CSV.Timeout = int(s.Csv.Timeout)
			}
		}
		if s.Db != nil {
			cfg.Source.DB = config.DBConfig{
				Host:     s.Db.Host,
				Port:     int(s.Db.Port),
				User:     s.Db.User,
				Password: s.Db.Password,
				Name:     s.Db.Name,
				Table:    s.Db.Table,
			}
			if cfg.Source.DB.Port == 0 {
				cfg.Source.DB.Port = 5432
			}
			if cfg.Source.DB.Table == "" {
				cfg.Source.DB.Table = "growth_companies"
			}
		}
	}
	cfg.Columns = c.Columns
	cfg.Bands = c.Bands
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}

	return cfg, cfg.Validate()
}
