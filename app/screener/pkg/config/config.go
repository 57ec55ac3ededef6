package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Source      SourceConfig          `yaml:"source"`
	Columns     []string              `yaml:"columns"`
	Bands       map[string]BandConfig `yaml:"bands" validate:"dive"`
	LLM         LLMConfig             `yaml:"llm"`
	Log         LogConfig             `yaml:"log"`
	Concurrency ConcurrencyConfig     `yaml:"concurrency"`
}

// SourceConfig 数据源配置
type SourceConfig struct {
	Provider string    `yaml:"provider" validate:"required,oneof=csv postgres"`
	Schema   string    `yaml:"schema" validate:"omitempty,oneof=auto v1 v2 v3"`
	CSV      CSVConfig `yaml:"csv"`
	DB       DBConfig  `yaml:"db"`
}

// CSVConfig CSV 数据源，Path 与 URL 二选一
type CSVConfig struct {
	Path    string `yaml:"path" validate:"required_without=URL"`
	URL     string `yaml:"url" validate:"omitempty,url"`
	Timeout int    `yaml:"timeout"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Table    string `yaml:"table"`
}

// BandConfig 单个滑块的评级表
type BandConfig struct {
	Boundaries []decimal.Decimal `yaml:"boundaries"`
	Levels     []LevelConfig     `yaml:"levels" validate:"required,dive"`
}

// LevelConfig 评级档位
type LevelConfig struct {
	Severity string `yaml:"severity" validate:"required,oneof=critical caution neutral good excellent"`
	Message  string `yaml:"message"`
}

// LLMConfig LLM 相关配置，BaseURL 为空时不生成解读
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Enabled 是否配置了 LLM
func (c LLMConfig) Enabled() bool {
	return c.BaseURL != "" && c.Model != ""
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps" validate:"gte=0"`
	RPM int `yaml:"rpm" validate:"gte=0"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Provider: "csv",
			Schema:   "auto",
			CSV:      CSVConfig{Path: "data/next100_required_cagr.csv", Timeout: 30},
			DB:       DBConfig{Port: 5432, Table: "growth_companies"},
		},
		Log:         LogConfig{Level: "info"},
		Concurrency: ConcurrencyConfig{QPS: 1, RPM: 20},
	}
}

// LoadConfig 从指定路径加载配置，未设置的项使用默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
