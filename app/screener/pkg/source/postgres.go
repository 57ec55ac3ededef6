package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/config"
)

// Postgres 从 PostgreSQL 表读取数据，列名即表头
type Postgres struct {
	db    *sqlx.DB
	dsn   string
	table string
}

// NewPostgres 打开数据库连接
func NewPostgres(cfg config.DBConfig) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	return &Postgres{
		db:    db,
		dsn:   fmt.Sprintf("%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Name),
		table: cfg.Table,
	}, nil
}

var _ Source = (*Postgres)(nil)

// Close 关闭连接
func (p *Postgres) Close() error {
	return p.db.Close()
}

// ID 实现 Source，不包含密码
func (p *Postgres) ID() string {
	return "postgres://" + p.dsn + "#" + p.table
}

// Read 实现 Source
func (p *Postgres) Read(ctx context.Context) (*RawTable, error) {
	if err := p.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	rows, err := p.db.QueryxContext(ctx, "SELECT * FROM "+pq.QuoteIdentifier(p.table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	t := &RawTable{Header: header}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}
