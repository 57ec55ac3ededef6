package source

import (
	"context"
	"strings"
)

// Source 只读表格数据源
type Source interface {
	// ID 数据源标识，用作缓存键
	ID() string
	// Read 读取全部行
	Read(ctx context.Context) (*RawTable, error)
}

// RawTable 未解析的表格，所有单元格均为字符串
type RawTable struct {
	Header []string
	Rows   [][]string
}

// normalizeHeader 去除列名首尾空白及 UTF-8 BOM
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
