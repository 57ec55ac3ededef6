package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// CSV 从本地文件或 URL 读取 CSV
type CSV struct {
	path   string
	url    string
	client *http.Client
}

// NewCSVFile 创建本地文件数据源
func NewCSVFile(path string) *CSV {
	return &CSV{path: path}
}

// NewCSVURL 创建远程 CSV 数据源，timeout 单位为秒
func NewCSVURL(url string, timeout int) *CSV {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &CSV{url: url, client: &http.Client{Timeout: t}}
}

var _ Source = (*CSV)(nil)

// ID 实现 Source
func (c *CSV) ID() string {
	if c.url != "" {
		return "csv+" + c.url
	}
	return "csv:" + c.path
}

// Read 实现 Source
func (c *CSV) Read(ctx context.Context) (*RawTable, error) {
	rc, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseCSV(rc)
}

func (c *CSV) open(ctx context.Context) (io.ReadCloser, error) {
	if c.url == "" {
		f, err := os.Open(c.path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		res.Body.Close()
		return nil, fmt.Errorf("fetch csv (status %d): %s", res.StatusCode, string(body))
	}
	return res.Body, nil
}

// ParseCSV 解析 CSV，首行为表头
func ParseCSV(r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: empty input")
	}
	return &RawTable{Header: records[0], Rows: records[1:]}, nil
}
