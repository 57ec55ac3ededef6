package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/source"
)

// LoadFunc 加载函数，默认为 source.Load
type LoadFunc func(ctx context.Context, src source.Source, schema string) (*model.Dataset, error)

// Cache 按数据源标识缓存已加载的数据集。
// 数据集加载后只读，可在多个请求间共享。
type Cache struct {
	schema string
	load   LoadFunc

	mu       sync.RWMutex
	datasets map[string]*model.Dataset
	// gens 每次 Invalidate 递增，加载完成时代数已变化的结果不写入缓存
	gens  map[string]uint64
	group singleflight.Group
}

// New 创建缓存，schema 为列映射版本（空或 auto 表示自动识别）
func New(schema string) *Cache {
	return NewWithLoader(schema, source.Load)
}

// NewWithLoader 使用自定义加载函数创建缓存
func NewWithLoader(schema string, load LoadFunc) *Cache {
	return &Cache{
		schema:   schema,
		load:     load,
		datasets: make(map[string]*model.Dataset),
		gens:     make(map[string]uint64),
	}
}

// Get 返回数据源对应的数据集，未缓存时加载一次。
// 并发调用共享同一次加载；加载失败不缓存。
func (c *Cache) Get(ctx context.Context, src source.Source) (*model.Dataset, error) {
	id := src.ID()

	c.mu.RLock()
	ds, ok := c.datasets[id]
	c.mu.RUnlock()
	if ok {
		return ds, nil
	}

	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		c.mu.RLock()
		ds, ok := c.datasets[id]
		gen := c.gens[id]
		c.mu.RUnlock()
		if ok {
			return ds, nil
		}

		ds, err := c.load(ctx, src, c.schema)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gens[id] == gen {
			c.datasets[id] = ds
		}
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Dataset), nil
}

// Invalidate 丢弃缓存，下次 Get 时重新加载。进行中的旧加载不会再写回缓存
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.datasets, id)
	c.gens[id]++
	c.mu.Unlock()
	c.group.Forget(id)
}

// Len 已缓存的数据集数量
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.datasets)
}
