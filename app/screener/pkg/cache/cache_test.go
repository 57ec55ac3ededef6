package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/source"
)

type fakeSource struct{ id string }

func (f fakeSource) ID() string { return f.id }

func (f fakeSource) Read(ctx context.Context) (*source.RawTable, error) {
	return &source.RawTable{}, nil
}

type countingLoader struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (l *countingLoader) load(ctx context.Context, src source.Source, schema string) (*model.Dataset, error) {
	l.calls.Add(1)
	time.Sleep(l.delay)
	if l.err != nil {
		return nil, l.err
	}
	return &model.Dataset{ID: "snapshot-" + src.ID(), Source: src.ID(), Schema: schema}, nil
}

func TestCache_GetMemoizes(t *testing.T) {
	l := &countingLoader{}
	c := NewWithLoader("v3", l.load)
	src := fakeSource{id: "csv:a"}

	first, err := c.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := c.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first != second {
		t.Errorf("Get() returned different snapshots")
	}
	if got := l.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	if first.Schema != "v3" {
		t.Errorf("schema = %q, want v3", first.Schema)
	}
}

func TestCache_ConcurrentGetLoadsOnce(t *testing.T) {
	l := &countingLoader{delay: 20 * time.Millisecond}
	c := NewWithLoader("", l.load)
	src := fakeSource{id: "csv:b"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), src); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := l.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestCache_KeyedBySourceIdentity(t *testing.T) {
	l := &countingLoader{}
	c := NewWithLoader("", l.load)

	a, _ := c.Get(context.Background(), fakeSource{id: "csv:a"})
	b, _ := c.Get(context.Background(), fakeSource{id: "csv:b"})
	if a.ID == b.ID {
		t.Errorf("different sources share snapshot %q", a.ID)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCache_ErrorNotCached(t *testing.T) {
	boom := errors.New("boom")
	l := &countingLoader{err: boom}
	c := NewWithLoader("", l.load)
	src := fakeSource{id: "csv:c"}

	if _, err := c.Get(context.Background(), src); !errors.Is(err, boom) {
		t.Fatalf("Get() error = %v, want boom", err)
	}
	l.err = nil
	if _, err := c.Get(context.Background(), src); err != nil {
		t.Fatalf("Get() after failure error = %v", err)
	}
	if got := l.calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
}

func TestCache_Invalidate(t *testing.T) {
	l := &countingLoader{}
	c := NewWithLoader("", l.load)
	src := fakeSource{id: "csv:d"}

	_, _ = c.Get(context.Background(), src)
	c.Invalidate(src.ID())
	_, _ = c.Get(context.Background(), src)

	if got := l.calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
}

func TestCache_InvalidateDuringLoad(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	c := NewWithLoader("v3", func(ctx context.Context, src source.Source, schema string) (*model.Dataset, error) {
		n := calls.Add(1)
		if n == 1 {
			close(entered)
			<-release
			return &model.Dataset{ID: "stale"}, nil
		}
		return &model.Dataset{ID: "fresh"}, nil
	})
	src := fakeSource{id: "csv:a"}

	done := make(chan *model.Dataset)
	go func() {
		ds, _ := c.Get(context.Background(), src)
		done <- ds
	}()

	<-entered
	c.Invalidate(src.ID())
	close(release)
	if ds := <-done; ds.ID != "stale" {
		t.Errorf("in-flight Get() = %s, want stale", ds.ID)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, stale snapshot written after Invalidate", c.Len())
	}

	ds, err := c.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ds.ID != "fresh" || calls.Load() != 2 {
		t.Errorf("Get() = %s after %d loads, want fresh after 2", ds.ID, calls.Load())
	}
}
