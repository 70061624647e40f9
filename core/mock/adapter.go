package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/macwille/pquery/core"
)

var (
	_ core.Adapter           = (*Adapter)(nil)
	_ core.Pool              = (*Pool)(nil)
	_ core.FieldTypeProvider = (*Pool)(nil)
	_ core.Conn              = (*conn)(nil)
)

var ErrPoolClosed = errors.New("pool is closed")

// Stats counts what happened on a pool.
type Stats struct {
	Acquired      int
	Released      int
	Queries       int
	CursorsClosed int
	// MaxInUse is the highest number of connections held at the same time.
	MaxInUse int
	Closed   bool
}

// Adapter hands out in-memory pools. Every query returns the adapter's rows
// unless a result was registered for that query.
type Adapter struct {
	rows   []core.Row
	config *adapterConfig

	mu    sync.Mutex
	pools []*Pool
}

func NewAdapter(rows []core.Row, opts ...AdapterOption) *Adapter {
	config := &adapterConfig{
		querySideEffects: make(map[string]func(context.Context) error),
		queryDelays:      make(map[string]time.Duration),
		results:          make(map[string]result),
		fieldTypes:       make(map[string]core.FieldKind),

		cursorOptions: []CursorOption{},
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Adapter{
		rows:   rows,
		config: config,
	}
}

func (a *Adapter) Connect(params *core.PoolConfig) (core.Pool, error) {
	if a.config.connectErr != nil {
		return nil, a.config.connectErr
	}

	maxConns := a.config.maxConns
	if maxConns == 0 && params != nil {
		maxConns = params.PoolSize
	}

	pool := &Pool{
		rows:   a.rows,
		config: a.config,
	}
	if maxConns > 0 {
		pool.sem = make(chan struct{}, maxConns)
	}

	a.mu.Lock()
	a.pools = append(a.pools, pool)
	a.mu.Unlock()

	return pool, nil
}

// Pools returns every pool created by Connect, oldest first.
func (a *Adapter) Pools() []*Pool {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*Pool, len(a.pools))
	copy(out, a.pools)
	return out
}

// LastPool returns the most recent pool or nil if Connect was never called.
func (a *Adapter) LastPool() *Pool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.pools) < 1 {
		return nil
	}
	return a.pools[len(a.pools)-1]
}

type Pool struct {
	rows   []core.Row
	config *adapterConfig
	sem    chan struct{}

	mu    sync.Mutex
	stats Stats
	inUse int
}

func (p *Pool) Acquire(ctx context.Context) (core.Conn, error) {
	if p.Stats().Closed {
		return nil, ErrPoolClosed
	}

	if p.sem != nil {
		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	p.stats.Acquired++
	p.inUse++
	p.stats.MaxInUse = max(p.stats.MaxInUse, p.inUse)
	p.mu.Unlock()

	return &conn{pool: p}, nil
}

func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stats.Closed {
		return ErrPoolClosed
	}
	p.stats.Closed = true
	return nil
}

func (p *Pool) FieldTypes() map[string]core.FieldKind {
	return p.config.fieldTypes
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Pool) release() {
	p.mu.Lock()
	p.stats.Released++
	p.inUse--
	p.mu.Unlock()

	if p.sem != nil {
		<-p.sem
	}
}

func (p *Pool) cursorClosed() {
	p.mu.Lock()
	p.stats.CursorsClosed++
	p.mu.Unlock()
}

type conn struct {
	pool     *Pool
	released atomic.Bool
}

func (c *conn) Query(ctx context.Context, query string) (core.Cursor, error) {
	config := c.pool.config

	if delay, ok := config.queryDelays[query]; ok {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if eff, ok := config.querySideEffects[query]; ok {
		if err := eff(ctx); err != nil {
			return nil, fmt.Errorf("side effect error: %w", err)
		}
	}

	c.pool.mu.Lock()
	c.pool.stats.Queries++
	c.pool.mu.Unlock()

	opts := append([]CursorOption{}, config.cursorOptions...)
	opts = append(opts, CursorWithCloseFunc(c.pool.cursorClosed))

	res, ok := config.results[query]
	if !ok {
		return NewCursor(c.pool.rows, opts...), nil
	}
	if res.columns != nil {
		opts = append(opts, CursorWithColumns(res.columns))
	}
	return NewCursor(res.rows, opts...), nil
}

func (c *conn) Release() error {
	if !c.released.CompareAndSwap(false, true) {
		return errors.New("connection already released")
	}
	c.pool.release()
	return nil
}
