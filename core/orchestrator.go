package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Worker defaults of the two result paths.
const (
	DefaultRecordThreads = 12
	DefaultStringThreads = 4
)

type orchestratorConfig struct {
	threads    int
	batchSize  int
	logger     Logger
	onEvent    func(RunEvent)
	fieldTypes []map[string]FieldKind
}

type Option func(*orchestratorConfig)

// WithThreads sets the worker count of both paths.
func WithThreads(n int) Option {
	return func(c *orchestratorConfig) {
		c.threads = n
	}
}

// WithBatchSize sets the batch size, it defaults to the worker count.
func WithBatchSize(n int) Option {
	return func(c *orchestratorConfig) {
		c.batchSize = n
	}
}

func WithLogger(logger Logger) Option {
	return func(c *orchestratorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithEventHandler(fn func(RunEvent)) Option {
	return func(c *orchestratorConfig) {
		c.onEvent = fn
	}
}

// WithFieldTypes adds type table rows on top of the adapter's rows.
func WithFieldTypes(types map[string]FieldKind) Option {
	return func(c *orchestratorConfig) {
		c.fieldTypes = append(c.fieldTypes, types)
	}
}

// Orchestrator turns a list of queries into a list of results. Each call
// opens its own pool and worker group and tears both down before returning.
type Orchestrator struct {
	params  *PoolConfig
	adapter Adapter
	config  orchestratorConfig
}

func NewOrchestrator(params *PoolConfig, adapter Adapter, opts ...Option) *Orchestrator {
	config := orchestratorConfig{
		logger: NopLogger{},
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Orchestrator{
		params:  params,
		adapter: adapter,
		config:  config,
	}
}

// Records runs every query and returns their rows, result i belongs to
// query i.
func (o *Orchestrator) Records(ctx context.Context, queries []string) ([][]Record, error) {
	build := func(pool Pool, query string, opts []SourceOption) Callable[[]Record] {
		return NewQuerySource(pool, query, opts...)
	}
	return run(ctx, o, queries, DefaultRecordThreads, build)
}

// Strings runs every query and returns the first column of their rows as
// text.
func (o *Orchestrator) Strings(ctx context.Context, queries []string) ([][]string, error) {
	build := func(pool Pool, query string, opts []SourceOption) Callable[[]string] {
		return NewProjectionSource(pool, query, opts...)
	}
	return run(ctx, o, queries, DefaultStringThreads, build)
}

func run[T any](
	ctx context.Context,
	o *Orchestrator,
	queries []string,
	defaultThreads int,
	build func(Pool, string, []SourceOption) Callable[T],
) ([]T, error) {
	if len(queries) == 0 {
		return []T{}, nil
	}

	threads := o.config.threads
	if threads == 0 {
		threads = defaultThreads
	}
	batchSize := o.config.batchSize
	if batchSize == 0 {
		batchSize = threads
	}

	runID := uuid.New().String()
	params := o.params.Expand().withDefaults()
	logger := o.config.logger

	executor, err := NewParallelExecutor[T](threads,
		ExecutorWithLogger(logger),
		ExecutorWithRunID(runID),
		ExecutorWithEventHandler(o.config.onEvent),
	)
	if err != nil {
		return nil, err
	}

	logger.Debugf("run %s: executing <%d> queries using <%d> threads on %s", runID, len(queries), executor.Workers(), params.Dialect)

	pool, err := o.adapter.Connect(params)
	if err != nil {
		return nil, fmt.Errorf("adapter.Connect: %w", err)
	}
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warnf("run %s: closing pool: %s", runID, err)
		}
	}()

	var extra []map[string]FieldKind
	if provider, ok := pool.(FieldTypeProvider); ok {
		extra = append(extra, provider.FieldTypes())
	}
	types := NewFieldTypes(append(extra, o.config.fieldTypes...)...)

	opts := []SourceOption{
		SourceWithFieldTypes(types),
		SourceWithAcquireTimeout(params.AcquireTimeout),
	}
	sources := make([]Callable[T], len(queries))
	for i, query := range queries {
		sources[i] = build(pool, query, opts)
	}

	batches, err := NewBatcher(sources, batchSize)
	if err != nil {
		return nil, err
	}

	return executor.Run(ctx, batches)
}
