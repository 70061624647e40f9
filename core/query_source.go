package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

type sourceConfig struct {
	types          *FieldTypes
	acquireTimeout time.Duration
}

type SourceOption func(*sourceConfig)

func SourceWithFieldTypes(types *FieldTypes) SourceOption {
	return func(c *sourceConfig) {
		if types != nil {
			c.types = types
		}
	}
}

// SourceWithAcquireTimeout bounds the wait for a pooled connection.
func SourceWithAcquireTimeout(d time.Duration) SourceOption {
	return func(c *sourceConfig) {
		c.acquireTimeout = d
	}
}

func newSourceConfig(opts []SourceOption) sourceConfig {
	config := sourceConfig{
		types: NewFieldTypes(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

var (
	_ Callable[[]Record] = (*QuerySource)(nil)
	_ Callable[[]string] = (*ProjectionSource)(nil)
)

// QuerySource binds a pool and a query. Call runs the query once and turns
// every row into a Record.
type QuerySource struct {
	pool   Pool
	query  string
	config sourceConfig
	used   atomic.Bool
}

func NewQuerySource(pool Pool, query string, opts ...SourceOption) *QuerySource {
	return &QuerySource{
		pool:   pool,
		query:  query,
		config: newSourceConfig(opts),
	}
}

func (s *QuerySource) Query() string {
	return s.query
}

func (s *QuerySource) Call(ctx context.Context) ([]Record, error) {
	if !s.used.CompareAndSwap(false, true) {
		return nil, ErrSourceReused
	}

	records := make([]Record, 0)
	err := execute(ctx, s.pool, s.query, s.config.acquireTimeout, func(cursor Cursor) error {
		columns := cursor.Columns()

		for cursor.HasNext() {
			row, err := cursor.Next()
			if err != nil {
				return fmt.Errorf("cursor.Next: %w", err)
			}

			record, err := s.record(columns, row)
			if err != nil {
				return err
			}
			records = append(records, record)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// record extracts every column of the row before the cursor moves on.
func (s *QuerySource) record(columns []Column, row Row) (Record, error) {
	if len(row) < len(columns) {
		return Record{}, fmt.Errorf("row has %d values for %d columns", len(row), len(columns))
	}

	fields := make([]Field, len(columns))
	for i, col := range columns {
		f, err := s.config.types.Field(col.Name, col.Type, row[i])
		if err != nil {
			return Record{}, err
		}
		fields[i] = f
	}

	return Record{fields: fields}, nil
}

// ProjectionSource returns the first column of every row as text. SQL NULL
// becomes an empty string.
type ProjectionSource struct {
	pool   Pool
	query  string
	config sourceConfig
	used   atomic.Bool
}

func NewProjectionSource(pool Pool, query string, opts ...SourceOption) *ProjectionSource {
	return &ProjectionSource{
		pool:   pool,
		query:  query,
		config: newSourceConfig(opts),
	}
}

func (s *ProjectionSource) Query() string {
	return s.query
}

func (s *ProjectionSource) Call(ctx context.Context) ([]string, error) {
	if !s.used.CompareAndSwap(false, true) {
		return nil, ErrSourceReused
	}

	values := make([]string, 0)
	err := execute(ctx, s.pool, s.query, s.config.acquireTimeout, func(cursor Cursor) error {
		if len(cursor.Columns()) < 1 {
			return errors.New("query returned no columns")
		}

		for cursor.HasNext() {
			row, err := cursor.Next()
			if err != nil {
				return fmt.Errorf("cursor.Next: %w", err)
			}
			if len(row) < 1 || row[0] == nil {
				values = append(values, "")
				continue
			}
			values = append(values, toString(row[0]))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// execute acquires a connection, runs the query and hands the cursor to fn.
// Cursor and connection are released before it returns, whatever happens.
func execute(ctx context.Context, pool Pool, query string, acquireTimeout time.Duration, fn func(Cursor) error) (err error) {
	wrap := func(err error) error {
		if errors.Is(err, ErrUnsupportedFieldType) {
			return err
		}
		return &QueryError{Query: query, Err: err}
	}

	acquireCtx := ctx
	if acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, acquireTimeout)
		defer cancel()
	}

	conn, err := pool.Acquire(acquireCtx)
	if err != nil {
		return wrap(fmt.Errorf("pool.Acquire: %w", err))
	}
	defer func() {
		if rerr := conn.Release(); rerr != nil && err == nil {
			err = wrap(fmt.Errorf("conn.Release: %w", rerr))
		}
	}()

	cursor, err := conn.Query(ctx, query)
	if err != nil {
		return wrap(fmt.Errorf("conn.Query: %w", err))
	}
	defer func() {
		if cerr := cursor.Close(); cerr != nil && err == nil {
			err = wrap(fmt.Errorf("cursor.Close: %w", cerr))
		}
	}()

	if err := fn(cursor); err != nil {
		return wrap(err)
	}

	return nil
}
