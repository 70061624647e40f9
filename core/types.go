package core

import "context"

type (
	// Row is a single raw row read from a cursor. A nil element is SQL NULL.
	Row []any

	// Column describes a projected column as reported by the driver.
	Column struct {
		Name string
		// Type is the database type name, e.g. "VARCHAR" or "DECIMAL(10,2)".
		Type string
	}

	// Cursor is a read-only, forward-only iterator over the rows of one query.
	Cursor interface {
		Columns() []Column
		HasNext() bool
		Next() (Row, error)
		// Close releases the underlying statement and reports any deferred
		// iteration error.
		Close() error
	}
)

type (
	// Conn is a connection acquired from a Pool. It is owned by a single
	// source for the duration of its call.
	Conn interface {
		Query(ctx context.Context, query string) (Cursor, error)
		Release() error
	}

	// Pool hands out connections. Acquire blocks while the pool is at its
	// ceiling.
	Pool interface {
		Acquire(ctx context.Context) (Conn, error)
		Close() error
	}

	// FieldTypeProvider is an optional interface for pools whose dialect
	// reports type names missing from the default table.
	FieldTypeProvider interface {
		FieldTypes() map[string]FieldKind
	}

	// Adapter opens a pool for a configuration.
	Adapter interface {
		Connect(params *PoolConfig) (Pool, error)
	}
)

// Callable is one unit of work submitted to the executor.
type Callable[T any] interface {
	Call(ctx context.Context) (T, error)
}

// CallableFunc adapts a function to Callable.
type CallableFunc[T any] func(ctx context.Context) (T, error)

func (f CallableFunc[T]) Call(ctx context.Context) (T, error) {
	return f(ctx)
}
