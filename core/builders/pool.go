package builders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/macwille/pquery/core"
)

var (
	_ core.Pool              = (*Pool)(nil)
	_ core.FieldTypeProvider = (*Pool)(nil)
	_ core.Conn              = (*Conn)(nil)
)

// default sql pool used by the adapters
type Pool struct {
	db     *sql.DB
	config poolConfig
}

func NewPool(db *sql.DB, opts ...PoolOption) *Pool {
	config := poolConfig{
		valueProcessors: make(map[string]func(any) any),
		fieldTypes:      make(map[string]core.FieldKind),
		translate:       func(err error) error { return err },
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Pool{
		db:     db,
		config: config,
	}
}

// Open opens a database handle for the driver and sizes its pool from
// params.
func Open(driver, dsn string, params *core.PoolConfig, opts ...PoolOption) (*Pool, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s database: %w", driver, err)
	}
	Configure(db, params)

	return NewPool(db, opts...), nil
}

// Configure applies the pool ceiling of params to db.
func Configure(db *sql.DB, params *core.PoolConfig) {
	if params == nil || params.PoolSize <= 0 {
		return
	}
	db.SetMaxOpenConns(params.PoolSize)
	db.SetMaxIdleConns(params.PoolSize)
}

// DB exposes the underlying handle, mostly for seeding test data.
func (p *Pool) DB() *sql.DB {
	return p.db
}

func (p *Pool) Acquire(ctx context.Context) (core.Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, p.config.translate(err)
	}

	return &Conn{
		conn:   conn,
		config: &p.config,
	}, nil
}

func (p *Pool) Close() error {
	return p.db.Close()
}

func (p *Pool) FieldTypes() map[string]core.FieldKind {
	return maps.Clone(p.config.fieldTypes)
}

// connection to use for execution
type Conn struct {
	conn   *sql.Conn
	config *poolConfig
}

func (c *Conn) Release() error {
	err := c.conn.Close()
	if errors.Is(err, sql.ErrConnDone) {
		return nil
	}
	return err
}

func (c *Conn) getValueProcessor(typ string) func(any) any {
	proc, ok := c.config.valueProcessors[core.NormalizeTypeName(typ)]
	if ok {
		return proc
	}

	return func(val any) any {
		return val
	}
}

// Query executes a query on a connection and returns a cursor over the
// first result set.
func (c *Conn) Query(ctx context.Context, query string) (core.Cursor, error) {
	dbRows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, c.config.translate(err)
	}

	dbCols, err := dbRows.ColumnTypes()
	if err != nil {
		_ = dbRows.Close()
		return nil, c.config.translate(err)
	}

	columns := make([]core.Column, len(dbCols))
	processors := make([]func(any) any, len(dbCols))
	for i, col := range dbCols {
		columns[i] = core.Column{
			Name: col.Name(),
			Type: col.DatabaseTypeName(),
		}
		processors[i] = c.getValueProcessor(col.DatabaseTypeName())
	}

	// Next on sql.Rows advances, so the answer is cached until the row is read
	advanced, has := false, false
	hasNextFunc := func() bool {
		if !advanced {
			has = dbRows.Next()
			advanced = true
		}
		return has
	}

	nextFunc := func() (core.Row, error) {
		if !hasNextFunc() {
			return nil, errors.New("no next row")
		}
		advanced = false

		values := make([]any, len(dbCols))
		pointers := make([]any, len(dbCols))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := dbRows.Scan(pointers...); err != nil {
			return nil, c.config.translate(err)
		}

		row := make(core.Row, len(dbCols))
		for i, val := range values {
			val = deref(val)
			if val == nil {
				continue
			}
			row[i] = processors[i](val)
		}

		return row, nil
	}

	cursor := NewCursorBuilder().
		WithNextFunc(nextFunc, hasNextFunc).
		WithColumns(columns).
		WithCloseFunc(func() error {
			rerr := dbRows.Err()
			cerr := dbRows.Close()
			if rerr != nil {
				return c.config.translate(rerr)
			}
			return cerr
		}).
		Build()

	return cursor, nil
}

// deref unwraps pointers some drivers return for nullable columns.
func deref(val any) any {
	v := reflect.ValueOf(val)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		// *big.Int and friends only print through the pointer
		if _, ok := v.Interface().(fmt.Stringer); ok && v.Elem().CanInterface() {
			if _, ok := v.Elem().Interface().(fmt.Stringer); !ok {
				return v.Interface()
			}
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}
