package mock

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/macwille/pquery/core"
)

var _ core.Cursor = (*Cursor)(nil)

type Cursor struct {
	rows   []core.Row
	index  int
	config *cursorConfig
	once   sync.Once
}

// NewCursor returns a mocked cursor over the provided rows. Unless columns
// are given, it names them <header_0>, <header_1>, etc. and guesses their
// types from the values of the first row.
func NewCursor(rows []core.Row, opts ...CursorOption) *Cursor {
	config := &cursorConfig{
		columns: makeDefaultColumns(rows),
		close:   func() {},
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Cursor{
		rows:   rows,
		config: config,
	}
}

func (c *Cursor) Columns() []core.Column {
	return c.config.columns
}

func (c *Cursor) HasNext() bool {
	return c.index < len(c.rows)
}

func (c *Cursor) Next() (core.Row, error) {
	time.Sleep(c.config.nextSleep)

	if !c.HasNext() {
		return nil, errors.New("no next row")
	}

	row := c.rows[c.index]
	c.index++
	return row, nil
}

func (c *Cursor) Close() error {
	c.once.Do(c.config.close)
	return c.config.closeErr
}

func makeDefaultColumns(rows []core.Row) []core.Column {
	if len(rows) < 1 {
		return []core.Column{}
	}

	columns := make([]core.Column, len(rows[0]))
	for i, val := range rows[0] {
		columns[i] = core.Column{
			Name: fmt.Sprintf("header_%d", i),
			Type: typeOf(val),
		}
	}
	return columns
}

func typeOf(val any) string {
	switch val.(type) {
	case int, int64, uint64:
		return "BIGINT"
	case int8, int16, int32, uint8, uint16:
		return "INTEGER"
	case float32, float64:
		return "DOUBLE"
	case bool:
		return "BOOLEAN"
	case time.Time:
		return "TIMESTAMP"
	case []byte:
		return "BLOB"
	default:
		return "VARCHAR"
	}
}

// NewRows returns a slice of rows in form of:
//
//	{ <index>(int), "row_<index>"(string) }
//
// where the first index is "from" and the last one is one less than "to".
func NewRows(from, to int) []core.Row {
	var rows []core.Row

	for i := from; i < to; i++ {
		rows = append(rows, core.Row{i, fmt.Sprintf("row_%d", i)})
	}
	return rows
}
