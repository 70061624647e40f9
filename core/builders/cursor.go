package builders

import (
	"errors"
	"sync"

	"github.com/macwille/pquery/core"
)

var _ core.Cursor = (*Cursor)(nil)

// Cursor fills the core.Cursor interface for all sql dbs
type Cursor struct {
	next     func() (core.Row, error)
	hasNext  func() bool
	close    func() error
	columns  []core.Column
	once     sync.Once
	closeErr error
}

func (c *Cursor) Columns() []core.Column {
	return c.columns
}

func (c *Cursor) HasNext() bool {
	return c.hasNext()
}

func (c *Cursor) Next() (core.Row, error) {
	return c.next()
}

// Close runs the close function once. Later calls return the same error.
func (c *Cursor) Close() error {
	c.once.Do(func() {
		c.closeErr = c.close()
	})
	c.hasNext = func() bool {
		return false
	}
	return c.closeErr
}

// CursorBuilder builds the cursor
type CursorBuilder struct {
	next    func() (core.Row, error)
	hasNext func() bool
	columns []core.Column
	close   func() error
}

func NewCursorBuilder() *CursorBuilder {
	return &CursorBuilder{
		next:    func() (core.Row, error) { return nil, errors.New("no next row") },
		hasNext: func() bool { return false },
		columns: []core.Column{},
		close:   func() error { return nil },
	}
}

func (b *CursorBuilder) WithNextFunc(fn func() (core.Row, error), has func() bool) *CursorBuilder {
	b.next = fn
	b.hasNext = has
	return b
}

func (b *CursorBuilder) WithColumns(columns []core.Column) *CursorBuilder {
	b.columns = columns
	return b
}

func (b *CursorBuilder) WithCloseFunc(fn func() error) *CursorBuilder {
	b.close = fn
	return b
}

func (b *CursorBuilder) Build() *Cursor {
	return &Cursor{
		next:    b.next,
		hasNext: b.hasNext,
		columns: b.columns,
		close:   b.close,
	}
}
