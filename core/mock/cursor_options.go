package mock

import (
	"time"

	"github.com/macwille/pquery/core"
)

type cursorConfig struct {
	nextSleep time.Duration
	columns   []core.Column
	close     func()
	closeErr  error
}

type CursorOption func(*cursorConfig)

func CursorWithNextSleep(s time.Duration) CursorOption {
	return func(c *cursorConfig) {
		c.nextSleep = s
	}
}

func CursorWithColumns(columns []core.Column) CursorOption {
	return func(c *cursorConfig) {
		c.columns = columns
	}
}

// CursorWithCloseFunc sets a callback run on the first Close.
func CursorWithCloseFunc(fn func()) CursorOption {
	return func(c *cursorConfig) {
		c.close = fn
	}
}

func CursorWithCloseError(err error) CursorOption {
	return func(c *cursorConfig) {
		c.closeErr = err
	}
}
