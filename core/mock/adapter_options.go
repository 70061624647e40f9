package mock

import (
	"context"
	"time"

	"github.com/macwille/pquery/core"
)

type result struct {
	columns []core.Column
	rows    []core.Row
}

type adapterConfig struct {
	querySideEffects map[string]func(context.Context) error
	queryDelays      map[string]time.Duration
	results          map[string]result
	fieldTypes       map[string]core.FieldKind
	maxConns         int
	connectErr       error

	cursorOptions []CursorOption
}

type AdapterOption func(*adapterConfig)

func AdapterWithQuerySideEffect(query string, sideEffect func(context.Context) error) AdapterOption {
	return func(c *adapterConfig) {
		_, ok := c.querySideEffects[query]
		if ok {
			panic("side effect already registered for query: " + query)
		}

		c.querySideEffects[query] = sideEffect
	}
}

// AdapterWithQueryDelay delays the execution of a query. The delay is cut
// short when the query context is canceled.
func AdapterWithQueryDelay(query string, delay time.Duration) AdapterOption {
	return func(c *adapterConfig) {
		c.queryDelays[query] = delay
	}
}

// AdapterWithResult registers the columns and rows returned for query. Nil
// columns are derived from the first row.
func AdapterWithResult(query string, columns []core.Column, rows []core.Row) AdapterOption {
	return func(c *adapterConfig) {
		_, ok := c.results[query]
		if ok {
			panic("result already registered for query: " + query)
		}

		c.results[query] = result{columns: columns, rows: rows}
	}
}

// AdapterWithMaxConns caps the connections held at once. Without it the
// pool size of the connect parameters is used.
func AdapterWithMaxConns(n int) AdapterOption {
	return func(c *adapterConfig) {
		c.maxConns = n
	}
}

func AdapterWithConnectError(err error) AdapterOption {
	return func(c *adapterConfig) {
		c.connectErr = err
	}
}

func AdapterWithFieldType(typeName string, kind core.FieldKind) AdapterOption {
	return func(c *adapterConfig) {
		c.fieldTypes[typeName] = kind
	}
}

func AdapterWithCursorOpts(opts ...CursorOption) AdapterOption {
	return func(c *adapterConfig) {
		c.cursorOptions = append(c.cursorOptions, opts...)
	}
}
