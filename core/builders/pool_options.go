package builders

import (
	"github.com/macwille/pquery/core"
)

type poolConfig struct {
	valueProcessors map[string]func(any) any
	fieldTypes      map[string]core.FieldKind
	translate       func(error) error
}

type PoolOption func(*poolConfig)

// WithValueProcessor converts non-null values of a database type before
// they reach the type dispatch. Type names match after normalization, so
// "decimal" also serves "Nullable(Decimal(9, 2))".
func WithValueProcessor(typ string, fn func(any) any) PoolOption {
	return func(c *poolConfig) {
		t := core.NormalizeTypeName(typ)
		_, ok := c.valueProcessors[t]
		if ok {
			// processor already registered for this type
			return
		}

		c.valueProcessors[t] = fn
	}
}

// WithFieldType adds a row to the type table of every query run on the pool.
func WithFieldType(typ string, kind core.FieldKind) PoolOption {
	return func(c *poolConfig) {
		c.fieldTypes[typ] = kind
	}
}

// WithErrorTranslator rewrites driver errors returned by the pool, its
// connections and cursors.
func WithErrorTranslator(fn func(error) error) PoolOption {
	return func(c *poolConfig) {
		if fn != nil {
			c.translate = fn
		}
	}
}
