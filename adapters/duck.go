//go:build cgo && ((darwin && (amd64 || arm64)) || (linux && (amd64 || arm64 || riscv64)))

package adapters

import (
	"github.com/google/uuid"
	"github.com/marcboeker/go-duckdb"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&Duck{}, "duck", "duckdb")
}

var duckFieldTypes = map[string]core.FieldKind{
	"UTINYINT":  core.KindInteger,
	"USMALLINT": core.KindInteger,
	"UINTEGER":  core.KindLong,
	"UBIGINT":   core.KindLong,

	// 128 bit integers arrive as *big.Int
	"HUGEINT": core.KindString,

	"TIMESTAMP_S":  core.KindTimestamp,
	"TIMESTAMP_MS": core.KindTimestamp,
	"TIMESTAMP_NS": core.KindTimestamp,
}

var _ core.Adapter = (*Duck)(nil)

type Duck struct{}

func (d *Duck) Connect(params *core.PoolConfig) (core.Pool, error) {
	opts := []builders.PoolOption{
		builders.WithErrorTranslator(translateConnError),
		builders.WithValueProcessor("uuid", func(a any) any {
			b, ok := a.([]byte)
			if !ok {
				return a
			}
			id, err := uuid.FromBytes(b)
			if err != nil {
				return a
			}
			return id.String()
		}),
		builders.WithValueProcessor("decimal", func(a any) any {
			dec, ok := a.(duckdb.Decimal)
			if !ok {
				return a
			}
			return dec.Float64()
		}),
	}
	for typ, kind := range duckFieldTypes {
		opts = append(opts, builders.WithFieldType(typ, kind))
	}

	return builders.Open("duckdb", params.URL, params, opts...)
}
