package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&Clickhouse{}, "clickhouse")
}

var clickhouseFieldTypes = map[string]core.FieldKind{
	// clickhouse counts bits, not bytes
	"INT8":   core.KindInteger,
	"INT16":  core.KindInteger,
	"INT32":  core.KindInteger,
	"UINT8":  core.KindInteger,
	"UINT16": core.KindInteger,
	"INT64":  core.KindLong,
	"UINT32": core.KindLong,
	"UINT64": core.KindLong,

	"FLOAT32": core.KindDouble,
	"FLOAT64": core.KindDouble,

	"FIXEDSTRING": core.KindString,
	"ENUM8":       core.KindString,
	"ENUM16":      core.KindString,
	"IPV4":        core.KindString,
	"IPV6":        core.KindString,

	"DATE32":     core.KindDate,
	"DATETIME64": core.KindTimestamp,
}

var _ core.Adapter = (*Clickhouse)(nil)

type Clickhouse struct{}

func (c *Clickhouse) Connect(params *core.PoolConfig) (core.Pool, error) {
	options, err := clickhouseOptions(params)
	if err != nil {
		return nil, err
	}

	db := clickhouse.OpenDB(options)
	builders.Configure(db, params)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging connection failed with %w", err)
	}

	opts := []builders.PoolOption{
		builders.WithErrorTranslator(translateConnError),
		builders.WithValueProcessor("decimal", stringerProcessor),
	}
	for typ, kind := range clickhouseFieldTypes {
		opts = append(opts, builders.WithFieldType(typ, kind))
	}

	return builders.NewPool(db, opts...), nil
}

func clickhouseOptions(params *core.PoolConfig) (*clickhouse.Options, error) {
	options, err := clickhouse.ParseDSN(params.URL)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	if params.Username != "" {
		options.Auth.Username = params.Username
	}
	if params.Password != "" {
		options.Auth.Password = params.Password
	}
	if params.PoolSize > 0 {
		options.MaxOpenConns = params.PoolSize
		options.MaxIdleConns = params.PoolSize
	}

	return options, nil
}

// stringerProcessor hands decimal types over as their text form.
func stringerProcessor(a any) any {
	s, ok := a.(fmt.Stringer)
	if !ok {
		return a
	}
	return s.String()
}
