package adapters

import (
	"context"
	"time"

	_ "github.com/lib/pq"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&Postgres{}, "postgres", "postgresql", "pg")
	_ = register(&Redshift{}, "redshift")
}

var postgresFieldTypes = map[string]core.FieldKind{
	"OID":     core.KindLong,
	"INET":    core.KindString,
	"CIDR":    core.KindString,
	"MACADDR": core.KindString,
	"CITEXT":  core.KindString,
	// arrays arrive in their text form
	"_TEXT":    core.KindString,
	"_VARCHAR": core.KindString,
	"_INT4":    core.KindString,
	"_INT8":    core.KindString,
}

var _ core.Adapter = (*Postgres)(nil)

type Postgres struct{}

func (p *Postgres) Connect(params *core.PoolConfig) (core.Pool, error) {
	dsn, err := withCredentials(params)
	if err != nil {
		return nil, err
	}

	return builders.Open("postgres", dsn, params, postgresOptions()...)
}

func postgresOptions() []builders.PoolOption {
	opts := []builders.PoolOption{
		builders.WithErrorTranslator(translatePostgresError),
	}
	for typ, kind := range postgresFieldTypes {
		opts = append(opts, builders.WithFieldType(typ, kind))
	}
	return opts
}

var _ core.Adapter = (*Redshift)(nil)

// Redshift speaks the postgres protocol. Unlike postgres, the cluster is
// pinged on connect.
type Redshift struct{}

func (r *Redshift) Connect(params *core.PoolConfig) (core.Pool, error) {
	dsn, err := withCredentials(params)
	if err != nil {
		return nil, err
	}

	opts := append(postgresOptions(), builders.WithFieldType("SUPER", core.KindString))
	pool, err := builders.Open("postgres", dsn, params, opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.DB().PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, translatePostgresError(err)
	}

	return pool, nil
}
