package adapters

import (
	_ "github.com/sijms/go-ora/v2"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&Oracle{}, "oracle")
}

var oracleFieldTypes = map[string]core.FieldKind{
	// oracle dates carry a time of day
	"DATE":                           core.KindTimestamp,
	"TIMESTAMPDTY":                   core.KindTimestamp,
	"TIMESTAMPTZ_DTY":                core.KindTimestamp,
	"TIMESTAMPLTZ_DTY":               core.KindTimestamp,
	"TIMESTAMP WITH LOCAL TIME ZONE": core.KindTimestamp,

	"IBFLOAT":       core.KindDouble,
	"IBDOUBLE":      core.KindDouble,
	"BINARY_FLOAT":  core.KindDouble,
	"BINARY_DOUBLE": core.KindDouble,

	"LONG":   core.KindString,
	"ROWID":  core.KindString,
	"UROWID": core.KindString,

	"LONG RAW": core.KindBytes,
	"LONGRAW":  core.KindBytes,
}

var _ core.Adapter = (*Oracle)(nil)

type Oracle struct{}

func (o *Oracle) Connect(params *core.PoolConfig) (core.Pool, error) {
	dsn, err := withCredentials(params)
	if err != nil {
		return nil, err
	}

	opts := []builders.PoolOption{
		builders.WithErrorTranslator(translateConnError),
	}
	for typ, kind := range oracleFieldTypes {
		opts = append(opts, builders.WithFieldType(typ, kind))
	}

	return builders.Open("oracle", dsn, params, opts...)
}
