package adapters

import (
	"github.com/google/uuid"
	mssql "github.com/microsoft/go-mssqldb"
	_ "github.com/microsoft/go-mssqldb/integratedauth/krb5"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&SQLServer{}, "sqlserver", "mssql")
}

var _ core.Adapter = (*SQLServer)(nil)

type SQLServer struct{}

func (s *SQLServer) Connect(params *core.PoolConfig) (core.Pool, error) {
	dsn, err := withCredentials(params)
	if err != nil {
		return nil, err
	}

	return builders.Open("sqlserver", dsn, params,
		builders.WithErrorTranslator(translateConnError),
		builders.WithValueProcessor("uniqueidentifier", uniqueIdentifierProcessor),
	)
}

// uniqueIdentifierProcessor turns the mixed endian wire bytes into the
// canonical uuid text.
func uniqueIdentifierProcessor(a any) any {
	b, ok := a.([]byte)
	if !ok {
		return a
	}

	var id mssql.UniqueIdentifier
	if err := id.Scan(b); err != nil {
		return a
	}

	return uuid.UUID(id).String()
}
