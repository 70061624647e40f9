package adapters

import (
	"encoding/binary"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&MySQL{}, "mysql", "mariadb")
}

var _ core.Adapter = (*MySQL)(nil)

type MySQL struct{}

func (m *MySQL) Connect(params *core.PoolConfig) (core.Pool, error) {
	dsn, err := mysqlDSN(params)
	if err != nil {
		return nil, err
	}

	return builders.Open("mysql", dsn, params,
		builders.WithErrorTranslator(translateMySQLError),
		builders.WithValueProcessor("bit", bitProcessor),
		builders.WithFieldType("YEAR", core.KindInteger),
		builders.WithFieldType("UNSIGNED DECIMAL", core.KindDouble),
		builders.WithFieldType("UNSIGNED DOUBLE", core.KindDouble),
		builders.WithFieldType("UNSIGNED FLOAT", core.KindDouble),
	)
}

func mysqlDSN(params *core.PoolConfig) (string, error) {
	cfg, err := mysql.ParseDSN(params.URL)
	if err != nil {
		return "", fmt.Errorf("could not parse db connection string: %w", err)
	}

	if params.Username != "" {
		cfg.User = params.Username
	}
	if params.Password != "" {
		cfg.Passwd = params.Password
	}

	return cfg.FormatDSN(), nil
}

// bitProcessor reads BIT(n) columns, sent as big endian bytes.
func bitProcessor(a any) any {
	b, ok := a.([]byte)
	if !ok || len(b) > 8 {
		return a
	}

	padded := make([]byte, 8)
	copy(padded[8-len(b):], b)
	return binary.BigEndian.Uint64(padded)
}
