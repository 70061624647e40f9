//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package adapters

import (
	_ "modernc.org/sqlite"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&SQLite{}, "sqlite", "sqlite3")
}

var _ core.Adapter = (*SQLite)(nil)

type SQLite struct{}

func (s *SQLite) Connect(params *core.PoolConfig) (core.Pool, error) {
	return builders.Open("sqlite", params.URL, params,
		builders.WithErrorTranslator(translateConnError),
		// sqlite integers are 64 bit
		builders.WithFieldType("INTEGER", core.KindLong),
		// expression columns have no declared type
		builders.WithFieldType("", core.KindString),
	)
}
