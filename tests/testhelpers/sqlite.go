//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package testhelpers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/macwille/pquery/adapters"
	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// SQLiteDB is a seeded database file. sqlite runs in process, so unlike the
// other helpers there is no container behind it.
type SQLiteDB struct {
	Path string
}

// NewSQLiteDB creates and seeds a database file in tmpDir (usually the test
// suite tempDir).
func NewSQLiteDB(ctx context.Context, tmpDir string) (*SQLiteDB, error) {
	seedFile, err := GetTestDataFile("sqlite_seed.sql")
	if err != nil {
		return nil, err
	}
	defer seedFile.Close()

	seed, err := io.ReadAll(seedFile)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(tmpDir, "test.db")
	pool, err := builders.Open("sqlite", path, &core.PoolConfig{PoolSize: 1})
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	if _, err := pool.DB().ExecContext(ctx, string(seed)); err != nil {
		return nil, fmt.Errorf("seeding %s: %w", path, err)
	}

	return &SQLiteDB{Path: path}, nil
}

// NewOrchestrator helper function to create a new orchestrator on the
// database file. Params are filled in where empty.
func (s *SQLiteDB) NewOrchestrator(params *core.PoolConfig, opts ...core.Option) (*core.Orchestrator, error) {
	if params.URL == "" {
		params.URL = s.Path
	}
	if params.Dialect == "" {
		params.Dialect = "sqlite"
	}

	return adapters.NewOrchestrator(params, opts...)
}
