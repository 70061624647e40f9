//go:build cgo && ((darwin && (amd64 || arm64)) || (linux && (amd64 || arm64 || riscv64)))

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

// DuckDB is a seeded database file, opened in process like SQLiteDB.
type DuckDB struct {
	Path string
}

// NewDuckDB creates and seeds a database file in tmpDir. The seeding
// connection is closed before returning, duckdb locks the file per process.
func NewDuckDB(ctx context.Context, tmpDir string) (*DuckDB, error) {
	seedFile, err := GetTestDataFile("duckdb_seed.sql")
	if err != nil {
		return nil, err
	}
	defer seedFile.Close()

	seed, err := io.ReadAll(seedFile)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(tmpDir, "test.duckdb")
	pool, err := builders.Open("duckdb", path, &core.PoolConfig{PoolSize: 1})
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	if _, err := pool.DB().ExecContext(ctx, string(seed)); err != nil {
		return nil, fmt.Errorf("seeding %s: %w", path, err)
	}

	return &DuckDB{Path: path}, nil
}

// NewOrchestrator helper function to create a new orchestrator on the
// database file. Params are filled in where empty.
func (d *DuckDB) NewOrchestrator(params *core.PoolConfig, opts ...core.Option) (*core.Orchestrator, error) {
	if params.URL == "" {
		params.URL = d.Path
	}
	if params.Dialect == "" {
		params.Dialect = "duck"
	}

	return adapters.NewOrchestrator(params, opts...)
}
