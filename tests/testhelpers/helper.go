// Package testhelpers provides helpers for integration tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/macwille/pquery/core"
)

// GetContainerProvider returns the container provider type to use for the tests.
// If we detect podman is available, we use it, otherwise we use docker.
func GetContainerProvider() testcontainers.ProviderType {
	if _, err := exec.LookPath("podman"); err == nil {
		fmt.Println("Podman detected. Remember to set TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED=true;")
		return testcontainers.ProviderPodman
	}
	return testcontainers.ProviderDocker
}

// RangeQueries returns n queries, each selecting the next perQuery rows of
// table ordered by id.
func RangeQueries(table string, n, perQuery int) []string {
	queries := make([]string, n)
	for i := range n {
		queries[i] = fmt.Sprintf("SELECT id, name FROM %s ORDER BY id LIMIT %d OFFSET %d", table, perQuery, i*perQuery)
	}
	return queries
}

// OffsetFetchQueries is RangeQueries for dialects without LIMIT.
func OffsetFetchQueries(table string, n, perQuery int) []string {
	queries := make([]string, n)
	for i := range n {
		queries[i] = fmt.Sprintf("SELECT id, name FROM %s ORDER BY id OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", table, i*perQuery, perQuery)
	}
	return queries
}

// RequireRanges checks that every result list holds the consecutive id range
// its query asked for.
func RequireRanges(t *testing.T, results [][]core.Record, perQuery int) {
	t.Helper()
	r := require.New(t)

	total := 0
	for i, records := range results {
		r.Len(records, perQuery, "query %d", i)
		total += len(records)

		first := records[0]
		last := records[len(records)-1]
		r.Equal(strconv.Itoa(i*perQuery), first.Field(0).String(), "query %d", i)
		r.Equal(strconv.Itoa((i+1)*perQuery-1), last.Field(0).String(), "query %d", i)
		r.Equal(fmt.Sprintf("row_%d", i*perQuery), first.Field(1).String(), "query %d", i)
	}
	r.Equal(len(results)*perQuery, total)
}

// BatchSizes collects the size of every batch reported through
// core.WithEventHandler.
type BatchSizes []int

func (b *BatchSizes) Handle(ev core.RunEvent) {
	if ev.State == core.RunStateBatchRunning {
		*b = append(*b, ev.Size)
	}
}

// GetTestDataPath returns the path to the testdata directory.
func GetTestDataPath() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	return filepath.Join(filepath.Dir(currentFile), "../testdata"), nil
}

// GetTestDataFile returns a file from the testdata directory.
func GetTestDataFile(filename string) (*os.File, error) {
	testDataPath, err := GetTestDataPath()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(testDataPath, filename)
	return os.Open(path)
}
