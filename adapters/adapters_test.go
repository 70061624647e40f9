package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/mock"
)

func TestMux_GetAdapter(t *testing.T) {
	mux := new(Mux)

	tests := []struct {
		dialect string
		want    core.Adapter
	}{
		{dialect: "postgres", want: &Postgres{}},
		{dialect: "PG", want: &Postgres{}},
		{dialect: "redshift", want: &Redshift{}},
		{dialect: "mysql", want: &MySQL{}},
		{dialect: "mariadb", want: &MySQL{}},
		{dialect: "mssql", want: &SQLServer{}},
		{dialect: "oracle", want: &Oracle{}},
		{dialect: "clickhouse", want: &Clickhouse{}},
		{dialect: "databricks", want: &Databricks{}},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			got, err := mux.GetAdapter(tt.dialect)
			require.NoError(t, err)
			require.IsType(t, tt.want, got)
		})
	}

	_, err := mux.GetAdapter("dbase")
	require.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestRegister(t *testing.T) {
	r := require.New(t)

	r.ErrorIs(register(&Postgres{}), errNoValidDialects)
	r.ErrorIs(register(&Postgres{}, "", ""), errNoValidDialects)

	mux := new(Mux)
	r.Contains(mux.Dialects(), "postgres")
	r.Contains(mux.Dialects(), "mysql")
}

func TestNewOrchestrator(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 5))
	r.NoError(new(Mux).AddAdapter("mock-orchestrator-test", adapter))

	orchestrator, err := NewOrchestrator(&core.PoolConfig{Dialect: "Mock-Orchestrator-Test"})
	r.NoError(err)

	results, err := orchestrator.Strings(context.Background(), []string{"a", "b"})
	r.NoError(err)
	r.Equal([][]string{{"0", "1", "2", "3", "4"}, {"0", "1", "2", "3", "4"}}, results)

	_, err = NewOrchestrator(&core.PoolConfig{Dialect: "dbase"})
	r.ErrorIs(err, ErrUnsupportedDialect)
}

func TestNewOrchestrator_DialectTemplate(t *testing.T) {
	r := require.New(t)

	t.Setenv("PQUERY_TEST_DIALECT", "postgres")

	_, err := NewOrchestrator(&core.PoolConfig{Dialect: `{{ env "PQUERY_TEST_DIALECT" }}`})
	r.NoError(err)

	// empty dialect falls back to the default
	_, err = NewOrchestrator(&core.PoolConfig{})
	r.NoError(err)
}
