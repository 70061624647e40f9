package testhelpers

import (
	"context"

	tc "github.com/testcontainers/testcontainers-go"
	tcpsql "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/macwille/pquery/adapters"
	"github.com/macwille/pquery/core"
)

type PostgresContainer struct {
	*tcpsql.PostgresContainer
	ConnURL string
}

// NewPostgresContainer creates a new seeded postgres container.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	seedFile, err := GetTestDataFile("postgres_seed.sql")
	if err != nil {
		return nil, err
	}
	defer seedFile.Close()

	ctr, err := tcpsql.Run(
		ctx,
		"postgres:16-alpine",
		tcpsql.BasicWaitStrategies(),
		tc.CustomizeRequest(tc.GenericContainerRequest{
			ProviderType: GetContainerProvider(),
		}),
		tcpsql.WithInitScripts(seedFile.Name()),
		tcpsql.WithDatabase("dev"),
	)
	if err != nil {
		return nil, err
	}
	connURL, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}

	return &PostgresContainer{
		PostgresContainer: ctr,
		ConnURL:           connURL,
	}, nil
}

// NewOrchestrator helper function to create a new orchestrator with the
// connection URL. Params are filled in where empty.
func (p *PostgresContainer) NewOrchestrator(params *core.PoolConfig, opts ...core.Option) (*core.Orchestrator, error) {
	if params.URL == "" {
		params.URL = p.ConnURL
	}
	if params.Dialect == "" {
		params.Dialect = "postgres"
	}

	return adapters.NewOrchestrator(params, opts...)
}
