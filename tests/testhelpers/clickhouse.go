package testhelpers

import (
	"context"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"github.com/macwille/pquery/adapters"
	"github.com/macwille/pquery/core"
)

type ClickHouseContainer struct {
	*clickhouse.ClickHouseContainer
	ConnURL string
}

// NewClickHouseContainer creates a new seeded clickhouse container.
func NewClickHouseContainer(ctx context.Context) (*ClickHouseContainer, error) {
	seedFile, err := GetTestDataFile("clickhouse_seed.sql")
	if err != nil {
		return nil, err
	}
	defer seedFile.Close()

	ctr, err := clickhouse.Run(
		ctx,
		"clickhouse/clickhouse-server:25.1-alpine",
		tc.CustomizeRequest(tc.GenericContainerRequest{
			ProviderType: GetContainerProvider(),
		}),
		clickhouse.WithUsername("admin"),
		clickhouse.WithPassword(""),
		clickhouse.WithDatabase("dev"),
		clickhouse.WithInitScripts(seedFile.Name()),
	)
	if err != nil {
		return nil, err
	}

	connURL, err := ctr.ConnectionString(ctx)
	if err != nil {
		return nil, err
	}

	return &ClickHouseContainer{
		ClickHouseContainer: ctr,
		ConnURL:             connURL,
	}, nil
}

// NewOrchestrator helper function to create a new orchestrator with the
// connection URL. Params are filled in where empty.
func (p *ClickHouseContainer) NewOrchestrator(params *core.PoolConfig, opts ...core.Option) (*core.Orchestrator, error) {
	if params.URL == "" {
		params.URL = p.ConnURL
	}
	if params.Dialect == "" {
		params.Dialect = "clickhouse"
	}

	return adapters.NewOrchestrator(params, opts...)
}
