package testhelpers

import (
	"context"

	tc "github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/macwille/pquery/adapters"
	"github.com/macwille/pquery/core"
)

type MySQLContainer struct {
	*tcmysql.MySQLContainer
	ConnURL string
}

// NewMySQLContainer creates a new seeded MySQL container.
func NewMySQLContainer(ctx context.Context) (*MySQLContainer, error) {
	seedFile, err := GetTestDataFile("mysql_seed.sql")
	if err != nil {
		return nil, err
	}
	defer seedFile.Close()

	ctr, err := tcmysql.Run(
		ctx,
		"mysql:9.2.0",
		tc.CustomizeRequest(tc.GenericContainerRequest{
			ProviderType: GetContainerProvider(),
		}),
		tcmysql.WithDatabase("dev"),
		tcmysql.WithPassword("password"),
		tcmysql.WithUsername("root"),
		tcmysql.WithScripts(seedFile.Name()),
	)
	if err != nil {
		return nil, err
	}

	connURL, err := ctr.ConnectionString(ctx, "tls=skip-verify")
	if err != nil {
		return nil, err
	}

	return &MySQLContainer{
		MySQLContainer: ctr,
		ConnURL:        connURL,
	}, nil
}

// NewOrchestrator helper function to create a new orchestrator with the
// connection URL. Params are filled in where empty.
func (p *MySQLContainer) NewOrchestrator(params *core.PoolConfig, opts ...core.Option) (*core.Orchestrator, error) {
	if params.URL == "" {
		params.URL = p.ConnURL
	}
	if params.Dialect == "" {
		params.Dialect = "mysql"
	}

	return adapters.NewOrchestrator(params, opts...)
}
