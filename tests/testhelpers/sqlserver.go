package testhelpers

import (
	"context"

	tc "github.com/testcontainers/testcontainers-go"
	tcmssql "github.com/testcontainers/testcontainers-go/modules/mssql"

	"github.com/macwille/pquery/adapters"
	"github.com/macwille/pquery/core"
)

type SQLServerContainer struct {
	*tcmssql.MSSQLServerContainer
	ConnURL string
}

// NewSQLServerContainer creates a new seeded sqlserver container. The seed
// runs through sqlcmd once the server accepts connections.
func NewSQLServerContainer(ctx context.Context) (*SQLServerContainer, error) {
	const password = "H3ll0@W0rld"

	seedFile, err := GetTestDataFile("sqlserver_seed.sql")
	if err != nil {
		return nil, err
	}
	defer seedFile.Close()

	ctr, err := tcmssql.Run(
		ctx,
		"mcr.microsoft.com/mssql/server:2022-CU17-ubuntu-22.04",
		tcmssql.WithAcceptEULA(),
		tcmssql.WithPassword(password),
		tc.CustomizeRequest(tc.GenericContainerRequest{
			ProviderType: GetContainerProvider(),
			ContainerRequest: tc.ContainerRequest{
				Files: []tc.ContainerFile{{
					Reader:            seedFile,
					ContainerFilePath: seedFile.Name(),
					FileMode:          0o644,
				}},
			},
		}),
		tc.WithAfterReadyCommand(
			tc.NewRawCommand([]string{
				"/opt/mssql-tools18/bin/sqlcmd",
				"-S", "localhost",
				"-U", "sa",
				"-P", password,
				"-No",
				"-i", seedFile.Name(),
			}),
		),
	)
	if err != nil {
		return nil, err
	}

	connURL, err := ctr.ConnectionString(ctx, "database=dev", "encrypt=false", "TrustServerCertificate=true")
	if err != nil {
		return nil, err
	}

	return &SQLServerContainer{
		MSSQLServerContainer: ctr,
		ConnURL:              connURL,
	}, nil
}

// NewOrchestrator helper function to create a new orchestrator with the
// connection URL. Params are filled in where empty.
func (p *SQLServerContainer) NewOrchestrator(params *core.PoolConfig, opts ...core.Option) (*core.Orchestrator, error) {
	if params.URL == "" {
		params.URL = p.ConnURL
	}
	if params.Dialect == "" {
		params.Dialect = "mssql"
	}

	return adapters.NewOrchestrator(params, opts...)
}
