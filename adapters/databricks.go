package adapters

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/databricks/databricks-sql-go"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/builders"
)

// Register client
func init() {
	_ = register(&Databricks{}, "databricks")
}

var _ core.Adapter = (*Databricks)(nil)

type Databricks struct{}

// Connect parses the connection url and opens a pool. The url is a DSN
// structure in the format of:
//
// token:[my_token]@[hostname]:[port]/[endpoint http path]?param=value
//
// requires the 'catalog' parameter to be set. A password in params is used
// as the token when the url carries none.
//
// see https://github.com/databricks/databricks-sql-go for more information.
func (d *Databricks) Connect(params *core.PoolConfig) (core.Pool, error) {
	dsn, err := databricksDSN(params)
	if err != nil {
		return nil, err
	}

	// NOTE: no ping here, warehouses can take minutes to boot.
	return builders.Open("databricks", dsn, params,
		builders.WithErrorTranslator(translateConnError),
		builders.WithFieldType("INTERVAL", core.KindString),
	)
}

func databricksDSN(params *core.PoolConfig) (string, error) {
	raw := params.URL
	if params.Password != "" && !strings.Contains(raw, "@") {
		raw = "token:" + params.Password + "@" + raw
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse connection string: %w", err)
	}

	if parsedURL.Query().Get("catalog") == "" {
		return "", errors.New("required parameter '?catalog=<catalog>' is missing")
	}

	return parsedURL.String(), nil
}
