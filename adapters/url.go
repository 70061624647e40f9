package adapters

import (
	"fmt"
	nurl "net/url"

	"github.com/macwille/pquery/core"
)

// withCredentials sets the user info of a connection url from params.
// Credentials already in the url are kept unless params carry a username.
func withCredentials(params *core.PoolConfig) (string, error) {
	u, err := nurl.Parse(params.URL)
	if err != nil {
		return "", fmt.Errorf("could not parse db connection string: %w", err)
	}

	if params.Username != "" {
		if params.Password != "" {
			u.User = nurl.UserPassword(params.Username, params.Password)
		} else {
			u.User = nurl.User(params.Username)
		}
	}

	return u.String(), nil
}
