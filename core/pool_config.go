package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	DefaultPoolSize       = 4
	DefaultAcquireTimeout = 30 * time.Second
	DefaultDialect        = "mysql"
)

// PoolConfig is handed to an adapter to open a connection pool. Values are
// passed through to the driver and not validated here.
type PoolConfig struct {
	Dialect  string
	URL      string
	Username string
	Password string
	// PoolSize is the connection ceiling of the pool.
	PoolSize int
	// AcquireTimeout bounds how long a query waits for a free connection.
	AcquireTimeout time.Duration
}

// Expand returns a copy with the string fields resolved as templates, so
// secrets can stay out of the configuration itself:
//
//	{{ env "DB_PASSWORD" }}           environment variable
//	{{ file "/run/secrets/db" }}      trimmed file contents
//	{{ exec "pass show db/main" }}    trimmed command output, pipes run through sh
//
// A field that fails to resolve is kept as written.
func (p *PoolConfig) Expand() *PoolConfig {
	return &PoolConfig{
		Dialect:        resolveOrKeep(p.Dialect),
		URL:            resolveOrKeep(p.URL),
		Username:       resolveOrKeep(p.Username),
		Password:       resolveOrKeep(p.Password),
		PoolSize:       p.PoolSize,
		AcquireTimeout: p.AcquireTimeout,
	}
}

var poolConfigFuncs = template.FuncMap{
	"env":  os.Getenv,
	"file": readSecretFile,
	"exec": commandOutput,
}

func readSecretFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return strings.TrimSpace(string(b)), err
}

func commandOutput(line string) (string, error) {
	var cmd *exec.Cmd
	if strings.Contains(line, " | ") {
		cmd = exec.Command("sh", "-c", line)
	} else {
		args := strings.Fields(line)
		if len(args) == 0 {
			return "", errors.New("no command provided")
		}
		cmd = exec.Command(args[0], args[1:]...)
	}

	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

// resolveTemplate renders one config field.
func resolveTemplate(field string) (string, error) {
	if !strings.Contains(field, "{{") {
		return field, nil
	}

	tmpl, err := template.New("pool_config").Funcs(poolConfigFuncs).Parse(field)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, nil); err != nil {
		return "", err
	}
	return out.String(), nil
}

func resolveOrKeep(field string) string {
	resolved, err := resolveTemplate(field)
	if err != nil {
		return field
	}
	return resolved
}

// withDefaults fills unset fields.
func (p *PoolConfig) withDefaults() *PoolConfig {
	out := *p
	if out.Dialect == "" {
		out.Dialect = DefaultDialect
	}
	if out.PoolSize <= 0 {
		out.PoolSize = DefaultPoolSize
	}
	if out.AcquireTimeout <= 0 {
		out.AcquireTimeout = DefaultAcquireTimeout
	}
	return &out
}

// PoolConfigFromMap reads a key-value configuration. Recognized keys are
// dialect, url, username, password, poolSize and acquireTimeout.
func PoolConfigFromMap(options map[string]string) (*PoolConfig, error) {
	poolSize := strings.TrimSpace(options["poolSize"])
	if poolSize == "" {
		poolSize = strconv.Itoa(DefaultPoolSize)
	}
	size, err := strconv.Atoi(poolSize)
	if err != nil {
		return nil, fmt.Errorf("invalid poolSize %q: %w", poolSize, err)
	}

	timeout := DefaultAcquireTimeout
	if raw := strings.TrimSpace(options["acquireTimeout"]); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid acquireTimeout %q: %w", raw, err)
		}
	}

	return &PoolConfig{
		Dialect:        options["dialect"],
		URL:            options["url"],
		Username:       options["username"],
		Password:       options["password"],
		PoolSize:       size,
		AcquireTimeout: timeout,
	}, nil
}

// MarshalJSON never writes the password.
func (p *PoolConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dialect        string `json:"dialect"`
		URL            string `json:"url"`
		Username       string `json:"username,omitempty"`
		PoolSize       int    `json:"pool_size"`
		AcquireTimeout string `json:"acquire_timeout"`
	}{
		Dialect:        p.Dialect,
		URL:            p.URL,
		Username:       p.Username,
		PoolSize:       p.PoolSize,
		AcquireTimeout: p.AcquireTimeout.String(),
	})
}
