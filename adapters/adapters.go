package adapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/macwille/pquery/core"
)

var (
	errNoValidDialects    = errors.New("no valid dialects provided")
	ErrUnsupportedDialect = errors.New("no adapter registered for provided dialect")
)

var (
	// registeredAdapters holds implemented adapters - specific adapters register themselves in their init functions.
	// The main reason is to be able to compile the binary without unsupported os/arch of specific drivers.
	registeredAdapters = make(map[string]core.Adapter)
	registryMu         sync.RWMutex
)

// register registers a new adapter for specific database
func register(adapter core.Adapter, dialects ...string) error {
	if len(dialects) < 1 {
		return errNoValidDialects
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	invalidCount := 0
	for _, dialect := range dialects {
		if dialect == "" {
			invalidCount++
			continue
		}
		registeredAdapters[strings.ToLower(dialect)] = adapter
	}

	if invalidCount == len(dialects) {
		return errNoValidDialects
	}

	return nil
}

// Mux is an interface to all internal adapters.
type Mux struct{}

func (*Mux) GetAdapter(dialect string) (core.Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	adapter, ok := registeredAdapters[strings.ToLower(dialect)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}

	return adapter, nil
}

func (*Mux) AddAdapter(dialect string, adapter core.Adapter) error {
	return register(adapter, dialect)
}

// Dialects lists every registered dialect name.
func (*Mux) Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	dialects := make([]string, 0, len(registeredAdapters))
	for d := range registeredAdapters {
		dialects = append(dialects, d)
	}
	sort.Strings(dialects)
	return dialects
}

// NewOrchestrator is a wrapper around core.NewOrchestrator that picks the
// adapter registered for the dialect of params.
func NewOrchestrator(params *core.PoolConfig, opts ...core.Option) (*core.Orchestrator, error) {
	dialect := params.Expand().Dialect
	if dialect == "" {
		dialect = core.DefaultDialect
	}

	adapter, err := new(Mux).GetAdapter(dialect)
	if err != nil {
		return nil, fmt.Errorf("Mux.GetAdapter: %w", err)
	}

	return core.NewOrchestrator(params, adapter, opts...), nil
}
