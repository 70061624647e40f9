// Package format renders query results.
package format

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/macwille/pquery/core"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formatter writes the records of one query.
type Formatter interface {
	Name() string
	Format(records []core.Record, writer io.Writer) error
}

var formatters = map[string]func() Formatter{
	"table": func() Formatter { return NewTable() },
	"json":  func() Formatter { return NewJSON(SchemaFul) },
	"csv":   func() Formatter { return NewCSV() },
}

// Get returns the formatter registered under name.
func Get(name string) (Formatter, error) {
	fn, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return fn(), nil
}

// Names lists the registered formatters.
func Names() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func header(records []core.Record) []string {
	if len(records) < 1 {
		return []string{}
	}
	return records[0].Names()
}
