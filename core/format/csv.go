package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/macwille/pquery/core"
)

var _ Formatter = (*CSV)(nil)

// CSV writes a header line and one line per record. NULL is an empty cell.
type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (cf *CSV) Name() string {
	return "csv"
}

func (cf *CSV) parse(records []core.Record) [][]string {
	data := [][]string{
		header(records),
	}
	for _, record := range records {
		row := make([]string, record.Len())
		for i, f := range record.Fields() {
			if f.IsNull() {
				continue
			}
			row[i] = f.String()
		}
		data = append(data, row)
	}

	return data
}

func (cf *CSV) Format(records []core.Record, writer io.Writer) error {
	w := csv.NewWriter(writer)

	err := w.WriteAll(cf.parse(records))
	if err != nil {
		return fmt.Errorf("w.WriteAll: %w", err)
	}

	return nil
}
