package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/macwille/pquery/core"
)

var _ Formatter = (*JSON)(nil)

type SchemaType int

const (
	// SchemaFul renders every record as an object keyed by column name.
	SchemaFul SchemaType = iota
	// SchemaLess renders single column records as bare values and wider
	// records as arrays.
	SchemaLess
)

type JSON struct {
	schema SchemaType
}

func NewJSON(schema SchemaType) *JSON {
	return &JSON{
		schema: schema,
	}
}

func (jf *JSON) Name() string {
	return "json"
}

func value(f core.Field) any {
	switch f.Kind() {
	case core.KindDate, core.KindTime, core.KindTimestamp, core.KindBytes:
		return f.String()
	default:
		return f.Value()
	}
}

func (jf *JSON) parseSchemaFul(records []core.Record) []map[string]any {
	data := make([]map[string]any, 0, len(records))

	for _, record := range records {
		obj := make(map[string]any, record.Len())
		for _, f := range record.Fields() {
			obj[f.Name()] = value(f)
		}
		data = append(data, obj)
	}

	return data
}

func (jf *JSON) parseSchemaLess(records []core.Record) []any {
	data := make([]any, 0, len(records))

	for _, record := range records {
		fields := record.Fields()
		if len(fields) == 1 {
			data = append(data, value(fields[0]))
		} else if len(fields) > 1 {
			row := make([]any, len(fields))
			for i, f := range fields {
				row[i] = value(f)
			}
			data = append(data, row)
		}
	}
	return data
}

func (jf *JSON) Format(records []core.Record, writer io.Writer) error {
	var data any
	switch jf.schema {
	case SchemaLess:
		data = jf.parseSchemaLess(records)
	case SchemaFul:
		fallthrough
	default:
		data = jf.parseSchemaFul(records)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	_, err = writer.Write(append(out, '\n'))
	return err
}
