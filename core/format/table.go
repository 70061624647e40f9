package format

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/macwille/pquery/core"
)

var _ Formatter = (*Table)(nil)

type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Name() string {
	return "table"
}

func (tf *Table) Format(records []core.Record, writer io.Writer) error {
	var tableHeaders table.Row
	for _, h := range header(records) {
		tableHeaders = append(tableHeaders, h)
	}

	tableRows := make([]table.Row, 0, len(records))
	for _, record := range records {
		row := make(table.Row, record.Len())
		for i, f := range record.Fields() {
			row[i] = f.String()
		}
		tableRows = append(tableRows, row)
	}

	t := table.NewWriter()
	t.AppendHeader(tableHeaders)
	t.AppendRows(tableRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	render := t.Render()

	_, err := writer.Write([]byte(render + "\n"))
	return err
}
