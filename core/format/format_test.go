package format_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/macwille/pquery/core"
	"github.com/macwille/pquery/core/format"
)

func testRecords() []core.Record {
	return []core.Record{
		core.NewRecord(
			core.LongField("id", "BIGINT", 1),
			core.StringField("name", "VARCHAR", "first, row"),
			core.DateField("born", "DATE", time.Date(2000, 5, 1, 0, 0, 0, 0, time.UTC)),
		),
		core.NewRecord(
			core.LongField("id", "BIGINT", 2),
			core.NullField("name", "VARCHAR"),
			core.NullField("born", "DATE"),
		),
	}
}

func TestCSV(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	r.NoError(format.NewCSV().Format(testRecords(), &buf))

	r.Equal("id,name,born\n1,\"first, row\",2000-05-01\n2,,\n", buf.String())
}

func TestJSON(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	r.NoError(format.NewJSON(format.SchemaFul).Format(testRecords(), &buf))
	r.JSONEq(`[
		{"id": 1, "name": "first, row", "born": "2000-05-01"},
		{"id": 2, "name": null, "born": null}
	]`, buf.String())

	buf.Reset()
	single := []core.Record{
		core.NewRecord(core.StringField("name", "VARCHAR", "a")),
		core.NewRecord(core.StringField("name", "VARCHAR", "b")),
	}
	r.NoError(format.NewJSON(format.SchemaLess).Format(single, &buf))
	r.JSONEq(`["a", "b"]`, buf.String())

	buf.Reset()
	r.NoError(format.NewJSON(format.SchemaFul).Format(nil, &buf))
	r.JSONEq(`[]`, buf.String())
}

func TestTable(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	r.NoError(format.NewTable().Format(testRecords(), &buf))

	out := buf.String()
	r.Contains(out, "id")
	r.Contains(out, "first, row")
	r.Contains(out, "2000-05-01")
	r.Contains(out, "NULL")
}

func TestGet(t *testing.T) {
	r := require.New(t)

	r.Equal([]string{"csv", "json", "table"}, format.Names())

	for _, name := range format.Names() {
		f, err := format.Get(name)
		r.NoError(err)
		r.Equal(name, f.Name())
	}

	_, err := format.Get("xml")
	r.ErrorIs(err, format.ErrUnknownFormat)
}

func TestFile_Write(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "out.csv")
	r.NoError(os.WriteFile(path, []byte("stale content\n"), 0o600))

	records := []core.Record{
		core.NewRecord(core.LongField("id", "BIGINT", 1)),
	}
	file := format.NewFile(path, format.NewCSV(), nil)
	r.NoError(file.Write([][]core.Record{records, records}))

	out, err := os.ReadFile(path)
	r.NoError(err)
	r.Equal("id\n1\nid\n1\n", string(out))

	missing := format.NewFile(filepath.Join(t.TempDir(), "missing", "out.csv"), format.NewCSV(), nil)
	r.Error(missing.Write([][]core.Record{records}))
}
