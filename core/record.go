package core

import "encoding/json"

// Record is one row: fields in cursor column order. It is never modified
// after creation.
type Record struct {
	fields []Field
}

func NewRecord(fields ...Field) Record {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return Record{fields: fs}
}

func (r Record) Len() int {
	return len(r.fields)
}

func (r Record) Field(i int) Field {
	return r.fields[i]
}

// Fields returns a copy of the record's fields.
func (r Record) Fields() []Field {
	fs := make([]Field, len(r.fields))
	copy(fs, r.fields)
	return fs
}

// Get returns the first field with the given column name.
func (r Record) Get(name string) (Field, bool) {
	for _, f := range r.fields {
		if f.name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.name
	}
	return names
}

func (r Record) Values() []any {
	values := make([]any, len(r.fields))
	for i, f := range r.fields {
		values[i] = f.Value()
	}
	return values
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.fields)
}
