package core

import (
	"encoding/json"
	"fmt"
	"time"
)

type FieldKind int

const (
	KindNull FieldKind = iota
	KindString
	KindInteger
	KindLong
	KindDouble
	KindBoolean
	KindDate
	KindTime
	KindTimestamp
	KindBytes
)

func FieldKindFromString(s string) FieldKind {
	switch s {
	case KindString.String():
		return KindString
	case KindInteger.String():
		return KindInteger
	case KindLong.String():
		return KindLong
	case KindDouble.String():
		return KindDouble
	case KindBoolean.String():
		return KindBoolean
	case KindDate.String():
		return KindDate
	case KindTime.String():
		return KindTime
	case KindTimestamp.String():
		return KindTimestamp
	case KindBytes.String():
		return KindBytes
	default:
		return KindNull
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindTimestamp:
		return "timestamp"
	case KindBytes:
		return "bytes"
	default:
		return "null"
	}
}

// Field is one named column value of a row. Only the slot matching Kind is
// set; a null field has no value at all.
type Field struct {
	name string
	typ  string
	kind FieldKind

	str string
	i32 int32
	i64 int64
	f64 float64
	b   bool
	t   time.Time
	raw []byte
}

func NullField(name, typ string) Field {
	return Field{name: name, typ: typ, kind: KindNull}
}

func StringField(name, typ, v string) Field {
	return Field{name: name, typ: typ, kind: KindString, str: v}
}

func IntegerField(name, typ string, v int32) Field {
	return Field{name: name, typ: typ, kind: KindInteger, i32: v}
}

func LongField(name, typ string, v int64) Field {
	return Field{name: name, typ: typ, kind: KindLong, i64: v}
}

func DoubleField(name, typ string, v float64) Field {
	return Field{name: name, typ: typ, kind: KindDouble, f64: v}
}

func BooleanField(name, typ string, v bool) Field {
	return Field{name: name, typ: typ, kind: KindBoolean, b: v}
}

func DateField(name, typ string, v time.Time) Field {
	return Field{name: name, typ: typ, kind: KindDate, t: v}
}

func TimeField(name, typ string, v time.Time) Field {
	return Field{name: name, typ: typ, kind: KindTime, t: v}
}

func TimestampField(name, typ string, v time.Time) Field {
	return Field{name: name, typ: typ, kind: KindTimestamp, t: v}
}

// BytesField copies v, drivers reuse their buffers between rows.
func BytesField(name, typ string, v []byte) Field {
	raw := make([]byte, len(v))
	copy(raw, v)
	return Field{name: name, typ: typ, kind: KindBytes, raw: raw}
}

func (f Field) Name() string { return f.name }

// Type is the declared type name as reported by the driver.
func (f Field) Type() string { return f.typ }

func (f Field) Kind() FieldKind { return f.kind }

func (f Field) IsNull() bool { return f.kind == KindNull }

// Value returns the active value boxed in an interface, or nil for null fields.
func (f Field) Value() any {
	switch f.kind {
	case KindString:
		return f.str
	case KindInteger:
		return f.i32
	case KindLong:
		return f.i64
	case KindDouble:
		return f.f64
	case KindBoolean:
		return f.b
	case KindDate, KindTime, KindTimestamp:
		return f.t
	case KindBytes:
		return f.AsBytesOrNil()
	default:
		return nil
	}
}

func (f Field) AsString() (string, bool) { return f.str, f.kind == KindString }

func (f Field) AsInteger() (int32, bool) { return f.i32, f.kind == KindInteger }

func (f Field) AsLong() (int64, bool) { return f.i64, f.kind == KindLong }

func (f Field) AsDouble() (float64, bool) { return f.f64, f.kind == KindDouble }

func (f Field) AsBoolean() (bool, bool) { return f.b, f.kind == KindBoolean }

// AsTime serves the date, time and timestamp kinds.
func (f Field) AsTime() (time.Time, bool) {
	switch f.kind {
	case KindDate, KindTime, KindTimestamp:
		return f.t, true
	default:
		return time.Time{}, false
	}
}

func (f Field) AsBytes() ([]byte, bool) {
	if f.kind != KindBytes {
		return nil, false
	}
	return f.AsBytesOrNil(), true
}

// AsBytesOrNil returns a copy of the byte payload.
func (f Field) AsBytesOrNil() []byte {
	if f.kind != KindBytes {
		return nil
	}
	out := make([]byte, len(f.raw))
	copy(out, f.raw)
	return out
}

func (f Field) String() string {
	switch f.kind {
	case KindNull:
		return "NULL"
	case KindDate:
		return f.t.Format(time.DateOnly)
	case KindTime:
		return f.t.Format(time.TimeOnly)
	case KindTimestamp:
		return f.t.Format(time.RFC3339Nano)
	case KindBytes:
		return fmt.Sprintf("%x", f.raw)
	default:
		return fmt.Sprint(f.Value())
	}
}

func (f Field) MarshalJSON() ([]byte, error) {
	var value any
	switch f.kind {
	case KindDate, KindTime, KindTimestamp:
		value = f.String()
	default:
		value = f.Value()
	}

	return json.Marshal(struct {
		Name  string `json:"name"`
		Type  string `json:"type"`
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	}{
		Name:  f.name,
		Type:  f.typ,
		Kind:  f.kind.String(),
		Value: value,
	})
}
