package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// defaultFieldTypes maps normalized type names to field kinds. Dialect
// specific names are added by adapters through FieldTypeProvider.
var defaultFieldTypes = map[string]FieldKind{
	"VARCHAR":           KindString,
	"CHAR":              KindString,
	"CHARACTER":         KindString,
	"CHARACTER VARYING": KindString,
	"NVARCHAR":          KindString,
	"NCHAR":             KindString,
	"VARCHAR2":          KindString,
	"NVARCHAR2":         KindString,
	"TEXT":              KindString,
	"TINYTEXT":          KindString,
	"MEDIUMTEXT":        KindString,
	"NTEXT":             KindString,
	"CLOB":              KindString,
	"NCLOB":             KindString,
	"UUID":              KindString,
	"UNIQUEIDENTIFIER":  KindString,
	"JSON":              KindString,
	"JSONB":             KindString,
	"ENUM":              KindString,
	"SET":               KindString,
	"STRING":            KindString,
	"NAME":              KindString,
	"BPCHAR":            KindString,
	"XML":               KindString,

	"INTEGER":            KindInteger,
	"INT":                KindInteger,
	"INT2":               KindInteger,
	"INT4":               KindInteger,
	"SMALLINT":           KindInteger,
	"TINYINT":            KindInteger,
	"MEDIUMINT":          KindInteger,
	"SERIAL":             KindInteger,
	"SMALLSERIAL":        KindInteger,
	"TINYINT UNSIGNED":   KindInteger,
	"SMALLINT UNSIGNED":  KindInteger,
	"MEDIUMINT UNSIGNED": KindInteger,
	"UNSIGNED TINYINT":   KindInteger,
	"UNSIGNED SMALLINT":  KindInteger,
	"UNSIGNED MEDIUMINT": KindInteger,

	// unsigned 32 bit values do not fit an int32
	"BIGINT":           KindLong,
	"INT8":             KindLong,
	"BIGSERIAL":        KindLong,
	"MONEY":            KindLong,
	"SMALLMONEY":       KindLong,
	"INT UNSIGNED":     KindLong,
	"INTEGER UNSIGNED": KindLong,
	"BIGINT UNSIGNED":  KindLong,
	"UNSIGNED INT":     KindLong,
	"UNSIGNED BIGINT":  KindLong,

	"DECIMAL":          KindDouble,
	"NUMERIC":          KindDouble,
	"NUMBER":           KindDouble,
	"DOUBLE":           KindDouble,
	"DOUBLE PRECISION": KindDouble,
	"FLOAT":            KindDouble,
	"FLOAT4":           KindDouble,
	"FLOAT8":           KindDouble,
	"REAL":             KindDouble,

	"DATE": KindDate,

	"TIME":                   KindTime,
	"TIMETZ":                 KindTime,
	"TIME WITH TIME ZONE":    KindTime,
	"TIME WITHOUT TIME ZONE": KindTime,

	"TIMESTAMP":                   KindTimestamp,
	"TIMESTAMPTZ":                 KindTimestamp,
	"DATETIME":                    KindTimestamp,
	"DATETIME2":                   KindTimestamp,
	"SMALLDATETIME":               KindTimestamp,
	"DATETIMEOFFSET":              KindTimestamp,
	"TIMESTAMP WITH TIME ZONE":    KindTimestamp,
	"TIMESTAMP WITHOUT TIME ZONE": KindTimestamp,

	"BOOLEAN": KindBoolean,
	"BOOL":    KindBoolean,
	"BIT":     KindBoolean,

	"BLOB":       KindBytes,
	"TINYBLOB":   KindBytes,
	"MEDIUMBLOB": KindBytes,
	"LONGBLOB":   KindBytes,
	"VARBINARY":  KindBytes,
	"BINARY":     KindBytes,
	"BYTEA":      KindBytes,
	"LONGTEXT":   KindBytes,
	"IMAGE":      KindBytes,
	"RAW":        KindBytes,
}

// NormalizeTypeName upper-cases a reported type name, unwraps the
// Nullable(...) and LowCardinality(...) wrappers, drops precision arguments
// and collapses whitespace: "decimal(10, 2)" becomes "DECIMAL".
func NormalizeTypeName(typeName string) string {
	name := strings.ToUpper(strings.TrimSpace(typeName))

	// wrappers nest in any order: LowCardinality(Nullable(String))
	for unwrapped := true; unwrapped; {
		unwrapped = false
		for _, wrapper := range []string{"NULLABLE(", "LOWCARDINALITY("} {
			if strings.HasPrefix(name, wrapper) && strings.HasSuffix(name, ")") {
				name = strings.TrimSpace(name[len(wrapper) : len(name)-1])
				unwrapped = true
			}
		}
	}

	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '(':
			depth++
			b.WriteRune(' ')
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// FieldTypes is the type name dispatch table. The zero value is not usable,
// use NewFieldTypes.
type FieldTypes struct {
	kinds map[string]FieldKind
}

// NewFieldTypes returns the default table extended with extra rows. Later
// maps take priority.
func NewFieldTypes(extra ...map[string]FieldKind) *FieldTypes {
	kinds := make(map[string]FieldKind, len(defaultFieldTypes))
	for name, kind := range defaultFieldTypes {
		kinds[name] = kind
	}
	for _, ex := range extra {
		for name, kind := range ex {
			kinds[NormalizeTypeName(name)] = kind
		}
	}

	return &FieldTypes{kinds: kinds}
}

// With returns a copy of the table with one more row.
func (ft *FieldTypes) With(typeName string, kind FieldKind) *FieldTypes {
	return NewFieldTypes(ft.kinds, map[string]FieldKind{typeName: kind})
}

// Lookup returns the kind registered for a reported type name.
func (ft *FieldTypes) Lookup(typeName string) (FieldKind, error) {
	kind, ok := ft.kinds[NormalizeTypeName(typeName)]
	if !ok {
		return KindNull, &UnsupportedFieldTypeError{TypeName: typeName}
	}
	return kind, nil
}

// Names lists the registered type names in sorted order.
func (ft *FieldTypes) Names() []string {
	names := make([]string, 0, len(ft.kinds))
	for name := range ft.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field builds a typed field from a raw driver value. A nil value always
// yields a null field and the type table is not consulted.
func (ft *FieldTypes) Field(name, typeName string, raw any) (Field, error) {
	if raw == nil {
		return NullField(name, typeName), nil
	}

	kind, err := ft.Lookup(typeName)
	if err != nil {
		return Field{}, err
	}

	construct, ok := fieldConstructors[kind]
	if !ok {
		return NullField(name, typeName), nil
	}

	f, err := construct(name, typeName, raw)
	if err != nil {
		return Field{}, fmt.Errorf("column %q (%s): %w", name, typeName, err)
	}
	return f, nil
}

type fieldConstructor func(name, typ string, raw any) (Field, error)

var fieldConstructors = map[FieldKind]fieldConstructor{
	KindString: func(name, typ string, raw any) (Field, error) {
		return StringField(name, typ, toString(raw)), nil
	},
	KindInteger: func(name, typ string, raw any) (Field, error) {
		v, err := toInt64(raw)
		if err != nil {
			return Field{}, err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return Field{}, fmt.Errorf("value %d overflows integer", v)
		}
		return IntegerField(name, typ, int32(v)), nil
	},
	KindLong: func(name, typ string, raw any) (Field, error) {
		convert := toInt64
		if moneyTypes[NormalizeTypeName(typ)] {
			convert = toMoney
		}
		v, err := convert(raw)
		if err != nil {
			return Field{}, err
		}
		return LongField(name, typ, v), nil
	},
	KindDouble: func(name, typ string, raw any) (Field, error) {
		v, err := toFloat64(raw)
		if err != nil {
			return Field{}, err
		}
		return DoubleField(name, typ, v), nil
	},
	KindBoolean: func(name, typ string, raw any) (Field, error) {
		v, err := toBool(raw)
		if err != nil {
			return Field{}, err
		}
		return BooleanField(name, typ, v), nil
	},
	KindDate: func(name, typ string, raw any) (Field, error) {
		if isZeroDate(raw) {
			return NullField(name, typ), nil
		}
		v, err := toTime(raw, dateLayouts)
		if err != nil {
			return Field{}, err
		}
		return DateField(name, typ, v), nil
	},
	KindTime: func(name, typ string, raw any) (Field, error) {
		if err := checkTimeOfDay(raw); err != nil {
			return Field{}, err
		}
		v, err := toTime(raw, timeLayouts)
		if err != nil {
			return Field{}, err
		}
		return TimeField(name, typ, v), nil
	},
	KindTimestamp: func(name, typ string, raw any) (Field, error) {
		if isZeroDate(raw) {
			return NullField(name, typ), nil
		}
		v, err := toTime(raw, timestampLayouts)
		if err != nil {
			return Field{}, err
		}
		return TimestampField(name, typ, v), nil
	},
	KindBytes: func(name, typ string, raw any) (Field, error) {
		switch v := raw.(type) {
		case []byte:
			return BytesField(name, typ, v), nil
		case string:
			return BytesField(name, typ, []byte(v)), nil
		default:
			return Field{}, fmt.Errorf("cannot convert %T to bytes", raw)
		}
	},
}

var (
	dateLayouts = []string{time.DateOnly, time.RFC3339Nano, "2006-01-02 15:04:05.999999999"}
	timeLayouts = []string{
		"15:04:05.999999999",
		"15:04:05.999999999Z07:00",
		"15:04:05.999999999-07",
		"0000-01-01T15:04:05.999999999Z07:00",
	}
	timestampLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999-07",
		"2006-01-02T15:04:05.999999999",
		time.DateOnly,
	}
)

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows long", v)
		}
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows long", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("value %v is not an integer", v)
		}
		return floatToInt64(v)
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", raw)
	}
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// floatToInt64 fails where int64(v) would wrap. float64(math.MaxInt64)
// rounds up to 2^63, so the upper bound is exclusive.
func floatToInt64(v float64) (int64, error) {
	if math.IsNaN(v) || v >= 1<<63 || v < -1<<63 {
		return 0, fmt.Errorf("value %v overflows long", v)
	}
	return int64(v), nil
}

var moneyTypes = map[string]bool{
	"MONEY":      true,
	"SMALLMONEY": true,
}

// toMoney reads currency values and truncates them to whole units:
// "$1,234.56" is 1234, "(5.99)" and "-$5.99" are -5. Text is expected with
// a dot as the decimal separator.
func toMoney(raw any) (int64, error) {
	var s string
	switch v := raw.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	case float64:
		return floatToInt64(math.Trunc(v))
	case float32:
		return floatToInt64(math.Trunc(float64(v)))
	case fmt.Stringer:
		s = v.String()
	default:
		return toInt64(raw)
	}

	s = strings.TrimSpace(s)
	negative := strings.Contains(s, "-") || (strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))

	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			digits.WriteRune(r)
		case r == ',', r == ' ', r == '-', r == '+', r == '(', r == ')':
		case unicode.IsLetter(r), unicode.Is(unicode.Sc, r):
			// currency symbols and codes
		default:
			return 0, fmt.Errorf("invalid money value %q", s)
		}
	}

	whole, _, _ := strings.Cut(digits.String(), ".")
	if whole == "" {
		if digits.Len() == 0 {
			return 0, fmt.Errorf("invalid money value %q", s)
		}
		whole = "0"
	}

	v, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		v = -v
	}
	return v, nil
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case interface{ Float64() float64 }:
		return v.Float64(), nil
	default:
		i, err := toInt64(raw)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %T to double", raw)
		}
		return float64(i), nil
	}
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case []byte:
		return parseBool(string(v))
	case string:
		return parseBool(v)
	default:
		i, err := toInt64(raw)
		if err != nil {
			return false, fmt.Errorf("cannot convert %T to boolean", raw)
		}
		return i != 0, nil
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "y", "yes", "on", "1":
		return true, nil
	case "f", "false", "n", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// isZeroDate reports the all zero dates mysql stores for missing values.
func isZeroDate(raw any) bool {
	var s string
	switch v := raw.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(s), "0000-00-00")
}

// checkTimeOfDay rejects durations, such as mysql TIME values above
// 23:59:59 or below zero, which have no time of day form.
func checkTimeOfDay(raw any) error {
	var s string
	switch v := raw.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return nil
	}

	s = strings.TrimSpace(s)
	hours, _, ok := strings.Cut(s, ":")
	if !ok {
		return nil
	}
	h, err := strconv.Atoi(hours)
	if err != nil {
		return nil
	}
	if h < 0 || h > 23 || strings.HasPrefix(s, "-") {
		return fmt.Errorf("time %q is outside a day", s)
	}
	return nil
}

func toTime(raw any, layouts []string) (time.Time, error) {
	var s string
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", raw)
	}

	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", s)
}
