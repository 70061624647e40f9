package core_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macwille/pquery/core"
)

func TestNormalizeTypeName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"varchar", "VARCHAR"},
		{" decimal(10, 2) ", "DECIMAL"},
		{"Nullable(Int64)", "INT64"},
		{"LowCardinality(Nullable(String))", "STRING"},
		{"Nullable(LowCardinality(String))", "STRING"},
		{"LowCardinality(Nullable(FixedString(16)))", "FIXEDSTRING"},
		{"timestamp(6)   with time zone", "TIMESTAMP WITH TIME ZONE"},
		{"bigint unsigned", "BIGINT UNSIGNED"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, core.NormalizeTypeName(tc.input), tc.input)
	}
}

func TestFieldTypes_Total(t *testing.T) {
	r := require.New(t)

	types := core.NewFieldTypes()
	names := types.Names()
	r.NotEmpty(names)

	for _, name := range names {
		kind, err := types.Lookup(name)
		r.NoError(err, name)
		r.NotEqual(core.KindNull, kind, name)

		// null is null regardless of the type
		f, err := types.Field("col", name, nil)
		r.NoError(err)
		r.True(f.IsNull(), name)
		r.Equal(name, f.Type())
	}
}

func TestFieldTypes_Unknown(t *testing.T) {
	r := require.New(t)

	types := core.NewFieldTypes()

	_, err := types.Field("col", "GEOMETRY", "POINT(1 1)")
	r.ErrorIs(err, core.ErrUnsupportedFieldType)

	var typeErr *core.UnsupportedFieldTypeError
	r.ErrorAs(err, &typeErr)
	r.Equal("GEOMETRY", typeErr.TypeName)

	// nulls never consult the table
	f, err := types.Field("col", "GEOMETRY", nil)
	r.NoError(err)
	r.True(f.IsNull())

	// extra rows make it known
	f, err = types.With("geometry", core.KindBytes).Field("col", "GEOMETRY", "POINT(1 1)")
	r.NoError(err)
	r.Equal(core.KindBytes, f.Kind())

	_, err = types.Lookup("GEOMETRY")
	r.ErrorIs(err, core.ErrUnsupportedFieldType, "With must not modify the receiver")
}

func TestFieldTypes_Field(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 30, 15, 500, time.UTC)

	testCases := []struct {
		typeName string
		raw      any
		kind     core.FieldKind
		value    any
	}{
		{"VARCHAR(255)", "text", core.KindString, "text"},
		{"TEXT", []byte("bytes as text"), core.KindString, "bytes as text"},
		{"UUID", "9f1c", core.KindString, "9f1c"},
		{"LowCardinality(Nullable(String))", "x", core.KindString, "x"},
		{"INT", int64(42), core.KindInteger, int32(42)},
		{"INT4", int32(-7), core.KindInteger, int32(-7)},
		{"SMALLINT", []byte("12"), core.KindInteger, int32(12)},
		{"TINYINT UNSIGNED", uint8(200), core.KindInteger, int32(200)},
		{"UNSIGNED MEDIUMINT", uint32(16777215), core.KindInteger, int32(16777215)},
		{"BIGINT", int64(1) << 40, core.KindLong, int64(1) << 40},
		{"INT8", "9000000000", core.KindLong, int64(9000000000)},
		{"UNSIGNED INT", uint32(4294967295), core.KindLong, int64(4294967295)},
		{"BIGINT UNSIGNED", uint64(18), core.KindLong, int64(18)},
		{"MONEY", "12.00", core.KindLong, int64(12)},
		{"DECIMAL(10,2)", []byte("10.25"), core.KindDouble, 10.25},
		{"DOUBLE", 1.5, core.KindDouble, 1.5},
		{"REAL", float32(0.5), core.KindDouble, 0.5},
		{"NUMERIC", int64(3), core.KindDouble, 3.0},
		{"BOOLEAN", true, core.KindBoolean, true},
		{"BOOL", "f", core.KindBoolean, false},
		{"BIT", int64(1), core.KindBoolean, true},
		{"DATE", "2024-03-09", core.KindDate, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"TIME", "14:30:15", core.KindTime, time.Date(0, 1, 1, 14, 30, 15, 0, time.UTC)},
		{"TIMESTAMP", ts, core.KindTimestamp, ts},
		{"DATETIME", []byte("2024-03-09 14:30:15"), core.KindTimestamp, time.Date(2024, 3, 9, 14, 30, 15, 0, time.UTC)},
		{"BLOB", []byte{0x01, 0x02}, core.KindBytes, []byte{0x01, 0x02}},
		{"BYTEA", "ab", core.KindBytes, []byte("ab")},
	}

	types := core.NewFieldTypes()

	for _, tc := range testCases {
		t.Run(tc.typeName, func(t *testing.T) {
			r := require.New(t)

			f, err := types.Field("col", tc.typeName, tc.raw)
			r.NoError(err)

			r.Equal("col", f.Name())
			r.Equal(tc.typeName, f.Type())
			r.Equal(tc.kind, f.Kind())
			r.Equal(tc.value, f.Value())
		})
	}
}

func TestFieldTypes_ConversionErrors(t *testing.T) {
	types := core.NewFieldTypes()

	testCases := []struct {
		typeName string
		raw      any
	}{
		{"INT", int64(1) << 40},
		{"BIGINT", uint64(1) << 63},
		{"BIGINT", float64(math.MaxInt64)},
		{"BIGINT", float64(math.MinInt64) * 2},
		{"BIGINT", math.NaN()},
		{"BIGINT", "12.00"},
		{"MONEY", "n/a"},
		{"MONEY", "$"},
		{"TIME", "838:59:59"},
		{"TIME", "-00:30:00"},
		{"INT", "not a number"},
		{"DOUBLE", "pi"},
		{"BOOLEAN", "maybe"},
		{"DATE", "yesterday"},
		{"TIMESTAMP", 12},
		{"BLOB", 12},
	}

	for _, tc := range testCases {
		_, err := types.Field("col", tc.typeName, tc.raw)
		assert.Error(t, err, "%s %v", tc.typeName, tc.raw)
		assert.NotErrorIs(t, err, core.ErrUnsupportedFieldType)
	}
}

func TestFieldTypes_Provider(t *testing.T) {
	r := require.New(t)

	types := core.NewFieldTypes(
		map[string]core.FieldKind{"varchar": core.KindBytes},
		map[string]core.FieldKind{"VARCHAR": core.KindString, "Nullable(Int32)": core.KindInteger},
	)

	kind, err := types.Lookup("varchar")
	r.NoError(err)
	r.Equal(core.KindString, kind, "later maps win")

	kind, err = types.Lookup("INT32")
	r.NoError(err)
	r.Equal(core.KindInteger, kind)
}

func TestFieldTypes_Money(t *testing.T) {
	types := core.NewFieldTypes()

	testCases := []struct {
		typeName string
		raw      any
		expected int64
	}{
		{"MONEY", []byte("$1,234.00"), 1234},
		{"MONEY", "1234.5600", 1234},
		{"MONEY", "-$1,234.99", -1234},
		{"MONEY", "($5.99)", -5},
		{"MONEY", "€ 12", 12},
		{"MONEY", "$0.99", 0},
		{"MONEY", ".50", 0},
		{"MONEY", 99.9, 99},
		{"MONEY", int64(7), 7},
		{"SMALLMONEY", []byte("214748.3647"), 214748},
	}

	for _, tc := range testCases {
		f, err := types.Field("price", tc.typeName, tc.raw)
		require.NoError(t, err, "%v", tc.raw)

		v, ok := f.AsLong()
		require.True(t, ok)
		assert.Equal(t, tc.expected, v, "%v", tc.raw)
	}
}

func TestFieldTypes_ZeroDates(t *testing.T) {
	r := require.New(t)

	types := core.NewFieldTypes()

	f, err := types.Field("born", "DATE", []byte("0000-00-00"))
	r.NoError(err)
	r.True(f.IsNull())
	r.Equal("DATE", f.Type())

	f, err = types.Field("created", "DATETIME", "0000-00-00 00:00:00")
	r.NoError(err)
	r.True(f.IsNull())
}

func TestFieldTypes_LongDurations(t *testing.T) {
	r := require.New(t)

	_, err := core.NewFieldTypes().Field("elapsed", "TIME", []byte("838:59:59"))
	r.ErrorContains(err, "outside a day")

	// durations can be read as text instead
	f, err := core.NewFieldTypes(map[string]core.FieldKind{"TIME": core.KindString}).
		Field("elapsed", "TIME", []byte("838:59:59"))
	r.NoError(err)
	r.Equal("838:59:59", f.String())

	f, err = core.NewFieldTypes().Field("at", "TIME", "23:59:59")
	r.NoError(err)
	r.Equal("23:59:59", f.String())
}
