package integration

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tsuite "github.com/stretchr/testify/suite"
	tc "github.com/testcontainers/testcontainers-go"

	"github.com/macwille/pquery/core"
	th "github.com/macwille/pquery/tests/testhelpers"
)

// ClickHouseTestSuite is the test suite for the clickhouse adapter.
type ClickHouseTestSuite struct {
	tsuite.Suite
	ctr *th.ClickHouseContainer
	ctx context.Context
}

func TestClickHouseTestSuite(t *testing.T) {
	tsuite.Run(t, new(ClickHouseTestSuite))
}

func (suite *ClickHouseTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	ctr, err := th.NewClickHouseContainer(suite.ctx)
	if err != nil {
		log.Fatal(err)
	}

	suite.ctr = ctr
}

func (suite *ClickHouseTestSuite) TeardownSuite() {
	tc.CleanupContainer(suite.T(), suite.ctr)
}

func (suite *ClickHouseTestSuite) TestShouldSplitSmallTable() {
	t := suite.T()

	var sizes th.BatchSizes
	o, err := suite.ctr.NewOrchestrator(&core.PoolConfig{PoolSize: 4},
		core.WithThreads(4),
		core.WithEventHandler(sizes.Handle),
	)
	require.NoError(t, err)

	results, err := o.Records(suite.ctx, th.RangeQueries("small_numbers", 4, 5000))
	require.NoError(t, err)

	require.Len(t, results, 4)
	th.RequireRanges(t, results, 5000)
	assert.Equal(t, th.BatchSizes{4}, sizes)

	// UInt32 does not fit an int32
	assert.Equal(t, core.KindLong, results[0][0].Field(0).Kind())
}

func (suite *ClickHouseTestSuite) TestShouldRunSequentialBatches() {
	t := suite.T()

	var sizes th.BatchSizes
	o, err := suite.ctr.NewOrchestrator(&core.PoolConfig{PoolSize: 12},
		core.WithThreads(12),
		core.WithEventHandler(sizes.Handle),
	)
	require.NoError(t, err)

	results, err := o.Records(suite.ctx, th.RangeQueries("numbers", 20, 5000))
	require.NoError(t, err)

	require.Len(t, results, 20)
	th.RequireRanges(t, results, 5000)
	assert.Equal(t, th.BatchSizes{12, 8}, sizes)
}

func (suite *ClickHouseTestSuite) TestShouldConvertTypes() {
	t := suite.T()

	o, err := suite.ctr.NewOrchestrator(&core.PoolConfig{})
	require.NoError(t, err)

	results, err := o.Records(suite.ctx, []string{
		"SELECT flag, total, amount, ratio, born, created, note FROM samples ORDER BY id",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0], 2)

	full := results[0][0]
	flag, ok := full.Field(0).AsBoolean()
	require.True(t, ok)
	assert.True(t, flag)

	total, ok := full.Field(1).AsLong()
	require.True(t, ok)
	assert.Equal(t, int64(9000000000), total)

	amount, ok := full.Field(2).AsDouble()
	require.True(t, ok)
	assert.InDelta(t, 10.25, amount, 0.0001)

	assert.Equal(t, core.KindDouble, full.Field(3).Kind())
	assert.Equal(t, core.KindDate, full.Field(4).Kind())
	assert.Equal(t, "2024-03-09", full.Field(4).String())

	created, ok := full.Field(5).AsTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 9, 14, 30, 15, 0, time.UTC), created.UTC())

	// LowCardinality(Nullable(String))
	note, ok := full.Field(6).AsString()
	require.True(t, ok)
	assert.Equal(t, "first", note)

	for _, f := range results[0][1].Fields() {
		assert.True(t, f.IsNull(), "column %s", f.Name())
	}
}

func (suite *ClickHouseTestSuite) TestShouldProjectStrings() {
	t := suite.T()

	o, err := suite.ctr.NewOrchestrator(&core.PoolConfig{})
	require.NoError(t, err)

	results, err := o.Strings(suite.ctx, []string{
		"SELECT name FROM numbers ORDER BY id LIMIT 3",
		"SELECT note FROM samples ORDER BY id",
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"row_0", "row_1", "row_2"}, {"first", ""}}, results)
}

func (suite *ClickHouseTestSuite) TestShouldErrorInvalidQuery() {
	t := suite.T()

	o, err := suite.ctr.NewOrchestrator(&core.PoolConfig{}, core.WithThreads(2))
	require.NoError(t, err)

	queries := th.RangeQueries("numbers", 3, 10)
	queries[2] = "invalid sql"

	results, err := o.Records(suite.ctx, queries)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, core.ErrBatchExecutionFailed)
	assert.ErrorIs(t, err, core.ErrQueryExecutionFailed)
	assert.ErrorContains(t, err, "Syntax error")

	var batchErr *core.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Batch)
	assert.Equal(t, 0, batchErr.Position)
}
