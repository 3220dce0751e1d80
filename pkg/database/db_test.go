package database_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bloodbank/pkg/database"
	"github.com/shashiranjanraj/bloodbank/pkg/metrics"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestOpenSqliteInstrumentsQueries(t *testing.T) {
	db, err := database.Open("sqlite", "file:instrument?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	before := testutil.CollectAndCount(metrics.DBQueryDuration)
	var n int
	require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.DBQueryDuration), before)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.DBQueryDuration), 1)
}
