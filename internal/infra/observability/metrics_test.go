package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEngineSnapshot_Empty(t *testing.T) {
	snap := NewMetrics().GetEngineSnapshot()

	assert.Equal(t, int64(0), snap.TotalRequests)
	assert.Equal(t, 0.0, snap.ErrorRate)
	assert.Equal(t, 0.0, snap.ThresholdHitRate)
	assert.Empty(t, snap.InsightsGenerated)
	assert.Equal(t, "all_time", snap.Period)
}

func TestGetEngineSnapshot_Counts(t *testing.T) {
	m := NewMetrics()
	m.IncrRequest("success")
	m.IncrRequest("success")
	m.IncrRequest("success")
	m.IncrRequest("error")
	m.IncrStoreError("list_sales")
	m.IncrStoreError("get_customer")
	m.IncrCacheHit(CacheLTVThreshold)
	m.IncrCacheHit(CacheLTVThreshold)
	m.IncrCacheHit(CacheLTVThreshold)
	m.IncrCacheMiss(CacheLTVThreshold)
	m.IncrInsight("churn_risk")
	m.IncrInsight("churn_risk")
	m.IncrInsight("low_sentiment")
	m.RecordRequestDuration("customer_profile", 25*time.Millisecond)

	snap := m.GetEngineSnapshot()

	assert.Equal(t, int64(4), snap.TotalRequests)
	assert.InDelta(t, 0.25, snap.ErrorRate, 1e-9)
	assert.Equal(t, int64(2), snap.StoreErrors)
	assert.InDelta(t, 0.75, snap.ThresholdHitRate, 1e-9)
	assert.Equal(t, map[string]int64{"churn_risk": 2, "low_sentiment": 1}, snap.InsightsGenerated)
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "retail-insights", "", false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "nonsense", ""} {
		assert.NotNil(t, NewLogger(level), level)
	}
}
