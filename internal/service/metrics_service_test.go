package service

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStoreOperationFeedsHistogram(t *testing.T) {
	m := NewMetricsService()

	m.ObserveStoreOperation("list", "students", 10*time.Millisecond)
	m.ObserveStoreOperation("list", "students", 20*time.Millisecond)
	m.ObserveStoreOperation("insert", "incidents", 5*time.Millisecond)

	// one series per (operation, collection) pair
	assert.Equal(t, 2, testutil.CollectAndCount(m.storeOpDuration, "store_operation_duration_seconds"))
}

func TestRecordCacheOperationCounts(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheOperation(true)
	m.RecordCacheOperation(true)
	m.RecordCacheOperation(false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheMisses))
}

func TestFallbackReadCounterByCollection(t *testing.T) {
	m := NewMetricsService()

	m.IncFallbackRead("students")
	m.IncFallbackRead("students")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.fallbackReads.WithLabelValues("students")))
}
