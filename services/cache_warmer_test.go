package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirtech/salesdash-go/cache"
	"github.com/mirtech/salesdash-go/config"
	"github.com/mirtech/salesdash-go/models"
)

func TestWarmHistoricalPeriodsPreloadsCache(t *testing.T) {
	store := seededFakeStore(10)
	cm := cache.NewManager()
	as := NewAggregationService(cm, store)
	as.SetClock(fixedClock(testNow))
	ps := NewPaginationService(cm, store)
	ps.SetClock(fixedClock(testNow))

	NewCacheWarmingService(as, ps).WarmHistoricalPeriods(context.Background())
	queriesAfterWarming := store.queries

	// Every warmed endpoint is now answered by the cache alone.
	for _, period := range models.HistoricalPeriods {
		_, err := as.ChartData(context.Background(), period)
		require.NoError(t, err)
		_, err = as.Summary(context.Background(), period)
		require.NoError(t, err)
		_, err = ps.Page(context.Background(), period, 0, config.DefaultPageLimit)
		require.NoError(t, err)
	}
	assert.Equal(t, queriesAfterWarming, store.queries)
}

func TestWarmHistoricalPeriodsSurvivesFailures(t *testing.T) {
	store := &fakeStore{fail: true}
	cm := cache.NewManager()
	as := NewAggregationService(cm, store)
	as.SetClock(fixedClock(testNow))
	ps := NewPaginationService(cm, store)
	ps.SetClock(fixedClock(testNow))

	// Must not panic or cache anything on a dead store.
	NewCacheWarmingService(as, ps).WarmHistoricalPeriods(context.Background())
	assert.Equal(t, 0, cm.Len())
}
