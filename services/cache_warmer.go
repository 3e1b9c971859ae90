package services

import (
	"context"
	"log"
	"time"

	"github.com/mirtech/salesdash-go/config"
	"github.com/mirtech/salesdash-go/models"
)

// CacheWarmingService preloads the long-horizon periods shortly after boot
// so the first dashboard visit never pays their full scan cost. It can only
// populate the cache; nothing it does is visible to request handling, and
// every failure is logged and discarded.
type CacheWarmingService struct {
	aggregation *AggregationService
	pagination  *PaginationService
}

// NewCacheWarmingService creates a new cache warmer.
func NewCacheWarmingService(aggregation *AggregationService, pagination *PaginationService) *CacheWarmingService {
	return &CacheWarmingService{
		aggregation: aggregation,
		pagination:  pagination,
	}
}

// WarmHistoricalPeriods computes and caches chart data, summary stats and
// the first table page for each historical period. Best effort throughout:
// a failed period is skipped, never retried, never fatal.
func (cws *CacheWarmingService) WarmHistoricalPeriods(ctx context.Context) {
	started := time.Now()
	log.Printf("Cache warming started for %d historical periods", len(models.HistoricalPeriods))

	for _, period := range models.HistoricalPeriods {
		if _, err := cws.aggregation.ChartData(ctx, period); err != nil {
			log.Printf("WARNING: cache warming: chart data for %s failed: %v", period, err)
			continue
		}
		if _, err := cws.aggregation.Summary(ctx, period); err != nil {
			log.Printf("WARNING: cache warming: summary for %s failed: %v", period, err)
			continue
		}
		if _, err := cws.pagination.Page(ctx, period, 0, config.DefaultPageLimit); err != nil {
			log.Printf("WARNING: cache warming: first page for %s failed: %v", period, err)
			continue
		}
		log.Printf("Cache warming: preloaded %s", period)
	}

	log.Printf("Cache warming completed in %v", time.Since(started))
}

// Start launches warming as a detached background task.
func (cws *CacheWarmingService) Start() {
	go cws.WarmHistoricalPeriods(context.Background())
}
