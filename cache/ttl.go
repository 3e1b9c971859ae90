package cache

import (
	"time"

	"github.com/mirtech/salesdash-go/config"
	"github.com/mirtech/salesdash-go/models"
)

// TTL tiers sourced from config (env-overridable)
var (
	DashboardTTL  = config.DashboardTTL
	MediumTermTTL = config.MediumTermTTL
	HistoricalTTL = config.HistoricalTTL
)

// TTLForPeriod maps a period classification to a cache lifetime. Recompute
// cost grows with window size while the value of freshness shrinks as the
// window recedes into history, so lifetimes step up with the lookback.
func TTLForPeriod(p models.Period) time.Duration {
	switch p {
	case models.PeriodWeek, models.PeriodTwoWeeks:
		return DashboardTTL
	case models.PeriodMonth, models.PeriodThreeMonths:
		return MediumTermTTL
	case models.PeriodSixMonths, models.PeriodNineMonths, models.PeriodOneYear:
		return HistoricalTTL
	default:
		return DashboardTTL
	}
}

// IsExpired checks if a cached item has exceeded its TTL
func IsExpired(cachedAt time.Time, ttl time.Duration) bool {
	return time.Since(cachedAt) > ttl
}
