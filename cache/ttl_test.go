package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mirtech/salesdash-go/models"
)

func TestTTLGrowsWithLookback(t *testing.T) {
	week := TTLForPeriod(models.PeriodWeek)
	month := TTLForPeriod(models.PeriodMonth)
	sixMonths := TTLForPeriod(models.PeriodSixMonths)

	assert.Less(t, week, month)
	assert.Less(t, month, sixMonths)
}

func TestTTLTiers(t *testing.T) {
	tests := []struct {
		period models.Period
		want   time.Duration
	}{
		{models.PeriodWeek, DashboardTTL},
		{models.PeriodTwoWeeks, DashboardTTL},
		{models.PeriodMonth, MediumTermTTL},
		{models.PeriodThreeMonths, MediumTermTTL},
		{models.PeriodSixMonths, HistoricalTTL},
		{models.PeriodNineMonths, HistoricalTTL},
		{models.PeriodOneYear, HistoricalTTL},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TTLForPeriod(tt.period), "period %s", tt.period)
	}
}

func TestIsExpired(t *testing.T) {
	assert.False(t, IsExpired(time.Now(), time.Minute))
	assert.True(t, IsExpired(time.Now().Add(-2*time.Minute), time.Minute))
}
