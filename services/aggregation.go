// Package services implements the dashboard's aggregation, pagination and
// cache-warming logic on top of the fact store and the TTL cache.
package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mirtech/salesdash-go/cache"
	"github.com/mirtech/salesdash-go/models"
)

// FactReader is the slice of the fact store the services consume. The
// dataset behind it is read-only for the lifetime of the process.
type FactReader interface {
	FactsInWindow(ctx context.Context, start, end time.Time, offset, limit int) ([]models.FactRecord, error)
	SearchByProduct(ctx context.Context, query string, offset, limit int) ([]models.FactRecord, error)
	RevenueByDay(ctx context.Context, start, end time.Time) ([]models.RevenuePoint, error)
	TransactionsByDay(ctx context.Context, start, end time.Time) ([]models.TransactionPoint, error)
	PaymentMethodCounts(ctx context.Context, start, end time.Time) (map[string]int, error)
	OrderStatusCounts(ctx context.Context, start, end time.Time) (map[string]int, error)
	TransactionStatusCounts(ctx context.Context, start, end time.Time) (map[string]int, error)
	WindowTotals(ctx context.Context, start, end time.Time) (models.WindowTotals, error)
}

// AggregationService computes chart payloads and summary statistics for a
// period, caching results under the adaptive TTL policy. Only side effect
// is the cache write on a miss.
type AggregationService struct {
	cache *cache.Manager
	store FactReader
	now   func() time.Time
}

// NewAggregationService creates a new aggregation service.
func NewAggregationService(cacheManager *cache.Manager, store FactReader) *AggregationService {
	return &AggregationService{
		cache: cacheManager,
		store: store,
		now:   time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (as *AggregationService) SetClock(now func() time.Time) {
	as.now = now
}

// ChartData returns the pre-aggregated chart payload for a period. A cache
// hit returns the stored payload unchanged, with no re-validation against
// the dataset.
func (as *AggregationService) ChartData(ctx context.Context, period models.Period) (*models.ChartPayload, error) {
	key := cache.QueryDescriptor{Endpoint: cache.EndpointChartStats, Period: period}.Key()
	if cached, ok := as.cache.Get(key); ok {
		return cached.(*models.ChartPayload), nil
	}

	start, end := period.Window(as.now().UTC())

	revenueByDay, err := as.store.RevenueByDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}
	transactionsByDay, err := as.store.TransactionsByDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}
	paymentMethods, err := as.store.PaymentMethodCounts(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}
	orderStatuses, err := as.store.OrderStatusCounts(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}
	transactionStatuses, err := as.store.TransactionStatusCounts(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}

	payload := &models.ChartPayload{
		Period:              period,
		RevenueByDay:        revenueByDay,
		TransactionsByDay:   transactionsByDay,
		PaymentMethods:      paymentMethods,
		OrderStatuses:       orderStatuses,
		TransactionStatuses: transactionStatuses,
	}

	as.cache.Set(key, payload, cache.TTLForPeriod(period))
	return payload, nil
}

// Summary returns the headline aggregates for a period along with
// percent-change versus the immediately preceding equal-length window.
func (as *AggregationService) Summary(ctx context.Context, period models.Period) (*models.Summary, error) {
	key := cache.QueryDescriptor{Endpoint: cache.EndpointSummaryStats, Period: period}.Key()
	if cached, ok := as.cache.Get(key); ok {
		return cached.(*models.Summary), nil
	}

	now := as.now().UTC()
	start, end := period.Window(now)
	prevStart, prevEnd := period.PreviousWindow(now)

	current, err := as.store.WindowTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}
	previous, err := as.store.WindowTotals(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}

	summary := &models.Summary{
		Period:            period,
		TotalRevenue:      current.Revenue,
		TotalOrders:       current.Orders,
		TotalTransactions: current.Transactions,
		TotalUsers:        current.Users,
		AvgOrderValue:     current.AvgOrderValue(),
		StartDate:         start.Format(time.RFC3339),
		EndDate:           end.Format(time.RFC3339),
		Changes: models.SummaryChanges{
			RevenueChangePercent:       percentChange(current.Revenue, previous.Revenue),
			OrdersChangePercent:        percentChange(float64(current.Orders), float64(previous.Orders)),
			TransactionsChangePercent:  percentChange(float64(current.Transactions), float64(previous.Transactions)),
			UsersChangePercent:         percentChange(float64(current.Users), float64(previous.Users)),
			AvgOrderValueChangePercent: percentChange(current.AvgOrderValue(), previous.AvgOrderValue()),
		},
	}

	as.cache.Set(key, summary, cache.TTLForPeriod(period))
	return summary, nil
}

// SummaryAll returns summaries for every period, keyed by period name.
func (as *AggregationService) SummaryAll(ctx context.Context) (map[models.Period]*models.Summary, error) {
	result := make(map[models.Period]*models.Summary, len(models.AllPeriods))
	for _, period := range models.AllPeriods {
		summary, err := as.Summary(ctx, period)
		if err != nil {
			return nil, err
		}
		result[period] = summary
	}
	return result, nil
}

// percentChange computes (current - previous) / previous * 100 rounded to
// two decimals. A zero previous window means there is no prior data to
// compare against, so the change is nil rather than 0% or +Inf.
func percentChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	change := math.Round((current-previous)/previous*100*100) / 100
	return &change
}
