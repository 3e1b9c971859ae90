// Package api provides HTTP handlers for the sales dashboard endpoints.
package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mirtech/salesdash-go/models"
	"github.com/mirtech/salesdash-go/services"
	"github.com/mirtech/salesdash-go/store"
)

// Handlers bundles the service dependencies behind the HTTP surface.
type Handlers struct {
	Aggregation *services.AggregationService
	Pagination  *services.PaginationService
	Facts       *store.FactStore
}

// NewHandlers creates the handler set.
func NewHandlers(aggregation *services.AggregationService, pagination *services.PaginationService, facts *store.FactStore) *Handlers {
	return &Handlers{
		Aggregation: aggregation,
		Pagination:  pagination,
		Facts:       facts,
	}
}

// ChartStatsHandler handles GET /api/v1/stats/charts?period=
func (h *Handlers) ChartStatsHandler(c *gin.Context) {
	period, err := models.ParsePeriod(c.DefaultQuery("period", string(models.PeriodWeek)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.Aggregation.ChartData(c.Request.Context(), period)
	if err != nil {
		log.Printf("ERROR: ChartData failed for period %s: %v", period, err)
		c.JSON(statusForError(err), gin.H{"error": "failed to compute chart data"})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// SummaryStatsHandler handles GET /api/v1/stats/summary?period=
// Without a period it returns the summary for every period keyed by name.
func (h *Handlers) SummaryStatsHandler(c *gin.Context) {
	raw := c.Query("period")
	if raw == "" {
		summaries, err := h.Aggregation.SummaryAll(c.Request.Context())
		if err != nil {
			log.Printf("ERROR: SummaryAll failed: %v", err)
			c.JSON(statusForError(err), gin.H{"error": "failed to compute summary stats"})
			return
		}
		c.JSON(http.StatusOK, summaries)
		return
	}

	period, err := models.ParsePeriod(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.Aggregation.Summary(c.Request.Context(), period)
	if err != nil {
		log.Printf("ERROR: Summary failed for period %s: %v", period, err)
		c.JSON(statusForError(err), gin.H{"error": "failed to compute summary stats"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// FactsHandler handles GET /api/v1/facts?period=&offset=&limit=
// An offset beyond the window's last row returns an empty page, not an error.
func (h *Handlers) FactsHandler(c *gin.Context) {
	period, err := models.ParsePeriod(c.DefaultQuery("period", string(models.PeriodWeek)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offset, limit, err := parsePaging(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts, err := h.Pagination.Page(c.Request.Context(), period, offset, limit)
	if err != nil {
		if errors.Is(err, models.ErrInvalidParameter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR: Page failed for period %s offset %d: %v", period, offset, err)
		c.JSON(statusForError(err), gin.H{"error": "failed to load facts"})
		return
	}

	c.JSON(http.StatusOK, facts)
}

// ProductSearchHandler handles GET /api/v1/products/search?q=&offset=&limit=
func (h *Handlers) ProductSearchHandler(c *gin.Context) {
	query := c.Query("q")

	offset, limit, err := parsePaging(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts, err := h.Pagination.Search(c.Request.Context(), query, offset, limit)
	if err != nil {
		if errors.Is(err, models.ErrQueryTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR: Search failed for query %q: %v", query, err)
		c.JSON(statusForError(err), gin.H{"error": "failed to search products"})
		return
	}

	c.JSON(http.StatusOK, facts)
}

// DBStatusHandler handles GET /api/v1/db/status
func (h *Handlers) DBStatusHandler(c *gin.Context) {
	if err := h.Facts.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	count, err := h.Facts.CountFacts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "fact_count": count})
}

// parsePaging reads offset/limit query parameters with defaults.
func parsePaging(c *gin.Context) (offset, limit int, err error) {
	offsetStr := c.DefaultQuery("offset", "0")
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return 0, 0, errors.New("invalid offset parameter")
	}

	limitStr := c.DefaultQuery("limit", "0")
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0, 0, errors.New("invalid limit parameter")
	}

	return offset, limit, nil
}

// statusForError maps the service error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidPeriod),
		errors.Is(err, models.ErrInvalidParameter),
		errors.Is(err, models.ErrQueryTooShort):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
