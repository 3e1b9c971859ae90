package client

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/mirtech/salesdash-go/models"
)

// State names the orchestrator's position in its fetch lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateReady       State = "ready"
	StateLoadingMore State = "loading_more"
	StateExhausted   State = "exhausted"
	StateError       State = "error"
)

// Session orchestrates the data a dashboard view needs: one selected period
// (or one active search), the accumulated row buffer behind the table, and
// the chart/summary payloads.
//
// Every period switch or new search mints a fresh epoch token. In-flight
// fetches carry the epoch they were started under and their results are
// discarded if the session has moved on, so a slow response for an
// abandoned period can never overwrite newer state. Outstanding requests
// are not cancelled; the epoch guard alone is what keeps state consistent.
type Session struct {
	backend Backend
	limit   int

	mu          sync.Mutex
	epoch       string
	state       State
	period      models.Period
	searchQuery string // non-empty means search mode
	rows        []models.FactRecord
	offset      int
	hasMore     bool
	chart       *models.ChartPayload
	summary     *models.Summary
	lastErr     error
}

// NewSession creates an idle session fetching pages of the given size.
func NewSession(backend Backend, limit int) *Session {
	return &Session{
		backend: backend,
		limit:   limit,
		state:   StateIdle,
		epoch:   ulid.Make().String(),
	}
}

// SelectPeriod resets the session to the given period and issues the three
// initial fetches concurrently: chart data, summary stats and the first
// table page. All three must succeed for the session to become ready; any
// failure moves it to the error state, recoverable via Retry.
func (s *Session) SelectPeriod(ctx context.Context, period models.Period) error {
	s.mu.Lock()
	epoch := ulid.Make().String()
	s.epoch = epoch
	s.period = period
	s.searchQuery = ""
	s.rows = nil
	s.offset = 0
	s.hasMore = true
	s.chart = nil
	s.summary = nil
	s.lastErr = nil
	s.state = StateLoading
	limit := s.limit
	s.mu.Unlock()

	var (
		wg       sync.WaitGroup
		chart    *models.ChartPayload
		summary  *models.Summary
		page     []models.FactRecord
		chartErr error
		sumErr   error
		pageErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		chart, chartErr = s.backend.ChartData(ctx, period)
	}()
	go func() {
		defer wg.Done()
		summary, sumErr = s.backend.Summary(ctx, period)
	}()
	go func() {
		defer wg.Done()
		page, pageErr = s.backend.Page(ctx, period, 0, limit)
	}()
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// Session moved on while we were fetching; drop everything.
		return nil
	}

	for _, err := range []error{chartErr, sumErr, pageErr} {
		if err != nil {
			s.state = StateError
			s.lastErr = err
			return err
		}
	}

	s.chart = chart
	s.summary = summary
	s.commitPageLocked(page, limit)
	return nil
}

// LoadMore fetches the next page and appends it to the row buffer. It is an
// idempotent no-op while a load is already in flight or once the buffer is
// exhausted, which absorbs duplicate scroll-triggered calls. Fetch failures
// are logged and swallowed: infinite-scroll failures must never destroy the
// partial results already on screen.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateReady || !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	epoch := s.epoch
	offset := s.offset
	limit := s.limit
	period := s.period
	query := s.searchQuery
	s.state = StateLoadingMore
	s.mu.Unlock()

	var page []models.FactRecord
	var err error
	if query != "" {
		page, err = s.backend.Search(ctx, query, offset, limit)
	} else {
		page, err = s.backend.Page(ctx, period, offset, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return nil
	}

	if err != nil {
		log.Printf("WARNING: load more failed at offset %d: %v", offset, err)
		s.state = StateReady
		return nil
	}

	s.rows = append(s.rows, page...)
	s.offset += len(page)
	s.setTerminalStateLocked(len(page), limit)
	return nil
}

// ProductSearch switches the session into search mode for the given query.
// A blank query exits search mode and re-runs the normal period flow.
// Chart and summary fetches are not meaningful against a search result set,
// so only the table page is fetched.
func (s *Session) ProductSearch(ctx context.Context, query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		s.mu.Lock()
		period := s.period
		s.mu.Unlock()
		return s.SelectPeriod(ctx, period)
	}

	s.mu.Lock()
	epoch := ulid.Make().String()
	s.epoch = epoch
	s.searchQuery = trimmed
	s.rows = nil
	s.offset = 0
	s.hasMore = true
	s.lastErr = nil
	s.state = StateLoading
	limit := s.limit
	s.mu.Unlock()

	page, err := s.backend.Search(ctx, trimmed, 0, limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return nil
	}

	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}

	s.commitPageLocked(page, limit)
	return nil
}

// Retry re-issues the fetch sequence for the current mode after an error.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	period := s.period
	query := s.searchQuery
	s.mu.Unlock()

	if query != "" {
		return s.ProductSearch(ctx, query)
	}
	return s.SelectPeriod(ctx, period)
}

// WarmHistoricalPeriods requests the long-horizon periods in a detached
// background task so their server-side cache entries are hot before the
// user switches to them. Results and failures alike are discarded; the
// session's visible state is never touched.
func (s *Session) WarmHistoricalPeriods() {
	go func() {
		ctx := context.Background()
		for _, period := range models.HistoricalPeriods {
			if _, err := s.backend.ChartData(ctx, period); err != nil {
				continue
			}
			if _, err := s.backend.Summary(ctx, period); err != nil {
				continue
			}
			_, _ = s.backend.Page(ctx, period, 0, s.limit)
		}
	}()
}

// commitPageLocked installs the first page of a fresh session.
// Caller must hold s.mu.
func (s *Session) commitPageLocked(page []models.FactRecord, limit int) {
	s.rows = page
	s.offset = len(page)
	s.setTerminalStateLocked(len(page), limit)
}

// setTerminalStateLocked applies the page-size convention: a page shorter
// than the requested limit, even a nonzero one, is the last page.
// Caller must hold s.mu.
func (s *Session) setTerminalStateLocked(pageLen, limit int) {
	s.hasMore = pageLen == limit
	if s.hasMore {
		s.state = StateReady
	} else {
		s.state = StateExhausted
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rows returns the accumulated row buffer.
func (s *Session) Rows() []models.FactRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// HasMore reports whether another page may exist.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// LoadingMore reports whether a load-more fetch is in flight.
func (s *Session) LoadingMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateLoadingMore
}

// Chart returns the most recently fetched chart payload. Search mode leaves
// the previous period's charts in place.
func (s *Session) Chart() *models.ChartPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chart
}

// Summary returns the most recently fetched summary.
func (s *Session) Summary() *models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Period returns the selected period.
func (s *Session) Period() models.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// Err returns the error that moved the session to StateError, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
