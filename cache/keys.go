// Package cache provides the in-memory TTL cache for aggregated dashboard
// payloads and table pages, plus the deterministic query-key builder and the
// adaptive TTL policy that decide what lives in it and for how long.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mirtech/salesdash-go/models"
)

// Endpoint kinds namespacing the cache key space. One kind per logical query
// shape so chart, summary, table and search entries never collide.
const (
	EndpointChartStats   = "chart_stats"
	EndpointSummaryStats = "summary_stats"
	EndpointFactSales    = "fact_sales"
	EndpointSearch       = "product_search"
)

// QueryDescriptor captures the full shape of one logical dashboard query.
// Two descriptors with identical field values always hash to the same key.
type QueryDescriptor struct {
	Endpoint string
	Period   models.Period
	Query    string
	Offset   int
	Limit    int
}

// Key derives the stable cache key for the descriptor: the endpoint kind
// prefixing an md5 digest of the canonically serialized parameters.
// encoding/json emits map keys in sorted order, which makes the
// serialization canonical across calls and process restarts.
func (d QueryDescriptor) Key() string {
	params := map[string]any{
		"period": string(d.Period),
		"query":  d.Query,
		"offset": d.Offset,
		"limit":  d.Limit,
	}
	serialized, _ := json.Marshal(params)
	digest := md5.Sum(serialized)
	return fmt.Sprintf("%s:%s", d.Endpoint, hex.EncodeToString(digest[:]))
}
