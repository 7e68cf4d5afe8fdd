package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests     atomic.Int64
	ExtractionFailures atomic.Int64
	ThumbCacheHits     atomic.Int64
	ThumbCacheMisses   atomic.Int64
	ThumbFetchErrors   atomic.Int64
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"search_requests":     metrics.SearchRequests.Load(),
		"extraction_failures": metrics.ExtractionFailures.Load(),
		"thumb_cache_hits":    metrics.ThumbCacheHits.Load(),
		"thumb_cache_misses":  metrics.ThumbCacheMisses.Load(),
		"thumb_fetch_errors":  metrics.ThumbFetchErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"search_requests", "extraction_failures",
		"thumb_cache_hits", "thumb_cache_misses", "thumb_fetch_errors",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func incrSearchRequest()     { metrics.SearchRequests.Add(1) }
func incrExtractionFailure() { metrics.ExtractionFailures.Add(1) }
func incrThumbCacheHit()     { metrics.ThumbCacheHits.Add(1) }
func incrThumbCacheMiss()    { metrics.ThumbCacheMisses.Add(1) }
func incrThumbFetchError()   { metrics.ThumbFetchErrors.Add(1) }
