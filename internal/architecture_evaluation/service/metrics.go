package service

import (
	"sync/atomic"
	"time"
)

// Metrics counts evaluation work since process start.
type Metrics struct {
	evaluations       int64
	evaluationLatency int64 // nanoseconds
	cacheHits         int64
	cacheMisses       int64
	validations       int64
	comparisons       int64
	linksRejected     int64
	scheduledRuns     int64
}

var globalMetrics = &Metrics{}

// MetricsSnapshot is the JSON view served on /metrics.
type MetricsSnapshot struct {
	Evaluations         int64   `json:"evaluations"`
	AvgEvaluationMillis float64 `json:"avg_evaluation_ms"`
	CacheHits           int64   `json:"cache_hits"`
	CacheMisses         int64   `json:"cache_misses"`
	CacheHitRate        float64 `json:"cache_hit_rate"`
	Validations         int64   `json:"validations"`
	Comparisons         int64   `json:"comparisons"`
	LinksRejected       int64   `json:"links_rejected"`
	ScheduledRuns       int64   `json:"scheduled_runs"`
}

func GetMetrics() MetricsSnapshot {
	evals := atomic.LoadInt64(&globalMetrics.evaluations)
	latency := atomic.LoadInt64(&globalMetrics.evaluationLatency)
	hits := atomic.LoadInt64(&globalMetrics.cacheHits)
	misses := atomic.LoadInt64(&globalMetrics.cacheMisses)

	s := MetricsSnapshot{
		Evaluations:   evals,
		CacheHits:     hits,
		CacheMisses:   misses,
		Validations:   atomic.LoadInt64(&globalMetrics.validations),
		Comparisons:   atomic.LoadInt64(&globalMetrics.comparisons),
		LinksRejected: atomic.LoadInt64(&globalMetrics.linksRejected),
		ScheduledRuns: atomic.LoadInt64(&globalMetrics.scheduledRuns),
	}
	if evals > 0 {
		s.AvgEvaluationMillis = float64(latency) / float64(evals) / 1e6
	}
	if hits+misses > 0 {
		s.CacheHitRate = float64(hits) / float64(hits+misses)
	}
	return s
}

// ResetMetrics zeroes all counters (tests only).
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.evaluations, 0)
	atomic.StoreInt64(&globalMetrics.evaluationLatency, 0)
	atomic.StoreInt64(&globalMetrics.cacheHits, 0)
	atomic.StoreInt64(&globalMetrics.cacheMisses, 0)
	atomic.StoreInt64(&globalMetrics.validations, 0)
	atomic.StoreInt64(&globalMetrics.comparisons, 0)
	atomic.StoreInt64(&globalMetrics.linksRejected, 0)
	atomic.StoreInt64(&globalMetrics.scheduledRuns, 0)
}

func recordEvaluation(d time.Duration) {
	atomic.AddInt64(&globalMetrics.evaluations, 1)
	atomic.AddInt64(&globalMetrics.evaluationLatency, d.Nanoseconds())
}

func recordCacheHit()     { atomic.AddInt64(&globalMetrics.cacheHits, 1) }
func recordCacheMiss()    { atomic.AddInt64(&globalMetrics.cacheMisses, 1) }
func recordValidation()   { atomic.AddInt64(&globalMetrics.validations, 1) }
func recordComparison()   { atomic.AddInt64(&globalMetrics.comparisons, 1) }
func recordLinkRejected() { atomic.AddInt64(&globalMetrics.linksRejected, 1) }

// RecordScheduledRun is called by the re-evaluation job once per sweep.
func RecordScheduledRun() { atomic.AddInt64(&globalMetrics.scheduledRuns, 1) }
