package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched       int64
	FeedErrors         int64
	ArticlesFetched    int64
	ClustersBuilt      int64
	SearchesServed     int64
	SummariesGenerated int64
	SummaryFailures    int64
	FeedCacheHits      int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) RecordFeed(articles int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.FeedErrors++
		return
	}
	m.FeedsFetched++
	m.ArticlesFetched += int64(articles)
}

func (m *Metrics) AddClusters(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClustersBuilt += int64(n)
}

func (m *Metrics) IncrementSearchesServed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchesServed++
}

func (m *Metrics) IncrementSummariesGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesGenerated++
}

func (m *Metrics) IncrementSummaryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryFailures++
}

func (m *Metrics) IncrementFeedCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedCacheHits++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":              m.FeedsFetched,
		"feed_errors":                m.FeedErrors,
		"articles_fetched":           m.ArticlesFetched,
		"clusters_built":             m.ClustersBuilt,
		"searches_served":            m.SearchesServed,
		"summaries_generated":        m.SummariesGenerated,
		"summary_failures":           m.SummaryFailures,
		"feed_cache_hits":            m.FeedCacheHits,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
