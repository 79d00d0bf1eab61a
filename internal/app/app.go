package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/deusflow/neutralnews/internal/cache"
	"github.com/deusflow/neutralnews/internal/config"
	"github.com/deusflow/neutralnews/internal/gemini"
	"github.com/deusflow/neutralnews/internal/gpt"
	"github.com/deusflow/neutralnews/internal/logger"
	"github.com/deusflow/neutralnews/internal/metrics"
	"github.com/deusflow/neutralnews/internal/news"
	"github.com/deusflow/neutralnews/internal/ratelimit"
	"github.com/deusflow/neutralnews/internal/retry"
	"github.com/deusflow/neutralnews/internal/rss"
	"github.com/deusflow/neutralnews/internal/storage"
	"github.com/deusflow/neutralnews/internal/summary"
)

const (
	ModeTopics = "topics"
	ModeSearch = "search"
	ModeServe  = "serve"

	snapshotKey = "feeds"
	summaryTTL  = 24 * time.Hour
)

var ErrUnknownMode = errors.New("unknown mode")

// FeedFetcher loads every configured feed; *rss.Fetcher implements it.
type FeedFetcher interface {
	FetchAll(ctx context.Context, feeds []rss.Feed) ([]news.SourceArticles, error)
}

// Summarizer writes the optional neutral summary; *gemini.Client and
// *gpt.Client implement it.
type Summarizer interface {
	Summarize(ctx context.Context, p summary.Perspectives) (*summary.Result, error)
}

// SearchResult is a bias grouping plus the optional model-written summary
// and the keywords the model picked for it.
type SearchResult struct {
	news.BiasGroupResult
	NeutralSummary string   `json:"neutralSummary,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
}

// Service ties the feeds to the grouping engine.
type Service struct {
	fetcher FeedFetcher
	feeds   []rss.Feed
	biases  news.BiasTable
	opts    news.Options

	feedTTL   time.Duration
	snapshots *cache.Cache[[]news.SourceArticles]

	summarizer Summarizer
	limiter    *ratelimit.SummaryLimiter
	retry      retry.RetryConfig
	summaries  *cache.Cache[summary.Result]

	history HistoryStore
}

func NewService(fetcher FeedFetcher, feeds []rss.Feed, biases news.BiasTable, opts news.Options) *Service {
	if biases == nil {
		biases = news.DefaultBiasTable()
	}
	return &Service{
		fetcher:   fetcher,
		feeds:     feeds,
		biases:    biases,
		opts:      opts,
		snapshots: cache.New[[]news.SourceArticles](),
		summaries: cache.New[summary.Result](),
		retry:     retry.RetryConfig{MaxAttempts: 1},
		history:   noopHistory{},
	}
}

// WithFeedCache keeps fetched feeds for ttl; zero disables the snapshot cache.
func (s *Service) WithFeedCache(ttl time.Duration) *Service {
	s.feedTTL = ttl
	return s
}

// WithSummarizer enables the neutral summary. limiter may be nil.
func (s *Service) WithSummarizer(sum Summarizer, limiter *ratelimit.SummaryLimiter, rc retry.RetryConfig) *Service {
	s.summarizer = sum
	s.limiter = limiter
	s.retry = rc
	return s
}

func (s *Service) WithHistory(h HistoryStore) *Service {
	if h != nil {
		s.history = h
	}
	return s
}

// Close stops the caches, the model client and flushes the history store.
func (s *Service) Close() error {
	s.snapshots.Close()
	s.summaries.Close()
	if c, ok := s.summarizer.(interface{ Close() }); ok {
		c.Close()
	}
	return s.history.Close()
}

// sources returns per-outlet articles, from the snapshot cache when fresh.
func (s *Service) sources(ctx context.Context) ([]news.SourceArticles, error) {
	if s.feedTTL > 0 {
		if cached, ok := s.snapshots.Get(snapshotKey); ok {
			metrics.Global.IncrementFeedCacheHits()
			logger.Debug("feed snapshot cache hit")
			return cached, nil
		}
	}

	fetched, err := s.fetcher.FetchAll(ctx, s.feeds)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return nil, fmt.Errorf("fetch feeds: %w", err)
	}

	if s.feedTTL > 0 {
		s.snapshots.Set(snapshotKey, fetched, s.feedTTL)
	}
	return fetched, nil
}

// Topics groups every fetched article into topic clusters.
func (s *Service) Topics(ctx context.Context) ([]news.Cluster, error) {
	start := time.Now()

	srcs, err := s.sources(ctx)
	if err != nil {
		return nil, err
	}

	articles := news.Flatten(srcs)
	clusters := news.GroupArticlesWith(articles, s.opts)

	metrics.Global.AddClusters(len(clusters))
	metrics.Global.RecordProcessingTime(time.Since(start))
	metrics.Global.SetLastRun()

	logger.Info("topics built", "articles", len(articles), "clusters", len(clusters), "duration", time.Since(start))
	return clusters, nil
}

// Search picks one headline per bias label for term and records the answer.
// The term is trimmed first, so the CLI and HTTP callers quote the same text.
func (s *Service) Search(ctx context.Context, term string) (SearchResult, error) {
	start := time.Now()
	term = strings.TrimSpace(term)

	srcs, err := s.sources(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{BiasGroupResult: news.GroupByBias(term, srcs, s.biases)}
	metrics.Global.IncrementSearchesServed()
	metrics.Global.RecordProcessingTime(time.Since(start))
	metrics.Global.SetLastRun()

	if term == "" {
		return res, nil
	}

	neutral := s.neutralSummary(ctx, term, res.BiasGroupResult)
	res.NeutralSummary = neutral.Summary
	res.Keywords = neutral.Keywords

	if err := s.history.Record(storage.NewSearchRecord(term, res.BiasGroupResult, res.NeutralSummary)); err != nil {
		logger.Warn("failed to record search", "term", term, "error", err)
	}

	logger.Info("search served", "term", term,
		"left", res.Left != "", "center", res.Center != "", "right", res.Right != "")
	return res, nil
}

// History returns recent searches, newest first.
func (s *Service) History(limit int) ([]storage.SearchRecord, error) {
	items, err := s.history.Recent(limit)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if items == nil {
		items = []storage.SearchRecord{}
	}
	return items, nil
}

// neutralSummary returns a zero Result whenever the summary is disabled,
// refused or failed.
func (s *Service) neutralSummary(ctx context.Context, term string, res news.BiasGroupResult) summary.Result {
	p := summary.Perspectives{Term: term, Left: res.Left, Center: res.Center, Right: res.Right}
	if s.summarizer == nil || p.Empty() {
		return summary.Result{}
	}

	key := cache.GenerateKey(term, res.Left, res.Center, res.Right)
	if cached, ok := s.summaries.Get(key); ok {
		if s.limiter != nil {
			s.limiter.RecordCacheHit()
		}
		return cached
	}

	if s.limiter != nil {
		if err := s.limiter.Use(); err != nil {
			logger.Warn("skipping neutral summary", "error", err)
			return summary.Result{}
		}
	}

	var out *summary.Result
	err := retry.WithRetry(ctx, s.retry, func() error {
		var err error
		out, err = s.summarizer.Summarize(ctx, p)
		if errors.Is(err, summary.ErrEmptyResponse) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		metrics.Global.IncrementSummaryFailures()
		logger.Warn("neutral summary failed", "term", term, "error", err)
		return summary.Result{}
	}

	metrics.Global.IncrementSummariesGenerated()
	s.summaries.Set(key, *out, summaryTTL)
	return *out
}

// Run executes one mode. topics and search print JSON to out; serve blocks
// until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, mode, query string, out io.Writer) error {
	svc, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("failed to close service", "error", err)
		}
	}()

	switch mode {
	case ModeTopics:
		clusters, err := svc.Topics(ctx)
		if err != nil {
			return err
		}
		return writeIndented(out, clusters)

	case ModeSearch:
		res, err := svc.Search(ctx, query)
		if err != nil {
			return err
		}
		return writeIndented(out, res)

	case ModeServe:
		return Serve(ctx, svc, ":"+cfg.MonitoringPort)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Build wires a Service from the configuration.
func Build(ctx context.Context, cfg *config.Config) (*Service, error) {
	feeds, err := rss.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}

	biases, err := config.LoadBiasTable(cfg.BiasConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no bias table file, using defaults", "path", cfg.BiasConfigPath)
		biases = news.DefaultBiasTable()
	} else if err != nil {
		return nil, fmt.Errorf("load bias table: %w", err)
	}

	fetcher := rss.NewFetcher(cfg.RequestTimeout, cfg.UserAgent, cfg.FetchConcurrency)
	svc := NewService(fetcher, feeds, biases, cfg.ClusterOptions()).
		WithFeedCache(cfg.FeedCacheTTL)

	history, err := openHistory(ctx, cfg)
	if err != nil {
		logger.Warn("search history disabled", "error", err)
	} else {
		if err := history.Cleanup(); err != nil {
			logger.Warn("history cleanup failed", "error", err)
		}
		svc.WithHistory(history)
	}

	if cfg.SummaryEnabled() {
		sum, err := newSummarizer(ctx, cfg)
		if err != nil {
			logger.Warn("neutral summary disabled", "error", err)
		} else {
			rc := retry.RetryConfig{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}
			svc.WithSummarizer(sum, ratelimit.NewSummaryLimiter(cfg.MaxSummaryRequests), rc)
		}
	}

	logger.Info("service ready", "feeds", len(feeds), "outlets", len(biases),
		"threshold", cfg.SimilarityThreshold, "policy", cfg.ClusterPolicy,
		"history", cfg.HistoryBackend, "summary", svc.summarizer != nil, "provider", cfg.SummaryProvider)
	return svc, nil
}

func newSummarizer(ctx context.Context, cfg *config.Config) (Summarizer, error) {
	if cfg.SummaryProvider == config.ProviderOpenAI {
		return gpt.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	}
	return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
}

// Serve runs the HTTP surface until ctx is done.
func Serve(ctx context.Context, svc *Service, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
