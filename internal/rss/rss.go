package rss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/neutralnews/internal/logger"
	"github.com/deusflow/neutralnews/internal/metrics"
	"github.com/deusflow/neutralnews/internal/news"
)

// ErrNoFeeds is returned by FetchAll when not a single feed could be read.
var ErrNoFeeds = errors.New("no feed could be fetched")

// Feed is one outlet's feed.
type Feed struct {
	Source string `yaml:"source"`
	URL    string `yaml:"url"`
}

// FeedsConfig is YAML config structure
// feeds:
//   - source: bbc
//     url: https://...
type FeedsConfig struct {
	Feeds []Feed `yaml:"feeds"`
}

// LoadFeeds reads the feed list from a YAML file
func LoadFeeds(path string) ([]Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode feeds config: %w", err)
	}

	feeds := make([]Feed, 0, len(cfg.Feeds))
	for i, fd := range cfg.Feeds {
		fd.Source = strings.TrimSpace(fd.Source)
		fd.URL = strings.TrimSpace(fd.URL)
		if fd.Source == "" || fd.URL == "" {
			return nil, fmt.Errorf("feed #%d: source and url are required", i+1)
		}
		feeds = append(feeds, fd)
	}
	return feeds, nil
}

// Fetcher downloads feeds and normalizes their items into articles.
type Fetcher struct {
	Client      *http.Client
	UserAgent   string
	Concurrency int
}

// NewFetcher returns a Fetcher with a per-request timeout.
func NewFetcher(timeout time.Duration, userAgent string, concurrency int) *Fetcher {
	return &Fetcher{
		Client:      &http.Client{Timeout: timeout},
		UserAgent:   userAgent,
		Concurrency: concurrency,
	}
}

// FetchFeed downloads and parses a single feed.
func (f *Fetcher) FetchFeed(ctx context.Context, feed Feed) (news.SourceArticles, error) {
	out := news.SourceArticles{Source: feed.Source}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return out, fmt.Errorf("request creation failed: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return out, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return out, fmt.Errorf("feed parse failed: %w", err)
	}

	out.Articles = make([]news.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		out.Articles = append(out.Articles, toArticle(item, feed.Source))
	}
	return out, nil
}

// FetchAll fetches every feed concurrently and returns the results in the
// order of feeds, independent of completion order. Failing feeds are logged
// and left out (log error, but don't stop).
func (f *Fetcher) FetchAll(ctx context.Context, feeds []Feed) ([]news.SourceArticles, error) {
	results := make([]*news.SourceArticles, len(feeds))

	g, gctx := errgroup.WithContext(ctx)
	if f.Concurrency > 0 {
		g.SetLimit(f.Concurrency)
	}

	for i, feed := range feeds {
		g.Go(func() error {
			sa, err := f.FetchFeed(gctx, feed)
			metrics.Global.RecordFeed(len(sa.Articles), err)
			if err != nil {
				logger.Warn("feed fetch failed", "source", feed.Source, "url", feed.URL, "error", err)
				return nil
			}
			logger.Info("feed loaded", "source", feed.Source, "articles", len(sa.Articles))
			results[i] = &sa
			return nil
		})
	}
	_ = g.Wait()

	out := make([]news.SourceArticles, 0, len(feeds))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	logger.Info("processed feeds", "ok", len(out), "total", len(feeds))
	if len(out) == 0 && len(feeds) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoFeeds, err)
		}
		return nil, ErrNoFeeds
	}
	return out, nil
}

func toArticle(item *gofeed.Item, source string) news.Article {
	description := snippet(item.Description)
	if description == "" {
		description = snippet(item.Content)
	}

	return news.Article{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		PubDate:     item.Published,
		Description: description,
		Image:       imageOf(item),
		Source:      source,
	}
}

// snippet strips markup from an HTML fragment and collapses whitespace.
func snippet(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func imageOf(item *gofeed.Item) *string {
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			u := enc.URL
			return &u
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		u := item.Image.URL
		return &u
	}
	return nil
}
