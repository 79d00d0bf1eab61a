package rss

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const bbcFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>BBC News</title>
  <item>
    <title> Economic Shift </title>
    <link>https://www.bbc.co.uk/news/1</link>
    <pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate>
    <description><![CDATA[<p>Growth <b>slows</b> &amp; prices rise</p>]]></description>
    <enclosure url="https://ichef.bbci.co.uk/1.jpg" type="image/jpeg" length="0"/>
  </item>
  <item>
    <title>Second story</title>
    <link>https://www.bbc.co.uk/news/2</link>
    <description>Plain   text
      description</description>
  </item>
</channel>
</rss>`

const guardianFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>The Guardian</title>
  <item>
    <title>Corporate Power Criticized</title>
    <link>https://www.theguardian.com/world/1</link>
  </item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bbc", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		// finish after the guardian feed to check ordering
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(bbcFeed))
	})
	mux.HandleFunc("/guardian", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(guardianFeed))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFeed_Normalizes(t *testing.T) {
	srv := newFeedServer(t)
	f := NewFetcher(5*time.Second, "test-agent", 2)

	sa, err := f.FetchFeed(context.Background(), Feed{Source: "bbc", URL: srv.URL + "/bbc"})
	if err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	if sa.Source != "bbc" || len(sa.Articles) != 2 {
		t.Fatalf("got %+v", sa)
	}

	a := sa.Articles[0]
	if a.Title != "Economic Shift" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Description != "Growth slows & prices rise" {
		t.Errorf("Description = %q", a.Description)
	}
	if a.PubDate != "Mon, 06 Jan 2025 10:00:00 GMT" {
		t.Errorf("PubDate = %q", a.PubDate)
	}
	if a.Image == nil || *a.Image != "https://ichef.bbci.co.uk/1.jpg" {
		t.Errorf("Image = %v", a.Image)
	}
	if a.Source != "bbc" {
		t.Errorf("Source = %q", a.Source)
	}

	b := sa.Articles[1]
	if b.Description != "Plain text description" {
		t.Errorf("Description = %q", b.Description)
	}
	if b.Image != nil || b.PubDate != "" {
		t.Errorf("missing fields should stay empty: %+v", b)
	}
}

func TestFetchFeed_BadStatus(t *testing.T) {
	srv := newFeedServer(t)
	f := NewFetcher(5*time.Second, "test-agent", 1)
	if _, err := f.FetchFeed(context.Background(), Feed{Source: "x", URL: srv.URL + "/broken"}); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFetchAll_KeepsFeedOrderAndSkipsFailures(t *testing.T) {
	srv := newFeedServer(t)
	f := NewFetcher(5*time.Second, "test-agent", 3)

	feeds := []Feed{
		{Source: "bbc", URL: srv.URL + "/bbc"},
		{Source: "reuters", URL: srv.URL + "/broken"},
		{Source: "guardian", URL: srv.URL + "/guardian"},
	}
	got, err := f.FetchAll(context.Background(), feeds)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 2 || got[0].Source != "bbc" || got[1].Source != "guardian" {
		t.Fatalf("FetchAll order = %+v", got)
	}
}

func TestFetchAll_AllFailing(t *testing.T) {
	srv := newFeedServer(t)
	f := NewFetcher(5*time.Second, "test-agent", 1)

	_, err := f.FetchAll(context.Background(), []Feed{{Source: "x", URL: srv.URL + "/broken"}})
	if !errors.Is(err, ErrNoFeeds) {
		t.Errorf("err = %v, want ErrNoFeeds", err)
	}
}

func TestLoadFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `
feeds:
  - source: bbc
    url: https://feeds.bbci.co.uk/news/rss.xml
  - source: " guardian "
    url: https://www.theguardian.com/world/rss
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds: %v", err)
	}
	if len(feeds) != 2 || feeds[1].Source != "guardian" {
		t.Errorf("feeds = %+v", feeds)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("feeds:\n  - source: bbc\n"), 0644)
	if _, err := LoadFeeds(bad); err == nil {
		t.Error("expected error for feed without url")
	}
}

func TestSnippet(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"  plain  words ":                      "plain words",
		"<p>Hello <a href='#'>world</a></p>":   "Hello world",
		"Fish &amp; chips":                     "Fish & chips",
		"<div><p>one</p>\n<p>two</p></div>":    "one two",
	}
	for in, want := range cases {
		if got := snippet(in); got != want {
			t.Errorf("snippet(%q) = %q, want %q", in, got, want)
		}
	}
}
