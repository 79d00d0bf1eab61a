// Package news holds the article model and the grouping engine: keyword
// extraction, pairwise similarity, topic clustering and bias grouping.
//
// Everything here is pure computation over already-fetched articles. Callers
// (see internal/rss) are responsible for fetching feeds and normalizing missing
// fields to empty strings before handing articles over.
package news

// Article is a normalized news item as delivered by a feed collaborator.
type Article struct {
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	PubDate     string  `json:"pubDate"` // opaque, never parsed here
	Description string  `json:"description"`
	Image       *string `json:"image"`
	Source      string  `json:"source"`
}

// SourceArticles is one outlet's article list, in feed order.
type SourceArticles struct {
	Source   string    `json:"source"`
	Articles []Article `json:"articles"`
}

// text is the blob keywords are extracted from.
func (a Article) text() string {
	return a.Title + " " + a.Description
}

// Keywords returns the article's keyword set (title + description).
func (a Article) Keywords() []string {
	return ExtractKeywords(a.text())
}

// Flatten concatenates the per-source lists in the given order, tagging every
// article with its source when the fetcher left Source empty.
func Flatten(sources []SourceArticles) []Article {
	total := 0
	for _, s := range sources {
		total += len(s.Articles)
	}

	out := make([]Article, 0, total)
	for _, s := range sources {
		for _, a := range s.Articles {
			if a.Source == "" {
				a.Source = s.Source
			}
			out = append(out, a)
		}
	}
	return out
}
