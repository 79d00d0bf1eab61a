package news

import (
	"fmt"
	"strings"
)

// Bias is an editorial leaning label.
type Bias string

const (
	Left   Bias = "left"
	Center Bias = "center"
	Right  Bias = "right"
)

// ParseBias accepts "left", "center" or "right" in any case.
func ParseBias(s string) (Bias, error) {
	switch b := Bias(strings.ToLower(strings.TrimSpace(s))); b {
	case Left, Center, Right:
		return b, nil
	default:
		return "", fmt.Errorf("unknown bias label %q", s)
	}
}

// BiasTable maps outlet identifiers to bias labels. Keys are matched
// case-insensitively; outlets missing from the table are ignored.
type BiasTable map[string]Bias

// DefaultBiasTable is the stock guardian/bbc/fox mapping.
func DefaultBiasTable() BiasTable {
	return BiasTable{
		"guardian": Left,
		"bbc":      Center,
		"fox":      Right,
	}
}

// Lookup returns the label for source.
func (t BiasTable) Lookup(source string) (Bias, bool) {
	if b, ok := t[source]; ok {
		return b, true
	}
	if b, ok := t[strings.ToLower(source)]; ok {
		return b, true
	}
	// Hand-built tables may hold keys differing only in case; take the
	// smallest so the answer does not depend on map order.
	var (
		key   string
		found bool
	)
	for k := range t {
		if strings.EqualFold(k, source) && (!found || k < key) {
			key, found = k, true
		}
	}
	if !found {
		return "", false
	}
	return t[key], true
}

// BiasGroupResult holds one headline per label plus a templated summary.
type BiasGroupResult struct {
	Left    string `json:"left"`
	Center  string `json:"center"`
	Right   string `json:"right"`
	Summary string `json:"summary"`
}

// GroupByBias picks, for every labelled outlet, the first headline containing
// searchTerm (case-insensitive) and files it under the outlet's label. A later
// outlet with the same label overwrites an earlier one. A blank search term
// matches nothing.
//
// The summary falls back to the literal label name for an empty slot, so a
// headline that is literally "left" cannot be told apart from no match.
func GroupByBias(searchTerm string, sources []SourceArticles, table BiasTable) BiasGroupResult {
	var res BiasGroupResult

	needle := strings.ToLower(searchTerm)
	if strings.TrimSpace(needle) != "" {
		for _, src := range sources {
			bias, ok := table.Lookup(src.Source)
			if !ok {
				continue
			}
			title, found := firstMatch(src.Articles, needle)
			if !found {
				continue
			}
			switch bias {
			case Left:
				res.Left = title
			case Center:
				res.Center = title
			case Right:
				res.Right = title
			}
		}
	}

	res.Summary = fmt.Sprintf("Neutral summary about \"%s\": combining %s, %s, and %s perspectives.",
		searchTerm, orLabel(res.Left, Left), orLabel(res.Center, Center), orLabel(res.Right, Right))
	return res
}

func firstMatch(articles []Article, needle string) (string, bool) {
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), needle) {
			return a.Title, true
		}
	}
	return "", false
}

func orLabel(s string, b Bias) string {
	if s == "" {
		return string(b)
	}
	return s
}
