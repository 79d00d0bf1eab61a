// Package summary holds the provider-independent part of the neutral
// summary: the prompt sent to a language model and the parsing of its answer.
package summary

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/deusflow/neutralnews/internal/logger"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("empty model response")

const maxHeadlineChars = 600

// Perspectives carries the headlines a summary is written from. Empty
// fields mean no outlet of that leaning covered the term.
type Perspectives struct {
	Term   string
	Left   string
	Center string
	Right  string
}

// Empty reports whether no headline matched.
func (p Perspectives) Empty() bool {
	return p.Left == "" && p.Center == "" && p.Right == ""
}

// Result is a parsed model answer.
type Result struct {
	Summary  string
	Keywords []string
}

// BuildPrompt renders the instruction for one search.
func BuildPrompt(p Perspectives) string {
	headline := func(label, title string) string {
		title = clip(title)
		if title == "" {
			return fmt.Sprintf("%s: (no coverage)", label)
		}
		return fmt.Sprintf("%s: %s", label, title)
	}

	return fmt.Sprintf(`Three news outlets with different political leanings published these headlines about "%s".

%s
%s
%s

TASK:
Write one short neutral paragraph (at most 400 characters) describing the story the headlines share.
Do not take a side, do not name the outlets, do not speculate beyond the headlines.
Then list up to five keywords for the story.

Answer strictly in this format:

SUMMARY: <neutral paragraph>
KEYWORDS: <keyword>, <keyword>, <keyword>
`, clip(p.Term),
		headline("LEFT", p.Left),
		headline("CENTER", p.Center),
		headline("RIGHT", p.Right))
}

// clip collapses whitespace and caps the length on a rune boundary.
func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > maxHeadlineChars {
		s = string([]rune(s)[:maxHeadlineChars])
	}
	return s
}

var (
	summaryLabel  = regexp.MustCompile(`(?i)^\**\s*(SUMMARY|NEUTRAL SUMMARY)\s*\**\s*:\s*\**\s*`)
	keywordsLabel = regexp.MustCompile(`(?i)^\**\s*KEYWORDS\s*\**\s*:\s*\**\s*`)
)

// ParseResponse extracts the labelled sections of a model answer. An
// unlabelled answer is taken whole as the summary.
func ParseResponse(response string) (*Result, error) {
	response = SanitizeAIText(response)

	var summary strings.Builder
	var keywords []string
	current := ""

	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case summaryLabel.MatchString(line):
			current = "summary"
			line = strings.TrimSpace(summaryLabel.ReplaceAllString(line, ""))
		case keywordsLabel.MatchString(line):
			current = "keywords"
			line = strings.TrimSpace(keywordsLabel.ReplaceAllString(line, ""))
		}

		switch current {
		case "summary":
			if line == "" {
				continue
			}
			if summary.Len() > 0 {
				summary.WriteString(" ")
			}
			summary.WriteString(line)
		case "keywords":
			for _, kw := range strings.Split(line, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					keywords = append(keywords, kw)
				}
			}
		}
	}

	text := summary.String()
	if text == "" {
		text = strings.Join(strings.Fields(response), " ")
		if text != "" {
			logger.Warn("fallback parsing triggered for summary response")
		}
	}
	if text == "" {
		return nil, ErrEmptyResponse
	}

	return &Result{Summary: text, Keywords: keywords}, nil
}

var (
	noteLine       = regexp.MustCompile(`(?i)^\s*(note|disclaimer)\s*:`)
	inlineNote     = regexp.MustCompile(`(?i)\((note|disclaimer)\s*:[^)]*\)`)
	bracketedNote  = regexp.MustCompile(`(?i)\[(note|disclaimer)\s*:[^\]]*\]`)
	repeatedSpaces = regexp.MustCompile(`[ \t]{2,}`)
)

// SanitizeAIText removes the disclaimers models like to append
// ("Note: ...", "(Note: ...)", "[Note: ...]") and keeps the rest.
func SanitizeAIText(text string) string {
	text = inlineNote.ReplaceAllString(text, "")
	text = bracketedNote.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if noteLine.MatchString(line) {
			continue
		}
		kept = append(kept, strings.TrimSpace(repeatedSpaces.ReplaceAllString(line, " ")))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
