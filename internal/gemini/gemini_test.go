package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("SUMMARY: Talks resumed."),
				genai.Text("\nKEYWORDS: talks"),
			}},
		}},
	}

	if got := responseText(resp); got != "SUMMARY: Talks resumed.\nKEYWORDS: talks" {
		t.Errorf("responseText = %q", got)
	}
}

func TestResponseText_Empty(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil":           nil,
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
	} {
		if got := responseText(resp); got != "" {
			t.Errorf("%s: responseText = %q", name, got)
		}
	}
}
