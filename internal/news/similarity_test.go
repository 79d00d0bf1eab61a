package news

import (
	"math"
	"testing"
)

func art(title, description string) Article {
	return Article{Title: title, Description: description}
}

func TestSimilarity_Identical(t *testing.T) {
	a := art("Parliament approves climate package", "Lawmakers voted late on Tuesday")
	if got := Similarity(a, a); got != 1 {
		t.Errorf("Similarity(a, a) = %v, want 1", got)
	}
}

func TestSimilarity_EmptyKeywordSetsScoreZero(t *testing.T) {
	a := art("A day", "in 2024")
	b := art("", "")
	for _, tc := range []struct{ x, y Article }{{a, a}, {b, b}, {a, b}} {
		got := Similarity(tc.x, tc.y)
		if got != 0 || math.IsNaN(got) {
			t.Errorf("Similarity(%q, %q) = %v, want 0", tc.x.Title, tc.y.Title, got)
		}
	}
}

func TestSimilarity_Jaccard(t *testing.T) {
	// {storm, flood} vs {storm, flood, rescue, village}
	a := art("Storm flood", "")
	b := art("Storm flood", "rescue village")
	if got := Similarity(a, b); got != 0.5 {
		t.Errorf("Similarity = %v, want 0.5", got)
	}

	c := art("Rescue teams", "")
	if got := Similarity(a, c); got != 0 {
		t.Errorf("disjoint Similarity = %v, want 0", got)
	}
}

func TestSimilarity_TitleAndDescriptionAreJoinedWithSpace(t *testing.T) {
	// without the separator "flood" + "rescue" would merge into one word
	a := art("Storm flood", "rescue")
	b := art("floodrescue", "")
	if got := Similarity(a, b); got != 0 {
		t.Errorf("Similarity = %v, want 0", got)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	arts := []Article{
		art("Markets rally after central bank decision", "Stocks climbed sharply"),
		art("Central bank holds rates", "Markets were calm"),
		art("Football final ends in penalties", ""),
		art("", ""),
		art("Stocks climbed", "after the central bank decision"),
	}
	for i := range arts {
		for j := range arts {
			ab, ba := Similarity(arts[i], arts[j]), Similarity(arts[j], arts[i])
			if ab != ba {
				t.Errorf("Similarity(%d,%d)=%v but Similarity(%d,%d)=%v", i, j, ab, j, i, ba)
			}
			if ab < 0 || ab > 1 {
				t.Errorf("Similarity(%d,%d)=%v out of range", i, j, ab)
			}
		}
	}
}
