package news

// Similarity scores two articles by the Jaccard index of their keyword sets
// (title + description). The result is in [0, 1]; two articles without any
// keywords score 0.
func Similarity(a, b Article) float64 {
	return jaccard(newKeywordSet(a.Keywords()), newKeywordSet(b.Keywords()))
}

func jaccard(a, b keywordSet) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}

	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
