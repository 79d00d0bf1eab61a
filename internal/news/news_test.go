package news

import "testing"

func TestFlatten_KeepsOrderAndTagsSource(t *testing.T) {
	in := []SourceArticles{
		{Source: "bbc", Articles: []Article{{Title: "one"}, {Title: "two", Source: "bbc-world"}}},
		{Source: "guardian"},
		{Source: "fox", Articles: []Article{{Title: "three"}}},
	}

	got := Flatten(in)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []struct{ title, source string }{{"one", "bbc"}, {"two", "bbc-world"}, {"three", "fox"}}
	for i, w := range want {
		if got[i].Title != w.title || got[i].Source != w.source {
			t.Errorf("got[%d] = %q/%q, want %q/%q", i, got[i].Title, got[i].Source, w.title, w.source)
		}
	}
	if in[0].Articles[0].Source != "" {
		t.Error("Flatten modified its input")
	}
}
