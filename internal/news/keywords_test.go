package news

import (
	"reflect"
	"strings"
	"testing"
	"unicode"
)

func TestExtractKeywords_Basic(t *testing.T) {
	got := ExtractKeywords("Corporate Power Criticized by the Unions")
	want := []string{"corporate", "power", "criticized", "unions"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_StripsDigitsAndPunctuation(t *testing.T) {
	got := ExtractKeywords("COVID-19 cases rise: 2024's numbers, don't panic!")
	// "covid-19" -> "covid", "2024's" -> "s", "don't" -> "dont"
	want := []string{"covid", "cases", "numbers", "panic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_Deduplicates(t *testing.T) {
	got := ExtractKeywords("Storm storm STORM hits coast; storm warning")
	want := []string{"storm", "coast", "warning"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	if got := ExtractKeywords(""); len(got) != 0 {
		t.Errorf("ExtractKeywords(\"\") = %v, want empty", got)
	}
	if got := ExtractKeywords("   \t\n "); len(got) != 0 {
		t.Errorf("ExtractKeywords(blank) = %v, want empty", got)
	}
}

func TestExtractKeywords_NonLatinYieldsNothing(t *testing.T) {
	if got := ExtractKeywords("ראש הממשלה הודיע היום"); len(got) != 0 {
		t.Errorf("hebrew text gave keywords %v", got)
	}
	// accented letters vanish and glue neighbours together
	got := ExtractKeywords("café société")
	want := []string{"socit"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_UnicodeWhitespaceSeparates(t *testing.T) {
	got := ExtractKeywords("market\u00a0rally\u3000today")
	want := []string{"market", "rally", "today"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_ByteOrderMarkAndNEL(t *testing.T) {
	if got, want := ExtractKeywords("storm\ufeffflood"), []string{"storm", "flood"}; !reflect.DeepEqual(got, want) {
		t.Errorf("BOM: ExtractKeywords = %v, want %v", got, want)
	}
	if got, want := ExtractKeywords("storm\u0085flood"), []string{"stormflood"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NEL: ExtractKeywords = %v, want %v", got, want)
	}
	if got, want := ExtractKeywords("\ufeffharbour strike"), []string{"harbour", "strike"}; !reflect.DeepEqual(got, want) {
		t.Errorf("leading BOM: ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_TokenShape(t *testing.T) {
	inputs := []string{
		"Breaking: PM's 3rd address at 10:30 — markets REACT!!",
		"ÜBER-Großstadt Zürich 2025 Ölpreis",
		"tabs\tand\nnewlines\rmixed   spacing everywhere",
		"email@example.com https://news.example.org/path?q=1",
	}
	for _, in := range inputs {
		for _, w := range ExtractKeywords(in) {
			if len(w) <= 4 {
				t.Errorf("%q: token %q too short", in, w)
			}
			if strings.IndexFunc(w, func(r rune) bool {
				return r < 'a' || r > 'z' || unicode.IsUpper(r)
			}) >= 0 {
				t.Errorf("%q: token %q has a non a-z rune", in, w)
			}
		}
	}
}
