package text

import (
	"reflect"
	"testing"
)

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\r\n ", ""},
		{"line breaks", "a cat\r\nsitting\non a mat", "a cat sitting on a mat"},
		{"runs", "  a   cat\t\tsitting  ", "a cat sitting"},
		{"already normal", "a cat", "a cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSpace(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeSpace(got); again != got {
				t.Errorf("NormalizeSpace is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSplitPhrases(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a cat, sitting", []string{"a cat", "sitting"}},
		{" , a cat ,  , sitting, ", []string{"a cat", "sitting,"}},
		{"film grain,dramatic", []string{"film grain,dramatic"}},
		{"line\nbreak, kept", []string{"line break", "kept"}},
	}

	for _, tt := range tests {
		got := SplitPhrases(tt.in, Separator)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitPhrases(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestDedupePhrases(t *testing.T) {
	got := DedupePhrases([]string{"Cat", "cat", "Dog"})
	want := []string{"Cat", "Dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupePhrases = %#v, want %#v", got, want)
	}

	got = DedupePhrases([]string{"b", "A", "a", "B", "c"})
	want = []string{"b", "A", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupePhrases = %#v, want %#v", got, want)
	}

	got = DedupePhrases([]string{"Straße", "STRASSE", "strasse"})
	want = []string{"Straße"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupePhrases = %#v, want %#v", got, want)
	}

	if got := DedupePhrases(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %#v", got)
	}
}

func TestJoinPhrases(t *testing.T) {
	got := JoinPhrases([]string{"cinematic film still", " ", "Cinematic Film Still", "film grain "})
	want := "cinematic film still, film grain"
	if got != want {
		t.Errorf("JoinPhrases = %q, want %q", got, want)
	}
}

func TestJoinSentences(t *testing.T) {
	got := JoinSentences([]string{"Style: film noir.", "", "Lighting: dramatic side lighting"})
	want := "Style: film noir. Lighting: dramatic side lighting."
	if got != want {
		t.Errorf("JoinSentences = %q, want %q", got, want)
	}
	if got := JoinSentences(nil); got != "" {
		t.Errorf("JoinSentences(nil) = %q, want empty", got)
	}
}
