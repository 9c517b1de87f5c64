package encoder

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	p := NewPreview()
	tokens, err := p.Tokenize("Cinematic film-still, 35mm\nFilm grain.")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cinematic", "film", "still", "35mm", "film", "grain"}
	if !reflect.DeepEqual([]string(tokens), want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
}

func TestEncodeIsDeterministicAndNormalized(t *testing.T) {
	p := NewPreview()
	tokens, _ := p.Tokenize("a cat, sitting, film grain")

	a, err := p.Encode(tokens)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := p.Encode(tokens)
	if !reflect.DeepEqual(a, b) {
		t.Error("encoding should be deterministic")
	}
	if len(a) != DefaultDimensions {
		t.Errorf("len = %d, want %d", len(a), DefaultDimensions)
	}

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("norm = %f, want 1", norm)
	}
}

func TestEncodeEmpty(t *testing.T) {
	vec, err := NewPreview().Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatal("expected the zero vector")
		}
	}
}

func TestNewPreviewWithDimensions(t *testing.T) {
	if _, err := NewPreviewWithDimensions(0); err == nil {
		t.Error("expected an error for zero dimensions")
	}
	p, err := NewPreviewWithDimensions(8)
	if err != nil || p.Dimensions() != 8 {
		t.Errorf("got %v, %v", p, err)
	}
}
