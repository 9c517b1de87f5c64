// Package encoder provides a deterministic stand-in for a model text
// encoder so styled prompts can be encoded without a model runtime.
package encoder

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/dpshade/pocket-styler/internal/composer"
)

// DefaultDimensions is the embedding width used by NewPreview.
const DefaultDimensions = 64

// Preview is a bag-of-words hashing encoder. Equal prompts always encode to
// equal vectors.
type Preview struct {
	dims int
}

// NewPreview returns a preview encoder with DefaultDimensions.
func NewPreview() *Preview {
	return &Preview{dims: DefaultDimensions}
}

// NewPreviewWithDimensions returns a preview encoder producing dims-wide
// embeddings.
func NewPreviewWithDimensions(dims int) (*Preview, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}
	return &Preview{dims: dims}, nil
}

// Dimensions returns the embedding width.
func (p *Preview) Dimensions() int {
	return p.dims
}

// Tokenize lowercases text and splits it into runs of letters and digits.
func (p *Preview) Tokenize(text string) (composer.Tokens, error) {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return composer.Tokens(fields), nil
}

// Encode hashes every token into one signed bucket and L2-normalizes the
// result. No tokens encode to the zero vector.
func (p *Preview) Encode(tokens composer.Tokens) (composer.Conditioning, error) {
	vec := make(composer.Conditioning, p.dims)
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		idx := int(sum % uint64(p.dims))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

var _ composer.Encoder = (*Preview)(nil)
