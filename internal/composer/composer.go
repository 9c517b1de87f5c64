// Package composer turns a user prompt and a chosen style into the final
// styled prompt and hands it to an encoder.
package composer

import (
	"strings"

	"github.com/dpshade/pocket-styler/internal/catalog"
	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/text"
)

// CatalogSource supplies the current catalog. *catalog.Cache satisfies it.
type CatalogSource interface {
	Get() *catalog.Catalog
}

// Request carries the inputs of one composition.
type Request struct {
	Prompt     string
	ApplyStyle bool
	// Style is a choice label of the form "category | name | id".
	Style string
	// StyleIDOverride, when non-blank, wins over Style.
	StyleIDOverride string
	Variant         models.Variant
}

// Result is the output of Encode.
type Result struct {
	Conditioning Conditioning
	StyledPrompt string
	// Template is nil when styling was not applied.
	Template *models.StyleTemplate
}

type Composer struct {
	source CatalogSource
	log    *logger.Logger
}

// New creates a composer reading styles from source
func New(source CatalogSource, log *logger.Logger) *Composer {
	if log == nil {
		log = logger.Nop()
	}
	return &Composer{source: source, log: log.With("component", "composer")}
}

// Encode composes the styled prompt for req and encodes it with enc. A nil
// encoder fails before any styling work.
func (c *Composer) Encode(enc Encoder, req Request) (*Result, error) {
	if MissingEncoder(enc) {
		return nil, errors.InvalidEncoderError()
	}

	styled, tmpl, err := c.Compose(req)
	if err != nil {
		return nil, err
	}

	tokens, err := enc.Tokenize(styled)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEncodeFailed, "failed to tokenize styled prompt")
	}
	cond, err := enc.Encode(tokens)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEncodeFailed, "failed to encode styled prompt")
	}

	return &Result{Conditioning: cond, StyledPrompt: styled, Template: tmpl}, nil
}

// Compose produces the styled prompt without encoding it.
func (c *Composer) Compose(req Request) (string, *models.StyleTemplate, error) {
	if !req.ApplyStyle {
		return req.Prompt, nil, nil
	}

	tmpl, err := c.Resolve(req)
	if err != nil {
		return "", nil, err
	}

	styled := StylePrompt(tmpl, req.Prompt, req.Variant)
	c.log.Debug("styled prompt", "style", tmpl.ID, "variant", string(req.Variant))
	return styled, &tmpl, nil
}

// Resolve picks the template for req: the override id when given, else the
// choice label.
func (c *Composer) Resolve(req Request) (models.StyleTemplate, error) {
	cat := c.source.Get()

	if id := strings.TrimSpace(req.StyleIDOverride); id != "" {
		tmpl, ok := cat.Lookup(id)
		if !ok {
			return models.StyleTemplate{}, errors.UnknownStyleOverrideError(id)
		}
		return tmpl, nil
	}

	tmpl, ok := cat.Resolve(req.Style)
	if !ok {
		return models.StyleTemplate{}, errors.NoStyleSelectedError().WithContext("style", req.Style)
	}
	return tmpl, nil
}

// StylePrompt applies tmpl to prompt. An alternate variant with non-blank
// fragments appends them as prose; otherwise prefix, prompt and suffix
// phrases are spliced and de-duplicated.
func StylePrompt(tmpl models.StyleTemplate, prompt string, variant models.Variant) string {
	if variant.IsAlternate() {
		frag := tmpl.VariantFragments(variant)
		if !frag.IsBlank() {
			return text.NormalizeSpace(strings.Join([]string{prompt, frag.Prefix, frag.Suffix}, " "))
		}
	}

	var phrases []string
	phrases = append(phrases, text.SplitPhrases(tmpl.Prefix, text.Separator)...)
	phrases = append(phrases, text.SplitPhrases(prompt, text.Separator)...)
	phrases = append(phrases, text.SplitPhrases(tmpl.Suffix, text.Separator)...)
	return strings.Join(text.DedupePhrases(phrases), text.Separator)
}
