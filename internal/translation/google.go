package translation

import (
	"context"
	"fmt"

	"i18n-translator/internal/interpolation"

	"github.com/bregydoc/gtranslate"
)

// GoogleProvider translates through the public Google Translate web endpoint.
type GoogleProvider struct {
	source    string
	translate func(text string, params gtranslate.TranslationParams) (string, error)
}

// NewGoogleProvider creates a provider translating from source ("auto" to
// let the service detect the language).
func NewGoogleProvider(source string) *GoogleProvider {
	if source == "" {
		source = "auto"
	}
	return &GoogleProvider{
		source:    source,
		translate: gtranslate.TranslateWithParams,
	}
}

// Translate translates text into language. The underlying client has no
// context support, so the call is abandoned (not interrupted) when ctx ends.
func (g *GoogleProvider) Translate(ctx context.Context, text, language string) (string, error) {
	protected, mapping := interpolation.Protect(text)

	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		out, err := g.translate(protected, gtranslate.TranslationParams{
			From: g.source,
			To:   language,
		})
		ch <- reply{text: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("google translate: %w", r.err)
		}
		return interpolation.Restore(r.text, mapping), nil
	}
}
