// Package translation obtains translations for extracted literals.
//
// The Aggregator drives a Provider: one call per unique literal per target
// language, strictly sequential unless bounded concurrency is requested.
package translation

import "context"

// Provider translates text into a target language.
type Provider interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, text, language string) (string, error)

// Translate calls f.
func (f ProviderFunc) Translate(ctx context.Context, text, language string) (string, error) {
	return f(ctx, text, language)
}

// Glossary supplies known term translations for a text.
type Glossary interface {
	// Terms returns source term -> target term for every glossary term of
	// language contained in text.
	Terms(ctx context.Context, text, language string) (map[string]string, error)
}
