package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/bregydoc/gtranslate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleProviderProtectsPlaceholders(t *testing.T) {
	var sent string
	var params gtranslate.TranslationParams
	g := NewGoogleProvider("")
	g.translate = func(text string, p gtranslate.TranslationParams) (string, error) {
		sent, params = text, p
		return "Bonjour {{var_1}}", nil
	}

	out, err := g.Translate(context.Background(), "Hello {{name}}", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour {{name}}", out)
	assert.Equal(t, "Hello {{var_1}}", sent)
	assert.Equal(t, "auto", params.From)
	assert.Equal(t, "fr", params.To)
}

func TestGoogleProviderError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGoogleProvider("en")
	g.translate = func(string, gtranslate.TranslationParams) (string, error) { return "", boom }

	_, err := g.Translate(context.Background(), "Hello", "xx")
	assert.ErrorIs(t, err, boom)
}

func TestGoogleProviderHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	g := NewGoogleProvider("en")
	g.translate = func(string, gtranslate.TranslationParams) (string, error) {
		<-release
		return "late", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Translate(ctx, "Hello", "fr")
	assert.ErrorIs(t, err, context.Canceled)
}
