package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"i18n-translator/internal/interpolation"
	"i18n-translator/internal/textutil"

	"github.com/rs/zerolog/log"
	genai "google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty response: no candidates")

// contentGenerator is the subset of *genai.Models used by GeminiProvider.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider translates with a Gemini model.
type GeminiProvider struct {
	models   contentGenerator
	model    string
	prompts  *PromptBuilder
	glossary Glossary
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, apiKey, model, source string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini provider requires GEMINI_API_KEY")
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiProvider{
		models:  cli.Models,
		model:   model,
		prompts: NewPromptBuilder(source),
	}, nil
}

// SetGlossary attaches a glossary whose terms are added to every prompt.
func (gp *GeminiProvider) SetGlossary(g Glossary) {
	gp.glossary = g
}

// Translate sends one translation request. It does not retry.
func (gp *GeminiProvider) Translate(ctx context.Context, text, language string) (string, error) {
	protected, mapping := interpolation.Protect(text)

	var terms map[string]string
	if gp.glossary != nil {
		t, err := gp.glossary.Terms(ctx, text, language)
		if err != nil {
			log.Warn().Err(err).Str("text", textutil.Truncate(text, 30)).Msg("Glossary lookup failed")
		} else {
			terms = t
		}
	}

	resp, err := gp.models.GenerateContent(ctx, gp.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: gp.prompts.UserPrompt(protected, language, terms)}},
		}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: gp.prompts.SystemPrompt()}},
			},
			Temperature:     genai.Ptr[float32](0.3),
			MaxOutputTokens: 2048,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var result strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		result.WriteString(p.Text)
	}
	out := strings.TrimSpace(result.String())
	if out == "" {
		return "", ErrEmptyResponse
	}

	if resp.UsageMetadata != nil {
		log.Debug().
			Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount).
			Int32("output_tokens", resp.UsageMetadata.CandidatesTokenCount).
			Msg("Gemini call complete")
	}

	return interpolation.Restore(out, mapping), nil
}
