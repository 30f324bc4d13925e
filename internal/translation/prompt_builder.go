package translation

import (
	"fmt"
	"sort"
	"strings"
)

// PromptBuilder constructs system and user prompts for LLM translation.
type PromptBuilder struct {
	source string
}

// NewPromptBuilder creates a prompt builder for the given source language
// ("auto" or empty when unknown).
func NewPromptBuilder(source string) *PromptBuilder {
	return &PromptBuilder{source: source}
}

const systemPromptTemplate = `You are a professional software localizer translating user interface strings%s.

Rules:
1. Translate the text into the language identified by the BCP 47 code given in the request.
2. Preserve ALL placeholders like {{var_1}}, {{var_2}}, etc. Copy them exactly as-is.
3. Preserve punctuation, capitalization style, leading and trailing whitespace.
4. Output ONLY the translation, nothing else.
5. Do NOT add explanations, quotes, notes, or extra text.
6. If a glossary is provided, always use its terms.
7. Keep UI text concise and natural.`

// SystemPrompt returns the system prompt.
func (pb *PromptBuilder) SystemPrompt() string {
	from := ""
	if pb.source != "" && pb.source != "auto" {
		from = fmt.Sprintf(" from %s", pb.source)
	}
	return fmt.Sprintf(systemPromptTemplate, from)
}

// UserPrompt builds the request for one text, with glossary terms if any.
func (pb *PromptBuilder) UserPrompt(text, language string, terms map[string]string) string {
	var sb strings.Builder

	if len(terms) > 0 {
		sources := make([]string, 0, len(terms))
		for src := range terms {
			sources = append(sources, src)
		}
		sort.Strings(sources)

		sb.WriteString("=== Glossary ===\n")
		for _, src := range sources {
			fmt.Fprintf(&sb, "• %s → %s\n", src, terms[src])
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Target language: %s\n", language)
	fmt.Fprintf(&sb, "Text to translate:\n%s", text)

	return sb.String()
}
