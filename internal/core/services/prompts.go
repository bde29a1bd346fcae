package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// promptBuilder constructs task-specific prompts from templates. It is a
// pure function of its inputs plus the (optionally user-customised)
// template text.
type promptBuilder struct {
	store driven.PromptStore
}

// template loads a named template, falling back to the embedded default
// when no store is configured or the load fails.
func (b promptBuilder) template(name string) string {
	if b.store != nil {
		if tmpl, err := b.store.Load(name); err == nil && tmpl != "" {
			return tmpl
		}
	}
	return driven.DefaultPrompts[name]
}

// Analyze builds the structured-output analysis prompt.
func (b promptBuilder) Analyze(content, docType string) string {
	return fmt.Sprintf(b.template(driven.PromptAnalyze), content, docType)
}

// Summarize builds the summary prompt for a detail level.
func (b promptBuilder) Summarize(content string, level domain.DetailLevel) string {
	return fmt.Sprintf(b.template(driven.PromptSummarize), level, content)
}

// Extract builds the information-extraction prompt.
func (b promptBuilder) Extract(content string, infoTypes []string) string {
	return fmt.Sprintf(b.template(driven.PromptExtract), strings.Join(infoTypes, ", "), content)
}
