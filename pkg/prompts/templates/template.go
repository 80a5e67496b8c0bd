// Package prompts builds the prompt templates sent to the language model.
package prompts

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// SectionOrder is the order persona sections appear in a prompt.
var SectionOrder = []string{"Personality", "Interaction Style", "Output Constraints"}

// AskPromptConfig holds the configuration for the ask prompt
type AskPromptConfig struct {
	SystemPrompt string
	Sections     map[string]string
}

// NewAskPrompt returns a template taking bot, username, question and
// max_length.
func NewAskPrompt(config AskPromptConfig) prompts.PromptTemplate {
	if config.SystemPrompt == "" {
		config.SystemPrompt = buildDefaultPrompt(config)
	}

	return prompts.NewPromptTemplate(
		config.SystemPrompt,
		[]string{"bot", "username", "question", "max_length"},
	)
}

// buildDefaultPrompt constructs the prompt from config sections
func buildDefaultPrompt(config AskPromptConfig) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("You are @{{.bot}}, a bot on Twitter. Your personality and rules are:\n\n")

	n := 1
	for _, section := range SectionOrder {
		content, exists := config.Sections[section]
		if exists {
			promptBuilder.WriteString(fmt.Sprintf("%d. %s:\n%s\n\n", n, section, content))
			n++
		}
	}

	promptBuilder.WriteString(`@{{.username}} asked you a question.

Requirements:
1. Your answer MUST be under {{.max_length}} characters
2. Do not start with a mention, it is added for you
3. Answer directly, no preamble

Question: {{.question}}

Answer:`)

	return promptBuilder.String()
}
