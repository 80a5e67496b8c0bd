package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lisanmuaddib/x402bot/pkg/bot"
	"github.com/lisanmuaddib/x402bot/pkg/llm"
	"github.com/tmc/langchaingo/prompts"
)

// DefaultAnswerLength keeps "@username answer" inside a tweet.
const DefaultAnswerLength = 240

// Ask answers a free-form question with the language model.
func Ask(model llm.LLM, prompt prompts.PromptTemplate, botHandle string, maxLength int) bot.Handler {
	if maxLength <= 0 {
		maxLength = DefaultAnswerLength
	}

	return Describe(bot.HandlerFunc(func(ctx context.Context, username string, cmd bot.Command) (string, error) {
		question := strings.Join(cmd.Params, " ")
		if question == "" {
			return "", errors.New("usage: ask <question>")
		}

		formatted, err := prompt.Format(map[string]any{
			"bot":        botHandle,
			"username":   username,
			"question":   question,
			"max_length": maxLength,
		})
		if err != nil {
			return "", fmt.Errorf("error formatting ask prompt: %w", err)
		}

		answer, err := model.Generate(ctx, formatted)
		if err != nil {
			return "", errors.New("couldn't come up with an answer, try again later")
		}
		if answer == "" {
			return "", errors.New("got an empty answer, try rephrasing")
		}
		return Truncate(answer, maxLength), nil
	}), "Ask me anything")
}

// Truncate shortens s to at most n runes, ending in an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
