package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/lisanmuaddib/x402bot/pkg/llm"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client generates completions through langchaingo's OpenAI model.
type Client struct {
	logger *logrus.Logger
	model  llms.Model
	config *OpenAIConfig
}

var _ llm.LLM = (*Client)(nil)

func NewClient(config *OpenAIConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI: %w", err)
	}

	return NewClientWithModel(config, model), nil
}

// NewClientWithModel wraps an existing langchaingo model.
func NewClientWithModel(config *OpenAIConfig, model llms.Model) *Client {
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		logger: logger,
		model:  model,
		config: config,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Model:       c.config.Model,
	}, opts...)

	c.logger.WithFields(logrus.Fields{
		"temperature": options.Temperature,
		"max_tokens":  options.MaxTokens,
		"model":       options.Model,
	}).Debug("Generating completion")

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(options.Temperature),
		llms.WithMaxTokens(options.MaxTokens),
		llms.WithModel(options.Model),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	return strings.TrimSpace(completion), nil
}
