package openai

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Logger      *logrus.Logger
	Temperature float64
	MaxTokens   int
	Model       string
}

// NewOpenAIConfig reads OPENAI_API_KEY, OPENAI_MODEL, OPENAI_BASE_URL,
// OPENAI_TEMPERATURE and OPENAI_MAX_TOKENS.
func NewOpenAIConfig() (*OpenAIConfig, error) {
	config := &OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
		Logger:  logrus.New(),
	}

	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OPENAI_TEMPERATURE: %w", err)
		}
		config.Temperature = t
	}
	if v := os.Getenv("OPENAI_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid OPENAI_MAX_TOKENS: %w", err)
		}
		config.MaxTokens = n
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	// Set default values if not provided
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 200
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	return nil
}
