package twitter

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.twitter.com/2"
)

type TwitterConfig struct {
	// API Authentication
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string

	// API Endpoints
	BaseURL        string
	TweetEndpoint  string
	SearchEndpoint string
	MeEndpoint     string

	// Rate Limiting: RateLimit requests per RateWindow minutes
	RateLimit  int
	RateWindow int

	// General Config
	Logger *logrus.Logger
}

func NewTwitterConfig() (*TwitterConfig, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	rateLimit, _ := strconv.Atoi(getEnvOrDefault("TWITTER_RATE_LIMIT", "180"))
	rateWindow, _ := strconv.Atoi(getEnvOrDefault("TWITTER_RATE_WINDOW", "15"))

	config := &TwitterConfig{
		ConsumerKey:       firstEnv("TWITTER_CONSUMER_KEY", "TWITTER_API_KEY"),
		ConsumerSecret:    firstEnv("TWITTER_CONSUMER_SECRET", "TWITTER_API_SECRET"),
		AccessToken:       os.Getenv("TWITTER_ACCESS_TOKEN"),
		AccessTokenSecret: firstEnv("TWITTER_ACCESS_TOKEN_SECRET", "TWITTER_ACCESS_SECRET"),
		BearerToken:       os.Getenv("TWITTER_BEARER_TOKEN"),

		BaseURL:        getEnvOrDefault("TWITTER_API_BASE_URL", DefaultBaseURL),
		TweetEndpoint:  "/tweets",
		SearchEndpoint: "/tweets/search/recent",
		MeEndpoint:     "/users/me",

		RateLimit:  rateLimit,
		RateWindow: rateWindow,

		Logger: func() *logrus.Logger {
			log := logrus.New()
			if level := os.Getenv("LOG_LEVEL"); level != "" {
				if parsedLevel, err := logrus.ParseLevel(level); err == nil {
					log.SetLevel(parsedLevel)
				}
			}
			return log
		}(),
	}

	config.Logger.WithFields(logrus.Fields{
		"consumer_key_exists": config.ConsumerKey != "",
		"bearer_token_exists": config.BearerToken != "",
		"base_url":            config.BaseURL,
		"rate_limit":          config.RateLimit,
	}).Debug("Twitter config initialized")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks credentials and fills in endpoint defaults.
func (c *TwitterConfig) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	c.Logger.Debug("Validating Twitter configuration")

	// Replies need OAuth 1.0a user context; a bearer token alone is read-only.
	if !c.HasWriteAccess() {
		c.Logger.WithFields(logrus.Fields{
			"consumer_key_exists":        c.ConsumerKey != "",
			"consumer_secret_exists":     c.ConsumerSecret != "",
			"access_token_exists":        c.AccessToken != "",
			"access_token_secret_exists": c.AccessTokenSecret != "",
		}).Debug("OAuth credentials validation")

		if c.BearerToken == "" {
			return fmt.Errorf("either OAuth 1.0a credentials or Bearer token must be provided")
		}
	}

	if c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.RateWindow < 1 {
		return fmt.Errorf("rate window must be positive")
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TweetEndpoint == "" {
		c.TweetEndpoint = "/tweets"
	}
	if c.SearchEndpoint == "" {
		c.SearchEndpoint = "/tweets/search/recent"
	}
	if c.MeEndpoint == "" {
		c.MeEndpoint = "/users/me"
	}

	c.Logger.Debug("Twitter configuration validation completed successfully")
	return nil
}

// Helper function to get environment variable with default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

// GetEndpoint returns the full URL for a given endpoint
func (c *TwitterConfig) GetEndpoint(endpoint string) string {
	fullURL := c.BaseURL + endpoint
	c.Logger.WithFields(logrus.Fields{
		"base_url": c.BaseURL,
		"endpoint": endpoint,
		"full_url": fullURL,
	}).Trace("Constructed API endpoint")
	return fullURL
}

// HasWriteAccess returns true if OAuth 1.0a credentials are configured
func (c *TwitterConfig) HasWriteAccess() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

// HasReadAccess returns true if either OAuth 1.0a or Bearer token is configured
func (c *TwitterConfig) HasReadAccess() bool {
	return c.HasWriteAccess() || c.BearerToken != ""
}
