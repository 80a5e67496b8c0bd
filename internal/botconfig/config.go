// Package botconfig loads the bot's settings and wires its commands.
package botconfig

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/lisanmuaddib/x402bot/pkg/wallet"
)

// WalletConfig selects the network and treasury payments are checked on.
type WalletConfig struct {
	RPCURL           string `envconfig:"RPC_URL"`
	Network          string `envconfig:"NETWORK" default:"BASE"`
	ChainID          int64  `envconfig:"CHAIN_ID"`
	TreasuryWallet   string `envconfig:"TREASURY_WALLET"`
	MinConfirmations uint64 `envconfig:"MIN_CONFIRMATIONS" default:"1"`
}

// Enabled reports whether enough is configured to reach the chain.
func (w WalletConfig) Enabled() bool {
	return w.RPCURL != "" && w.TreasuryWallet != ""
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"color"`
}

// Config is everything the bot reads from the environment apart from
// platform and database credentials.
type Config struct {
	BotUsername      string             `envconfig:"BOT_USERNAME" required:"true"`
	PollInterval     time.Duration      `envconfig:"POLL_INTERVAL" default:"5s"`
	SearchMaxResults int                `envconfig:"SEARCH_MAX_RESULTS" default:"10"`
	DedupCapacity    int                `envconfig:"DEDUP_CAPACITY"`
	ProtocolFee      float64            `envconfig:"PROTOCOL_FEE" default:"0.001"`
	CommandFees      map[string]float64 `envconfig:"COMMAND_FEES" default:"premium:0.001"`

	CommandsFile string `envconfig:"COMMANDS_FILE"`
	AskMaxLength int    `envconfig:"ASK_MAX_LENGTH" default:"240"`
	HistoryLimit int    `envconfig:"HISTORY_LIMIT" default:"5"`

	DatabaseEnabled bool `envconfig:"DATABASE_ENABLED" default:"false"`

	// FeeCurrency overrides the symbol quoted in replies.
	FeeCurrency string `envconfig:"FEE_CURRENCY"`

	Wallet  WalletConfig
	Logging LoggingConfig
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	// Name used by earlier deployments.
	if cfg.Wallet.RPCURL == "" {
		cfg.Wallet.RPCURL = os.Getenv("SOLANA_RPC_URL")
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the configuration and adjusts values in place.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	cfg.BotUsername = strings.TrimPrefix(strings.TrimSpace(cfg.BotUsername), "@")
	if cfg.BotUsername == "" {
		return fmt.Errorf("BOT_USERNAME is required")
	}

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be > 0, got %s", cfg.PollInterval)
	}
	// The recent search endpoint accepts 10 to 100 results per page.
	if cfg.SearchMaxResults < 10 || cfg.SearchMaxResults > 100 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be between 10 and 100, got %d", cfg.SearchMaxResults)
	}
	if cfg.DedupCapacity < 0 {
		return fmt.Errorf("DEDUP_CAPACITY must be >= 0")
	}
	if cfg.ProtocolFee < 0 || cfg.ProtocolFee >= 1 {
		return fmt.Errorf("PROTOCOL_FEE must be a fraction in [0, 1), got %v", cfg.ProtocolFee)
	}

	fees := make(map[string]float64, len(cfg.CommandFees))
	for name, fee := range cfg.CommandFees {
		if fee < 0 {
			return fmt.Errorf("COMMAND_FEES: fee for %q cannot be negative", name)
		}
		fees[strings.ToLower(strings.TrimSpace(name))] = fee
	}
	cfg.CommandFees = fees

	if cfg.Wallet.TreasuryWallet != "" {
		if err := wallet.ValidateAddress(cfg.Wallet.TreasuryWallet); err != nil {
			return fmt.Errorf("TREASURY_WALLET: %w", err)
		}
	}

	switch f := strings.ToLower(strings.TrimSpace(cfg.Logging.Format)); f {
	case "", "color":
		cfg.Logging.Format = "color"
	case "json", "text":
		cfg.Logging.Format = f
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q; allowed: color, text, json", cfg.Logging.Format)
	}
	return nil
}

// NetworkConfig resolves the wallet settings against the known networks.
func (c *Config) NetworkConfig() (wallet.NetworkConfig, error) {
	network, ok := wallet.LookupNetwork(c.Wallet.Network, c.Wallet.ChainID)
	if !ok {
		if c.Wallet.ChainID == 0 {
			return wallet.NetworkConfig{}, wallet.NewWalletError(wallet.ErrCodeInvalidNetwork,
				fmt.Sprintf("unknown network %q", c.Wallet.Network), nil, "")
		}
		// Any other EVM chain, paid in its native currency.
		network = wallet.NetworkConfig{
			Type:       wallet.NetworkType(strings.ToUpper(c.Wallet.Network)),
			Symbol:     strings.ToUpper(c.Wallet.Network),
			ChainID:    c.Wallet.ChainID,
			MaxRetries: 3,
			RetryDelay: time.Second,
		}
	}

	network.RPCURL = c.Wallet.RPCURL
	network.MinConfirmations = c.Wallet.MinConfirmations
	return network, nil
}

// Currency is the symbol fees are quoted in.
func (c *Config) Currency() string {
	if c.FeeCurrency != "" {
		return c.FeeCurrency
	}
	if network, err := c.NetworkConfig(); err == nil && network.Symbol != "" {
		return network.Symbol
	}
	return strings.ToUpper(c.Wallet.Network)
}
