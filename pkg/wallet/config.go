package wallet

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// NetworkType represents supported EVM networks
type NetworkType string

const (
	// ETH represents the Ethereum mainnet network
	ETH NetworkType = "ETH"
	// BASE represents the Base network
	BASE NetworkType = "BASE"
	// BSC represents the Binance Smart Chain network
	BSC NetworkType = "BSC"
)

// NetworkConfig holds the settings used to check payments on one network.
type NetworkConfig struct {
	// Type identifies which blockchain network this config is for (e.g. ETH, BSC)
	Type NetworkType

	// RPCURL is the HTTP(S) endpoint for connecting to the network
	RPCURL string

	// ChainID is the unique identifier for the blockchain network
	ChainID int64

	// MaxRetries specifies how many times to retry the initial dial
	MaxRetries int

	// RetryDelay is the duration to wait between retry attempts
	RetryDelay time.Duration

	// MinConfirmations is how many blocks, counting the one that mined the
	// payment, must exist before it counts
	MinConfirmations uint64

	// Token is the ERC20 contract payments are made in. The zero address
	// means payments are made in the native currency.
	Token common.Address

	// TokenDecimals is the number of decimals of Token
	TokenDecimals uint8

	// Symbol names the payment currency in replies
	Symbol string
}

// PaysInToken reports whether payments are ERC20 transfers.
func (n NetworkConfig) PaysInToken() bool {
	return n.Token != (common.Address{})
}

// Decimals returns the number of decimals of the payment currency.
func (n NetworkConfig) Decimals() uint8 {
	if n.PaysInToken() {
		return n.TokenDecimals
	}
	return 18
}

// DefaultNetworkConfigs returns pre-configured settings for supported networks.
// Base pays in USDC, the others in their native currency.
func DefaultNetworkConfigs() []NetworkConfig {
	return []NetworkConfig{
		{
			Type:             ETH,
			Symbol:           "ETH",
			ChainID:          1,
			MaxRetries:       3,
			RetryDelay:       time.Second,
			MinConfirmations: 1,
		},
		{
			Type:             BASE,
			Symbol:           "USDC",
			ChainID:          8453,
			MaxRetries:       3,
			RetryDelay:       time.Second,
			MinConfirmations: 1,
			Token:            common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"),
			TokenDecimals:    6,
		},
		{
			Type:             BSC,
			Symbol:           "BNB",
			ChainID:          56,
			MaxRetries:       3,
			RetryDelay:       time.Second,
			MinConfirmations: 1,
		},
	}
}

// LookupNetwork returns the default config for a network name or chain id.
func LookupNetwork(name string, chainID int64) (NetworkConfig, bool) {
	for _, cfg := range DefaultNetworkConfigs() {
		if strings.EqualFold(string(cfg.Type), name) || (chainID != 0 && cfg.ChainID == chainID) {
			return cfg, true
		}
	}
	return NetworkConfig{}, false
}
