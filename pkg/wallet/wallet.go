package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// ChainReader is the read-only part of an EVM RPC client the wallet uses.
// *ethclient.Client satisfies it.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

// Client watches a single treasury address on one network. It never signs
// or sends transactions.
type Client struct {
	reader   ChainReader
	config   NetworkConfig
	treasury common.Address
	log      *logrus.Logger

	mu   sync.Mutex
	used map[common.Hash]struct{}
}

// NewClient dials config.RPCURL and returns a client for the treasury address.
//
// Example:
//
//	cfg, _ := LookupNetwork("BASE", 0)
//	cfg.RPCURL = "https://mainnet.base.org"
//	client, err := NewClient(ctx, logger, cfg, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
func NewClient(ctx context.Context, log *logrus.Logger, config NetworkConfig, treasury string) (*Client, error) {
	if err := ValidateAddress(treasury); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}

	ethClient, err := dialWithRetry(ctx, log, config)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to connect to network", err, config.Type)
	}

	if config.ChainID != 0 {
		chainID, err := ethClient.ChainID(ctx)
		if err != nil {
			ethClient.Close()
			return nil, NewWalletError(ErrCodeRPCError, "failed to get chain ID", err, config.Type)
		}
		if chainID.Int64() != config.ChainID {
			ethClient.Close()
			return nil, NewWalletError(ErrCodeChainMismatch,
				fmt.Sprintf("expected chain %d, RPC serves %s", config.ChainID, chainID), nil, config.Type)
		}
	}

	return NewClientWithReader(ethClient, log, config, treasury)
}

// NewClientWithReader builds a client on an existing chain reader.
func NewClientWithReader(reader ChainReader, log *logrus.Logger, config NetworkConfig, treasury string) (*Client, error) {
	if err := ValidateAddress(treasury); err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, NewWalletError(ErrCodeRPCError, "chain reader is required", nil, config.Type)
	}
	if log == nil {
		log = logrus.New()
	}

	return &Client{
		reader:   reader,
		config:   config,
		treasury: common.HexToAddress(treasury),
		log:      log,
		used:     make(map[common.Hash]struct{}),
	}, nil
}

func (c *Client) Treasury() common.Address { return c.treasury }

func (c *Client) Network() NetworkConfig { return c.config }

// GetBalance retrieves the balance of address in the payment currency.
func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	addr := common.HexToAddress(address)

	var (
		balance *big.Int
		err     error
	)
	if c.config.PaysInToken() {
		balance, err = c.tokenBalance(ctx, c.config.Token, addr)
	} else {
		balance, err = c.reader.BalanceAt(ctx, addr, nil)
		if err != nil {
			err = NewWalletError(ErrCodeRPCError, "failed to get balance", err, c.config.Type)
		}
	}
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"network": c.config.Type,
		"address": address,
		"balance": balance.String(),
	}).Debug("Retrieved balance")

	return balance, nil
}

// TreasuryBalance is GetBalance for the treasury address.
func (c *Client) TreasuryBalance(ctx context.Context) (*big.Int, error) {
	return c.GetBalance(ctx, c.treasury.Hex())
}

// FormatAmount renders base units in the payment currency's decimals.
func (c *Client) FormatAmount(units *big.Int) string {
	return FormatUnits(units, c.config.Decimals())
}

// Close closes the network connection.
func (c *Client) Close() {
	c.reader.Close()
	c.log.WithField("network", c.config.Type).Debug("Closed network connection")
}

// dialWithRetry attempts to connect to the network, retrying per the config.
func dialWithRetry(ctx context.Context, log *logrus.Logger, config NetworkConfig) (*ethclient.Client, error) {
	var client *ethclient.Client
	var err error

	for i := 0; i <= config.MaxRetries; i++ {
		client, err = ethclient.DialContext(ctx, config.RPCURL)
		if err == nil {
			return client, nil
		}

		if i < config.MaxRetries {
			log.WithFields(logrus.Fields{
				"network": config.Type,
				"attempt": i + 1,
				"error":   err,
			}).Debug("Retrying network connection")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(config.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", config.MaxRetries+1, err)
}
