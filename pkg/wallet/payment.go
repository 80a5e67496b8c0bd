package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

// Payment is a confirmed transfer to the treasury.
type Payment struct {
	TxHash        common.Hash
	From          common.Address
	Amount        *big.Int
	Required      *big.Int
	BlockNumber   uint64
	Confirmations uint64
}

// VerifyPayment checks that txHash is a successful, confirmed transfer of at
// least fee (in whole currency units) to the treasury. A transaction can
// only pay once per client.
func (c *Client) VerifyPayment(ctx context.Context, txHash string, fee float64) (*Payment, error) {
	network := c.config.Type

	hash, err := ParseTxHash(txHash)
	if err != nil {
		return nil, err
	}

	required, err := ToUnits(fee, c.config.Decimals())
	if err != nil {
		return nil, err
	}

	if c.isUsed(hash) {
		return nil, NewWalletError(ErrCodePaymentReused, "payment already used", nil, network)
	}

	log := c.log.WithFields(logrus.Fields{
		"network": network,
		"tx_hash": hash.Hex(),
	})

	tx, pending, err := c.reader.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, NewWalletError(ErrCodeTransactionNotFound, "transaction not found", err, network)
		}
		return nil, NewWalletError(ErrCodeRPCError, "failed to get transaction", err, network)
	}
	if pending {
		return nil, NewWalletError(ErrCodePendingTransaction, "transaction is still pending", nil, network)
	}

	if txChain := tx.ChainId(); c.config.ChainID != 0 && txChain != nil && txChain.Sign() > 0 && txChain.Int64() != c.config.ChainID {
		return nil, NewWalletError(ErrCodeChainMismatch,
			fmt.Sprintf("transaction is for chain %s", txChain), nil, network)
	}

	receipt, err := c.reader.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, NewWalletError(ErrCodeReceiptNotFound, "failed to get receipt", err, network)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, NewWalletError(ErrCodeTransactionFailed, "transaction reverted", nil, network)
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	head, err := c.reader.BlockNumber(ctx)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to get current block number", err, network)
	}
	// The block holding the transaction is its first confirmation.
	var confirmations uint64
	if head >= block {
		confirmations = head - block + 1
	}
	if confirmations < c.config.MinConfirmations {
		return nil, NewWalletError(ErrCodePendingTransaction,
			fmt.Sprintf("%d of %d confirmations", confirmations, c.config.MinConfirmations), nil, network)
	}

	payment := &Payment{
		TxHash:        hash,
		Required:      required,
		BlockNumber:   block,
		Confirmations: confirmations,
	}

	if c.config.PaysInToken() {
		payment.From, payment.Amount = tokenTransfer(receipt, c.config.Token, c.treasury)
		if payment.Amount.Sign() == 0 {
			return nil, NewWalletError(ErrCodeWrongRecipient, "no token transfer to the treasury", nil, network)
		}
	} else {
		if tx.To() == nil || *tx.To() != c.treasury {
			return nil, NewWalletError(ErrCodeWrongRecipient, "payment was not sent to the treasury", nil, network)
		}
		payment.Amount = tx.Value()
		if from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx); err == nil {
			payment.From = from
		} else {
			log.WithError(err).Debug("Could not recover payment sender")
		}
	}

	if payment.Amount.Cmp(required) < 0 {
		return nil, NewWalletError(ErrCodeInsufficientFunds,
			fmt.Sprintf("paid %s, fee is %s", c.FormatAmount(payment.Amount), c.FormatAmount(required)), nil, network)
	}

	if !c.markUsed(hash) {
		return nil, NewWalletError(ErrCodePaymentReused, "payment already used", nil, network)
	}

	log.WithFields(logrus.Fields{
		"from":          payment.From.Hex(),
		"amount":        payment.Amount.String(),
		"confirmations": confirmations,
	}).Info("Verified payment")

	return payment, nil
}

func (c *Client) isUsed(hash common.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.used[hash]
	return ok
}

// markUsed records hash, returning false if another caller got there first.
func (c *Client) markUsed(hash common.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.used[hash]; ok {
		return false
	}
	c.used[hash] = struct{}{}
	return true
}
