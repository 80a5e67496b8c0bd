// Package wallet checks payments made to the bot's treasury on EVM networks.
package wallet

import (
	"errors"
	"fmt"
)

// Error codes for various wallet operations
const (
	// ErrCodeInvalidNetwork indicates the specified network is not supported
	ErrCodeInvalidNetwork = "INVALID_NETWORK"
	// ErrCodeInvalidAddress indicates an invalid blockchain address format
	ErrCodeInvalidAddress = "INVALID_ADDRESS"
	// ErrCodeInvalidHash indicates a malformed transaction hash
	ErrCodeInvalidHash = "INVALID_TX_HASH"
	// ErrCodeTransactionFailed indicates a transaction reverted
	ErrCodeTransactionFailed = "TRANSACTION_FAILED"
	// ErrCodeTransactionNotFound indicates the network does not know the transaction
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	// ErrCodeInsufficientFunds indicates the payment is smaller than the fee
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	// ErrCodeWrongRecipient indicates the payment did not go to the treasury
	ErrCodeWrongRecipient = "WRONG_RECIPIENT"
	// ErrCodePaymentReused indicates the transaction already paid for a command
	ErrCodePaymentReused = "PAYMENT_REUSED"
	// ErrCodeRPCError indicates an RPC connection or call failed
	ErrCodeRPCError = "RPC_ERROR"
	// ErrCodeReceiptNotFound indicates transaction receipt not found
	ErrCodeReceiptNotFound = "RECEIPT_NOT_FOUND"
	// ErrCodeInvalidABI indicates invalid or malformed contract ABI
	ErrCodeInvalidABI = "INVALID_ABI"
	// ErrCodeContractError indicates contract interaction failed
	ErrCodeContractError = "CONTRACT_ERROR"
	// ErrCodePendingTransaction indicates transaction is still pending
	ErrCodePendingTransaction = "PENDING_TRANSACTION"
	// ErrCodeChainMismatch indicates chain ID mismatch
	ErrCodeChainMismatch = "CHAIN_MISMATCH"
	// ErrCodeInvalidAmount indicates a negative or malformed amount
	ErrCodeInvalidAmount = "INVALID_AMOUNT"
)

// WalletError represents a wallet-specific error with additional context
// about the error type, message, underlying error and network.
type WalletError struct {
	Code    string      // Error code identifying the type of error
	Message string      // Human readable error message
	Err     error       // Underlying error if any
	Network NetworkType // Network where the error occurred
}

func (e *WalletError) Error() string {
	msg := e.Message
	if e.Network != "" {
		msg = fmt.Sprintf("%s on network %s", msg, e.Network)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// NewWalletError creates a new WalletError with the given parameters.
func NewWalletError(code string, message string, err error, network NetworkType) *WalletError {
	return &WalletError{
		Code:    code,
		Message: message,
		Err:     err,
		Network: network,
	}
}

// IsWalletError checks if err wraps a WalletError with the given code.
func IsWalletError(err error, code string) bool {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Code == code
	}
	return false
}
