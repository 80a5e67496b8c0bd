package wallet

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// addressRegex checks for a "0x" prefix followed by exactly 40 hex characters.
	addressRegex = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
	txHashRegex  = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")
)

// ValidateAddress checks the format and, for mixed-case input, the EIP-55
// checksum of an address.
func ValidateAddress(address string) error {
	if !addressRegex.MatchString(address) {
		return NewWalletError(ErrCodeInvalidAddress, "invalid address format", nil, "")
	}

	checksumAddr := common.HexToAddress(address).Hex()
	if address != strings.ToLower(address) && address != checksumAddr {
		return NewWalletError(ErrCodeInvalidAddress, "invalid address checksum", nil, "")
	}
	return nil
}

// ParseTxHash validates and decodes a transaction hash given by a user.
func ParseTxHash(hash string) (common.Hash, error) {
	hash = strings.TrimSpace(hash)
	if !txHashRegex.MatchString(hash) {
		return common.Hash{}, NewWalletError(ErrCodeInvalidHash, "invalid transaction hash", nil, "")
	}
	return common.HexToHash(hash), nil
}
