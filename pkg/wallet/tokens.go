package wallet

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// erc20ABI is the subset of ERC20 the wallet reads: balances and transfers.
const erc20ABI = `[
	{
		"constant": true,
		"inputs": [{"name": "_owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "balance", "type": "uint256"}],
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "from", "type": "address"},
			{"indexed": true, "name": "to", "type": "address"},
			{"indexed": false, "name": "value", "type": "uint256"}
		],
		"name": "Transfer",
		"type": "event"
	}
]`

var parsedERC20 abi.ABI

func init() {
	var err error
	parsedERC20, err = abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		panic(err)
	}
}

// TransferEventID is the topic of the ERC20 Transfer event.
func TransferEventID() common.Hash {
	return parsedERC20.Events["Transfer"].ID
}

// tokenBalance calls balanceOf on the token contract.
func (c *Client) tokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	network := c.config.Type

	data, err := parsedERC20.Pack("balanceOf", account)
	if err != nil {
		return nil, NewWalletError(ErrCodeInvalidABI, "failed to pack balanceOf", err, network)
	}

	out, err := c.reader.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, NewWalletError(ErrCodeContractError, "failed to get token balance", err, network)
	}

	values, err := parsedERC20.Unpack("balanceOf", out)
	if err != nil {
		return nil, NewWalletError(ErrCodeContractError, "failed to decode token balance", err, network)
	}
	if len(values) == 0 {
		return nil, NewWalletError(ErrCodeContractError, "no balance returned", nil, network)
	}

	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, NewWalletError(ErrCodeContractError, "failed to convert balance to *big.Int", nil, network)
	}
	return balance, nil
}

// tokenTransfer sums the Transfer events of token in the receipt that pay to.
// It returns the first sender it saw along with the total.
func tokenTransfer(receipt *types.Receipt, token, to common.Address) (common.Address, *big.Int) {
	total := new(big.Int)
	var from common.Address
	eventID := TransferEventID()

	for _, l := range receipt.Logs {
		if l == nil || l.Address != token || len(l.Topics) != 3 || l.Topics[0] != eventID {
			continue
		}
		if common.BytesToAddress(l.Topics[2].Bytes()) != to {
			continue
		}
		if from == (common.Address{}) {
			from = common.BytesToAddress(l.Topics[1].Bytes())
		}
		total.Add(total, new(big.Int).SetBytes(l.Data))
	}
	return from, total
}
