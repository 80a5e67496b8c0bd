package commands

import (
	"context"
	"fmt"
	"math/big"

	"github.com/lisanmuaddib/x402bot/pkg/bot"
)

// BalanceReader reads the treasury balance. *wallet.Client satisfies it.
type BalanceReader interface {
	TreasuryBalance(ctx context.Context) (*big.Int, error)
	FormatAmount(units *big.Int) string
}

// Balance reports the treasury balance.
func Balance(reader BalanceReader, currency string) bot.Handler {
	return Describe(bot.HandlerFunc(func(ctx context.Context, username string, cmd bot.Command) (string, error) {
		balance, err := reader.TreasuryBalance(ctx)
		if err != nil {
			return "", fmt.Errorf("could not read the treasury balance")
		}
		return fmt.Sprintf("🏦 Treasury balance: %s %s", reader.FormatAmount(balance), currency), nil
	}), "Show the treasury balance")
}
