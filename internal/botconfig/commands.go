package botconfig

import (
	"fmt"

	"github.com/lisanmuaddib/x402bot/internal/personality/traits"
	"github.com/lisanmuaddib/x402bot/pkg/bot"
	"github.com/lisanmuaddib/x402bot/pkg/commands"
	"github.com/lisanmuaddib/x402bot/pkg/llm"
	"github.com/sirupsen/logrus"
)

// PaymentWallet is what the paid and treasury commands need from the chain.
type PaymentWallet interface {
	commands.PaymentVerifier
	commands.BalanceReader
}

// CommandConfig lists the optional services commands are built on. A nil
// service leaves its commands unregistered.
type CommandConfig struct {
	// Fees maps command names to their fee. Commands missing from it are free.
	Fees         map[string]float64
	Currency     string
	Wallet       PaymentWallet
	History      commands.HistoryStore
	LLM          llm.LLM
	Catalog      *commands.Catalog
	AskMaxLength int
	HistoryLimit int
	Logger       *logrus.Logger
}

// ConfigureCommands registers the built-in commands and the catalog on b,
// each with its fee from config.Fees. A catalog entry's own fee wins.
func ConfigureCommands(b *bot.Bot, config CommandConfig) error {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	if err := b.OnCommand("hello", commands.Hello(), config.Fees["hello"]); err != nil {
		return err
	}
	if err := b.OnCommand("help", commands.Help(b.Registry(), config.Currency), config.Fees["help"]); err != nil {
		return err
	}

	var verifier commands.PaymentVerifier
	if config.Wallet != nil {
		verifier = config.Wallet
	}
	if err := b.OnCommand("premium", commands.Premium(verifier, config.Currency, config.Logger), config.Fees["premium"]); err != nil {
		return err
	}

	if config.Wallet != nil {
		if err := b.OnCommand("balance", commands.Balance(config.Wallet, config.Currency), config.Fees["balance"]); err != nil {
			return err
		}
	}

	if config.History != nil {
		if err := b.OnCommand("history", commands.History(config.History, config.HistoryLimit), config.Fees["history"]); err != nil {
			return err
		}
	}

	if config.LLM != nil {
		ask := commands.Ask(config.LLM, traits.NewAskPrompt(), b.Handle(), config.AskMaxLength)
		if err := b.OnCommand("ask", ask, config.Fees["ask"]); err != nil {
			return err
		}
	}

	if config.Catalog != nil {
		for _, entry := range config.Catalog.Commands {
			if _, taken := b.Registry().Lookup(entry.Name); taken {
				return fmt.Errorf("catalog: command %q is already registered", entry.Name)
			}
			fee := config.Fees[entry.Name]
			if entry.Fee > 0 {
				fee = entry.Fee
			}
			if err := b.OnCommand(entry.Name, entry.Handler(config.Currency), fee); err != nil {
				return fmt.Errorf("catalog: %w", err)
			}
		}
	}

	config.Logger.WithField("commands", b.Registry().Len()).Info("Commands configured")
	return nil
}
