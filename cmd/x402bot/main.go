package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lisanmuaddib/x402bot/internal/botconfig"
	"github.com/lisanmuaddib/x402bot/pkg/bot"
	"github.com/lisanmuaddib/x402bot/pkg/commands"
	"github.com/lisanmuaddib/x402bot/pkg/db"
	"github.com/lisanmuaddib/x402bot/pkg/interfaces/twitter"
	"github.com/lisanmuaddib/x402bot/pkg/llm/openai"
	"github.com/lisanmuaddib/x402bot/pkg/logging"
	"github.com/lisanmuaddib/x402bot/pkg/memory"
	"github.com/lisanmuaddib/x402bot/pkg/wallet"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Only log warning since .env is optional
		logrus.WithError(err).Warn("Error loading .env file")
	}

	cfg, err := botconfig.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	log, err := logging.NewLogger(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	twitterConfig, err := twitter.NewTwitterConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to create Twitter config")
	}
	// Override logger to use our main logger
	twitterConfig.Logger = log

	twitterClient, err := twitter.NewTwitterClient(twitterConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Twitter client")
	}

	botConfig := bot.Config{
		Client:        twitterClient,
		BotUsername:   cfg.BotUsername,
		Logger:        log,
		PollInterval:  cfg.PollInterval,
		MaxResults:    cfg.SearchMaxResults,
		DedupCapacity: cfg.DedupCapacity,
		ProtocolFee:   cfg.ProtocolFee,
	}
	commandConfig := botconfig.CommandConfig{
		Fees:         cfg.CommandFees,
		Currency:     cfg.Currency(),
		AskMaxLength: cfg.AskMaxLength,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       log,
	}

	if cfg.Wallet.Enabled() {
		network, err := cfg.NetworkConfig()
		if err != nil {
			log.WithError(err).Fatal("Invalid wallet network")
		}
		walletClient, err := wallet.NewClient(ctx, log, network, cfg.Wallet.TreasuryWallet)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect wallet")
		}
		defer walletClient.Close()

		commandConfig.Wallet = walletClient
		log.WithFields(logrus.Fields{
			"network":  network.Type,
			"chain_id": network.ChainID,
			"treasury": walletClient.Treasury().Hex(),
		}).Info("Payment verification enabled")
	} else {
		log.Warn("No RPC_URL or TREASURY_WALLET set, fees are advisory")
	}

	if cfg.DatabaseEnabled {
		database, err := db.SetupDatabase(log, db.ConfigFromEnv())
		if err != nil {
			log.WithError(err).Fatal("Failed to set up database")
		}
		defer func() {
			if err := db.Close(database); err != nil {
				log.WithError(err).Warn("Failed to close database")
			}
		}()

		journal, err := memory.NewMentionJournal(log, database)
		if err != nil {
			log.WithError(err).Fatal("Failed to create mention journal")
		}
		botConfig.Journal = journal
		commandConfig.History = journal
	}

	if os.Getenv("OPENAI_API_KEY") != "" {
		openaiConfig, err := openai.NewOpenAIConfig()
		if err != nil {
			log.WithError(err).Fatal("Failed to create OpenAI config")
		}
		openaiConfig.Logger = log

		llmClient, err := openai.NewClient(openaiConfig)
		if err != nil {
			log.WithError(err).Fatal("Failed to create OpenAI client")
		}
		commandConfig.LLM = llmClient
	}

	if cfg.CommandsFile != "" {
		catalog, err := commands.LoadCatalog(cfg.CommandsFile)
		if err != nil {
			log.WithError(err).Fatal("Failed to load command catalog")
		}
		commandConfig.Catalog = catalog
	}

	b, err := bot.New(botConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to create bot")
	}

	if err := botconfig.ConfigureCommands(b, commandConfig); err != nil {
		log.WithError(err).Fatal("Failed to configure commands")
	}

	log.WithField("bot_username", cfg.BotUsername).Info("Starting x402 mention bot")

	// Start only returns a non-cancellation error when authentication fails.
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("Bot stopped with error")
	}

	log.Info("Bot shutdown complete")
}
