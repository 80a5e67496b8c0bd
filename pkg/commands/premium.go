package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lisanmuaddib/x402bot/pkg/bot"
	"github.com/lisanmuaddib/x402bot/pkg/wallet"
	"github.com/sirupsen/logrus"
)

// PaymentVerifier confirms a payment to the treasury. *wallet.Client
// satisfies it.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, txHash string, fee float64) (*wallet.Payment, error)
	Treasury() common.Address
}

// Premium unlocks its content once the author quotes a transaction paying
// the command's fee. Without a verifier it answers unconditionally, as the
// fee is advisory.
func Premium(verifier PaymentVerifier, currency string, logger *logrus.Logger) bot.Handler {
	if logger == nil {
		logger = logrus.New()
	}

	return Describe(bot.HandlerFunc(func(ctx context.Context, username string, cmd bot.Command) (string, error) {
		var fee float64
		if inv, ok := bot.InvocationFromContext(ctx); ok {
			fee = inv.Fee
		}

		if fee > 0 && verifier != nil {
			txHash := cmd.Param(0)
			if txHash == "" {
				return "", fmt.Errorf("payment required: send %s %s to %s, then reply: premium <tx hash>",
					FormatFee(fee), currency, verifier.Treasury().Hex())
			}

			payment, err := verifier.VerifyPayment(ctx, txHash, fee)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"username": username,
					"tx_hash":  txHash,
				}).WithError(err).Warn("Payment rejected")
				return "", PaymentError(err)
			}

			logger.WithFields(logrus.Fields{
				"username": username,
				"tx_hash":  payment.TxHash.Hex(),
				"from":     payment.From.Hex(),
			}).Info("Premium payment accepted")
		}

		msg := "✨ Premium feature accessed!"
		if fee > 0 {
			msg += fmt.Sprintf("\n\nYou were charged %s %s (x402 protocol)", FormatFee(fee), currency)
		}
		return msg, nil
	}), "Access premium feature")
}

// PaymentError turns a wallet error into something fit for a reply.
func PaymentError(err error) error {
	var we *wallet.WalletError
	if !errors.As(err, &we) {
		return errors.New("could not verify payment, try again later")
	}

	switch we.Code {
	case wallet.ErrCodeInvalidHash:
		return errors.New("that doesn't look like a transaction hash")
	case wallet.ErrCodeTransactionNotFound:
		return errors.New("transaction not found")
	case wallet.ErrCodePendingTransaction:
		return errors.New("payment is not confirmed yet, try again in a minute")
	case wallet.ErrCodeTransactionFailed:
		return errors.New("payment transaction failed")
	case wallet.ErrCodeWrongRecipient:
		return errors.New("payment was not sent to the treasury")
	case wallet.ErrCodeInsufficientFunds:
		return fmt.Errorf("insufficient payment: %s", we.Message)
	case wallet.ErrCodePaymentReused:
		return errors.New("this payment was already used")
	case wallet.ErrCodeChainMismatch:
		return errors.New("payment was made on the wrong network")
	default:
		return errors.New("could not verify payment, try again later")
	}
}
