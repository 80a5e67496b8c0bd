package wallet_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lisanmuaddib/x402bot/pkg/wallet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

const treasuryHex = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

type fakeReader struct {
	mu       sync.Mutex
	head     uint64
	balances map[common.Address]*big.Int
	txs      map[common.Hash]*types.Transaction
	pending  map[common.Hash]bool
	receipts map[common.Hash]*types.Receipt
	callOut  []byte
	calls    []ethereum.CallMsg
	rpcErr   error
	closed   bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		head:     100,
		balances: map[common.Address]*big.Int{},
		txs:      map[common.Hash]*types.Transaction{},
		pending:  map[common.Hash]bool{},
		receipts: map[common.Hash]*types.Receipt{},
	}
}

func (f *fakeReader) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(8453), f.rpcErr
}

func (f *fakeReader) BlockNumber(ctx context.Context) (uint64, error) {
	return f.head, f.rpcErr
}

func (f *fakeReader) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if f.rpcErr != nil {
		return nil, f.rpcErr
	}
	if b, ok := f.balances[account]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeReader) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	if f.rpcErr != nil {
		return nil, false, f.rpcErr
	}
	tx, ok := f.txs[hash]
	if !ok {
		return nil, false, ethereum.NotFound
	}
	return tx, f.pending[hash], nil
}

func (f *fakeReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	r, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (f *fakeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msg)
	return f.callOut, f.rpcErr
}

func (f *fakeReader) Close() { f.closed = true }

// mined adds a signed transaction and its receipt at the given block.
func (f *fakeReader) mined(tx *types.Transaction, block uint64, status uint64, logs ...*types.Log) common.Hash {
	hash := tx.Hash()
	f.txs[hash] = tx
	f.receipts[hash] = &types.Receipt{
		Status:      status,
		BlockNumber: new(big.Int).SetUint64(block),
		TxHash:      hash,
		Logs:        logs,
	}
	return hash
}

func signedTransfer(key *ecdsa.PrivateKey, chainID int64, to common.Address, value *big.Int) *types.Transaction {
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(chainID),
		Nonce:     0,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(1_000_000_000),
		Gas:       21000,
		To:        &to,
		Value:     value,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(chainID)), key)
	Expect(err).NotTo(HaveOccurred())
	return signed
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(GinkgoWriter)
	return logger
}

var _ = Describe("Wallet", func() {
	var (
		ctx      context.Context
		reader   *fakeReader
		treasury common.Address
		key      *ecdsa.PrivateKey
		payer    common.Address
	)

	BeforeEach(func() {
		ctx = context.Background()
		reader = newFakeReader()
		treasury = common.HexToAddress(treasuryHex)

		var err error
		key, err = crypto.GenerateKey()
		Expect(err).NotTo(HaveOccurred())
		payer = crypto.PubkeyToAddress(key.PublicKey)
	})

	Describe("ValidateAddress", func() {
		It("accepts checksummed and lowercase addresses", func() {
			Expect(wallet.ValidateAddress(treasuryHex)).To(Succeed())
			Expect(wallet.ValidateAddress("0x742d35cc6634c0532925a3b844bc454e4438f44e")).To(Succeed())
		})

		It("rejects malformed addresses", func() {
			err := wallet.ValidateAddress("0x1234")
			Expect(wallet.IsWalletError(err, wallet.ErrCodeInvalidAddress)).To(BeTrue())
		})

		It("rejects a bad checksum", func() {
			err := wallet.ValidateAddress("0x742D35cc6634C0532925a3b844Bc454e4438f44e")
			Expect(wallet.IsWalletError(err, wallet.ErrCodeInvalidAddress)).To(BeTrue())
		})
	})

	Describe("ParseTxHash", func() {
		It("rejects anything but a 32-byte hex hash", func() {
			_, err := wallet.ParseTxHash("0xabc")
			Expect(wallet.IsWalletError(err, wallet.ErrCodeInvalidHash)).To(BeTrue())
		})
	})

	Describe("units", func() {
		It("converts fees to wei exactly", func() {
			wei, err := wallet.ToWei(0.001)
			Expect(err).NotTo(HaveOccurred())
			Expect(wei.String()).To(Equal("1000000000000000"))
		})

		It("converts to token units and truncates extra precision", func() {
			units, err := wallet.ToUnits(1.2345678, 6)
			Expect(err).NotTo(HaveOccurred())
			Expect(units.String()).To(Equal("1234567"))
		})

		It("rejects negative amounts", func() {
			_, err := wallet.ToWei(-1)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeInvalidAmount)).To(BeTrue())
		})

		It("formats base units", func() {
			Expect(wallet.FormatUnits(big.NewInt(1_000_000_000_000_000), 18)).To(Equal("0.001"))
			Expect(wallet.FormatUnits(big.NewInt(2_500_000), 6)).To(Equal("2.5"))
			Expect(wallet.FormatUnits(big.NewInt(0), 6)).To(Equal("0"))
			Expect(wallet.FormatUnits(nil, 6)).To(Equal("0"))
		})
	})

	Describe("WalletError", func() {
		It("unwraps to the cause", func() {
			cause := errors.New("dial tcp: refused")
			err := wallet.NewWalletError(wallet.ErrCodeRPCError, "failed", cause, wallet.BASE)
			Expect(errors.Is(err, cause)).To(BeTrue())
			Expect(err.Error()).To(Equal("[RPC_ERROR] failed on network BASE: dial tcp: refused"))
		})
	})

	Describe("LookupNetwork", func() {
		It("finds networks by name or chain id", func() {
			cfg, ok := wallet.LookupNetwork("base", 0)
			Expect(ok).To(BeTrue())
			Expect(cfg.ChainID).To(Equal(int64(8453)))
			Expect(cfg.PaysInToken()).To(BeTrue())

			cfg, ok = wallet.LookupNetwork("", 56)
			Expect(ok).To(BeTrue())
			Expect(cfg.Type).To(Equal(wallet.BSC))

			_, ok = wallet.LookupNetwork("dogechain", 0)
			Expect(ok).To(BeFalse())
		})
	})

	Context("paying in the native currency", func() {
		var client *wallet.Client

		BeforeEach(func() {
			var err error
			client, err = wallet.NewClientWithReader(reader, quietLogger(), wallet.NetworkConfig{
				Type:             wallet.BASE,
				ChainID:          8453,
				MinConfirmations: 1,
			}, treasuryHex)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a bad treasury address", func() {
			_, err := wallet.NewClientWithReader(reader, quietLogger(), wallet.NetworkConfig{}, "nope")
			Expect(wallet.IsWalletError(err, wallet.ErrCodeInvalidAddress)).To(BeTrue())
		})

		It("reads the treasury balance", func() {
			reader.balances[treasury] = big.NewInt(42)
			balance, err := client.TreasuryBalance(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(balance.Int64()).To(Equal(int64(42)))
		})

		It("wraps RPC failures", func() {
			reader.rpcErr = errors.New("down")
			_, err := client.TreasuryBalance(ctx)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeRPCError)).To(BeTrue())
		})

		It("verifies a confirmed payment", func() {
			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 8453, treasury, wei), 90, types.ReceiptStatusSuccessful)

			payment, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)

			Expect(err).NotTo(HaveOccurred())
			Expect(payment.From).To(Equal(payer))
			Expect(payment.Amount).To(Equal(wei))
			Expect(payment.Confirmations).To(Equal(uint64(11)))
		})

		It("accepts a transaction hash only once", func() {
			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 8453, treasury, wei), 90, types.ReceiptStatusSuccessful)

			_, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(err).NotTo(HaveOccurred())

			_, err = client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodePaymentReused)).To(BeTrue())
		})

		It("rejects an underpayment", func() {
			hash := reader.mined(signedTransfer(key, 8453, treasury, big.NewInt(1)), 90, types.ReceiptStatusSuccessful)

			_, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeInsufficientFunds)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("fee is 0.001"))
		})

		It("rejects payments to another address", func() {
			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 8453, payer, wei), 90, types.ReceiptStatusSuccessful)

			_, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeWrongRecipient)).To(BeTrue())
		})

		It("rejects reverted transactions", func() {
			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 8453, treasury, wei), 90, types.ReceiptStatusFailed)

			_, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeTransactionFailed)).To(BeTrue())
		})

		It("counts the head block as the first confirmation", func() {
			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 8453, treasury, wei), 100, types.ReceiptStatusSuccessful)

			payment, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(err).NotTo(HaveOccurred())
			Expect(payment.Confirmations).To(Equal(uint64(1)))
		})

		It("waits for confirmations", func() {
			strict, err := wallet.NewClientWithReader(reader, quietLogger(), wallet.NetworkConfig{
				Type:             wallet.BASE,
				ChainID:          8453,
				MinConfirmations: 3,
			}, treasuryHex)
			Expect(err).NotTo(HaveOccurred())

			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 8453, treasury, wei), 99, types.ReceiptStatusSuccessful)

			_, err = strict.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodePendingTransaction)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("2 of 3 confirmations"))
		})

		It("reports pending transactions", func() {
			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 8453, treasury, wei), 90, types.ReceiptStatusSuccessful)
			reader.pending[hash] = true

			_, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodePendingTransaction)).To(BeTrue())
		})

		It("rejects transactions from another chain", func() {
			wei, _ := wallet.ToWei(0.001)
			hash := reader.mined(signedTransfer(key, 1, treasury, wei), 90, types.ReceiptStatusSuccessful)

			_, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeChainMismatch)).To(BeTrue())
		})

		It("reports unknown transactions", func() {
			_, err := client.VerifyPayment(ctx, common.HexToHash("0x01").Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeTransactionNotFound)).To(BeTrue())
			Expect(errors.Is(err, ethereum.NotFound)).To(BeTrue())
		})

		It("closes the reader", func() {
			client.Close()
			Expect(reader.closed).To(BeTrue())
		})
	})

	Context("paying in a token", func() {
		var (
			client *wallet.Client
			token  common.Address
		)

		transferLog := func(from, to common.Address, amount int64) *types.Log {
			return &types.Log{
				Address: token,
				Topics: []common.Hash{
					wallet.TransferEventID(),
					common.BytesToHash(from.Bytes()),
					common.BytesToHash(to.Bytes()),
				},
				Data: common.LeftPadBytes(big.NewInt(amount).Bytes(), 32),
			}
		}

		BeforeEach(func() {
			cfg, ok := wallet.LookupNetwork("BASE", 0)
			Expect(ok).To(BeTrue())
			token = cfg.Token

			var err error
			client, err = wallet.NewClientWithReader(reader, quietLogger(), cfg, treasuryHex)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sums transfer events to the treasury", func() {
			call := signedTransfer(key, 8453, token, big.NewInt(0))
			hash := reader.mined(call, 95, types.ReceiptStatusSuccessful,
				transferLog(payer, treasury, 600),
				transferLog(payer, payer, 5_000_000),
				transferLog(payer, treasury, 400),
			)

			payment, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)

			Expect(err).NotTo(HaveOccurred())
			Expect(payment.Amount.Int64()).To(Equal(int64(1000)))
			Expect(payment.Required.Int64()).To(Equal(int64(1000)))
			Expect(payment.From).To(Equal(payer))
		})

		It("rejects a receipt without a transfer to the treasury", func() {
			call := signedTransfer(key, 8453, token, big.NewInt(0))
			hash := reader.mined(call, 95, types.ReceiptStatusSuccessful, transferLog(payer, payer, 1000))

			_, err := client.VerifyPayment(ctx, hash.Hex(), 0.001)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeWrongRecipient)).To(BeTrue())
		})

		It("reads the token balance with balanceOf", func() {
			reader.callOut = common.LeftPadBytes(big.NewInt(2_500_000).Bytes(), 32)

			balance, err := client.TreasuryBalance(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(client.FormatAmount(balance)).To(Equal("2.5"))
			Expect(reader.calls).To(HaveLen(1))
			Expect(*reader.calls[0].To).To(Equal(token))
		})
	})
})
