package relay

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/chain"
)

// ErrorKind classifies a failed relay attempt so callers can tell
// caller-fixable input problems from operational failures.
type ErrorKind string

const (
	KindInvalidAddress    ErrorKind = "invalid_address"
	KindInvalidAmount     ErrorKind = "invalid_amount"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindRejected          ErrorKind = "rejected"
	KindNetwork           ErrorKind = "network"
)

// IsInputError reports whether the kind is fixable by the caller (no retry
// will help without changing the request).
func (k ErrorKind) IsInputError() bool {
	return k == KindInvalidAddress || k == KindInvalidAmount
}

type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Classify extracts the ErrorKind from a relay error, or "" for foreign errors.
func Classify(err error) ErrorKind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

const (
	transferGasLimit = 21000 // plain value transfer

	// submitTimeout bounds one full submission (nonce, gas price, broadcast)
	// so a stuck node surfaces as a network failure instead of a hung caller.
	submitTimeout = 30 * time.Second
)

// Relay turns a validated transfer request into exactly one broadcast
// transaction. It does not retry and does not wait for confirmation: a
// returned hash means the node accepted the submission, nothing more.
//
// Submissions are serialized per sender address so concurrent sends from one
// identity (the faucet's administrative key in particular) observe strictly
// ordered nonces. The lock is per sender: one user's slow send never blocks
// another sender.
type Relay struct {
	client  chain.Client
	chainID *big.Int
	log     *zap.Logger

	mu          sync.Mutex
	senderLocks map[common.Address]*sync.Mutex
}

func New(client chain.Client, chainID *big.Int, log *zap.Logger) *Relay {
	return &Relay{
		client:      client,
		chainID:     chainID,
		log:         log,
		senderLocks: make(map[common.Address]*sync.Mutex),
	}
}

func (r *Relay) senderLock(addr common.Address) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.senderLocks[addr]
	if !ok {
		lock = &sync.Mutex{}
		r.senderLocks[addr] = lock
	}
	return lock
}

// Send validates the destination and amount, then signs and broadcasts a value
// transfer from the given key. Validation failures return before any chain
// call is made.
func (r *Relay) Send(ctx context.Context, from *ecdsa.PrivateKey, to string, amount string) (string, error) {
	if !chain.IsValidAddress(to) {
		return "", &Error{Kind: KindInvalidAddress, Err: fmt.Errorf("invalid destination address %q", to)}
	}
	value, err := chain.ParseAmount(amount)
	if err != nil {
		return "", &Error{Kind: KindInvalidAmount, Err: err}
	}

	fromAddr := crypto.PubkeyToAddress(from.PublicKey)
	toAddr := common.HexToAddress(to)

	lock := r.senderLock(fromAddr)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	nonce, err := r.client.PendingNonceAt(ctx, fromAddr)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: fmt.Errorf("fetch nonce: %w", err)}
	}
	gasPrice, err := r.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: fmt.Errorf("fetch gas price: %w", err)}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &toAddr,
		Value:    value,
		Gas:      transferGasLimit,
		GasPrice: gasPrice,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(r.chainID), from)
	if err != nil {
		return "", &Error{Kind: KindRejected, Err: fmt.Errorf("sign transaction: %w", err)}
	}

	if err := r.client.SendTransaction(ctx, signed); err != nil {
		return "", &Error{Kind: classifySubmitError(err), Err: fmt.Errorf("broadcast: %w", err)}
	}

	hash := signed.Hash().Hex()
	r.log.Info("transaction submitted",
		zap.String("from", fromAddr.Hex()),
		zap.String("to", toAddr.Hex()),
		zap.String("amount", amount),
		zap.String("tx_hash", hash),
	)
	return hash, nil
}

func classifySubmitError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindNetwork
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return KindInsufficientFunds
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "eof"):
		return KindNetwork
	default:
		return KindRejected
	}
}
