package faucet

import (
	"context"
	"crypto/ecdsa"
	"time"

	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/relay"
	"github.com/arc-wallet/backend/internal/wallet"
)

type Status string

const (
	StatusClaimed      Status = "claimed"
	StatusDenied       Status = "denied"
	StatusFailed       Status = "failed"
	StatusUnconfigured Status = "unconfigured"
)

// Result is the outcome of one claim attempt. TxHash is set only for
// StatusClaimed and refers to a submitted, not settled, transaction.
type Result struct {
	Status    Status
	TxHash    string
	Remaining time.Duration   // StatusDenied
	ErrKind   relay.ErrorKind // StatusFailed
	Err       error           // StatusFailed
}

// TransferSender is the slice of the relay the faucet needs.
type TransferSender interface {
	Send(ctx context.Context, from *ecdsa.PrivateKey, to string, amount string) (string, error)
}

// Service composes the account registry, the cooldown limiter, and the relay
// into the single claim operation.
type Service struct {
	registry *wallet.Registry
	limiter  *Limiter
	sender   TransferSender
	adminKey *ecdsa.PrivateKey // nil = no administrative identity configured
	amount   string            // fixed disbursement, decimal
	log      *zap.Logger
}

func NewService(
	registry *wallet.Registry,
	limiter *Limiter,
	sender TransferSender,
	adminKey *ecdsa.PrivateKey,
	amount string,
	log *zap.Logger,
) *Service {
	return &Service{
		registry: registry,
		limiter:  limiter,
		sender:   sender,
		adminKey: adminKey,
		amount:   amount,
		log:      log,
	}
}

func (s *Service) Configured() bool { return s.adminKey != nil }

// Amount returns the fixed disbursement as a decimal string.
func (s *Service) Amount() string { return s.amount }

// Claim reserves the user's cooldown slot and, if admitted, disburses the
// fixed amount from the administrative identity. The slot stays consumed even
// when the disbursement fails; refunding it would let overlapping retries
// drain the faucet.
func (s *Service) Claim(ctx context.Context, userID int64) Result {
	if !s.Configured() {
		return Result{Status: StatusUnconfigured}
	}

	acct, _ := s.registry.GetOrCreate(userID)

	ok, remaining := s.limiter.TryReserve(userID)
	if !ok {
		return Result{Status: StatusDenied, Remaining: remaining}
	}

	hash, err := s.sender.Send(ctx, s.adminKey, acct.Address.Hex(), s.amount)
	if err != nil {
		s.log.Error("faucet disbursement failed",
			zap.Int64("user_id", userID),
			zap.String("address", acct.Address.Hex()),
			zap.Error(err),
		)
		return Result{Status: StatusFailed, ErrKind: relay.Classify(err), Err: err}
	}

	s.log.Info("faucet claim disbursed",
		zap.Int64("user_id", userID),
		zap.String("address", acct.Address.Hex()),
		zap.String("amount", s.amount),
		zap.String("tx_hash", hash),
	)
	return Result{Status: StatusClaimed, TxHash: hash}
}
