package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/chain"
	"github.com/arc-wallet/backend/internal/config"
	"github.com/arc-wallet/backend/internal/events"
	"github.com/arc-wallet/backend/internal/faucet"
	"github.com/arc-wallet/backend/internal/models"
	"github.com/arc-wallet/backend/internal/relay"
	"github.com/arc-wallet/backend/internal/repositories"
	"github.com/arc-wallet/backend/internal/wallet"
)

// ErrNoAccount is returned for operations that require an existing account.
var ErrNoAccount = errors.New("no account for user")

// AccountInfo is what crosses the service boundary: the derived address and,
// only on the creating call, the private key for one-time disclosure.
type AccountInfo struct {
	Address    string
	IsNew      bool
	PrivateKey string // set only when IsNew
}

// WalletService is the front-end binding: get-or-create account, balance,
// user-initiated sends, and faucet claims. It owns the operational side
// effects (transfer journal, event stream) so the core packages stay pure.
type WalletService struct {
	registry     *wallet.Registry
	client       chain.Client
	relay        faucet.TransferSender
	faucetSvc    *faucet.Service
	transferRepo *repositories.TransferRepo
	publisher    events.Publisher
	cfg          *config.Config
	log          *zap.Logger
}

func NewWalletService(
	registry *wallet.Registry,
	client chain.Client,
	sender faucet.TransferSender,
	faucetSvc *faucet.Service,
	transferRepo *repositories.TransferRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *WalletService {
	return &WalletService{
		registry:     registry,
		client:       client,
		relay:        sender,
		faucetSvc:    faucetSvc,
		transferRepo: transferRepo,
		publisher:    publisher,
		cfg:          cfg,
		log:          log,
	}
}

// GetOrCreateAccount resolves the user's custodial account. The private key
// appears in the result exactly once, on the creating call; it is never
// logged or journaled.
func (s *WalletService) GetOrCreateAccount(userID int64) AccountInfo {
	acct, isNew := s.registry.GetOrCreate(userID)
	info := AccountInfo{Address: acct.Address.Hex(), IsNew: isNew}
	if isNew {
		info.PrivateKey = acct.PrivateKeyHex()
	}
	return info
}

// GetBalance reads the on-chain balance for the user's address. Returns the
// address alongside the decimal-formatted balance.
func (s *WalletService) GetBalance(ctx context.Context, userID int64) (string, string, error) {
	acct, ok := s.registry.Get(userID)
	if !ok {
		return "", "", ErrNoAccount
	}
	bal, err := s.client.BalanceAt(ctx, acct.Address)
	if err != nil {
		return "", "", fmt.Errorf("query balance: %w", err)
	}
	return acct.Address.Hex(), chain.FormatAmount(bal), nil
}

// SendTransfer relays a user-initiated transfer signed with the user's key.
func (s *WalletService) SendTransfer(ctx context.Context, userID int64, to, amount string) (string, error) {
	acct, ok := s.registry.Get(userID)
	if !ok {
		return "", ErrNoAccount
	}

	hash, err := s.relay.Send(ctx, acct.PrivateKey, to, amount)
	s.journal(ctx, userID, models.TransferKindUserSend, to, amount, hash, err)
	if err != nil {
		return "", err
	}
	return hash, nil
}

// ClaimFaucet delegates to the faucet composition and journals the outcome.
func (s *WalletService) ClaimFaucet(ctx context.Context, userID int64) faucet.Result {
	res := s.faucetSvc.Claim(ctx, userID)

	switch res.Status {
	case faucet.StatusClaimed:
		acct, _ := s.registry.Get(userID)
		s.journal(ctx, userID, models.TransferKindFaucet, acct.Address.Hex(), s.faucetSvc.Amount(), res.TxHash, nil)
		s.publish(ctx, events.Event{
			Type: events.EventFaucetClaimed,
			Payload: map[string]any{
				"user_id": userID,
				"tx_hash": res.TxHash,
				"amount":  s.faucetSvc.Amount(),
			},
		})
	case faucet.StatusFailed:
		acct, _ := s.registry.Get(userID)
		s.journal(ctx, userID, models.TransferKindFaucet, acct.Address.Hex(), s.faucetSvc.Amount(), "", res.Err)
	}
	return res
}

// ExplorerTxURL builds the human-readable explorer link for a tx hash.
func (s *WalletService) ExplorerTxURL(hash string) string {
	return fmt.Sprintf("%s/tx/%s", s.cfg.ExplorerURL, hash)
}

func (s *WalletService) journal(ctx context.Context, userID int64, kind, to, amount, hash string, sendErr error) {
	if s.transferRepo == nil {
		return
	}

	rec := models.TransferRecord{
		UserID:    userID,
		Kind:      kind,
		ToAddress: to,
		Amount:    amount,
		Status:    models.TransferStatusSubmitted,
	}
	if hash != "" {
		rec.TxHash = &hash
	}
	if sendErr != nil {
		rec.Status = models.TransferStatusFailed
		if ek := relay.Classify(sendErr); ek != "" {
			k := string(ek)
			rec.ErrorKind = &k
		}
	}

	if err := s.transferRepo.Record(ctx, rec); err != nil {
		s.log.Warn("failed to journal transfer", zap.Error(err))
	}

	if sendErr == nil && kind == models.TransferKindUserSend {
		s.publish(ctx, events.Event{
			Type: events.EventTransferSubmitted,
			Payload: map[string]any{
				"user_id": userID,
				"to":      to,
				"amount":  amount,
				"tx_hash": hash,
			},
		})
	} else if sendErr != nil {
		s.publish(ctx, events.Event{
			Type: events.EventTransferFailed,
			Payload: map[string]any{
				"user_id": userID,
				"kind":    kind,
				"error":   string(relay.Classify(sendErr)),
			},
		})
	}
}

func (s *WalletService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.StreamTransfers, event); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}
