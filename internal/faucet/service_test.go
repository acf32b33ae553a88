package faucet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/relay"
	"github.com/arc-wallet/backend/internal/wallet"
)

// fakeSender records submissions and returns canned results.
type fakeSender struct {
	calls  int
	lastTo string
	err    error
}

func (f *fakeSender) Send(ctx context.Context, from *ecdsa.PrivateKey, to string, amount string) (string, error) {
	f.calls++
	f.lastTo = to
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("0xhash%d", f.calls), nil
}

func newTestService(t *testing.T, sender TransferSender, configured bool, cooldown time.Duration) (*Service, *fakeClock) {
	t.Helper()

	var adminKey *ecdsa.PrivateKey
	if configured {
		key, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("generate admin key: %v", err)
		}
		adminKey = key
	}

	registry := wallet.NewRegistry(zap.NewNop())
	limiter, clock := newTestLimiter(cooldown)
	return NewService(registry, limiter, sender, adminKey, "5.0", zap.NewNop()), clock
}

func TestClaimScenario(t *testing.T) {
	sender := &fakeSender{}
	svc, clock := newTestService(t, sender, true, time.Hour)
	ctx := context.Background()

	// Fresh user: claim succeeds.
	first := svc.Claim(ctx, 100)
	if first.Status != StatusClaimed {
		t.Fatalf("first claim status = %s, want %s (err: %v)", first.Status, StatusClaimed, first.Err)
	}
	if first.TxHash == "" {
		t.Fatal("claimed result missing tx hash")
	}

	// Immediate retry: denied with the full hour remaining.
	second := svc.Claim(ctx, 100)
	if second.Status != StatusDenied {
		t.Fatalf("second claim status = %s, want %s", second.Status, StatusDenied)
	}
	if second.Remaining != time.Hour {
		t.Errorf("remaining = %v, want %v", second.Remaining, time.Hour)
	}
	if sender.calls != 1 {
		t.Errorf("denied claim must not reach the relay; sender calls = %d", sender.calls)
	}

	// After 61 minutes: a fresh claim with a different hash.
	clock.Advance(61 * time.Minute)
	third := svc.Claim(ctx, 100)
	if third.Status != StatusClaimed {
		t.Fatalf("third claim status = %s, want %s", third.Status, StatusClaimed)
	}
	if third.TxHash == first.TxHash {
		t.Errorf("expected a new tx hash, got %s twice", third.TxHash)
	}
}

func TestClaimUnconfigured(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newTestService(t, sender, false, time.Hour)

	res := svc.Claim(context.Background(), 1)
	if res.Status != StatusUnconfigured {
		t.Fatalf("status = %s, want %s", res.Status, StatusUnconfigured)
	}
	if sender.calls != 0 {
		t.Errorf("unconfigured faucet must not touch the chain; sender calls = %d", sender.calls)
	}
}

func TestClaimDisbursesToUserAddress(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newTestService(t, sender, true, time.Hour)

	res := svc.Claim(context.Background(), 42)
	if res.Status != StatusClaimed {
		t.Fatalf("status = %s, want %s", res.Status, StatusClaimed)
	}

	acct, ok := svc.registry.Get(42)
	if !ok {
		t.Fatal("claim should have created the user's account")
	}
	if sender.lastTo != acct.Address.Hex() {
		t.Errorf("disbursed to %s, want %s", sender.lastTo, acct.Address.Hex())
	}
}

func TestFailedDisbursementConsumesSlot(t *testing.T) {
	sender := &fakeSender{err: &relay.Error{Kind: relay.KindInsufficientFunds, Err: fmt.Errorf("insufficient funds")}}
	svc, _ := newTestService(t, sender, true, time.Hour)
	ctx := context.Background()

	res := svc.Claim(ctx, 9)
	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", res.Status, StatusFailed)
	}
	if res.ErrKind != relay.KindInsufficientFunds {
		t.Errorf("error kind = %s, want %s", res.ErrKind, relay.KindInsufficientFunds)
	}

	// The reservation is not refunded on failure.
	retry := svc.Claim(ctx, 9)
	if retry.Status != StatusDenied {
		t.Errorf("retry after failed disbursement = %s, want %s", retry.Status, StatusDenied)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls = %d, want 1", sender.calls)
	}
}

func TestConcurrentClaimsSingleDisbursement(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newTestService(t, sender, true, time.Hour)
	ctx := context.Background()

	const workers = 16
	results := make(chan Result, workers)
	for i := 0; i < workers; i++ {
		go func() { results <- svc.Claim(ctx, 5) }()
	}

	claimed, denied := 0, 0
	for i := 0; i < workers; i++ {
		switch r := <-results; r.Status {
		case StatusClaimed:
			claimed++
		case StatusDenied:
			denied++
		default:
			t.Errorf("unexpected status %s", r.Status)
		}
	}
	if claimed != 1 || denied != workers-1 {
		t.Errorf("claimed=%d denied=%d, want 1/%d", claimed, denied, workers-1)
	}
}
