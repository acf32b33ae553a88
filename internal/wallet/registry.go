package wallet

import (
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Account is one user's custodial identity. The private key never leaves this
// package except through PrivateKeyHex, which callers disclose at most once,
// at creation time.
type Account struct {
	UserID     int64
	PrivateKey *ecdsa.PrivateKey
	Address    common.Address
	CreatedAt  time.Time
}

// PrivateKeyHex returns the 0x-prefixed hex encoding of the secret key.
func (a *Account) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(a.PrivateKey))
}

const shardCount = 32

type shard struct {
	mu       sync.RWMutex
	accounts map[int64]*Account
}

// Registry owns the userID -> Account mapping. State is in-memory and sharded
// by user id so distinct users never contend on the same lock.
type Registry struct {
	shards [shardCount]*shard
	log    *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	r := &Registry{log: log}
	for i := range r.shards {
		r.shards[i] = &shard{accounts: make(map[int64]*Account)}
	}
	return r
}

func (r *Registry) shardFor(userID int64) *shard {
	return r.shards[uint64(userID)%shardCount]
}

// GetOrCreate returns the user's account, generating a fresh random keypair on
// first contact. The second result is true only on the call that created the
// account, so the caller knows when key disclosure is allowed.
func (r *Registry) GetOrCreate(userID int64) (*Account, bool) {
	s := r.shardFor(userID)

	s.mu.RLock()
	acct, ok := s.accounts[userID]
	s.mu.RUnlock()
	if ok {
		return acct, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[userID]; ok {
		return acct, false
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		// Entropy exhaustion is not recoverable at request scope.
		r.log.Fatal("entropy source unavailable, cannot generate account key", zap.Error(err))
	}

	acct = &Account{
		UserID:     userID,
		PrivateKey: key,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		CreatedAt:  time.Now(),
	}
	s.accounts[userID] = acct

	r.log.Info("account created",
		zap.Int64("user_id", userID),
		zap.String("address", acct.Address.Hex()),
	)
	return acct, true
}

// Get is a pure lookup with no side effect.
func (r *Registry) Get(userID int64) (*Account, bool) {
	s := r.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[userID]
	return acct, ok
}
