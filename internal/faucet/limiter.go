package faucet

import (
	"sync"
	"time"
)

const shardCount = 32

type shard struct {
	mu        sync.Mutex
	lastClaim map[int64]time.Time
}

// Limiter owns per-user last-claim timestamps and decides claim admissibility.
// TryReserve is a single atomic check-and-write: the slot is taken before any
// chain interaction starts, so overlapping claims from one user cannot both
// pass while a disbursement is in flight. A later failed disbursement does not
// refund the slot.
type Limiter struct {
	cooldown time.Duration
	shards   [shardCount]*shard

	now func() time.Time // swapped in tests
}

func NewLimiter(cooldown time.Duration) *Limiter {
	l := &Limiter{cooldown: cooldown, now: time.Now}
	for i := range l.shards {
		l.shards[i] = &shard{lastClaim: make(map[int64]time.Time)}
	}
	return l
}

func (l *Limiter) shardFor(userID int64) *shard {
	return l.shards[uint64(userID)%shardCount]
}

// TryReserve admits the claim and records the new timestamp, or denies it with
// the exact remaining wait. The full cooldown must have elapsed: a claim at
// exactly lastClaim+cooldown is admitted.
func (l *Limiter) TryReserve(userID int64) (bool, time.Duration) {
	s := l.shardFor(userID)
	now := l.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastClaim[userID]; ok {
		elapsed := now.Sub(last)
		if elapsed < l.cooldown {
			return false, l.cooldown - elapsed
		}
	}
	s.lastClaim[userID] = now
	return true, 0
}

// LastClaim reports the recorded claim timestamp for a user, if any.
func (l *Limiter) LastClaim(userID int64) (time.Time, bool) {
	s := l.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastClaim[userID]
	return t, ok
}
