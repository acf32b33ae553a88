package faucet

import (
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(cooldown time.Duration) (*Limiter, *fakeClock) {
	clock := newFakeClock()
	l := NewLimiter(cooldown)
	l.now = clock.Now
	return l, clock
}

func TestFirstClaimAdmitted(t *testing.T) {
	l, _ := newTestLimiter(time.Hour)

	ok, remaining := l.TryReserve(1)
	if !ok {
		t.Fatal("first claim should be admitted")
	}
	if remaining != 0 {
		t.Errorf("admitted claim reported remaining %v", remaining)
	}
}

func TestSecondClaimDeniedWithRemaining(t *testing.T) {
	l, clock := newTestLimiter(time.Hour)

	l.TryReserve(1)

	ok, remaining := l.TryReserve(1)
	if ok {
		t.Fatal("claim inside cooldown should be denied")
	}
	if remaining != time.Hour {
		t.Errorf("remaining = %v, want %v", remaining, time.Hour)
	}

	// Remaining strictly decreases as the clock advances.
	clock.Advance(20 * time.Minute)
	_, r2 := l.TryReserve(1)
	if r2 != 40*time.Minute {
		t.Errorf("remaining after 20m = %v, want 40m", r2)
	}
	clock.Advance(20 * time.Minute)
	_, r3 := l.TryReserve(1)
	if r3 >= r2 {
		t.Errorf("remaining did not decrease: %v then %v", r2, r3)
	}
}

func TestCooldownBoundary(t *testing.T) {
	l, clock := newTestLimiter(time.Hour)

	l.TryReserve(1)

	clock.Advance(time.Hour - time.Nanosecond)
	if ok, _ := l.TryReserve(1); ok {
		t.Fatal("claim just before the boundary should be denied")
	}

	clock.Advance(time.Nanosecond)
	if ok, _ := l.TryReserve(1); !ok {
		t.Fatal("claim at exactly the cooldown boundary should be admitted")
	}

	// A fresh cooldown starts from the new reservation.
	if ok, _ := l.TryReserve(1); ok {
		t.Fatal("claim right after readmission should be denied")
	}
}

func TestConcurrentClaimsOneWinner(t *testing.T) {
	l, _ := newTestLimiter(time.Hour)

	const workers = 64
	var wg sync.WaitGroup
	admitted := make([]bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			admitted[i], _ = l.TryReserve(7)
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range admitted {
		if ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("exactly one concurrent claim should be admitted, got %d", count)
	}
}

func TestDistinctUsersIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Hour)

	l.TryReserve(1)

	// User 1 is in cooldown; every other user still claims freely.
	for id := int64(2); id < 100; id++ {
		if ok, _ := l.TryReserve(id); !ok {
			t.Fatalf("user %d denied by another user's cooldown", id)
		}
	}
}

func TestLastClaimMonotonic(t *testing.T) {
	l, clock := newTestLimiter(time.Minute)

	l.TryReserve(5)
	first, ok := l.LastClaim(5)
	if !ok {
		t.Fatal("claim timestamp should be recorded")
	}

	clock.Advance(2 * time.Minute)
	l.TryReserve(5)
	second, _ := l.LastClaim(5)
	if !second.After(first) {
		t.Errorf("last claim did not advance: %v then %v", first, second)
	}
}
