package wallet

import (
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestGetOrCreateIdempotent(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	first, isNew := r.GetOrCreate(42)
	if !isNew {
		t.Fatal("first GetOrCreate should report a new account")
	}

	second, isNew := r.GetOrCreate(42)
	if isNew {
		t.Fatal("second GetOrCreate should report an existing account")
	}
	if first.Address != second.Address {
		t.Errorf("addresses differ across calls: %s vs %s", first.Address.Hex(), second.Address.Hex())
	}
	if first.PrivateKey != second.PrivateKey {
		t.Error("private key changed between calls")
	}
}

func TestGetWithoutCreate(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	if _, ok := r.Get(7); ok {
		t.Fatal("Get on unknown user should miss")
	}

	created, _ := r.GetOrCreate(7)
	got, ok := r.Get(7)
	if !ok {
		t.Fatal("Get after GetOrCreate should hit")
	}
	if got.Address != created.Address {
		t.Error("Get returned a different account")
	}
}

func TestDistinctUsersGetDistinctKeys(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	seen := make(map[string]int64)
	for id := int64(1); id <= 200; id++ {
		acct, _ := r.GetOrCreate(id)
		addr := acct.Address.Hex()
		if prev, dup := seen[addr]; dup {
			t.Fatalf("users %d and %d derived the same address %s", prev, id, addr)
		}
		seen[addr] = id
	}
}

func TestPrivateKeyHexFormat(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	acct, _ := r.GetOrCreate(1)

	hex := acct.PrivateKeyHex()
	if !strings.HasPrefix(hex, "0x") {
		t.Errorf("key hex %q missing 0x prefix", hex)
	}
	if len(hex) != 2+64 {
		t.Errorf("key hex length = %d, want 66", len(hex))
	}
}

func TestConcurrentGetOrCreateSameUser(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	const workers = 32
	var wg sync.WaitGroup
	addrs := make([]string, workers)
	created := make([]bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acct, isNew := r.GetOrCreate(99)
			addrs[i] = acct.Address.Hex()
			created[i] = isNew
		}(i)
	}
	wg.Wait()

	newCount := 0
	for i := 0; i < workers; i++ {
		if created[i] {
			newCount++
		}
		if addrs[i] != addrs[0] {
			t.Fatalf("worker %d saw address %s, worker 0 saw %s", i, addrs[i], addrs[0])
		}
	}
	if newCount != 1 {
		t.Errorf("exactly one caller should observe creation, got %d", newCount)
	}
}
