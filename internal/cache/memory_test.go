package cache

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/glidewallet/swap-engine/internal/domain"
)

func testEntry(id string) *domain.CachedQuoteEntry {
	return &domain.CachedQuoteEntry{
		Quote: domain.Quote{
			ID:         id,
			SellAmount: big.NewInt(1000000),
			BuyAmount:  big.NewInt(1974300),
			ExpiresAt:  time.Now().Add(30 * time.Second),
		},
		WalletID:   "wallet-1",
		SellAmount: "1000000",
		CreatedAt:  time.Now(),
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	if err := s.Put(ctx, "q1", testEntry("q1"), 30*time.Second); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "q1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Quote.ID != "q1" {
		t.Fatalf("Get returned %+v", got)
	}

	// Get does not consume.
	if again, _ := s.Get(ctx, "q1"); again == nil {
		t.Error("entry consumed by Get")
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	got, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("miss returned %+v", got)
	}
}

func TestMemoryStoreClaimConsumes(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	s.Put(ctx, "q1", testEntry("q1"), 30*time.Second)

	got, err := s.Claim(ctx, "q1")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if got == nil {
		t.Fatal("first claim missed")
	}

	second, err := s.Claim(ctx, "q1")
	if err != nil {
		t.Fatalf("second Claim: %v", err)
	}
	if second != nil {
		t.Error("entry claimed twice")
	}
}

func TestMemoryStoreClaimOnceUnderContention(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	s.Put(ctx, "q1", testEntry("q1"), 30*time.Second)

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if got, _ := s.Claim(ctx, "q1"); got != nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	if n := len(wins); n != 1 {
		t.Errorf("%d claimants won, want exactly 1", n)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	s.Put(ctx, "q1", testEntry("q1"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	if got, _ := s.Get(ctx, "q1"); got != nil {
		t.Error("expired entry still readable")
	}
	if got, _ := s.Claim(ctx, "q1"); got != nil {
		t.Error("expired entry still claimable")
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()
	s.Put(ctx, "q1", testEntry("q1"), time.Millisecond)
	s.Put(ctx, "q2", testEntry("q2"), time.Hour)

	s.StartJanitor()
	defer s.StopJanitor()

	deadline := time.Now().Add(time.Second)
	for s.Len() > 1 {
		if time.Now().After(deadline) {
			t.Fatalf("sweep did not evict expired entry, len=%d", s.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got, _ := s.Get(ctx, "q2"); got == nil {
		t.Error("live entry swept")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	s.Put(ctx, "q1", testEntry("q1"), 30*time.Second)

	if err := s.Delete(ctx, "q1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, "q1"); got != nil {
		t.Error("deleted entry still readable")
	}

	// Deleting a missing entry is fine.
	if err := s.Delete(ctx, "q1"); err != nil {
		t.Errorf("Delete on missing entry: %v", err)
	}
}
