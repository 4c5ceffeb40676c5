package cache

import (
	"context"
	"testing"
	"time"

	"cookiespots_backend/internal/venues"
)

func sample(name string) []venues.Candidate {
	c := venues.NewCandidate(venues.SourceGoogle, "id-"+name)
	c.Name = name
	return []venues.Candidate{c}
}

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "google-10001", sample("Levain Bakery"), time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, ok, err := m.Get(ctx, "google-10001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Name != "Levain Bakery" {
		t.Fatalf("unexpected cached value: %+v", got)
	}
}

func TestMemory_MissingKey(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Get(context.Background(), "yelp-90210")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemoryWithClock(func() time.Time { return now })

	if err := m.Set(ctx, "google-10001", sample("Milk Bar"), time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if _, ok, _ := m.Get(ctx, "google-10001"); !ok {
		t.Fatal("expected hit before TTL elapsed")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := m.Get(ctx, "google-10001"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
	if m.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped on read, %d left", m.Len())
	}
}

func TestMemory_FlushAll(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "google-10001", sample("a"), time.Hour)
	_ = m.Set(ctx, "yelp-10001", sample("b"), time.Hour)

	if err := m.FlushAll(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty cache after flush, %d left", m.Len())
	}
}

func TestKey(t *testing.T) {
	if got := Key(venues.SourceYelp, "10001"); got != "yelp-10001" {
		t.Fatalf("unexpected key %q", got)
	}
}
