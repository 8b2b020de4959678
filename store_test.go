package redkit

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	s := NewStore()
	t.Cleanup(s.Close)
	return s
}

func TestStoreSetGet(t *testing.T) {
	s := newTestStore(t)
	s.Set("key", []byte("value"))

	data, ok := s.Get("key")
	if !ok || string(data) != "value" {
		t.Fatalf("Get() = %q, %v; want \"value\", true", data, ok)
	}

	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get() on missing key returned true")
	}
}

func TestStoreCreatedAtPreservedAcrossMutate(t *testing.T) {
	s := newTestStore(t)
	s.Set("key", []byte("v1"))

	first, _ := s.GetValue("key")

	s.Mutate("key", false, func(existing []byte, existed bool) []byte {
		return append(existing, 'x')
	})

	second, _ := s.GetValue("key")
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed across Mutate: %v -> %v", first.CreatedAt, second.CreatedAt)
	}

	s.Set("key", []byte("fresh"))
	third, _ := s.GetValue("key")
	if !third.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed across a full overwrite of a live key: %v -> %v", first.CreatedAt, third.CreatedAt)
	}
}

func TestStoreTTLExpiration(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })

	s.SetWithTTL("key", []byte("value"), time.Second)

	if _, ok := s.Get("key"); !ok {
		t.Fatal("key should still be live before TTL elapses")
	}

	s.SetClock(func() time.Time { return fixed.Add(2 * time.Second) })
	if _, ok := s.Get("key"); ok {
		t.Fatal("key should have expired")
	}
	if s.Exists("key") {
		t.Fatal("Exists() should report the key gone once expired")
	}
}

func TestStoreRemoveTTL(t *testing.T) {
	s := newTestStore(t)
	s.SetWithTTL("key", []byte("value"), time.Hour)

	if !s.RemoveTTL("key") {
		t.Fatal("RemoveTTL() should report a TTL was cleared")
	}
	ttl, hasTTL, ok := s.GetTTL("key")
	if !ok || hasTTL {
		t.Fatalf("GetTTL() = %v, %v, %v; want persisted key with no TTL", ttl, hasTTL, ok)
	}
}

func TestStoreIncrBy(t *testing.T) {
	s := newTestStore(t)

	v, ok := s.IncrBy("counter", 5)
	if !ok || v != 5 {
		t.Fatalf("IncrBy() = %d, %v; want 5, true", v, ok)
	}

	v, ok = s.IncrBy("counter", -2)
	if !ok || v != 3 {
		t.Fatalf("IncrBy() = %d, %v; want 3, true", v, ok)
	}

	s.Set("notanumber", []byte("abc"))
	if _, ok := s.IncrBy("notanumber", 1); ok {
		t.Fatal("IncrBy() should fail on a non-numeric value")
	}
}

func TestStoreIncrByOverflow(t *testing.T) {
	s := newTestStore(t)
	s.Set("counter", formatStoredInt(1<<62))
	if _, ok := s.IncrBy("counter", 1<<62); ok {
		t.Fatal("IncrBy() should detect overflow")
	}
}

func TestStoreScanCoversEveryKey(t *testing.T) {
	s := newTestStore(t)
	want := map[string]bool{}
	for i := 0; i < 50; i++ {
		k := string(rune('a' + i%26))
		k += string(rune('0' + i%10))
		s.Set(k, []byte("v"))
		want[k] = true
	}

	seen := map[string]bool{}
	cursor := uint64(0)
	for {
		keys, next := s.Scan(cursor, 7)
		for _, k := range keys {
			seen[k] = true
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	if len(seen) != len(want) {
		t.Fatalf("Scan traversal saw %d keys, want %d", len(seen), len(want))
	}
}

func TestStoreSizeExcludesExpired(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Now()
	s.SetClock(func() time.Time { return fixed })

	s.Set("a", []byte("1"))
	s.SetWithTTL("b", []byte("2"), time.Second)

	if s.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", s.Size())
	}

	s.SetClock(func() time.Time { return fixed.Add(2 * time.Second) })
	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 after expiry", s.Size())
	}
}
