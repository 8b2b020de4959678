/*
Package redkit: in-memory key-value store with active TTL expiration.

Store holds every key under a single mutex — there is intentionally no
sharding. A background reaper goroutine reclaims expired keys so memory
doesn't grow unbounded from keys nobody ever reads again; lookups never
rely on the reaper for correctness, since Get/Exists/Scan all perform
their own lazy expiry check first.
*/
package redkit

import (
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Value is a single stored entry. ExpiresAt is nil when the key has no
// TTL. CreatedAt is preserved across in-place mutation (APPEND, INCR
// family, SETRANGE, GETEX) and across overwrites of a live key (SET,
// MSET); it is only reset when the key is deleted or expires and is
// then recreated.
type Value struct {
	Data      []byte
	CreatedAt time.Time
	ExpiresAt *time.Time
}

type ttlEntry struct {
	expiresAt time.Time
	key       string
}

// Store is a single in-memory keyspace with active TTL expiration.
type Store struct {
	mu   sync.Mutex
	keys map[string]*Value
	ttls []ttlEntry // kept sorted ascending by expiresAt

	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	now func() time.Time // overridable for deterministic TTL tests
}

// NewStore creates a Store and starts its background reaper goroutine.
func NewStore() *Store {
	s := &Store{
		keys: make(map[string]*Value),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
		now:  time.Now,
	}
	go s.reap()
	return s
}

// SetClock overrides the store's time source, for deterministic TTL
// tests. Safe to call concurrently with other Store operations.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Close stops the reaper goroutine. Safe to call once.
func (s *Store) Close() {
	close(s.stop)
	<-s.done
}

func (s *Store) wakeReaper() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// reap sleeps until the nearest TTL deadline, evicts everything that has
// expired, and recomputes the next deadline. It wakes early whenever a
// new, sooner TTL is installed.
func (s *Store) reap() {
	defer close(s.done)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		next, ok := s.nextDeadlineLocked()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		if ok {
			d := time.Until(next)
			if d < 0 {
				d = 0
			}
			timer.Reset(d)
		} else {
			timer.Reset(time.Hour)
		}

		select {
		case <-s.stop:
			return
		case <-s.wake:
			continue
		case <-timer.C:
			s.evictExpiredLocked()
		}
	}
}

func (s *Store) nextDeadlineLocked() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ttls) == 0 {
		return time.Time{}, false
	}
	return s.ttls[0].expiresAt, true
}

func (s *Store) evictExpiredLocked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	i := 0
	for i < len(s.ttls) && !s.ttls[i].expiresAt.After(now) {
		delete(s.keys, s.ttls[i].key)
		i++
	}
	s.ttls = s.ttls[i:]
}

func (s *Store) insertTTLLocked(key string, expiresAt time.Time) {
	s.removeTTLLocked(key)
	i := sort.Search(len(s.ttls), func(i int) bool {
		return s.ttls[i].expiresAt.After(expiresAt)
	})
	s.ttls = append(s.ttls, ttlEntry{})
	copy(s.ttls[i+1:], s.ttls[i:])
	s.ttls[i] = ttlEntry{expiresAt: expiresAt, key: key}
}

func (s *Store) removeTTLLocked(key string) {
	for i, e := range s.ttls {
		if e.key == key {
			s.ttls = append(s.ttls[:i], s.ttls[i+1:]...)
			return
		}
	}
}

// isExpiredLocked reports whether v has a TTL that has already elapsed.
func (s *Store) isExpiredLocked(v *Value) bool {
	return v.ExpiresAt != nil && !v.ExpiresAt.After(s.now())
}

// getLocked fetches the value for key, lazily evicting it (and its TTL
// index entry) if it has already expired. Caller must hold s.mu.
func (s *Store) getLocked(key string) (*Value, bool) {
	v, ok := s.keys[key]
	if !ok {
		return nil, false
	}
	if s.isExpiredLocked(v) {
		delete(s.keys, key)
		s.removeTTLLocked(key)
		return nil, false
	}
	return v, true
}

// Set stores data under key with no expiration, preserving CreatedAt if
// the key already held a live value.
func (s *Store) Set(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, data, nil)
}

// SetWithTTL stores data under key, expiring after ttl elapses.
func (s *Store) SetWithTTL(key string, data []byte, ttl time.Duration) {
	s.SetWithExpiry(key, data, s.now().Add(ttl))
}

// SetWithExpiry stores data under key with an absolute expiration instant.
func (s *Store) SetWithExpiry(key string, data []byte, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, data, &at)
	s.wakeReaper()
}

func (s *Store) setLocked(key string, data []byte, expiresAt *time.Time) {
	createdAt := s.now()
	if existing, ok := s.getLocked(key); ok {
		createdAt = existing.CreatedAt
	}
	s.keys[key] = &Value{Data: data, CreatedAt: createdAt, ExpiresAt: expiresAt}
	s.removeTTLLocked(key)
	if expiresAt != nil {
		s.insertTTLLocked(key, *expiresAt)
	}
}

// Mutate applies fn to the current raw bytes of key (nil if absent) and
// stores the result, preserving CreatedAt and any existing TTL unless
// clearTTL is set. Returns the bytes fn produced, i.e. the value now
// stored under key.
func (s *Store) Mutate(key string, clearTTL bool, fn func(existing []byte, existed bool) []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, existed := s.getLocked(key)
	var cur []byte
	if existed {
		cur = existing.Data
	}
	next := fn(cur, existed)

	createdAt := s.now()
	var expiresAt *time.Time
	if existed {
		createdAt = existing.CreatedAt
		if !clearTTL {
			expiresAt = existing.ExpiresAt
		}
	}
	s.keys[key] = &Value{Data: next, CreatedAt: createdAt, ExpiresAt: expiresAt}
	if clearTTL {
		s.removeTTLLocked(key)
	}
	return next
}

// SetOptions captures SET/SETNX's NX/XX guard and TTL handling so
// SetGuarded can apply all of it under a single lock hold.
type SetOptions struct {
	NX, XX, KeepTTL bool
	TTL             time.Duration
	HasTTL          bool
	ExpiresAt       time.Time
	HasExpiresAt    bool
}

// SetGuarded atomically checks key's existence against NX/XX and, if the
// guard passes, writes data under the requested TTL handling — all under
// one lock hold, so a concurrent SET/SETNX/MSETNX can never interleave
// between the check and the write. prev/existed report the pre-write
// state (for SET ... GET); applied reports whether the guard passed.
func (s *Store) SetGuarded(key string, data []byte, opts SetOptions) (prev []byte, existed bool, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.getLocked(key)
	existed = ok
	if ok {
		prev = existing.Data
	}
	if opts.NX && existed {
		return prev, existed, false
	}
	if opts.XX && !existed {
		return prev, existed, false
	}

	switch {
	case opts.HasExpiresAt:
		s.setLocked(key, data, &opts.ExpiresAt)
		s.wakeReaper()
	case opts.HasTTL:
		at := s.now().Add(opts.TTL)
		s.setLocked(key, data, &at)
		s.wakeReaper()
	case opts.KeepTTL:
		createdAt := s.now()
		var expiresAt *time.Time
		if existed {
			createdAt = existing.CreatedAt
			expiresAt = existing.ExpiresAt
		}
		s.keys[key] = &Value{Data: data, CreatedAt: createdAt, ExpiresAt: expiresAt}
	default:
		s.setLocked(key, data, nil)
	}
	return prev, existed, true
}

// KV is a single key/value pair, used by SetAllIfNoneExist to preserve
// MSETNX's argument order (and its last-write-wins duplicate-key rule).
type KV struct {
	Key  string
	Data []byte
}

// SetAllIfNoneExist writes every pair only if none of their keys already
// exist, holding the lock across the whole check-then-write sequence so
// MSETNX is atomic against concurrent SET/MSETNX/etc. on any of the keys.
func (s *Store) SetAllIfNoneExist(pairs []KV) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range pairs {
		if _, ok := s.getLocked(p.Key); ok {
			return false
		}
	}
	for _, p := range pairs {
		s.setLocked(p.Key, p.Data, nil)
	}
	return true
}

// Get returns the current value for key and whether it exists (and is
// not expired).
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.getLocked(key)
	if !ok {
		return nil, false
	}
	return v.Data, true
}

// GetValue returns the full Value (including CreatedAt/ExpiresAt).
func (s *Store) GetValue(key string) (*Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.getLocked(key)
	if !ok {
		return nil, false
	}
	cp := *v
	return &cp, true
}

// Remove deletes key, returning whether it existed.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.getLocked(key)
	if ok {
		delete(s.keys, key)
		s.removeTTLLocked(key)
	}
	return ok
}

// RemoveTTL clears any expiration on key (PERSIST-style), returning
// whether the key existed and had a TTL to clear.
func (s *Store) RemoveTTL(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.getLocked(key)
	if !ok || v.ExpiresAt == nil {
		return false
	}
	v.ExpiresAt = nil
	s.removeTTLLocked(key)
	return true
}

// Exists reports whether key is present and live.
func (s *Store) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.getLocked(key)
	return ok
}

// Size returns the number of live keys. Expired-but-not-yet-reaped keys
// are excluded by walking the TTL index rather than trusting len(keys).
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	expired := 0
	for _, e := range s.ttls {
		if !e.expiresAt.After(now) {
			expired++
		} else {
			break
		}
	}
	return len(s.keys) - expired
}

// Keys returns every live key, in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	out := make([]string, 0, len(s.keys))
	for k, v := range s.keys {
		if s.isExpiredLockedAt(v, now) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func (s *Store) isExpiredLockedAt(v *Value, now time.Time) bool {
	return v.ExpiresAt != nil && !v.ExpiresAt.After(now)
}

// GetTTL returns the remaining time-to-live for key. ok is false if the
// key doesn't exist; a zero duration with hasTTL false means the key
// exists but never expires.
func (s *Store) GetTTL(key string) (ttl time.Duration, hasTTL bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, exists := s.getLocked(key)
	if !exists {
		return 0, false, false
	}
	if v.ExpiresAt == nil {
		return 0, false, true
	}
	d := v.ExpiresAt.Sub(s.now())
	if d < 0 {
		d = 0
	}
	return d, true, true
}

// IncrBy atomically parses the stored value as a base-10 int64, adds
// delta, and stores the formatted result. ok is false (no mutation) if
// the current value isn't a valid integer or the result would overflow.
func (s *Store) IncrBy(key string, delta int64) (result int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, existed := s.getLocked(key)
	var cur int64
	if existed {
		var perr error
		cur, perr = parseStoredInt(existing.Data)
		if perr != nil {
			return 0, false
		}
	}

	sum := cur + delta
	if (delta > 0 && sum < cur) || (delta < 0 && sum > cur) {
		return 0, false
	}

	createdAt := s.now()
	var expiresAt *time.Time
	if existed {
		createdAt = existing.CreatedAt
		expiresAt = existing.ExpiresAt
	}
	s.keys[key] = &Value{Data: formatStoredInt(sum), CreatedAt: createdAt, ExpiresAt: expiresAt}
	return sum, true
}

// IncrByFloat is IncrBy's float64 analogue.
func (s *Store) IncrByFloat(key string, delta float64) (result float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, existed := s.getLocked(key)
	var cur float64
	if existed {
		var perr error
		cur, perr = parseStoredFloat(existing.Data)
		if perr != nil {
			return 0, false
		}
	}

	sum := cur + delta

	createdAt := s.now()
	var expiresAt *time.Time
	if existed {
		createdAt = existing.CreatedAt
		expiresAt = existing.ExpiresAt
	}
	s.keys[key] = &Value{Data: formatStoredFloat(sum), CreatedAt: createdAt, ExpiresAt: expiresAt}
	return sum, true
}

// scanEntry is a (hash, key) pair used to give SCAN a stable iteration
// order independent of Go's randomized map iteration.
type scanEntry struct {
	hash uint64
	key  string
}

// Scan returns up to count live keys whose xxhash-ordered position is
// strictly after cursor, plus the cursor to resume from (0 once the
// traversal is complete).
func (s *Store) Scan(cursor uint64, count int) (keys []string, nextCursor uint64) {
	if count <= 0 {
		count = 10
	}

	s.mu.Lock()
	now := s.now()
	entries := make([]scanEntry, 0, len(s.keys))
	for k, v := range s.keys {
		if s.isExpiredLockedAt(v, now) {
			continue
		}
		entries = append(entries, scanEntry{hash: xxhash.Sum64String(k), key: k})
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].hash != entries[j].hash {
			return entries[i].hash < entries[j].hash
		}
		return entries[i].key < entries[j].key
	})

	start := sort.Search(len(entries), func(i int) bool {
		return entries[i].hash > cursor
	})

	end := start + count
	if end > len(entries) {
		end = len(entries)
	}

	keys = make([]string, 0, end-start)
	for _, e := range entries[start:end] {
		keys = append(keys, e.key)
	}

	if end == len(entries) {
		return keys, 0
	}
	return keys, entries[end-1].hash
}
