package record

import (
	"context"
	"sync"
	"time"
)

// Store is client-scoped key/value storage with expiry.
type Store interface {
	Put(ctx context.Context, scope, key, value string, ttl time.Duration) error
	Get(ctx context.Context, scope, key string) (string, bool, error)
}

// StoreWriter writes both record entries under one scope, usually the
// client id.
type StoreWriter struct {
	Store Store
	Scope string
}

func (s StoreWriter) Write(ctx context.Context, r Record) error {
	if err := s.Store.Put(ctx, s.Scope, KeyScore, r.scoreText(), TTL); err != nil {
		return err
	}
	return s.Store.Put(ctx, s.Scope, KeyDate, r.dateText(), TTL)
}

// Latest returns the last record written for scope, if it has not expired.
func Latest(ctx context.Context, st Store, scope string) (Record, bool, error) {
	score, ok, err := st.Get(ctx, scope, KeyScore)
	if err != nil || !ok {
		return Record{}, false, err
	}
	date, ok, err := st.Get(ctx, scope, KeyDate)
	if err != nil || !ok {
		return Record{}, false, err
	}
	rec, err := parse(score, date)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

type memEntry struct {
	value   string
	expires time.Time
}

type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]memEntry
	now func() time.Time
}

func NewMemoryStore() *MemoryStore { return NewMemoryStoreWithClock(time.Now) }

func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{m: map[string]memEntry{}, now: now}
}

func memKey(scope, key string) string { return scope + "\x00" + key }

func (s *MemoryStore) Put(_ context.Context, scope, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[memKey(scope, key)] = memEntry{value: value, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memKey(scope, key)
	e, ok := s.m[k]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.m, k)
		return "", false, nil
	}
	return e.value, true, nil
}
