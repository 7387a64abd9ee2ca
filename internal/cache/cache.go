package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// entry wraps a cached value with its freshness deadline. The backing store
// never expires entries itself; freshness is decided here on read so that a
// non-fresh value stays available for stale fallback.
type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a TTL cache that keeps the last successful value for every key
// past its TTL. Get answers only with fresh values; GetStale answers with
// whatever was stored last, regardless of age. A Set overwrites the entry
// and its staleness clock unconditionally, so failed fetches (which never
// call Set) leave the previous value in place as the fallback pool.
type Store struct {
	c   *gocache.Cache
	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	// Janitor disabled: entries must outlive their TTL to serve as
	// stale fallbacks, so nothing is ever swept.
	return &Store{
		c:   gocache.New(gocache.NoExpiration, 0),
		now: time.Now,
	}
}

// Get returns the value for key if it is still fresh.
func (s *Store) Get(key string) (any, bool) {
	v, found := s.c.Get(key)
	if !found {
		return nil, false
	}
	e := v.(entry)
	if !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// GetStale returns the last stored value for key regardless of freshness.
// It reports false only if the key was never stored.
func (s *Store) GetStale(key string) (any, bool) {
	v, found := s.c.Get(key)
	if !found {
		return nil, false
	}
	return v.(entry).value, true
}

// Set stores value under key with the given TTL, overwriting any previous
// entry and resetting its staleness clock.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.c.Set(key, entry{value: value, expiresAt: s.now().Add(ttl)}, gocache.NoExpiration)
}

// Len reports how many keys have ever been stored and not overwritten.
func (s *Store) Len() int {
	return s.c.ItemCount()
}
