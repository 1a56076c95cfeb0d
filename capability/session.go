package capability

import (
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/codec"
)

// Cache holds the capability map of one client session. The map is only
// recomputed by Establish; Map never probes.
type Cache struct {
	mu      sync.RWMutex
	probe   Probe
	current Map
}

// NewCache creates a cache around probe. Nothing is probed until Establish.
func NewCache(probe Probe) *Cache {
	return &Cache{probe: probe}
}

// Establish rescans the whole universe given in ids and replaces the cached map.
func (c *Cache) Establish(ids []codec.ID) Map {
	m := Scan(c.probe, ids)
	c.mu.Lock()
	c.current = m
	c.mu.Unlock()
	return m
}

// Map returns the cached map, or nil if the cache was never established.
func (c *Cache) Map() Map {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

type session struct {
	cache    *Cache
	lastUsed time.Time
}

// Sessions tracks capability caches per playback session.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessions creates a registry whose idle sessions expire after ttl. A zero
// ttl disables expiry.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		sessions: map[string]*session{},
		ttl:      ttl,
		now:      time.Now,
	}
}

// Establish (re)creates the session id with probe and scans ids. An empty id
// allocates a new session id, which is returned.
func (s *Sessions) Establish(id string, probe Probe, ids []codec.ID) (string, Map) {
	if id == "" {
		id = uuid.NewV4().String()
	}
	cache := NewCache(probe)
	m := cache.Establish(ids)

	s.mu.Lock()
	s.sessions[id] = &session{cache: cache, lastUsed: s.now()}
	s.mu.Unlock()

	log.WithFields(log.Fields{"session": id, "codecs": len(ids)}).Debugln("established capability session")
	return id, m
}

// Lookup returns the cached map of session id.
func (s *Sessions) Lookup(id string) (Map, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastUsed = s.now()
	return sess.cache.Map(), true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions that have been idle for longer than the ttl and returns
// how many were removed.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
