// Package session provides the in-memory session store and the signed
// cookie codec used to key sessions per caller.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/semaphore"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/jpp0ca/PlaylistImport-API/internal/ports"
)

// MemoryStore keeps sessions in process memory. Sessions idle for longer
// than the TTL are dropped. It is safe for concurrent use.
type MemoryStore struct {
	sessions *ttlcache.Cache[string, domain.Session]

	lockMu sync.Mutex
	locks  map[string]*sessionLock
}

type sessionLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewMemoryStore creates an empty store. A ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl < 0 {
		ttl = ttlcache.NoTTL
	}
	return &MemoryStore{
		sessions: ttlcache.New[string, domain.Session](ttlcache.WithTTL[string, domain.Session](ttl)),
		locks:    make(map[string]*sessionLock),
	}
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// NewID returns a new random session ID.
func NewID() string {
	return uuid.NewString()
}

// Get returns a copy of the stored session, or nil if there is none.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	item := s.sessions.Get(id)
	if item == nil {
		return nil, nil
	}
	sess := item.Value()
	return &sess, nil
}

// Save stores a copy of the session and restarts its idle timer.
func (s *MemoryStore) Save(_ context.Context, sess *domain.Session) error {
	stored := *sess
	stored.UpdatedAt = time.Now()
	s.sessions.Set(sess.ID, stored, ttlcache.DefaultTTL)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	return s.sessions.Len()
}

// Lock blocks until no other request holds the lock for id, or ctx is done.
func (s *MemoryStore) Lock(ctx context.Context, id string) (func(), error) {
	s.lockMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{sem: semaphore.NewWeighted(1)}
		s.locks[id] = l
	}
	l.refs++
	s.lockMu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		s.unref(id, l)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.sem.Release(1)
			s.unref(id, l)
		})
	}, nil
}

func (s *MemoryStore) unref(id string, l *sessionLock) {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}
