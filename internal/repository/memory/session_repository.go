package memory

import (
	"sync"
	"time"

	"argovers-soil-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	// Purge expired sessions every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
		locks: map[string]*sessionLock{},
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	session.UpdatedAt = time.Now()
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Lock serializes turns for one session. Concurrent turns against the same
// session would race on current_parameter; different sessions stay parallel.
func (r *SessionRepository) Lock(sessionID string) {
	r.mu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		r.locks[sessionID] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
}

func (r *SessionRepository) Unlock(sessionID string) {
	r.mu.Lock()
	l, ok := r.locks[sessionID]
	if ok {
		l.refs--
		if l.refs == 0 {
			delete(r.locks, sessionID)
		}
	}
	r.mu.Unlock()

	if ok {
		l.mu.Unlock()
	}
}
