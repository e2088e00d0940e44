package session

import (
	"context"
	"sync"
	"time"

	"washdesk/internal/models"
)

// MemoryStore is the in-process fallback used in development and while
// Redis is unavailable. Entries expire lazily on read.
type MemoryStore struct {
	sessions sync.Map
	handoffs sync.Map
	ttl      time.Duration

	rateMu     sync.Mutex
	rateLimits map[string]*rateLimitEntry
}

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

type handoffEntry struct {
	profile   *models.PersonnelProfile
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:        ttl,
		rateLimits: make(map[string]*rateLimitEntry),
	}
}

func (m *MemoryStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	val, ok := m.sessions.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if m.ttl > 0 && time.Now().After(entry.expiresAt) {
		m.sessions.Delete(id)
		return nil, nil
	}
	return entry.session, nil
}

func (m *MemoryStore) SetSession(ctx context.Context, session *models.Session) error {
	m.sessions.Store(session.ID, &memoryEntry{
		session:   session,
		expiresAt: time.Now().Add(m.ttl),
	})
	return nil
}

func (m *MemoryStore) ClearSession(ctx context.Context, id string) error {
	m.sessions.Delete(id)
	return nil
}

func (m *MemoryStore) PutHandoff(ctx context.Context, sessionID string, profile *models.PersonnelProfile) error {
	m.handoffs.Store(sessionID+":"+profile.ID, &handoffEntry{
		profile:   profile,
		expiresAt: time.Now().Add(m.ttl),
	})
	return nil
}

func (m *MemoryStore) TakeHandoff(ctx context.Context, sessionID, personnelID string) (*models.PersonnelProfile, error) {
	key := sessionID + ":" + personnelID
	val, ok := m.handoffs.LoadAndDelete(key)
	if !ok {
		return nil, nil
	}
	entry := val.(*handoffEntry)
	if m.ttl > 0 && time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.profile, nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// CheckRateLimit counts one attempt under the mutex so concurrent
// callers cannot both observe the same count.
func (m *MemoryStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	m.rateMu.Lock()
	defer m.rateMu.Unlock()

	entry, ok := m.rateLimits[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
		m.rateLimits[key] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
