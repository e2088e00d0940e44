package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"washdesk/internal/logging"
	"washdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore wraps a MemoryStore and errors while failing is true.
type flakyStore struct {
	*MemoryStore
	failing bool
	calls   int
}

var errStoreDown = errors.New("store down")

func (f *flakyStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	f.calls++
	if f.failing {
		return nil, errStoreDown
	}
	return f.MemoryStore.GetSession(ctx, id)
}

func (f *flakyStore) SetSession(ctx context.Context, session *models.Session) error {
	f.calls++
	if f.failing {
		return errStoreDown
	}
	return f.MemoryStore.SetSession(ctx, session)
}

func (f *flakyStore) ClearSession(ctx context.Context, id string) error {
	f.calls++
	if f.failing {
		return errStoreDown
	}
	return f.MemoryStore.ClearSession(ctx, id)
}

func (f *flakyStore) PutHandoff(ctx context.Context, sessionID string, profile *models.PersonnelProfile) error {
	f.calls++
	if f.failing {
		return errStoreDown
	}
	return f.MemoryStore.PutHandoff(ctx, sessionID, profile)
}

func (f *flakyStore) TakeHandoff(ctx context.Context, sessionID, personnelID string) (*models.PersonnelProfile, error) {
	f.calls++
	if f.failing {
		return nil, errStoreDown
	}
	return f.MemoryStore.TakeHandoff(ctx, sessionID, personnelID)
}

func (f *flakyStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	f.calls++
	if f.failing {
		return false, errStoreDown
	}
	return f.MemoryStore.CheckRateLimit(ctx, key, limit, window)
}

func TestFailoverStoreHealthyPrimary(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore(time.Hour)}
	fallback := NewMemoryStore(time.Hour)
	store := NewFailoverStore(primary, fallback, logging.Nop())
	ctx := context.Background()

	session := &models.Session{ID: "sess-1", Token: "tok"}
	require.NoError(t, store.SetSession(ctx, session))

	got, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok", got.Token)

	// Fallback never touched
	gotFallback, _ := fallback.GetSession(ctx, "sess-1")
	assert.Nil(t, gotFallback)
}

func TestFailoverStoreFallsBack(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore(time.Hour), failing: true}
	fallback := NewMemoryStore(time.Hour)
	store := NewFailoverStore(primary, fallback, logging.Nop())
	ctx := context.Background()

	session := &models.Session{ID: "sess-1", OwnerID: "owner-1"}
	require.NoError(t, store.SetSession(ctx, session))

	got, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "owner-1", got.OwnerID)

	// After the first failure the primary is not hammered on every call
	callsAfterFailure := primary.calls
	_, _ = store.GetSession(ctx, "sess-1")
	_, _ = store.GetSession(ctx, "sess-1")
	assert.Equal(t, callsAfterFailure, primary.calls)
}

func TestFailoverStoreHandoff(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore(time.Hour), failing: true}
	fallback := NewMemoryStore(time.Hour)
	store := NewFailoverStore(primary, fallback, logging.Nop())
	ctx := context.Background()

	profile := &models.PersonnelProfile{ID: "p-1", FirstName: "Ana"}
	require.NoError(t, store.PutHandoff(ctx, "sess-1", profile))

	got, err := store.TakeHandoff(ctx, "sess-1", "p-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.FirstName)
}

func TestFailoverStoreRateLimit(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore(time.Hour), failing: true}
	fallback := NewMemoryStore(time.Hour)
	store := NewFailoverStore(primary, fallback, logging.Nop())
	ctx := context.Background()

	allowed, err := store.CheckRateLimit(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = store.CheckRateLimit(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
