package session

import (
	"context"
	"sync/atomic"
	"time"

	"washdesk/internal/domain"
	"washdesk/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStore serves from the primary store and transparently falls
// back to the secondary when the primary errors. A downed primary is
// retried after a recovery interval.
type FailoverStore struct {
	primary   domain.SessionStore
	fallback  domain.SessionStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryInterval = time.Minute

func NewFailoverStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverStore) markDown(err error) {
	f.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().UnixNano())
}

func (f *FailoverStore) shouldRetryPrimary() bool {
	return time.Since(time.Unix(0, f.lastCheck.Load())) > recoveryInterval
}

func (f *FailoverStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if !f.isDown.Load() {
		session, err := f.primary.GetSession(ctx, id)
		if err == nil {
			return session, nil
		}
		f.markDown(err)
	} else if f.shouldRetryPrimary() {
		session, err := f.primary.GetSession(ctx, id)
		if err == nil {
			f.isDown.Store(false)
			return session, nil
		}
		f.lastCheck.Store(time.Now().UnixNano())
	}

	return f.fallback.GetSession(ctx, id)
}

func (f *FailoverStore) SetSession(ctx context.Context, session *models.Session) error {
	if !f.isDown.Load() {
		err := f.primary.SetSession(ctx, session)
		if err == nil {
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.SetSession(ctx, session)
}

func (f *FailoverStore) ClearSession(ctx context.Context, id string) error {
	if !f.isDown.Load() {
		err := f.primary.ClearSession(ctx, id)
		if err == nil {
			// Clear both so a recovered primary cannot resurrect the session.
			_ = f.fallback.ClearSession(ctx, id)
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.ClearSession(ctx, id)
}

func (f *FailoverStore) PutHandoff(ctx context.Context, sessionID string, profile *models.PersonnelProfile) error {
	if !f.isDown.Load() {
		err := f.primary.PutHandoff(ctx, sessionID, profile)
		if err == nil {
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.PutHandoff(ctx, sessionID, profile)
}

func (f *FailoverStore) TakeHandoff(ctx context.Context, sessionID, personnelID string) (*models.PersonnelProfile, error) {
	if !f.isDown.Load() {
		profile, err := f.primary.TakeHandoff(ctx, sessionID, personnelID)
		if err == nil {
			return profile, nil
		}
		f.markDown(err)
	}

	return f.fallback.TakeHandoff(ctx, sessionID, personnelID)
}

func (f *FailoverStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !f.isDown.Load() {
		allowed, err := f.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		f.markDown(err)
	}

	return f.fallback.CheckRateLimit(ctx, key, limit, window)
}
