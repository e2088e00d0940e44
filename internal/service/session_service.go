package service

import (
	"context"
	"errors"
	"time"

	"washdesk/internal/domain"
	"washdesk/internal/events"
	"washdesk/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrTooManyAttempts is returned when the login rate limit is exceeded.
var ErrTooManyAttempts = errors.New("too many login attempts, try again later")

type SessionService struct {
	client        domain.BackendClient
	store         domain.SessionStore
	eventBus      domain.EventPublisher
	logger        *zerolog.Logger
	loginAttempts int
	loginWindow   time.Duration
}

func NewSessionService(client domain.BackendClient, store domain.SessionStore, eventBus domain.EventPublisher, loginAttempts int, loginWindow time.Duration, logger *zerolog.Logger) *SessionService {
	if loginAttempts <= 0 {
		loginAttempts = 5
	}
	if loginWindow <= 0 {
		loginWindow = 5 * time.Minute
	}
	return &SessionService{
		client:        client,
		store:         store,
		eventBus:      eventBus,
		logger:        logger,
		loginAttempts: loginAttempts,
		loginWindow:   loginWindow,
	}
}

// Login exchanges credentials for a stored session. Session markers are
// written here and nowhere else.
func (s *SessionService) Login(ctx context.Context, email, password, remoteAddr string) (*models.Session, error) {
	allowed, err := s.store.CheckRateLimit(ctx, "login:"+remoteAddr, s.loginAttempts, s.loginWindow)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login rate limit check failed, allowing attempt")
	} else if !allowed {
		return nil, ErrTooManyAttempts
	}

	session, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session.ID = uuid.New().String()
	session.CreatedAt = time.Now()

	if err := s.store.SetSession(ctx, session); err != nil {
		s.logger.Error().Err(err).Msg("failed to store session")
		return nil, err
	}

	s.logger.Info().Str("owner_id", session.OwnerID).Msg("session opened")
	s.eventBus.PublishJSON(events.EventSessionOpened, events.SessionEventPayload{OwnerID: session.OwnerID})

	return session, nil
}

// Logout clears the session markers. Safe to call for unknown ids.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.store.ClearSession(ctx, sessionID); err != nil {
		return err
	}

	if session != nil {
		s.logger.Info().Str("owner_id", session.OwnerID).Msg("session closed")
		s.eventBus.PublishJSON(events.EventSessionClosed, events.SessionEventPayload{OwnerID: session.OwnerID})
	}
	return nil
}

// Current resolves the session for a request cookie; nil when absent.
func (s *SessionService) Current(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.store.GetSession(ctx, sessionID)
}
