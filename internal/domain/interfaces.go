package domain

import (
	"context"
	"time"

	"washdesk/internal/models"
)

// SessionStore keeps session markers and navigation hand-off records.
// Implementations must return (nil, nil) for missing records.
type SessionStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, id string) error

	// Hand-off records let a page pass an already-loaded profile to the
	// next page without a second backend read. Take consumes the record.
	PutHandoff(ctx context.Context, sessionID string, profile *models.PersonnelProfile) error
	TakeHandoff(ctx context.Context, sessionID, personnelID string) (*models.PersonnelProfile, error)

	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// BackendClient is the REST contract the frontend depends on.
type BackendClient interface {
	ApprovedApplications(ctx context.Context) ([]models.CarwashApplication, error)
	AssignPersonnel(ctx context.Context, assignment models.PersonnelAssignment) error
	Personnel(ctx context.Context, id string) (*models.PersonnelProfile, error)
	ListPersonnel(ctx context.Context) ([]models.PersonnelProfile, error)
	CreatePayment(ctx context.Context, entry *models.PaymentEntry) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

// EventPublisher decouples services from the in-process bus.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
