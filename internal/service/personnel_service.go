package service

import (
	"context"
	"errors"
	"fmt"

	"washdesk/internal/domain"
	"washdesk/internal/events"
	"washdesk/internal/models"

	"github.com/rs/zerolog"
)

// ErrIncompleteAssignment guards the assignment invariant: both
// identifiers must be present before anything goes on the wire.
var ErrIncompleteAssignment = errors.New("assignment requires personnel and appointment identifiers")

type PersonnelService struct {
	client   domain.BackendClient
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewPersonnelService(client domain.BackendClient, eventBus domain.EventPublisher, logger *zerolog.Logger) *PersonnelService {
	return &PersonnelService{
		client:   client,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Applications returns the approved carwash applications with nested
// appointments, in backend order.
func (s *PersonnelService) Applications(ctx context.Context) ([]models.CarwashApplication, error) {
	apps, err := s.client.ApprovedApplications(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load approved applications")
		return nil, fmt.Errorf("load applications: %w", err)
	}
	return apps, nil
}

// MissingFields lists the identifiers still unselected.
func (s *PersonnelService) MissingFields(assignment models.PersonnelAssignment) []string {
	var missing []string
	if assignment.PersonnelID == "" {
		missing = append(missing, "personnel")
	}
	if assignment.AppointmentID == "" {
		missing = append(missing, "appointment")
	}
	return missing
}

// Assign submits one personnel-to-appointment assignment. The outcome
// is always branched on: a backend failure is reported to the caller,
// never swallowed.
func (s *PersonnelService) Assign(ctx context.Context, assignment models.PersonnelAssignment, carwashName, assignedBy string) error {
	if !assignment.Complete() {
		return ErrIncompleteAssignment
	}

	if err := s.client.AssignPersonnel(ctx, assignment); err != nil {
		s.logger.Error().Err(err).
			Str("personnel_id", assignment.PersonnelID).
			Str("appointment_id", assignment.AppointmentID).
			Msg("assignment submission failed")
		return fmt.Errorf("assign personnel: %w", err)
	}

	s.logger.Info().
		Str("personnel_id", assignment.PersonnelID).
		Str("appointment_id", assignment.AppointmentID).
		Msg("personnel assigned")

	s.eventBus.PublishJSON(events.EventPersonnelAssigned, events.AssignmentEventPayload{
		PersonnelID:   assignment.PersonnelID,
		AppointmentID: assignment.AppointmentID,
		CarwashName:   carwashName,
		AssignedBy:    assignedBy,
	})

	return nil
}

// Profile fetches one personnel record by identifier.
func (s *PersonnelService) Profile(ctx context.Context, id string) (*models.PersonnelProfile, error) {
	profile, err := s.client.Personnel(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("personnel_id", id).Msg("failed to load personnel profile")
		return nil, err
	}
	return profile, nil
}

// List fetches all personnel records for the list view.
func (s *PersonnelService) List(ctx context.Context) ([]models.PersonnelProfile, error) {
	list, err := s.client.ListPersonnel(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load personnel list")
		return nil, fmt.Errorf("load personnel: %w", err)
	}
	return list, nil
}
