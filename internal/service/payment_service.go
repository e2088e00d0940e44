package service

import (
	"context"
	"errors"
	"fmt"

	"washdesk/internal/domain"
	"washdesk/internal/events"
	"washdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrAmountNegative   = errors.New("amount received cannot be negative")
	ErrAmountMissing    = errors.New("amount received is required")
	ErrMethodInvalid    = errors.New("payment method is not accepted")
	ErrReceiptTooLarge  = errors.New("receipt file exceeds 5MB")
	ErrReceiptBadType   = errors.New("receipt must be jpeg, png or pdf")
	ErrBookingRefNeeded = errors.New("booking reference is required")
)

type PaymentService struct {
	client   domain.BackendClient
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewPaymentService(client domain.BackendClient, eventBus domain.EventPublisher, logger *zerolog.Logger) *PaymentService {
	return &PaymentService{
		client:   client,
		eventBus: eventBus,
		logger:   logger,
	}
}

// MissingFields lists the required fields still empty on the entry.
// The submit affordance stays disabled while this is non-empty.
func (s *PaymentService) MissingFields(entry *models.PaymentEntry) []string {
	var missing []string
	if entry.BookingID == "" {
		missing = append(missing, "booking")
	}
	if entry.AmountReceived.IsZero() {
		missing = append(missing, "amount")
	}
	if entry.Method == "" {
		missing = append(missing, "method")
	}
	return missing
}

// Validate enforces the entry invariants before any network call.
func (s *PaymentService) Validate(entry *models.PaymentEntry) error {
	if entry.BookingID == "" {
		return ErrBookingRefNeeded
	}
	if entry.AmountReceived.LessThan(decimal.Zero) {
		return ErrAmountNegative
	}
	if !models.ValidMethod(entry.Method) {
		return ErrMethodInvalid
	}
	if entry.Receipt != nil {
		if len(entry.Receipt.Data) > models.MaxReceiptSize {
			return ErrReceiptTooLarge
		}
		if !models.ReceiptContentTypes[entry.Receipt.ContentType] {
			return ErrReceiptBadType
		}
	}
	return nil
}

// Receive validates and submits one payment entry.
func (s *PaymentService) Receive(ctx context.Context, entry *models.PaymentEntry, receivedBy string) error {
	if err := s.Validate(entry); err != nil {
		return err
	}

	if err := s.client.CreatePayment(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("booking_id", entry.BookingID).
			Str("method", entry.Method).
			Msg("payment submission failed")
		return fmt.Errorf("submit payment: %w", err)
	}

	s.logger.Info().
		Str("booking_id", entry.BookingID).
		Str("amount", entry.AmountReceived.String()).
		Str("method", entry.Method).
		Msg("payment received")

	s.eventBus.PublishJSON(events.EventPaymentReceived, events.PaymentEventPayload{
		BookingID:      entry.BookingID,
		AmountReceived: entry.AmountReceived,
		Method:         entry.Method,
		HasReceipt:     entry.Receipt != nil,
		ReceivedBy:     receivedBy,
	})

	return nil
}
