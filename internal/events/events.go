package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPaymentReceived   = "payment_received"
	EventPersonnelAssigned = "personnel_assigned"
	EventSessionOpened     = "session_opened"
	EventSessionClosed     = "session_closed"
)

// PaymentEventPayload is the payment snapshot published on submit success.
type PaymentEventPayload struct {
	BookingID      string          `json:"booking_id"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	Method         string          `json:"method"`
	HasReceipt     bool            `json:"has_receipt"`
	ReceivedBy     string          `json:"received_by,omitempty"`
}

// AssignmentEventPayload is published when an assignment is accepted.
type AssignmentEventPayload struct {
	PersonnelID   string `json:"personnel_id"`
	AppointmentID string `json:"appointment_id"`
	CarwashName   string `json:"carwash_name,omitempty"`
	AssignedBy    string `json:"assigned_by,omitempty"`
}

// SessionEventPayload marks a session being opened or closed.
type SessionEventPayload struct {
	OwnerID string `json:"owner_id"`
}

// Event is a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event *Event) error

// Bus provides in-process pub/sub for events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handlers run
// synchronously; the caller decides the concurrency model.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
// A nil bus is a no-op so collaborators stay optional.
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
