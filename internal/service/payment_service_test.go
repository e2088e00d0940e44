package service

import (
	"context"
	"errors"
	"testing"

	"washdesk/internal/events"
	"washdesk/internal/logging"
	"washdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() *models.PaymentEntry {
	return &models.PaymentEntry{
		BookingID:      "bk-1",
		TotalAmount:    decimal.RequireFromString("5000"),
		AmountReceived: decimal.RequireFromString("2000"),
		Method:         models.MethodCash,
	}
}

func TestPaymentValidate(t *testing.T) {
	svc := NewPaymentService(&stubClient{}, events.NewBus(), logging.Nop())

	tests := []struct {
		name    string
		mutate  func(*models.PaymentEntry)
		wantErr error
	}{
		{"valid", func(e *models.PaymentEntry) {}, nil},
		{"negative amount", func(e *models.PaymentEntry) {
			e.AmountReceived = decimal.RequireFromString("-1")
		}, ErrAmountNegative},
		{"bad method", func(e *models.PaymentEntry) { e.Method = "cheque" }, ErrMethodInvalid},
		{"missing booking ref", func(e *models.PaymentEntry) { e.BookingID = "" }, ErrBookingRefNeeded},
		{"receipt too large", func(e *models.PaymentEntry) {
			e.Receipt = &models.Receipt{ContentType: "image/png", Data: make([]byte, models.MaxReceiptSize+1)}
		}, ErrReceiptTooLarge},
		{"receipt bad type", func(e *models.PaymentEntry) {
			e.Receipt = &models.Receipt{ContentType: "image/gif", Data: []byte{1}}
		}, ErrReceiptBadType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(entry)
			err := svc.Validate(entry)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPaymentMissingFields(t *testing.T) {
	svc := NewPaymentService(&stubClient{}, events.NewBus(), logging.Nop())

	entry := &models.PaymentEntry{}
	assert.ElementsMatch(t, []string{"booking", "amount", "method"}, svc.MissingFields(entry))

	entry.AmountReceived = decimal.RequireFromString("100")
	assert.ElementsMatch(t, []string{"booking", "method"}, svc.MissingFields(entry))

	entry.Method = models.MethodBank
	assert.Equal(t, []string{"booking"}, svc.MissingFields(entry))

	// every field Validate requires is reported here, so the submit
	// control cannot enable on an entry Validate would reject
	entry.BookingID = "bk-1"
	assert.Empty(t, svc.MissingFields(entry))
	assert.NotErrorIs(t, svc.Validate(entry), ErrBookingRefNeeded)
}

func TestPaymentReceive(t *testing.T) {
	client := &stubClient{}
	bus := events.NewBus()

	var published int
	bus.Subscribe(events.EventPaymentReceived, func(_ *events.Event) error {
		published++
		return nil
	})

	svc := NewPaymentService(client, bus, logging.Nop())

	err := svc.Receive(context.Background(), validEntry(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, client.paymentCalls)
	assert.Equal(t, 1, published)
	assert.Equal(t, "2000", client.lastPayment.AmountReceived.String())
}

func TestPaymentReceiveValidationNeverReachesNetwork(t *testing.T) {
	client := &stubClient{}
	svc := NewPaymentService(client, events.NewBus(), logging.Nop())

	entry := validEntry()
	entry.Method = "cheque"

	err := svc.Receive(context.Background(), entry, "owner-1")
	assert.ErrorIs(t, err, ErrMethodInvalid)
	assert.Equal(t, 0, client.paymentCalls)
}

func TestPaymentReceiveBackendFailure(t *testing.T) {
	client := &stubClient{paymentErr: errors.New("backend down")}
	bus := events.NewBus()

	var published int
	bus.Subscribe(events.EventPaymentReceived, func(_ *events.Event) error {
		published++
		return nil
	})

	svc := NewPaymentService(client, bus, logging.Nop())

	err := svc.Receive(context.Background(), validEntry(), "owner-1")
	assert.Error(t, err)
	assert.Equal(t, 0, published, "no event on failed submission")
}
