package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentEntryRemainingBalance(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		received string
		want     string
	}{
		{"partial payment", "5000", "2000", "3000"},
		{"full payment", "1200.50", "1200.50", "0"},
		{"nothing received", "750", "0", "750"},
		{"fractional remainder", "100.05", "99.99", "0.06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &PaymentEntry{
				TotalAmount:    decimal.RequireFromString(tt.total),
				AmountReceived: decimal.RequireFromString(tt.received),
			}
			assert.True(t, entry.RemainingBalance().Equal(decimal.RequireFromString(tt.want)),
				"remaining = %s, want %s", entry.RemainingBalance(), tt.want)
		})
	}
}

func TestRemainingBalanceRecomputed(t *testing.T) {
	entry := &PaymentEntry{TotalAmount: decimal.RequireFromString("5000")}

	entry.AmountReceived = decimal.RequireFromString("2000")
	assert.Equal(t, "3000", entry.RemainingBalance().String())

	// Changing the input changes the derived value; nothing is cached.
	entry.AmountReceived = decimal.RequireFromString("4500")
	assert.Equal(t, "500", entry.RemainingBalance().String())
}

func TestValidMethod(t *testing.T) {
	for _, m := range PaymentMethods {
		assert.True(t, ValidMethod(m), m)
	}
	assert.False(t, ValidMethod(""))
	assert.False(t, ValidMethod("card"))
	assert.False(t, ValidMethod("CASH"))
}

func TestPersonnelProfileAvatarURL(t *testing.T) {
	t.Run("ExplicitAvatarWins", func(t *testing.T) {
		p := &PersonnelProfile{FirstName: "Ana", LastName: "Lee", Avatar: "https://cdn.example.com/a.png"}
		assert.Equal(t, "https://cdn.example.com/a.png", p.AvatarURL())
	})

	t.Run("GeneratedFromName", func(t *testing.T) {
		p := &PersonnelProfile{FirstName: "Ana", LastName: "Lee"}
		assert.Contains(t, p.AvatarURL(), "name=Ana%20Lee")
	})

	t.Run("SingleNamePart", func(t *testing.T) {
		p := &PersonnelProfile{FirstName: "Ana"}
		assert.Contains(t, p.AvatarURL(), "name=Ana")
	})
}

func TestPersonnelProfileFullName(t *testing.T) {
	p := &PersonnelProfile{FirstName: " Ana ", LastName: "Lee"}
	assert.Equal(t, "Ana Lee", p.FullName())

	p = &PersonnelProfile{LastName: "Lee"}
	assert.Equal(t, "Lee", p.FullName())
}

func TestPersonnelProfileAvailability(t *testing.T) {
	p := &PersonnelProfile{DayAvailable: "Mon-Fri", TimeAvailable: "09:00-18:00"}
	assert.Equal(t, "Mon-Fri 09:00-18:00", p.Availability())

	p.CombinedAvailability = "Weekdays, business hours"
	assert.Equal(t, "Weekdays, business hours", p.Availability())
}

func TestPersonnelAssignmentComplete(t *testing.T) {
	assert.False(t, PersonnelAssignment{}.Complete())
	assert.False(t, PersonnelAssignment{PersonnelID: "p-1"}.Complete())
	assert.False(t, PersonnelAssignment{AppointmentID: "a-1"}.Complete())
	assert.True(t, PersonnelAssignment{PersonnelID: "p-1", AppointmentID: "a-1"}.Complete())
}
