package models

import (
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the desk.
const (
	MethodCash  = "cash"
	MethodBank  = "bank"
	MethodUPI   = "upi"
	MethodOther = "other"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []string{MethodCash, MethodBank, MethodUPI, MethodOther}

// MaxReceiptSize caps the uploaded receipt attachment at 5MB.
const MaxReceiptSize = 5 << 20

// ReceiptContentTypes lists the accepted receipt attachment types.
var ReceiptContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// Receipt is an in-memory receipt attachment. Never persisted locally.
type Receipt struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PaymentEntry is the state of one payment-receiving page visit.
// Created fresh per visit, destroyed on submit or navigation away.
type PaymentEntry struct {
	BookingID      string          `json:"bookingId"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	AmountReceived decimal.Decimal `json:"amountReceived"`
	Method         string          `json:"method"`
	Receipt        *Receipt        `json:"-"`
}

// RemainingBalance is derived on every call, never stored.
func (p *PaymentEntry) RemainingBalance() decimal.Decimal {
	return p.TotalAmount.Sub(p.AmountReceived)
}

// ValidMethod reports whether the method is one of the accepted enum values.
func ValidMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
