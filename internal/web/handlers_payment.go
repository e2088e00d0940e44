package web

import (
	"context"
	"errors"
	"io"
	"net/http"

	"washdesk/internal/metrics"
	"washdesk/internal/models"
	"washdesk/internal/page"
	"washdesk/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// handlePaymentPage renders a fresh payment entry. The record is
// created locally, never fetched, so the page starts Ready.
func (s *Server) handlePaymentPage(w http.ResponseWriter, r *http.Request) {
	entry := &models.PaymentEntry{
		BookingID: r.URL.Query().Get("booking_id"),
	}
	if raw := r.URL.Query().Get("total"); raw != "" {
		if total, err := decimal.NewFromString(raw); err == nil {
			entry.TotalAmount = total
		}
	}

	token, m := s.newPageMachine()
	_ = m.ResolveFromHandoff()

	s.render(w, r, http.StatusOK, "payment.html", "payment", viewData{
		Title:     "Receive payment",
		Session:   sessionFrom(r.Context()),
		Phase:     m.Phase(),
		PageToken: token,
		Entry:     entry,
		Remaining: entry.RemainingBalance().String(),
		Methods:   models.PaymentMethods,
		CanSubmit: false,
	})
}

func (s *Server) handlePaymentSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(models.MaxReceiptSize + 1<<20); err != nil {
		s.renderPaymentForm(w, r, http.StatusBadRequest, "", &models.PaymentEntry{}, "", "Could not read the form, try again.")
		return
	}

	token := r.PostFormValue("page_token")
	m := s.pageMachine(token)

	entry := &models.PaymentEntry{
		BookingID: r.PostFormValue("booking_id"),
		Method:    r.PostFormValue("method"),
	}
	if raw := r.PostFormValue("total_amount"); raw != "" {
		if total, err := decimal.NewFromString(raw); err == nil {
			entry.TotalAmount = total
		}
	}

	amountRaw := r.PostFormValue("amount_received")
	if amountRaw != "" {
		amount, err := decimal.NewFromString(amountRaw)
		if err != nil {
			s.renderPaymentForm(w, r, http.StatusUnprocessableEntity, token, entry, amountRaw, "Enter a valid amount.")
			return
		}
		entry.AmountReceived = amount
	}

	receipt, errMsg := readReceipt(r)
	if errMsg != "" {
		s.renderPaymentForm(w, r, http.StatusUnprocessableEntity, token, entry, amountRaw, errMsg)
		return
	}
	entry.Receipt = receipt

	// Required fields missing: never reaches the network
	if missing := s.payments.MissingFields(entry); len(missing) > 0 {
		metrics.IncSubmission("payment", "validation")
		s.renderPaymentForm(w, r, http.StatusUnprocessableEntity, token, entry, amountRaw, "Booking reference, amount and method are required.")
		return
	}

	session := sessionFrom(r.Context())
	receivedBy := ""
	if session != nil {
		receivedBy = session.OwnerID
	}

	err := m.Submit(r.Context(), func(ctx context.Context) error {
		return s.payments.Receive(ctx, entry, receivedBy)
	})
	switch {
	case errors.Is(err, page.ErrSubmitInFlight), errors.Is(err, page.ErrNotReady):
		metrics.IncSubmission("payment", "duplicate")
		s.renderPaymentForm(w, r, http.StatusConflict, token, entry, amountRaw, "This payment is already being submitted.")
		return
	case isPaymentValidationErr(err):
		metrics.IncSubmission("payment", "validation")
		s.renderPaymentForm(w, r, http.StatusUnprocessableEntity, token, entry, amountRaw, err.Error())
		return
	case err != nil:
		metrics.IncSubmission("payment", "error")
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("payment submit failed")
		s.renderPaymentForm(w, r, http.StatusBadGateway, token, entry, amountRaw, "Could not record the payment. Nothing was saved, try again.")
		return
	}

	metrics.IncSubmission("payment", "success")
	s.releasePage(token)

	s.render(w, r, http.StatusOK, "payment.html", "payment", viewData{
		Title:     "Payment recorded",
		Session:   session,
		Phase:     page.PhaseDone,
		Entry:     entry,
		Remaining: entry.RemainingBalance().String(),
	})
}

// renderPaymentForm re-renders the editable form with held values so
// the fields stay controlled by server state.
func (s *Server) renderPaymentForm(w http.ResponseWriter, r *http.Request, status int, token string, entry *models.PaymentEntry, amountRaw, errMsg string) {
	s.render(w, r, status, "payment.html", "payment", viewData{
		Title:       "Receive payment",
		Session:     sessionFrom(r.Context()),
		Phase:       page.PhaseReady,
		Error:       errMsg,
		PageToken:   token,
		Entry:       entry,
		Remaining:   entry.RemainingBalance().String(),
		AmountValue: amountRaw,
		Methods:     models.PaymentMethods,
		CanSubmit:   len(s.payments.MissingFields(entry)) == 0,
	})
}

func isPaymentValidationErr(err error) bool {
	return errors.Is(err, service.ErrBookingRefNeeded) ||
		errors.Is(err, service.ErrAmountNegative) ||
		errors.Is(err, service.ErrMethodInvalid) ||
		errors.Is(err, service.ErrReceiptTooLarge) ||
		errors.Is(err, service.ErrReceiptBadType)
}

// readReceipt pulls the optional attachment out of the multipart form.
// Returns a user-facing message when the file is unacceptable.
func readReceipt(r *http.Request) (*models.Receipt, string) {
	file, header, err := r.FormFile("receipt")
	if err == http.ErrMissingFile {
		return nil, ""
	}
	if err != nil {
		return nil, "Could not read the receipt file."
	}
	defer file.Close()

	if header.Size > models.MaxReceiptSize {
		return nil, "Receipt file exceeds 5MB."
	}

	data, err := io.ReadAll(io.LimitReader(file, models.MaxReceiptSize+1))
	if err != nil {
		return nil, "Could not read the receipt file."
	}
	if len(data) > models.MaxReceiptSize {
		return nil, "Receipt file exceeds 5MB."
	}

	contentType := http.DetectContentType(data)
	if !models.ReceiptContentTypes[contentType] {
		return nil, "Receipt must be a jpeg, png or pdf file."
	}

	return &models.Receipt{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, ""
}
