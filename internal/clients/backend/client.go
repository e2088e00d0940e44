// Package backend implements the typed HTTP client for the carwash
// business backend. It is the only way the frontend reaches remote data.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"washdesk/internal/config"
	"washdesk/internal/metrics"
	"washdesk/internal/models"
)

// ErrNotFound is returned when the backend reports a missing record.
var ErrNotFound = errors.New("record not found")

// ErrUnauthorized is returned for rejected credentials.
var ErrUnauthorized = errors.New("unauthorized")

type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// ApprovedApplications fetches approved carwash applications with their
// nested appointments, preserving backend order.
func (c *Client) ApprovedApplications(ctx context.Context) ([]models.CarwashApplication, error) {
	started := time.Now()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/carwash-applications/approved-with-appointments", nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveBackend("approved_applications", "error", time.Since(started))
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveBackend("approved_applications", "error", time.Since(started))
		return nil, fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	var apps []models.CarwashApplication
	if err := json.NewDecoder(resp.Body).Decode(&apps); err != nil {
		metrics.ObserveBackend("approved_applications", "error", time.Since(started))
		return nil, fmt.Errorf("decode response: %w", err)
	}

	metrics.ObserveBackend("approved_applications", "success", time.Since(started))
	return apps, nil
}

// AssignPersonnel submits one assignment. The wire body field names are
// fixed by the backend contract.
func (c *Client) AssignPersonnel(ctx context.Context, assignment models.PersonnelAssignment) error {
	started := time.Now()

	jsonData, err := json.Marshal(assignment)
	if err != nil {
		return fmt.Errorf("marshal request in JSON: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/personnel/assign", bytes.NewReader(jsonData), "application/json")
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveBackend("assign_personnel", "error", time.Since(started))
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveBackend("assign_personnel", "error", time.Since(started))
		return fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	metrics.ObserveBackend("assign_personnel", "success", time.Since(started))
	return nil
}

// Personnel fetches one profile by identifier.
func (c *Client) Personnel(ctx context.Context, id string) (*models.PersonnelProfile, error) {
	started := time.Now()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/personnel/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveBackend("get_personnel", "error", time.Since(started))
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.ObserveBackend("get_personnel", "not_found", time.Since(started))
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveBackend("get_personnel", "error", time.Since(started))
		return nil, fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	var profile models.PersonnelProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		metrics.ObserveBackend("get_personnel", "error", time.Since(started))
		return nil, fmt.Errorf("decode response: %w", err)
	}

	metrics.ObserveBackend("get_personnel", "success", time.Since(started))
	return &profile, nil
}

// ListPersonnel fetches all personnel records for the list view.
func (c *Client) ListPersonnel(ctx context.Context) ([]models.PersonnelProfile, error) {
	started := time.Now()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/personnel", nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveBackend("list_personnel", "error", time.Since(started))
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveBackend("list_personnel", "error", time.Since(started))
		return nil, fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	var list []models.PersonnelProfile
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		metrics.ObserveBackend("list_personnel", "error", time.Since(started))
		return nil, fmt.Errorf("decode response: %w", err)
	}

	metrics.ObserveBackend("list_personnel", "success", time.Since(started))
	return list, nil
}

// CreatePayment submits a payment entry. Entries with a receipt go as
// multipart/form-data, the rest as plain JSON.
func (c *Client) CreatePayment(ctx context.Context, entry *models.PaymentEntry) error {
	started := time.Now()

	var (
		body        io.Reader
		contentType string
	)

	if entry.Receipt != nil {
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)

		fields := map[string]string{
			"bookingId":      entry.BookingID,
			"amountReceived": entry.AmountReceived.String(),
			"totalAmount":    entry.TotalAmount.String(),
			"method":         entry.Method,
		}
		for name, value := range fields {
			if err := writer.WriteField(name, value); err != nil {
				return fmt.Errorf("write form field: %w", err)
			}
		}

		part, err := writer.CreateFormFile("receiptFile", entry.Receipt.FileName)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(entry.Receipt.Data); err != nil {
			return fmt.Errorf("write receipt: %w", err)
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("close multipart writer: %w", err)
		}

		body = buf
		contentType = writer.FormDataContentType()
	} else {
		jsonData, err := json.Marshal(map[string]string{
			"bookingId":      entry.BookingID,
			"amountReceived": entry.AmountReceived.String(),
			"totalAmount":    entry.TotalAmount.String(),
			"method":         entry.Method,
		})
		if err != nil {
			return fmt.Errorf("marshal request in JSON: %w", err)
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/payments", body, contentType)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveBackend("create_payment", "error", time.Since(started))
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveBackend("create_payment", "error", time.Since(started))
		return fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	metrics.ObserveBackend("create_payment", "success", time.Since(started))
	return nil
}

// Login exchanges credentials for opaque session markers. The marker
// schema is owned by the authentication subsystem.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	started := time.Now()

	jsonData, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request in JSON: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(jsonData), "application/json")
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveBackend("login", "error", time.Since(started))
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		metrics.ObserveBackend("login", "rejected", time.Since(started))
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveBackend("login", "error", time.Since(started))
		return nil, fmt.Errorf("unexpected code %d", resp.StatusCode)
	}

	var payload struct {
		OwnerID   string `json:"ownerId"`
		OwnerName string `json:"ownerName"`
		Token     string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ObserveBackend("login", "error", time.Since(started))
		return nil, fmt.Errorf("decode response: %w", err)
	}

	metrics.ObserveBackend("login", "success", time.Since(started))
	return &models.Session{
		OwnerID:   payload.OwnerID,
		OwnerName: payload.OwnerName,
		Token:     payload.Token,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	return req, nil
}
