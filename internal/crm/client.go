// Package crm wraps the GoHighLevel REST endpoints the funnel depends on:
// the lead-intake webhook, contact creation, and calendar appointments.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

const defaultBaseURL = "https://rest.gohighlevel.com/v1"

// ErrNotConfigured is returned when the client is missing an API key.
var ErrNotConfigured = errors.New("crm: client not configured")

// Config controls how the CRM client behaves.
type Config struct {
	APIKey     string
	BaseURL    string
	LocationID string
	CalendarID string
	WebhookURL string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client wraps the CRM REST API.
type Client struct {
	apiKey     string
	baseURL    string
	locationID string
	calendarID string
	webhookURL string
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates a configured Client with sane defaults.
func New(cfg Config, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("crm: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 12 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		locationID: cfg.LocationID,
		calendarID: cfg.CalendarID,
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Contact is the CRM contact payload.
type Contact struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address1,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Appointment is one calendar appointment as the CRM reports it.
type Appointment struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// AppointmentRequest creates a calendar appointment for a contact.
type AppointmentRequest struct {
	ContactID string    `json:"contactId"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// SubmitLead posts the accumulated lead record to the intake webhook. The
// webhook consumes no response body beyond the HTTP status.
func (c *Client) SubmitLead(ctx context.Context, payload map[string]any) error {
	if c.webhookURL == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(map[string]any{"contact": payload})
	if err != nil {
		return fmt.Errorf("crm: marshal lead payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crm: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm: webhook post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("crm: webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// CreateContact creates a contact and returns its ID.
func (c *Client) CreateContact(ctx context.Context, contact Contact) (string, error) {
	payload := struct {
		Contact
		LocationID string `json:"locationId,omitempty"`
	}{Contact: contact, LocationID: c.locationID}

	var out struct {
		Contact struct {
			ID string `json:"id"`
		} `json:"contact"`
	}
	if err := c.invoke(ctx, http.MethodPost, "/contacts/", nil, payload, &out); err != nil {
		return "", err
	}
	if out.Contact.ID == "" {
		return "", errors.New("crm: contact response missing id")
	}
	return out.Contact.ID, nil
}

// CreateAppointment books a calendar slot and returns the appointment ID.
func (c *Client) CreateAppointment(ctx context.Context, req AppointmentRequest) (string, error) {
	payload := struct {
		AppointmentRequest
		CalendarID string `json:"calendarId,omitempty"`
	}{AppointmentRequest: req, CalendarID: c.calendarID}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.invoke(ctx, http.MethodPost, "/appointments/", nil, payload, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("crm: appointment response missing id")
	}
	return out.ID, nil
}

// ListAppointments fetches booked appointments in the given window.
func (c *Client) ListAppointments(ctx context.Context, start, end time.Time) ([]Appointment, error) {
	query := url.Values{}
	query.Set("startDate", start.UTC().Format(time.RFC3339))
	query.Set("endDate", end.UTC().Format(time.RFC3339))
	if c.calendarID != "" {
		query.Set("calendarId", c.calendarID)
	}

	var out struct {
		Appointments []Appointment `json:"appointments"`
	}
	if err := c.invoke(ctx, http.MethodGet, "/appointments/", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

func (c *Client) invoke(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("crm: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("crm request failed", "method", method, "path", path, "status", resp.StatusCode, "body", string(data))
		return fmt.Errorf("crm: %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("crm: decode response: %w", err)
		}
	}
	return nil
}
