package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"caregate/internal/models"
)

const requestTimeout = 12 * time.Second

// Client is a pure transport adapter for the ERP REST API. It attaches the
// bearer credential, decodes payloads and maps HTTP outcomes onto the error
// taxonomy. It performs no caching; that is the orchestrator's job.
type Client struct {
	baseURL    string
	tokens     *TokenProvider
	httpClient *http.Client
}

// NewClient creates a client for the ERP API at baseURL.
func NewClient(baseURL string, tokens *TokenProvider) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// BedAvailability fetches bed availability for a department.
func (c *Client) BedAvailability(ctx context.Context, department string) (*models.BedAvailability, error) {
	var out models.BedAvailability
	params := url.Values{"department": {department}}
	if err := c.get(ctx, "/api/v1/beds/availability", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClaimStatus fetches the status of an insurance claim.
func (c *Client) ClaimStatus(ctx context.Context, claimID string) (*models.ClaimStatus, error) {
	var out models.ClaimStatus
	if err := c.get(ctx, "/api/v1/claims/"+url.PathEscape(claimID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AppointmentSlots fetches the slot listing for a doctor on a date.
func (c *Client) AppointmentSlots(ctx context.Context, doctor, date string) (*models.AppointmentSlots, error) {
	var out models.AppointmentSlots
	params := url.Values{"doctor": {doctor}, "date": {date}}
	if err := c.get(ctx, "/api/v1/appointments/slots", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatientRecords fetches a patient's medical records.
func (c *Client) PatientRecords(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	var out models.PatientRecord
	if err := c.get(ctx, "/api/v1/patients/"+url.PathEscape(patientID)+"/records", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building ERP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnavailableError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &UnavailableError{Path: path, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ClientError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding ERP response for %s: %w", path, err)
	}
	return nil
}
