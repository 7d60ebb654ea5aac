package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

const (
	defaultTimeout  = 15 * time.Second
	maxErrorBodyLen = 64 << 10
)

// Client talks to the booking backend REST API on behalf of the SPA.
// Bearer tokens are forwarded as received and never stored.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClientWithOptions(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithOptions allows overriding the HTTP client (used for tests)
func NewClientWithOptions(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// errorBody is the backend's error envelope
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// ListDoctorAvailabilities returns the authenticated doctor's availabilities.
// Records are passed through untouched so backend-only fields survive.
func (c *Client) ListDoctorAvailabilities(ctx context.Context, token string) ([]json.RawMessage, error) {
	var body struct {
		Availabilities []json.RawMessage `json:"availabilities"`
	}
	if err := c.do(ctx, http.MethodGet, "/doctor/availabilities", token, nil, &body); err != nil {
		return nil, err
	}
	if body.Availabilities == nil {
		return []json.RawMessage{}, nil
	}
	return body.Availabilities, nil
}

// CreateDoctorAvailability stores a new availability and returns the created record
func (c *Client) CreateDoctorAvailability(ctx context.Context, token string, payload entities.AvailabilityPayload) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/doctor/availabilities", token, payload, &raw); err != nil {
		return nil, err
	}
	return unwrapAvailability(raw), nil
}

// UpdateDoctorAvailability replaces an availability and returns the updated record
func (c *Client) UpdateDoctorAvailability(ctx context.Context, token, id string, payload entities.AvailabilityPayload) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/doctor/availabilities/"+url.PathEscape(id), token, payload, &raw); err != nil {
		return nil, err
	}
	return unwrapAvailability(raw), nil
}

// DeleteDoctorAvailability removes an availability. The returned id is the one
// the backend reports, or the requested id when it reports none.
func (c *Client) DeleteDoctorAvailability(ctx context.Context, token, id string) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "/doctor/availabilities/"+url.PathEscape(id), token, nil, &raw); err != nil {
		return "", err
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"id", "deleted_id"} {
			if v, ok := body[key]; ok {
				if s := rawToString(v); s != "" {
					return s, nil
				}
			}
		}
	}
	return id, nil
}

// GetPublicAvailabilities returns a doctor's public calendar as sent by the backend
func (c *Client) GetPublicAvailabilities(ctx context.Context, doctorID string, query map[string]string) (map[string]json.RawMessage, error) {
	path := "/doctors/" + url.PathEscape(doctorID) + "/availabilities"
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			values.Set(k, v)
		}
		path += "?" + values.Encode()
	}

	var body map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// SearchDoctors runs the backend's doctor keyword search
func (c *Client) SearchDoctors(ctx context.Context, search string) ([]json.RawMessage, error) {
	path := "/doctors?" + url.Values{"search": {search}}.Encode()

	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, "", nil, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return []json.RawMessage{}, nil
	}
	return body.Data, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in any, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperrors.NewInternalError("failed to encode backend request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return apperrors.NewInternalError("failed to build backend request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("backend request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewExternalError("failed to read backend response", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewExternalError("failed to decode backend response", err)
	}
	return nil
}

// statusError maps a non-2xx backend response onto an application error.
// The backend's own message is kept so it can be shown to the user verbatim.
func statusError(resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	_ = json.Unmarshal(data, &body)

	message := body.Message
	if message == "" {
		message = body.Error
	}

	var appErr *apperrors.AppError
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "authentication required"
		}
		appErr = apperrors.NewUnauthorizedError(message)
	case http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		appErr = apperrors.NewNotFoundError(message)
	case http.StatusConflict:
		if message == "" {
			message = "conflicting availability"
		}
		appErr = apperrors.NewConflictError(message)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		if message == "" {
			message = "the submitted data is invalid"
		}
		appErr = apperrors.NewFieldValidationError(message, body.Errors)
	default:
		appErr = apperrors.NewUpstreamStatusError("backend api", resp.StatusCode)
		if message != "" {
			appErr.Message = message
		}
	}
	appErr.StatusCode = resp.StatusCode
	return appErr
}

// unwrapAvailability returns the "availability" member when the backend wraps
// the record, otherwise the body itself.
func unwrapAvailability(raw json.RawMessage) json.RawMessage {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if inner, ok := wrapped["availability"]; ok && string(inner) != "null" {
			return inner
		}
	}
	return raw
}

func rawToString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(v))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}

var (
	_ providers.AvailabilityGateway = (*Client)(nil)
	_ providers.DoctorDirectory     = (*Client)(nil)
)
