package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// ErrTransport marks failures to reach the API at all, as opposed to the API
// answering with an error.
var ErrTransport = errors.New("transport failure")

// ErrValidation marks payloads rejected before they were sent
var ErrValidation = errors.New("invalid request")

// RequestIDHeader carries a per-request ULID for correlating client and server logs
const RequestIDHeader = "X-Request-ID"

// Client represents an HTTP client for the book catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     zerolog.Logger
}

// New creates a new API client for the API rooted at baseURL
func New(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// response is a fully read HTTP response
type response struct {
	StatusCode int
	Body       []byte
}

func (r *response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// do sends one request and reads the whole response. Only transport-level
// problems are returned as errors; any HTTP status is a response.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("API request failed")
		return nil, fmt.Errorf("%w: failed to send request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("API request")

	return &response{StatusCode: resp.StatusCode, Body: data}, nil
}

// validateRequest runs the struct's validate tags and reports the first problem
func (c *Client) validateRequest(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s", ErrValidation, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

// errorMessage extracts a human-readable message from an error response body.
// JSON bodies with an "error" or "message" field yield that field.
func errorMessage(resp *response) string {
	text := strings.TrimSpace(string(resp.Body))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return text
}

// APIError is a non-2xx answer from the catalog API
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("failed to %s (status %d): %s", e.Op, e.StatusCode, e.Message)
}

func newAPIError(op string, resp *response) *APIError {
	return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp)}
}
