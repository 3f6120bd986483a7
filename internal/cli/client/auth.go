package client

import (
	"context"
	"net/http"
	"strings"
)

// LoginSuccessMessage is the exact body the API answers a successful login with
const LoginSuccessMessage = "Login Successful"

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result is the business outcome of an authentication call. Message holds the
// API's text, shown to the user as-is on failure.
type Result struct {
	StatusCode int
	Message    string
	Success    bool
}

// Login submits credentials as entered. A rejected login is a Result with
// Success false, not an error; errors are reserved for validation and
// transport failures.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", req)
	if err != nil {
		return nil, err
	}

	message := strings.TrimSpace(string(resp.Body))
	if !resp.ok() {
		message = errorMessage(resp)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Message:    message,
		Success:    resp.ok() && string(resp.Body) == LoginSuccessMessage,
	}, nil
}

// Register creates an account. Any 2xx answer is success.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	// A blank username is not a username
	req.Username = strings.TrimSpace(req.Username)
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return nil, err
	}

	result := &Result{StatusCode: resp.StatusCode, Success: resp.ok()}
	if resp.ok() {
		result.Message = strings.TrimSpace(string(resp.Body))
	} else {
		result.Message = errorMessage(resp)
	}
	return result, nil
}
