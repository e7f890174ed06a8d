package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	cinepoll_errors "cinepoll/pkg/errors"
	"cinepoll/pkg/logger"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer credential for protected routes. An empty
// string means no session is available.
type TokenSource interface {
	AccessToken() string
}

// Error is the uniform failure signal for any non-success response. The
// message comes from the response body when the server provides one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return cinepoll_errors.ErrUnauthorized
	case http.StatusForbidden:
		return cinepoll_errors.ErrForbidden
	case http.StatusNotFound:
		return cinepoll_errors.ErrNotFound
	case http.StatusBadRequest:
		return cinepoll_errors.ErrInvalidInput
	}
	return nil
}

// Client talks to the poll service. Each method issues exactly one HTTP
// request; there is no retry or backoff, the caller reacts to failure.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logger.Logger
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     log,
	}
}

// errorBody is the superset of error envelopes the two backend iterations
// return; whichever field is populated wins, in this order.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Err     string `json:"error"`
}

func (b errorBody) first() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Detail != "":
		return b.Detail
	default:
		return b.Err
	}
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.New().String()
	req.Header.Set("X-Request-Id", requestID)
	ctx = context.WithValue(ctx, logger.RequestIdKey, requestID)

	if authed {
		token := c.tokens.AccessToken()
		if token == "" {
			return cinepoll_errors.ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.log != nil {
			c.log.ErrorfCtx(ctx, "%s %s failed: %v", method, path, err)
		}
		return fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody errorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		message := errBody.first()
		if message == "" {
			message = fallback
		}
		if c.log != nil {
			c.log.ErrorfCtx(ctx, "%s %s returned %d: %s", method, path, resp.StatusCode, message)
		}
		return &Error{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	return nil
}

// IsAuthFailure reports whether the error is a credential problem, either a
// local missing-session failure or a rejected token.
func IsAuthFailure(err error) bool {
	return errors.Is(err, cinepoll_errors.ErrNoSession) ||
		errors.Is(err, cinepoll_errors.ErrUnauthorized)
}
