// Package execclient talks to the remote code execution service.
package execclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leapstack-labs/codepad/internal/language"
)

// maxResponseBytes caps how much of an execution response is read.
const maxResponseBytes = 4 << 20

// Request is the JSON body sent to the execution endpoint.
type Request struct {
	Code string `json:"code"`
}

// Result is the JSON body the execution endpoint answers with.
type Result struct {
	Output  string `json:"output"`
	IsError bool   `json:"isError"`
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "Server error: " + e.Status
}

// Config holds configuration for the client.
type Config struct {
	// BaseURL is the execution service root. It is not validated; a missing or
	// malformed value surfaces as a request error at call time.
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client sends source code to the execution service.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// New creates a new Client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    httpClient,
		logger:  logger,
	}
}

// Endpoint returns the URL runs for the given language are posted to.
func (c *Client) Endpoint(tag language.Tag) string {
	return c.baseURL + "/api/execute-" + tag.String()
}

// Execute runs code remotely and returns the service's verdict.
// A returned error means the service could not be reached or answered
// something other than a well-formed result.
func (c *Client) Execute(ctx context.Context, tag language.Tag, code string) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(Request{Code: code})
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.Endpoint(tag)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("execution request failed", "language", tag.String(), "error", err)
		return Result{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("execution response",
		"language", tag.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Result{}, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var result Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("malformed response: %w", err)
	}
	return result, nil
}
