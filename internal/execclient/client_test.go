package execclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/leapstack-labs/codepad/internal/testutil"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return New(Config{
		BaseURL: baseURL,
		Logger:  testutil.NewTestLogger(t),
	})
}

func TestExecute_Success(t *testing.T) {
	var gotPath, gotContentType, gotCode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotCode = req.Code

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output": "5", "isError": false}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res, err := c.Execute(context.Background(), language.Python, "print(2+3)")
	require.NoError(t, err)

	assert.Equal(t, "/api/execute-python", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "print(2+3)", gotCode)
	assert.Equal(t, Result{Output: "5", IsError: false}, res)
}

func TestExecute_ExecutionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"output": "NameError", "isError": true}`))
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL).Execute(context.Background(), language.Python, "x")
	require.NoError(t, err, "an execution error is a successful exchange")
	assert.True(t, res.IsError)
	assert.Equal(t, "NameError", res.Output)
}

func TestExecute_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Execute(context.Background(), language.Go, "package main")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "Server error: 502 Bad Gateway", err.Error())
}

func TestExecute_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Execute(context.Background(), language.Rust, "fn main() {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestExecute_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	logger, logs := testutil.NewCaptureLogger(t)
	c := New(Config{BaseURL: url, Logger: logger})
	_, err := c.Execute(context.Background(), language.Python, "print(1)")
	assert.Error(t, err)

	assert.Equal(t, []string{"execution request failed"}, logs.Messages(slog.LevelWarn))
	lang, ok := logs.Attr("execution request failed", "language")
	require.True(t, ok)
	assert.Equal(t, "python", lang.String())
}

func TestExecute_EmptyBaseURL(t *testing.T) {
	_, err := newTestClient(t, "").Execute(context.Background(), language.Python, "print(1)")
	assert.Error(t, err, "a missing base URL fails at call time")
}

func TestExecute_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Logger: testutil.NewTestLogger(t)})
	_, err := c.Execute(context.Background(), language.Python, "while True: pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEndpoint(t *testing.T) {
	c := New(Config{BaseURL: "http://runner.local/"})
	assert.Equal(t, "http://runner.local/api/execute-cpp", c.Endpoint(language.CPP))
	assert.Equal(t, "http://runner.local/api/execute-swift", c.Endpoint(language.Swift))
}
