// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/codepad/internal/execclient"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/leapstack-labs/codepad/internal/session"
	"github.com/leapstack-labs/codepad/internal/testutil"
	"github.com/leapstack-labs/codepad/internal/ui/notifier"
)

// ExecCall records one request received by a fake execution service.
type ExecCall struct {
	Path string
	Code string
}

// ExecReply decides what the fake execution service answers.
type ExecReply func(call ExecCall) (status int, body string)

// JSONReply answers every call with the given result.
func JSONReply(output string, isError bool) ExecReply {
	return func(ExecCall) (int, string) {
		body, _ := json.Marshal(execclient.Result{Output: output, IsError: isError})
		return http.StatusOK, string(body)
	}
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Sessions     *session.Store
	Executor     *execclient.Client
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	ExecServer   *httptest.Server

	// Calls receives every request made to the execution service.
	Calls chan ExecCall
}

// SetupTestFixture creates a fixture whose executor talks to an httptest
// server answering with reply.
func SetupTestFixture(t *testing.T, reply ExecReply) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	calls := make(chan ExecCall, 16)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req execclient.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		call := ExecCall{Path: r.URL.Path, Code: req.Code}
		select {
		case calls <- call:
		default:
		}
		status, body := reply(call)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return &TestFixture{
		Sessions: session.NewStore(session.StoreConfig{
			DefaultLanguage: language.Python,
			Logger:          logger,
		}),
		Executor: execclient.New(execclient.Config{
			BaseURL: srv.URL,
			Timeout: 5 * time.Second,
			Logger:  logger,
		}),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		ExecServer:   srv,
		Calls:        calls,
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithSignals builds a datastar POST carrying the given signals as
// its JSON body.
func RequestWithSignals(target string, signals map[string]any) *http.Request {
	body, _ := json.Marshal(signals)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithCookies copies the cookies set on a recorded response onto r.
func WithCookies(r *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
