package ui

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/codepad/internal/execclient"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/leapstack-labs/codepad/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	return NewServer(Config{
		Executor:        execclient.New(execclient.Config{BaseURL: "http://127.0.0.1:1", Logger: logger}),
		SessionSecret:   "test-secret-key-32-bytes-long!!",
		DefaultLanguage: language.Rust,
		Logger:          logger,
	})
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.serve(ctx, ln) }()

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(base + "/")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "main.rs", "default language comes from config")
	assert.Equal(t, 1, s.Sessions().Len())

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_Handler(t *testing.T) {
	s := newTestServer(t)
	assert.False(t, s.IsDev())
	assert.NotNil(t, s.Notifier())

	h, err := s.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/editor.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "theme-dark")
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8765", displayAddr(&net.TCPAddr{IP: net.IPv6unspecified, Port: 8765}))
	assert.Equal(t, "127.0.0.1:80", displayAddr(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 80}))
}
