package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/codepad/internal/testutil"
	"github.com/leapstack-labs/codepad/internal/ui/features"
	"github.com/leapstack-labs/codepad/internal/ui/notifier"
)

func setupRouter(t *testing.T, isDev bool) (chi.Router, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, features.JSONReply("", false))

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, Deps{
		Sessions: fixture.Sessions,
		Executor: fixture.Executor,
		Cookies:  fixture.SessionStore,
		Notifier: fixture.Notifier,
		Logger:   testutil.NewTestLogger(t),
		IsDev:    isDev,
	}))
	return r, fixture
}

func TestSetupRoutes_Healthz(t *testing.T) {
	r, _ := setupRouter(t, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSetupRoutes_StaticIcons(t *testing.T) {
	r, _ := setupRouter(t, false)

	for _, icon := range []string{"python", "javascript", "go", "php", "rust", "cpp", "swift"} {
		t.Run(icon, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/icons/"+icon+".svg", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "<svg")
		})
	}
}

func TestSetupRoutes_ReloadOnlyInDev(t *testing.T) {
	r, _ := setupRouter(t, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reload", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReload_FiresOnAssetChange(t *testing.T) {
	r, fixture := setupRouter(t, true)

	// The first connection reloads immediately; drain it.
	firstReq := httptest.NewRequest(http.MethodGet, "/reload", nil)
	firstCtx, firstCancel := context.WithTimeout(firstReq.Context(), 50*time.Millisecond)
	defer firstCancel()
	first := httptest.NewRecorder()
	r.ServeHTTP(first, firstReq.WithContext(firstCtx))
	require.Contains(t, first.Body.String(), "window.location.reload()")

	req := httptest.NewRequest(http.MethodGet, "/reload", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 500*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fixture.Notifier.Len(notifier.ReloadTopic) == 1
	}, time.Second, 10*time.Millisecond)
	fixture.Notifier.Publish(notifier.ReloadTopic)
	<-done

	assert.Equal(t, 1, strings.Count(rec.Body.String(), "window.location.reload()"))
}

func TestHotReload_Broadcasts(t *testing.T) {
	r, fixture := setupRouter(t, true)
	ch := fixture.Notifier.Subscribe("some-session")
	defer fixture.Notifier.Unsubscribe(ch)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotreload", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	select {
	case <-ch:
	default:
		t.Fatal("session stream was not pinged")
	}
}
