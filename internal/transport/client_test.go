package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/session"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, baseURL string) (*Client, *session.Store) {
	t.Helper()
	cfg := &config.Config{
		BaseURL:        baseURL,
		Email:          "ops@example.com",
		Password:       "secret",
		SessionPath:    filepath.Join(t.TempDir(), "session.json"),
		RequestTimeout: 5 * time.Second,
		MaxRetries:     2,
		TokenMaxAge:    15 * time.Minute,
	}
	store := session.NewStore(cfg.SessionPath, testLogger())
	client, err := New(cfg, store, testLogger())
	require.NoError(t, err)
	return client, store
}

func quickRetries(t *testing.T) {
	t.Helper()
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = old })
}

func TestDoRetriesTransientStatus(t *testing.T) {
	quickRetries(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	resp, err := client.Do(context.Background(), RequestSpec{Path: "/data"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoGivesUpAfterRetries(t *testing.T) {
	quickRetries(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	_, err := client.Do(context.Background(), RequestSpec{Path: "/data"})
	require.Error(t, err)
	assert.True(t, bridgerr.Is(err, bridgerr.KindUpstreamUnavailable))
}

func TestDoDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	resp, err := client.Do(context.Background(), RequestSpec{Path: "/data"})
	require.NoError(t, err, "a completed 404 is the caller's to classify")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// expiringServer redirects unauthenticated requests to the login page and
// serves the login flow: GET returns a token form, POST sets the session
// cookie.
func expiringServer(loginPosts *int32) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(loginPosts, 1)
			r.ParseForm()
			if r.PostForm.Get("email") == "" || r.PostForm.Get("_token") != "tok-login" {
				w.WriteHeader(http.StatusOK)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "1", Path: "/"})
			w.Header().Set("Location", "/")
			w.WriteHeader(http.StatusFound)
			return
		}
		fmt.Fprint(w, `<form><input type="hidden" name="_token" value="tok-login"></form>`)
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sid"); err != nil {
			w.Header().Set("Location", "/auth/login")
			w.WriteHeader(http.StatusFound)
			return
		}
		fmt.Fprint(w, "payload")
	})
	return mux
}

func TestDoReloginOnceOnExpiredSession(t *testing.T) {
	var loginPosts int32
	srv := httptest.NewServer(expiringServer(&loginPosts))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	resp, err := client.Do(context.Background(), RequestSpec{Path: "/data"})
	require.NoError(t, err)

	assert.Equal(t, "payload", string(resp.Body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&loginPosts))
	assert.False(t, store.State().Empty(), "cookies persist after re-login")

	token, _ := store.Token()
	assert.Equal(t, "tok-login", token)
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// Re-rendered form means bad credentials.
			w.WriteHeader(http.StatusOK)
			return
		}
		fmt.Fprint(w, `<form><input name="_token" value="tok"></form>`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	err := client.Login(context.Background())
	require.Error(t, err)
	assert.True(t, bridgerr.Is(err, bridgerr.KindAuthExpired))
}

func TestValidateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		fmt.Fprint(w, `{"success":"true"}`)
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	assert.True(t, client.ValidateSession(context.Background()))
	assert.False(t, store.State().ValidatedAt.IsZero())
}

func TestFreshToken(t *testing.T) {
	var serial int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&serial, 1)
		fmt.Fprintf(w, `<form><input name="_token" value="tok-%d"></form>`, n)
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)

	first, err := client.FreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first)

	// The cached token is still fresh, so Token serves it without a fetch.
	cached, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cached)

	second, err := client.FreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", second)

	stored, _ := store.Token()
	assert.Equal(t, "tok-2", stored)
}

func TestRequireOK(t *testing.T) {
	assert.NoError(t, RequireOK(&Response{StatusCode: 200}, "thing"))
	assert.NoError(t, RequireOK(&Response{StatusCode: 204}, "thing"))

	err := RequireOK(&Response{StatusCode: 500}, "thing")
	require.Error(t, err)
	assert.True(t, bridgerr.Is(err, bridgerr.KindUpstreamRejected))
}
