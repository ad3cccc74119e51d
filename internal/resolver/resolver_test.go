package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/cache"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/session"
	"github.com/brandon/mcp-videoteam/internal/transport"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// profileServer serves athlete profile pages. Contacts in mainIDs resolve;
// everything else is a 404. profileHits counts network lookups.
func newResolverHarness(t *testing.T, mainIDs map[string]string, profileHits *int32) *Resolver {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(profileHits, 1)
		contactID := strings.TrimPrefix(r.URL.Path, "/athlete/")
		mainID, ok := mainIDs[contactID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `<a href="/athlete/media/%s/%s">Videos</a>`, contactID, mainID)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		BaseURL:        srv.URL,
		Email:          "ops@example.com",
		Password:       "secret",
		SessionPath:    filepath.Join(t.TempDir(), "session.json"),
		RequestTimeout: 5 * time.Second,
		MaxRetries:     0,
		TokenMaxAge:    15 * time.Minute,
	}
	store := session.NewStore(cfg.SessionPath, testLogger())
	tc, err := transport.New(cfg, store, testLogger())
	require.NoError(t, err)

	c, err := cache.NewCache(filepath.Join(t.TempDir(), "cache.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return New(tc, cache.NewStore(c, testLogger()), testLogger())
}

func TestResolveCachesMapping(t *testing.T) {
	var hits int32
	res := newResolverHarness(t, map[string]string{"777": "888"}, &hits)

	mainID, err := res.Resolve(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, "888", mainID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// Second resolve is a pure cache read.
	mainID, err = res.Resolve(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, "888", mainID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestResolveUnresolvableOncePerRun(t *testing.T) {
	var hits int32
	res := newResolverHarness(t, map[string]string{}, &hits)

	_, err := res.Resolve(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, bridgerr.Is(err, bridgerr.KindNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// The second attempt short-circuits; a definitive miss is not re-fetched
	// within one run.
	_, err = res.Resolve(context.Background(), "999")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestResolveEmptyID(t *testing.T) {
	var hits int32
	res := newResolverHarness(t, map[string]string{}, &hits)

	_, err := res.Resolve(context.Background(), "")
	require.Error(t, err)
	assert.True(t, bridgerr.Is(err, bridgerr.KindNotFound))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestResolveBatch(t *testing.T) {
	var hits int32
	res := newResolverHarness(t, map[string]string{
		"701": "801",
		"702": "802",
	}, &hits)

	result := res.ResolveBatch(context.Background(), []string{"701", "702", "703", "701", ""}, 2)

	assert.Equal(t, map[string]string{"701": "801", "702": "802"}, result.MainIDs)
	assert.Equal(t, 1, result.Failures)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "duplicates and empties are not fetched")
}
