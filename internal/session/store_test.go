package session

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(path, testLogger())
	store.SetCookies([]Cookie{
		{Name: "laravel_session", Value: "abc"},
		{Name: "remember_web", Value: "def"},
	})
	store.SetToken("tok-123")
	store.MarkValidated()
	require.NoError(t, store.Persist())

	// The file must not be world readable; it carries the session.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded := NewStore(path, testLogger())
	reloaded.Load()

	state := reloaded.State()
	assert.False(t, state.Empty())
	require.Len(t, state.Cookies, 2)
	assert.Equal(t, "laravel_session", state.Cookies[0].Name)

	token, fetchedAt := reloaded.Token()
	assert.Equal(t, "tok-123", token)
	assert.False(t, fetchedAt.IsZero())
	assert.False(t, state.ValidatedAt.IsZero())
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), testLogger())
	store.Load()
	assert.True(t, store.State().Empty())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path, testLogger())
	store.Load()
	assert.True(t, store.State().Empty(), "corrupt state is discarded, not fatal")
}

func TestClear(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"), testLogger())
	store.SetCookies([]Cookie{{Name: "laravel_session", Value: "abc"}})
	store.SetToken("tok")

	store.Clear()
	assert.True(t, store.State().Empty())

	token, _ := store.Token()
	assert.Empty(t, token)
}

func TestStateReturnsCopy(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"), testLogger())
	store.SetCookies([]Cookie{{Name: "laravel_session", Value: "abc"}})

	state := store.State()
	state.Cookies[0].Value = "mutated"

	assert.Equal(t, "abc", store.State().Cookies[0].Value)
}
