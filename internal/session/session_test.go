package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": 1, "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLoad_MissingFile_EmptySession(t *testing.T) {
	sess, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.Empty(t, sess.Token())
	assert.Nil(t, sess.User())
	assert.Zero(t, sess.UserID())
	assert.False(t, sess.Authenticated())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetCredentials_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	sess, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, sess.SetCredentials("tok-123", &User{ID: 7, Email: "a@b.c", Username: "ab"}))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", reloaded.Token())
	assert.Equal(t, int64(7), reloaded.UserID())
	assert.Equal(t, "ab", reloaded.User().Username)
}

func TestAuthenticated_ValidJWT(t *testing.T) {
	sess, err := Load(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	require.NoError(t, sess.SetCredentials(signedToken(t, time.Now().Add(time.Hour)), &User{ID: 1}))

	assert.True(t, sess.Authenticated())
}

func TestAuthenticated_ExpiredJWT(t *testing.T) {
	sess, err := Load(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	require.NoError(t, sess.SetCredentials(signedToken(t, time.Now().Add(-time.Hour)), &User{ID: 1}))

	assert.False(t, sess.Authenticated())
}

func TestAuthenticated_OpaqueToken(t *testing.T) {
	sess, err := Load(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	require.NoError(t, sess.SetCredentials("not-a-jwt", &User{ID: 1}))

	// Tokens that don't parse still count; the backend decides.
	assert.True(t, sess.Authenticated())
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	sess, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, sess.SetCredentials("tok", &User{ID: 1}))

	require.NoError(t, sess.Clear())
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Token())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Token())
	assert.Nil(t, reloaded.User())
}
