package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/gateway"
	"github.com/leonardomol/pjmol-intake/internal/session"
)

func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE session_identity (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		perfil TEXT NOT NULL,
		dados TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	return session.NewStore(db, zap.NewNop())
}

func newBackend(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.NewClient(gateway.Config{BaseURL: srv.URL}, zap.NewNop())
}

func TestLoginAdvogadoStoresSession(t *testing.T) {
	gw := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": 3, "nome": "Dra. Costa", "oab": "SP99"})
	})
	svc := NewService(gw, newSessionStore(t), CueConfig{}, zap.NewNop())

	res, err := svc.Login(context.Background(), entity.PerfilAdvogado, "costa", "pw")
	require.NoError(t, err)
	assert.Equal(t, entity.PerfilAdvogado, res.Identity.Perfil)
	assert.Nil(t, res.Cue)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, "Dra. Costa", current.Nome)
}

func TestLoginGenericErrorOnBadCredentials(t *testing.T) {
	gw := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "senha incorreta para o usuário x"})
	})
	svc := NewService(gw, newSessionStore(t), CueConfig{}, zap.NewNop())

	_, err := svc.Login(context.Background(), entity.PerfilUsuario, "x", "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	// no backend detail leaks through
	assert.NotContains(t, err.Error(), "senha incorreta")
}

func TestLoginEmptyCredentialsRejectedLocally(t *testing.T) {
	called := false
	gw := newBackend(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	svc := NewService(gw, newSessionStore(t), CueConfig{}, zap.NewNop())

	_, err := svc.Login(context.Background(), entity.PerfilUsuario, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, called)
}

func TestAdminLoginRequiresAdminProfile(t *testing.T) {
	gw := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 2, "nome": "Comum", "perfil": "usuario"})
	})
	svc := NewService(gw, newSessionStore(t), CueConfig{}, zap.NewNop())

	_, err := svc.Login(context.Background(), entity.PerfilAdmin, "comum", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Current()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLoginUnreachableBackendIsNotGeneric(t *testing.T) {
	gw := gateway.NewClient(gateway.Config{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	svc := NewService(gw, newSessionStore(t), CueConfig{}, zap.NewNop())

	_, err := svc.Login(context.Background(), entity.PerfilUsuario, "x", "pw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrUnreachable))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginReplacesPreviousRole(t *testing.T) {
	gw := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			json.NewEncoder(w).Encode(map[string]any{"id": 3, "nome": "Dra. Costa", "oab": "SP99"})
		case "/usuarios/login/":
			json.NewEncoder(w).Encode(map[string]any{"id": 8, "nome": "Analista"})
		}
	})
	svc := NewService(gw, newSessionStore(t), CueConfig{}, zap.NewNop())

	_, err := svc.Login(context.Background(), entity.PerfilAdvogado, "costa", "pw")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), entity.PerfilUsuario, "analista", "pw")
	require.NoError(t, err)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, entity.PerfilUsuario, current.Perfil)
	assert.Empty(t, current.OAB)
}

func TestLoginCue(t *testing.T) {
	dir := t.TempDir()
	cuePath := filepath.Join(dir, "chime.mp3")
	require.NoError(t, os.WriteFile(cuePath, []byte("ID3"), 0o644))

	gw := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 8, "nome": "Analista"})
	})
	svc := NewService(gw, newSessionStore(t), CueConfig{
		Path: cuePath,
		URL:  "/static/audio/chime.mp3",
	}, zap.NewNop())

	res, err := svc.Login(context.Background(), entity.PerfilUsuario, "analista", "pw")
	require.NoError(t, err)
	require.NotNil(t, res.Cue)
	assert.Equal(t, "/static/audio/chime.mp3", res.Cue.URL)

	// missing file drops the cue but not the login
	svc = NewService(gw, newSessionStore(t), CueConfig{Path: filepath.Join(dir, "gone.mp3")}, zap.NewNop())
	res, err = svc.Login(context.Background(), entity.PerfilUsuario, "analista", "pw")
	require.NoError(t, err)
	assert.Nil(t, res.Cue)
}

func TestLogoutWithoutSession(t *testing.T) {
	gw := newBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewService(gw, newSessionStore(t), CueConfig{}, zap.NewNop())
	assert.NoError(t, svc.Logout())
}
