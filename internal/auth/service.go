// Package auth handles the credential screen: role-aware login against the
// backend, the single server-side session, and the success chime cue.
package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/gateway"
	"github.com/leonardomol/pjmol-intake/internal/session"
)

// ErrInvalidCredentials is returned for every authentication failure. The
// backend's own detail is never surfaced to the caller so that login errors
// do not reveal which part of the credentials was wrong.
var ErrInvalidCredentials = errors.New("usuário ou senha inválidos")

// Cue describes the audio played on successful login. The client starts the
// file immediately and fades it out in steps after the delay.
type Cue struct {
	URL          string        `json:"url"`
	FadeDelay    time.Duration `json:"fade_delay_ms"`
	FadeInterval time.Duration `json:"fade_interval_ms"`
}

// Result is a successful login outcome.
type Result struct {
	Identity entity.Identity `json:"identity"`
	Cue      *Cue            `json:"cue,omitempty"`
}

// CueConfig configures the login chime.
type CueConfig struct {
	Path         string
	URL          string
	FadeDelay    time.Duration
	FadeInterval time.Duration
}

// Service authenticates against the backend and owns the session store.
type Service struct {
	gateway  *gateway.Client
	sessions *session.Store
	cue      CueConfig
	logger   *zap.Logger
}

// NewService creates a new auth service.
func NewService(gw *gateway.Client, sessions *session.Store, cue CueConfig, logger *zap.Logger) *Service {
	return &Service{
		gateway:  gw,
		sessions: sessions,
		cue:      cue,
		logger:   logger,
	}
}

// Login authenticates the credentials under the selected role and replaces
// whatever session existed before. Lawyers authenticate against the lawyer
// endpoint; regular users and admins against the user endpoint, where the
// admin role additionally requires the backend to confirm the admin profile.
func (s *Service) Login(ctx context.Context, perfil entity.Perfil, usuario, senha string) (*Result, error) {
	if usuario == "" || senha == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		ident *entity.Identity
		err   error
	)
	switch perfil {
	case entity.PerfilAdvogado:
		ident, err = s.gateway.LoginAdvogado(ctx, usuario, senha)
	case entity.PerfilUsuario, entity.PerfilAdmin:
		ident, err = s.gateway.LoginUsuario(ctx, usuario, senha)
	default:
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		if errors.Is(err, gateway.ErrUnreachable) {
			s.logger.Error("Login failed, backend unreachable", zap.Error(err))
			return nil, err
		}
		s.logger.Info("Login rejected",
			zap.String("perfil", string(perfil)),
			zap.String("usuario", usuario))
		return nil, ErrInvalidCredentials
	}

	if perfil == entity.PerfilAdmin && ident.Perfil != entity.PerfilAdmin {
		s.logger.Info("Admin login rejected, profile mismatch",
			zap.String("usuario", usuario),
			zap.String("perfil", string(ident.Perfil)))
		return nil, ErrInvalidCredentials
	}

	// A new login always evicts the previous identity before storing the
	// fresh one, so no field of the old role survives.
	if err := s.sessions.Clear(); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(*ident); err != nil {
		return nil, err
	}

	s.logger.Info("Login succeeded",
		zap.Int64("id", ident.ID),
		zap.String("perfil", string(ident.Perfil)))

	return &Result{Identity: *ident, Cue: s.loginCue()}, nil
}

// Logout drops the session. Safe to call without one.
func (s *Service) Logout() error {
	return s.sessions.Clear()
}

// Current returns the active identity, or session.ErrNoSession.
func (s *Service) Current() (*entity.Identity, error) {
	return s.sessions.Get()
}

// loginCue returns the chime metadata, or nil when the audio file is
// missing. A missing cue never blocks a login.
func (s *Service) loginCue() *Cue {
	if s.cue.Path == "" {
		return nil
	}
	if _, err := os.Stat(s.cue.Path); err != nil {
		s.logger.Warn("Login chime unavailable",
			zap.String("path", s.cue.Path),
			zap.Error(err))
		return nil
	}
	return &Cue{
		URL:          s.cue.URL,
		FadeDelay:    s.cue.FadeDelay,
		FadeInterval: s.cue.FadeInterval,
	}
}
