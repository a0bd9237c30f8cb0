// Package session keeps the logged-in identity in a single typed store
// instead of scattering raw key access through the HTTP layer. The identity
// survives restarts and is cleared wholesale on logout or re-login.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
)

// ErrNoSession is returned by Get when nobody is logged in.
var ErrNoSession = errors.New("no active session")

// Store persists the session identity.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore creates a new session store.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Set replaces the stored identity. Any previous session data is removed
// first so stale fields from another role cannot leak through.
func (s *Store) Set(ident entity.Identity) error {
	payload, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM session_identity`); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO session_identity (id, perfil, dados) VALUES (1, ?, ?)`,
		string(ident.Perfil), string(payload),
	); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	s.logger.Info("Session identity stored",
		zap.String("perfil", string(ident.Perfil)),
		zap.String("nome", ident.Nome))
	return nil
}

// Get returns the stored identity, or ErrNoSession.
func (s *Store) Get() (*entity.Identity, error) {
	var payload string
	err := s.db.QueryRow(`SELECT dados FROM session_identity WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var ident entity.Identity
	if err := json.Unmarshal([]byte(payload), &ident); err != nil {
		return nil, fmt.Errorf("failed to decode identity: %w", err)
	}
	return &ident, nil
}

// Clear removes any stored identity.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session_identity`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
