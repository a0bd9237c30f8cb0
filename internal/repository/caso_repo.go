// Package repository persists case snapshots so an intake survives a
// service restart.
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/intake"
)

// CasoResumo is one row of the case listing.
type CasoResumo struct {
	ID          string    `json:"id"`
	Etapa       string    `json:"etapa"`
	NomeCliente string    `json:"nome_cliente"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CasoRepository handles case snapshot database operations.
type CasoRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCasoRepository creates a new case repository.
func NewCasoRepository(db *sql.DB, logger *zap.Logger) *CasoRepository {
	return &CasoRepository{
		db:     db,
		logger: logger,
	}
}

// Save upserts the snapshot under its case id.
func (r *CasoRepository) Save(snap intake.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO casos (id, etapa, nome_cliente, snapshot, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			etapa = excluded.etapa,
			nome_cliente = excluded.nome_cliente,
			snapshot = excluded.snapshot,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, snap.ID, string(snap.Etapa), snap.Basicos.NomeCliente, string(raw)); err != nil {
		r.logger.Error("Failed to save case", zap.String("id", snap.ID), zap.Error(err))
		return fmt.Errorf("failed to save case: %w", err)
	}
	return nil
}

// Get retrieves one snapshot, or nil when the case is unknown.
func (r *CasoRepository) Get(id string) (*intake.Snapshot, error) {
	var raw string
	err := r.db.QueryRow(`SELECT snapshot FROM casos WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get case", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	var snap intake.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// List returns the case manifest, most recently updated first.
func (r *CasoRepository) List() ([]CasoResumo, error) {
	rows, err := r.db.Query(`
		SELECT id, etapa, nome_cliente, updated_at
		FROM casos
		ORDER BY updated_at DESC
	`)
	if err != nil {
		r.logger.Error("Failed to list cases", zap.Error(err))
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var casos []CasoResumo
	for rows.Next() {
		var c CasoResumo
		if err := rows.Scan(&c.ID, &c.Etapa, &c.NomeCliente, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		casos = append(casos, c)
	}
	return casos, rows.Err()
}

// Delete removes a case snapshot.
func (r *CasoRepository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM casos WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete case", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete case: %w", err)
	}
	return nil
}
