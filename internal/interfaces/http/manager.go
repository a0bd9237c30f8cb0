package http

import (
	"fmt"
	"sync"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/intake"
	"github.com/leonardomol/pjmol-intake/internal/repository"
	"go.uber.org/zap"
)

// Manager owns the live intake controllers and persists their snapshots
// after every mutating operation.
type Manager struct {
	mu          sync.Mutex
	controllers map[string]*intake.Controller

	deps   intake.Deps
	repo   *repository.CasoRepository
	logger *zap.Logger
}

// NewManager creates a controller manager. deps.Identity is replaced per
// case with the identity that opened it.
func NewManager(deps intake.Deps, repo *repository.CasoRepository, logger *zap.Logger) *Manager {
	return &Manager{
		controllers: make(map[string]*intake.Controller),
		deps:        deps,
		repo:        repo,
		logger:      logger,
	}
}

// Create starts a new intake for the identity.
func (m *Manager) Create(ident entity.Identity) *intake.Controller {
	deps := m.deps
	deps.Identity = ident
	ctrl := intake.NewController(deps)

	m.mu.Lock()
	m.controllers[ctrl.ID()] = ctrl
	m.mu.Unlock()

	m.Persist(ctrl)
	return ctrl
}

// Get returns the live controller for a case id. Cases that only exist in
// storage, from before a restart, are rehydrated from their snapshot.
func (m *Manager) Get(id string) (*intake.Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctrl, ok := m.controllers[id]; ok {
		return ctrl, nil
	}

	snap, err := m.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("caso %s não encontrado", id)
	}

	deps := m.deps
	deps.Identity = entity.Identity{
		Perfil:  snap.Perfil,
		Nome:    snap.Manuais.Advogado,
		OAB:     snap.Manuais.AdvogadoOAB,
		Usuario: snap.Manuais.UsuarioAdvogado,
	}
	ctrl := intake.RestoreController(deps, *snap)
	m.controllers[id] = ctrl
	m.logger.Info("Rehydrated case from storage", zap.String("case_id", id))
	return ctrl, nil
}

// Delete drops a case from memory and storage.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	delete(m.controllers, id)
	m.mu.Unlock()
	return m.repo.Delete(id)
}

// List returns the persisted case manifest.
func (m *Manager) List() ([]repository.CasoResumo, error) {
	return m.repo.List()
}

// Persist stores the controller's current snapshot. Persistence failures
// are logged, not surfaced; the in-memory state stays authoritative.
func (m *Manager) Persist(ctrl *intake.Controller) {
	if err := m.repo.Save(ctrl.Snapshot()); err != nil {
		m.logger.Warn("Failed to persist case snapshot",
			zap.String("case_id", ctrl.ID()),
			zap.Error(err))
	}
}
