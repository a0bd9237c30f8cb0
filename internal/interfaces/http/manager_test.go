package http

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/domain/workflow"
	"github.com/leonardomol/pjmol-intake/internal/intake"
	"github.com/leonardomol/pjmol-intake/internal/repository"
)

func newCasoRepo(t *testing.T) *repository.CasoRepository {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE casos (
		id TEXT PRIMARY KEY,
		etapa TEXT NOT NULL,
		nome_cliente TEXT NOT NULL DEFAULT '',
		snapshot TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	return repository.NewCasoRepository(db, zap.NewNop())
}

func TestManagerRehydratesPersistedCase(t *testing.T) {
	logger := zap.NewNop()
	repo := newCasoRepo(t)

	manuais := entity.NewManualData()
	manuais.Advogado = "Dra. Costa"
	manuais.AdvogadoOAB = "MG1"
	manuais.UsuarioAdvogado = "costa"
	require.NoError(t, repo.Save(intake.Snapshot{
		ID:       "caso-1",
		Etapa:    workflow.StageAnalise,
		Perfil:   entity.PerfilAdvogado,
		Basicos:  entity.CaseRecord{NomeCliente: "Maria Souza", ValorTotalPagoExtrato: 1000},
		Manuais:  manuais,
		Parcelas: []entity.Parcela{{DataPagamento: "2024-01-01", ValorPago: 1000}},
	}))

	// a fresh manager stands in for the process after a restart
	m := NewManager(intake.Deps{
		Checker:  stubChecker{},
		Exporter: stubExporter{},
		Logger:   logger,
		Debounce: 10 * time.Millisecond,
	}, repo, logger)

	ctrl, err := m.Get("caso-1")
	require.NoError(t, err)

	snap := ctrl.Snapshot()
	assert.Equal(t, workflow.StageAnalise, snap.Etapa)
	assert.Equal(t, "Maria Souza", snap.Basicos.NomeCliente)
	assert.Equal(t, "Dra. Costa", snap.Manuais.Advogado)
	require.Len(t, snap.Parcelas, 1)

	// the workflow resumes at the stored stage
	require.NoError(t, ctrl.Editar(context.Background()))
	assert.Equal(t, workflow.StageAjuste, ctrl.Etapa())

	// the second lookup hits the in-memory controller, not storage
	again, err := m.Get("caso-1")
	require.NoError(t, err)
	assert.Same(t, ctrl, again)

	_, err = m.Get("nope")
	assert.Error(t, err)
}
