package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
)

func TestSummaryPerdemos(t *testing.T) {
	manuais := entity.NewManualData()
	manuais.FaseProcesso = entity.FasePerdemos
	manuais.PerdaSucumbencia = 500
	manuais.TipoJustica = entity.JusticaComum

	custas := []entity.CustaProcessual{{Data: "2024-02-01", Valor: 200}}

	// the corrected base is irrelevant on a lost case
	s := BuildSummary(entity.CaseRecord{}, manuais, nil, custas, 99999, 99999)
	assert.InDelta(t, -700, s.LiquidoHoje, 0.001)
	assert.Nil(t, s.LiquidoFuturo)
	assert.Zero(t, s.HonorariosHoje)
}

func TestSummarySemJulgamento(t *testing.T) {
	manuais := entity.NewManualData()
	manuais.HonorariosPercentual = 10
	manuais.TaxaAdministracaoDeduzida = 150
	manuais.ValorOutrosCustos = 50

	s := BuildSummary(entity.CaseRecord{}, manuais, nil, nil, 1000, 1200)
	// no cost or gain terms while the case is pending
	assert.InDelta(t, 1000-100-150-50, s.LiquidoHoje, 0.001)
	require.NotNil(t, s.LiquidoFuturo)
	assert.InDelta(t, 1200-120-150-50, *s.LiquidoFuturo, 0.001)
	assert.InDelta(t, 50, s.MetadeHonorariosHoje, 0.001)
}

func TestSummaryAcordoCollapsesFuture(t *testing.T) {
	manuais := entity.NewManualData()
	manuais.HouveAcordo = true
	manuais.ValorAcordo = 8000
	manuais.HonorariosPercentual = 20

	s := BuildSummary(entity.CaseRecord{}, manuais, nil, nil, 5000, 6000)
	assert.InDelta(t, 8000, s.BaseHoje, 0.001)
	assert.Zero(t, s.BaseFuturo)
	assert.InDelta(t, 8000-1600, s.LiquidoHoje, 0.001)
	assert.Nil(t, s.LiquidoFuturo)
}

func TestSummarySentencaAVista(t *testing.T) {
	manuais := entity.NewManualData()
	manuais.HouveSentenca = true
	manuais.TipoSentenca = entity.SentencaAVista
	manuais.ValorSentenca = 4000

	s := BuildSummary(entity.CaseRecord{}, manuais, nil, nil, 5000, 6000)
	assert.InDelta(t, 4000, s.BaseHoje, 0.001)
	assert.Nil(t, s.LiquidoFuturo)
}

func TestSummaryGanhamos(t *testing.T) {
	manuais := entity.NewManualData()
	manuais.FaseProcesso = entity.FaseGanhamos
	manuais.HonorariosPercentual = 10
	manuais.GanhoSucumbencia = 300
	manuais.TipoJustica = entity.JusticaComum

	custas := []entity.CustaProcessual{{Data: "2024-02-01", Valor: 200}}

	s := BuildSummary(entity.CaseRecord{}, manuais, nil, custas, 1000, 1000)
	// costs and the succumbence gain come back on a won case
	assert.InDelta(t, 1000-100+200+300, s.LiquidoHoje, 0.001)
	require.NotNil(t, s.LiquidoFuturo)
	assert.InDelta(t, 1000-100+200+300, *s.LiquidoFuturo, 0.001)
	assert.InDelta(t, 200, s.ReembolsoCustas, 0.001)
}

func TestSummaryCustasSubtractedFromFutureWhenPending(t *testing.T) {
	manuais := entity.NewManualData()
	manuais.TipoJustica = entity.JusticaComum

	custas := []entity.CustaProcessual{{Data: "2024-02-01", Valor: 200}}

	s := BuildSummary(entity.CaseRecord{}, manuais, nil, custas, 1000, 1000)
	assert.InDelta(t, 1000, s.LiquidoHoje, 0.001)
	require.NotNil(t, s.LiquidoFuturo)
	assert.InDelta(t, 800, *s.LiquidoFuturo, 0.001)
}

func TestSummaryCustasIgnoredUnderGratuidade(t *testing.T) {
	manuais := entity.NewManualData()
	manuais.TipoJustica = entity.JusticaComum
	manuais.JusticaGratuita = true

	custas := []entity.CustaProcessual{{Valor: 999}}
	s := BuildSummary(entity.CaseRecord{}, manuais, nil, custas, 1000, 1000)
	assert.Zero(t, s.CustasProcessuais)
}

func TestSummaryDiferenca(t *testing.T) {
	basicos := entity.CaseRecord{ValorTotalPagoExtrato: 1000}
	parcelas := []entity.Parcela{{ValorPago: 400}, {ValorPago: 600}}

	s := BuildSummary(basicos, entity.NewManualData(), parcelas, nil, 0, 0)
	assert.Zero(t, s.Diferenca)
	assert.InDelta(t, 1000, s.SomaParcelas, 0.001)
}
