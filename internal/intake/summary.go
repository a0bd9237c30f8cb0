package intake

import (
	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
)

// Summary is the financial panel derived from the current case state. All
// figures are recomputed locally from the last gateway result plus the
// settlement and verdict overrides; no network call is involved.
type Summary struct {
	TotalCorrigidoHoje   float64 `json:"total_corrigido_hoje"`
	TotalCorrigidoFuturo float64 `json:"total_corrigido_futuro"`
	TotalTaxaAdmParcela  float64 `json:"total_taxa_adm_parcela"`

	BaseHoje   float64 `json:"base_hoje"`
	BaseFuturo float64 `json:"base_futuro"`

	HonorariosHoje         float64 `json:"honorarios_hoje"`
	HonorariosFuturo       float64 `json:"honorarios_futuro"`
	MetadeHonorariosHoje   float64 `json:"metade_honorarios_hoje"`
	MetadeHonorariosFuturo float64 `json:"metade_honorarios_futuro"`

	CustasProcessuais float64 `json:"custas_processuais"`
	ReembolsoCustas   float64 `json:"reembolso_custas"`
	GanhoSucumbencia  float64 `json:"ganho_sucumbencia"`
	PerdaSucumbencia  float64 `json:"perda_sucumbencia"`

	SomaParcelas float64 `json:"soma_parcelas"`
	Diferenca    float64 `json:"diferenca"`

	LiquidoHoje float64 `json:"liquido_hoje"`

	// LiquidoFuturo is absent, not zero, when the future projection no
	// longer exists: settlement reached, lump-sum verdict or case lost.
	LiquidoFuturo *float64 `json:"liquido_futuro,omitempty"`
}

// BuildSummary derives the financial panel. jurosHoje and jurosFuturo are
// the compound-interest totals from the last calculation.
func BuildSummary(basicos entity.CaseRecord, manuais entity.ManualData, parcelas []entity.Parcela, custas []entity.CustaProcessual, jurosHoje, jurosFuturo float64) Summary {
	var s Summary

	for _, p := range parcelas {
		s.TotalCorrigidoHoje += p.ValorCorrigidoHoje
		s.TotalCorrigidoFuturo += p.ValorCorrigidoFuturo
		s.TotalTaxaAdmParcela += p.TaxaAdmParcela
	}
	s.SomaParcelas = entity.SomaParcelas(parcelas)
	s.Diferenca = round2(basicos.ValorTotalPagoExtrato - s.SomaParcelas)

	avista := manuais.SentencaAVistaEleita()
	perdeu := manuais.FaseProcesso == entity.FasePerdemos
	ganhou := manuais.FaseProcesso == entity.FaseGanhamos

	// A settlement replaces the corrected base with the agreed amount; a
	// lump-sum verdict replaces it with the verdict amount. Either one
	// collapses the future base to zero.
	switch {
	case manuais.HouveAcordo:
		s.BaseHoje = manuais.ValorAcordo
	case avista:
		s.BaseHoje = manuais.ValorSentenca
	default:
		s.BaseHoje = jurosHoje
	}
	if !manuais.HouveAcordo && !avista {
		s.BaseFuturo = jurosFuturo
	}

	// No fee is due on a lost case.
	if !perdeu {
		s.HonorariosHoje = s.BaseHoje * manuais.HonorariosPercentual / 100
		s.HonorariosFuturo = s.BaseFuturo * manuais.HonorariosPercentual / 100
	}
	s.MetadeHonorariosHoje = s.HonorariosHoje / 2
	s.MetadeHonorariosFuturo = s.HonorariosFuturo / 2

	if manuais.CustasAplicaveis() {
		s.CustasProcessuais = entity.SomaCustas(custas)
	}

	switch {
	case ganhou:
		s.ReembolsoCustas = s.CustasProcessuais
		s.GanhoSucumbencia = manuais.GanhoSucumbencia
	case perdeu:
		s.PerdaSucumbencia = manuais.PerdaSucumbencia
	}

	if perdeu {
		s.LiquidoHoje = -(s.CustasProcessuais + manuais.PerdaSucumbencia)
	} else {
		s.LiquidoHoje = s.BaseHoje -
			s.HonorariosHoje -
			manuais.TaxaAdministracaoDeduzida -
			manuais.ValorOutrosCustos
		if ganhou {
			s.LiquidoHoje += s.CustasProcessuais + manuais.GanhoSucumbencia
		}
	}

	if !manuais.HouveAcordo && !avista && !perdeu {
		futuro := s.BaseFuturo -
			s.HonorariosFuturo -
			manuais.TaxaAdministracaoDeduzida -
			manuais.ValorOutrosCustos
		if ganhou {
			futuro += s.CustasProcessuais + manuais.GanhoSucumbencia
		} else {
			futuro -= s.CustasProcessuais
		}
		s.LiquidoFuturo = &futuro
	}

	return s
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}
