package entity

// Installment kinds. "parcela" is a regular recorded payment, "ajuste" a
// manual adjustment entry.
const (
	ParcelaRegular = "parcela"
	ParcelaAjuste  = "ajuste"
)

// Parcela is one payment line of the extract. Ordering is insertion order
// and duplicates are allowed.
type Parcela struct {
	DataPagamento string  `json:"data_pagamento"`
	ValorPago     float64 `json:"valor_pago"`
	Tipo          string  `json:"tipo,omitempty"`

	// Filled by the gateway calculation.
	ValorCorrigidoHoje   float64 `json:"valor_corrigido_hoje,omitempty"`
	ValorCorrigidoFuturo float64 `json:"valor_corrigido_futuro,omitempty"`
	TaxaAdmParcela       float64 `json:"taxa_adm_parcela,omitempty"`
}

// SomaParcelas totals the paid amounts.
func SomaParcelas(parcelas []Parcela) float64 {
	var soma float64
	for _, p := range parcelas {
		soma += p.ValorPago
	}
	return soma
}

// CustaProcessual is one court-cost entry; only meaningful while
// ManualData.CustasAplicaveis holds.
type CustaProcessual struct {
	Data      string  `json:"data"`
	Valor     float64 `json:"valor"`
	Descricao string  `json:"descricao,omitempty"`
}

// SomaCustas totals the court-cost entries.
func SomaCustas(custas []CustaProcessual) float64 {
	var soma float64
	for _, c := range custas {
		soma += c.Valor
	}
	return soma
}

// DocumentosGerados is the pair of file references returned by document
// generation, owned by the workflow for the lifetime of the review modal.
type DocumentosGerados struct {
	ContratoPDF   string `json:"contrato_pdf"`
	ProcuracaoPDF string `json:"procuracao_pdf"`
}
