package entity

// ParcelaCorrigida is one corrected installment from the gateway.
type ParcelaCorrigida struct {
	ValorCorrigidoHoje   float64 `json:"valor_corrigido_hoje"`
	ValorCorrigidoFuturo float64 `json:"valor_corrigido_futuro"`
	TaxaAdmParcela       float64 `json:"taxa_adm_parcela"`
}

// CalculoResultado is the gateway's calculation response.
type CalculoResultado struct {
	ParcelasCorrigidas []ParcelaCorrigida `json:"parcelas_corrigidas"`

	ValorCorrigidoHojeLiquido   float64 `json:"valor_corrigido_hoje_liquido"`
	ValorCorrigidoFuturoLiquido float64 `json:"valor_corrigido_futuro_liquido"`
	TaxaAdministracaoDeduzida   float64 `json:"taxa_administracao_deduzida"`

	ValorComJurosHoje   float64 `json:"valor_com_juros_hoje"`
	ValorComJurosFuturo float64 `json:"valor_com_juros_futuro"`

	TaxaAdmDevidaValor      float64 `json:"taxa_adm_devida_valor"`
	TaxaAdmDevidaPercentual float64 `json:"taxa_adm_devida_percentual"`
}

// Contato holds the contact details extracted from a contract PDF.
type Contato struct {
	Telefone string `json:"telefone"`
	Email    string `json:"email"`
}
