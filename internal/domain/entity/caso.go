// Package entity holds the intake domain records exchanged with the
// calculation gateway. JSON tags follow the gateway's wire contract.
package entity

// CaseRecord is the per-intake case data ("dados básicos"): client
// identity, address, consortium metadata and the financial fields read off
// the extract. Tax ID and postal code are stored in their masked display
// form; financial fields are always numbers.
type CaseRecord struct {
	Grupo                 string `json:"grupo"`
	Cota                  string `json:"cota"`
	NomeCliente           string `json:"nome_cliente"`
	CPFCNPJ               string `json:"cpf_cnpj"`
	TipoDocumento         string `json:"tipo_documento"`
	Nacionalidade         string `json:"nacionalidade"`
	Rua                   string `json:"rua"`
	Numero                string `json:"numero"`
	Complemento           string `json:"complemento"`
	Bairro                string `json:"bairro"`
	Cidade                string `json:"cidade"`
	Estado                string `json:"estado"`
	CEP                   string `json:"cep"`
	ComarcaCliente        string `json:"comarca_cliente"`
	ComarcaAdministradora string `json:"comarca_administradora"`

	Administradora     string `json:"administradora"`
	CNPJAdministradora string `json:"cnpj_administradora"`
	NumeroContrato     string `json:"numero_contrato"`

	TaxaAdmPercentual      float64 `json:"taxa_adm_percentual"`
	TotalParcelasPlano     int     `json:"total_parcelas_plano"`
	DataEncerramento       string  `json:"data_encerramento"`
	DataPrimeiraAssembleia string  `json:"data_primeira_assembleia"`
	ValorTotalPagoExtrato  float64 `json:"valor_total_pago_extrato"`
	ValorCredito           float64 `json:"valor_credito"`

	TaxaAdmCobradaValor      float64 `json:"taxa_adm_cobrada_valor"`
	PercentualTaxaAdmCobrada float64 `json:"percentual_taxa_adm_cobrada"`
	ValorTaxaAdmCobrada      float64 `json:"valor_taxa_adm_cobrada"`
	FundoComum               float64 `json:"fundo_comum"`
	FundoReserva             float64 `json:"fundo_reserva"`
	Seguros                  float64 `json:"seguros"`
	Multas                   float64 `json:"multas"`
	Juros                    float64 `json:"juros"`
	Adesao                   float64 `json:"adesao"`
	OutrosValores            float64 `json:"outros_valores"`

	// ValorARestituir is derived on recalculation: extract total minus the
	// administration fee actually owed.
	ValorARestituir float64 `json:"valor_a_restituir"`
}

// EnderecoCompleto assembles the single-line client address used in
// generated documents.
func (c CaseRecord) EnderecoCompleto() string {
	out := c.Rua + ", " + c.Numero
	if c.Complemento != "" {
		out += " - " + c.Complemento
	}
	return out + " - " + c.Bairro + " - " + c.Cidade + "/" + c.Estado + " - CEP " + c.CEP
}
