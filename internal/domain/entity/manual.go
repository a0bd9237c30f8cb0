package entity

// Fase is the litigation phase of the claim.
type Fase string

const (
	FaseSemJulgamento Fase = "Sem Julgamento"
	FaseAcordo        Fase = "Acordo"
	FaseGanhamos      Fase = "Ganhamos"
	FasePerdemos      Fase = "Perdemos"
)

// Indice is a monetary-correction index accepted by the gateway.
type Indice string

const (
	IndiceTJMG Indice = "TJMG"
	IndiceIPCA Indice = "IPCA"
	IndiceINPC Indice = "INPC"
)

// IsValid reports whether the index is one of the accepted set.
func (i Indice) IsValid() bool {
	switch i {
	case IndiceTJMG, IndiceIPCA, IndiceINPC:
		return true
	}
	return false
}

// TipoSentenca distinguishes a lump-sum verdict from a future-corrected one.
type TipoSentenca string

const (
	SentencaAVista TipoSentenca = "avista"
	SentencaFuturo TipoSentenca = "futuro"
)

// TipoJustica values relevant to court costs.
const (
	JusticaComum    = "Justiça Comum"
	JuizadoEspecial = "Juizado Especial"
)

// ManualData carries the litigation attributes not derivable from the
// uploaded extract, plus the net figures last returned by the gateway.
// Its lifecycle mirrors CaseRecord: created empty, reset on new inquiry.
type ManualData struct {
	Telefone         string `json:"telefone"`
	Email            string `json:"email"`
	Advogado         string `json:"advogado"`
	AdvogadoOAB      string `json:"advogado_oab"`
	UsuarioAdvogado  string `json:"usuario_advogado"`
	Nacionalidade    string `json:"nacionalidade"`
	NumeroProcesso   string `json:"numero_processo"`
	Magistrado       string `json:"magistrado"`
	ComarcaEscolhida string `json:"comarca_escolhida"`

	HonorariosPercentual  float64 `json:"honorarios_percentual"`
	FaseProcesso          Fase    `json:"fase_processo"`
	DataInicioJuros       string  `json:"data_inicio_juros"`
	TaxaJurosPercentual   float64 `json:"taxa_juros_percentual"`
	IndiceCorrigidoHoje   Indice  `json:"indice_corrigido_hoje"`
	IndiceCorrigidoFuturo Indice  `json:"indice_corrigido_futuro"`

	HouveAcordo   bool         `json:"houve_acordo"`
	ValorAcordo   float64      `json:"valor_acordo"`
	HouveSentenca bool         `json:"houve_sentenca"`
	TipoSentenca  TipoSentenca `json:"tipo_sentenca"`
	ValorSentenca float64      `json:"valor_sentenca"`
	DataSentenca  string       `json:"data_sentenca"`

	GanhoSucumbencia float64 `json:"ganho_sucumbencia"`
	PerdaSucumbencia float64 `json:"perda_sucumbencia"`

	TipoJustica     string  `json:"tipo_justica"`
	JusticaGratuita bool    `json:"justica_gratuita"`
	RendaMensal     float64 `json:"renda_mensal"`

	ValorOutrosCustos         float64 `json:"valor_outros_custos"`
	TaxaAdministracaoDeduzida float64 `json:"taxa_administracao_deduzida"`

	// Net figures as last returned by the gateway calculation.
	ValorCorrigido float64 `json:"valor_corrigido"`
	ValorFuturo    float64 `json:"valor_futuro"`
}

// NewManualData returns manual data with the default correction indices.
func NewManualData() ManualData {
	return ManualData{
		IndiceCorrigidoHoje:   IndiceTJMG,
		IndiceCorrigidoFuturo: IndiceTJMG,
	}
}

// SentencaAVistaEleita reports whether a lump-sum verdict applies: the
// future projection collapses and the verdict amount replaces today's base.
func (m ManualData) SentencaAVistaEleita() bool {
	return m.HouveSentenca && m.TipoSentenca == SentencaAVista
}

// CustasAplicaveis reports whether court-cost entries count: only in
// ordinary court and without free legal aid.
func (m ManualData) CustasAplicaveis() bool {
	return m.TipoJustica == JusticaComum && !m.JusticaGratuita
}
