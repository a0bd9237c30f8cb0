package intake

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/domain/workflow"
	"github.com/leonardomol/pjmol-intake/internal/gateway"
)

type fakeChecker struct{}

func (fakeChecker) Verify(string, []byte) (int, error) { return 1, nil }

type fakeExporter struct {
	links ExportLinks
	err   error
}

func (f *fakeExporter) Export(string, entity.CaseRecord, entity.ManualData, []entity.Parcela, Summary) (ExportLinks, error) {
	return f.links, f.err
}

func newTestController(t *testing.T, handler http.Handler) *Controller {
	t.Helper()
	return newTestControllerAs(t, handler,
		entity.Identity{ID: 1, Perfil: entity.PerfilAdvogado, Nome: "Dra. Costa", OAB: "MG1", Usuario: "costa"})
}

func newTestControllerAs(t *testing.T, handler http.Handler, ident entity.Identity) *Controller {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	return NewController(Deps{
		Gateway:  gateway.NewClient(gateway.Config{BaseURL: srv.URL}, logger),
		ViaCEP:   gateway.NewViaCEPClient(gateway.ViaCEPConfig{BaseURL: srv.URL}, logger),
		Checker:  fakeChecker{},
		Exporter: &fakeExporter{links: ExportLinks{Excel: "resumo.xlsx", JSON: "resumo.json"}},
		Logger:   logger,
		Debounce: 10 * time.Millisecond,
		Identity: ident,
	})
}

func extractionBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/extrair", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"dados_basicos": map[string]any{
				"nome_cliente":             "Maria Souza",
				"cpf_cnpj":                 "12345678901",
				"cep":                      "30130010",
				"valor_total_pago_extrato": 1000.0,
				"fundo_comum":              "850,25",
				"seguros":                  12.5,
				"multas":                   nil,
			},
			"parcelas": []map[string]any{
				{"data_pagamento": "2024-01-01", "valor_pago": 1000.0},
			},
		})
	})
	mux.HandleFunc("/calcular", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.CalculoResultado{
			ParcelasCorrigidas:          []entity.ParcelaCorrigida{{ValorCorrigidoHoje: 1100, ValorCorrigidoFuturo: 1300}},
			ValorCorrigidoHojeLiquido:   1100,
			ValorCorrigidoFuturoLiquido: 1300,
			ValorComJurosHoje:           1150,
			ValorComJurosFuturo:         1350,
			TaxaAdmDevidaValor:          120,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	})
	return mux
}

func TestIngestMovesToAnalise(t *testing.T) {
	c := newTestController(t, extractionBackend(t))

	require.NoError(t, c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF")))

	snap := c.Snapshot()
	assert.Equal(t, workflow.StageAnalise, snap.Etapa)
	assert.Equal(t, "Maria Souza", snap.Basicos.NomeCliente)
	// re-masked on ingest
	assert.Equal(t, "123.456.789-01", snap.Basicos.CPFCNPJ)
	assert.Equal(t, "30130-010", snap.Basicos.CEP)
	// numeric coercion: string with comma, plain number and null
	assert.InDelta(t, 850.25, snap.Basicos.FundoComum, 0.001)
	assert.InDelta(t, 12.5, snap.Basicos.Seguros, 0.001)
	assert.Zero(t, snap.Basicos.Multas)

	require.Len(t, snap.Parcelas, 1)
	assert.Equal(t, entity.ParcelaRegular, snap.Parcelas[0].Tipo)
	assert.Zero(t, snap.Resumo.Diferenca)
	assert.NotContains(t, ValidarCampos(snap.Basicos, snap.Manuais, snap.Parcelas),
		"Soma das parcelas não confere com o valor do extrato")
}

func TestIngestFailureKeepsUploadStage(t *testing.T) {
	c := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"extrato ilegível"}`, http.StatusUnprocessableEntity)
	}))

	err := c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF"))
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, workflow.StageUpload, snap.Etapa)
	assert.Contains(t, snap.Mensagem, "extrato ilegível")
}

func TestReingestRestartsCase(t *testing.T) {
	c := newTestController(t, extractionBackend(t))
	require.NoError(t, c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF")))

	manuais := c.Snapshot().Manuais
	manuais.ComarcaEscolhida = "Belo Horizonte"
	c.UpdateManuais(context.Background(), manuais)
	require.NoError(t, c.AddParcela("2024-02-01", "200", ""))

	// uploading another extract mid-review restarts the case
	require.NoError(t, c.Ingest(context.Background(), "extrato2.pdf", []byte("%PDF")))

	snap := c.Snapshot()
	assert.Equal(t, workflow.StageAnalise, snap.Etapa)
	assert.Len(t, snap.Parcelas, 1)
	assert.Empty(t, snap.Manuais.ComarcaEscolhida)
	assert.Equal(t, "Maria Souza", snap.Basicos.NomeCliente)
}

func TestDebouncedRecalculation(t *testing.T) {
	c := newTestController(t, extractionBackend(t))
	require.NoError(t, c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF")))

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return len(snap.Parcelas) == 1 && snap.Parcelas[0].ValorCorrigidoHoje == 1100
	}, 2*time.Second, 20*time.Millisecond)

	snap := c.Snapshot()
	assert.InDelta(t, 1300, snap.Parcelas[0].ValorCorrigidoFuturo, 0.001)
	// derived refund: extract total minus the owed administration fee
	assert.InDelta(t, 1000-120, snap.Basicos.ValorARestituir, 0.001)
	assert.InDelta(t, 1150, snap.Resumo.BaseHoje, 0.001)
}

func TestRecalculationCollapsesFutureOnSentenca(t *testing.T) {
	c := newTestController(t, extractionBackend(t))
	require.NoError(t, c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF")))

	snap := c.Snapshot()
	manuais := snap.Manuais
	manuais.HouveSentenca = true
	manuais.TipoSentenca = entity.SentencaFuturo
	c.UpdateManuais(context.Background(), manuais)

	require.NoError(t, c.Recalcular(context.Background()))

	snap = c.Snapshot()
	assert.InDelta(t, 1100, snap.Parcelas[0].ValorCorrigidoFuturo, 0.001)
	assert.InDelta(t, snap.Manuais.ValorCorrigido, snap.Manuais.ValorFuturo, 0.001)
}

func TestRecalculationZeroesMissingParcelas(t *testing.T) {
	var shrink atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/extrair", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"dados_basicos": map[string]any{
				"nome_cliente":             "Maria Souza",
				"valor_total_pago_extrato": 1500.0,
			},
			"parcelas": []map[string]any{
				{"data_pagamento": "2024-01-01", "valor_pago": 1000.0},
				{"data_pagamento": "2024-02-01", "valor_pago": 500.0},
			},
		})
	})
	mux.HandleFunc("/calcular", func(w http.ResponseWriter, r *http.Request) {
		corrigidas := []entity.ParcelaCorrigida{
			{ValorCorrigidoHoje: 1100, ValorCorrigidoFuturo: 1300, TaxaAdmParcela: 80},
			{ValorCorrigidoHoje: 550, ValorCorrigidoFuturo: 600, TaxaAdmParcela: 40},
		}
		if shrink.Load() {
			corrigidas = corrigidas[:1]
		}
		json.NewEncoder(w).Encode(entity.CalculoResultado{ParcelasCorrigidas: corrigidas})
	})
	c := newTestController(t, mux)
	require.NoError(t, c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF")))

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return len(snap.Parcelas) == 2 && snap.Parcelas[1].ValorCorrigidoHoje == 550
	}, 2*time.Second, 20*time.Millisecond)

	// backend stops returning the second installment; its corrected
	// values go to zero instead of keeping the previous response
	shrink.Store(true)
	require.NoError(t, c.Recalcular(context.Background()))

	snap := c.Snapshot()
	assert.InDelta(t, 1100, snap.Parcelas[0].ValorCorrigidoHoje, 0.001)
	assert.Zero(t, snap.Parcelas[1].ValorCorrigidoHoje)
	assert.Zero(t, snap.Parcelas[1].ValorCorrigidoFuturo)
	assert.Zero(t, snap.Parcelas[1].TaxaAdmParcela)
}

func TestAddressChainFailureLeavesFieldsBlank(t *testing.T) {
	mux := http.NewServeMux()
	calls := atomic.Int32{}
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c := newTestController(t, mux)

	basicos := c.Snapshot().Basicos
	basicos.CEP = "30130010"
	c.UpdateBasicos(context.Background(), basicos)

	require.Eventually(t, func() bool { return calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	snap := c.Snapshot()
	assert.Empty(t, snap.Basicos.Rua)
	assert.Empty(t, snap.Basicos.Cidade)
	assert.Empty(t, snap.Basicos.ComarcaCliente)
	// workflow is not blocked
	assert.Equal(t, workflow.StageUpload, snap.Etapa)
}

func TestAddressChainSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/30130010/json/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"logradouro": "Avenida Afonso Pena", "bairro": "Centro",
			"localidade": "Belo Horizonte", "uf": "MG",
		})
	})
	mux.HandleFunc("/comarca-por-cep/30130010", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"comarca": "COMARCA DE Belo Horizonte"})
	})
	c := newTestController(t, mux)

	basicos := c.Snapshot().Basicos
	basicos.CEP = "30130-010"
	c.UpdateBasicos(context.Background(), basicos)

	require.Eventually(t, func() bool {
		return c.Snapshot().Basicos.ComarcaCliente != ""
	}, 2*time.Second, 10*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, "Avenida Afonso Pena", snap.Basicos.Rua)
	assert.Equal(t, "MG", snap.Basicos.Estado)
	assert.Equal(t, "Belo Horizonte", snap.Basicos.ComarcaCliente)
}

func TestAdministradoraEnrichment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cnpj-por-administradora", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"cnpj": "11222333000144"})
	})
	mux.HandleFunc("/administradora-por-cnpj/11222333000144", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"administradora": "Consórcio Alfa LTDA", "comarca": "São Paulo"})
	})
	c := newTestController(t, mux)

	basicos := c.Snapshot().Basicos
	basicos.Administradora = "Consórcio Alfa"
	c.UpdateBasicos(context.Background(), basicos)

	require.Eventually(t, func() bool {
		return c.Snapshot().Basicos.ComarcaAdministradora != ""
	}, 2*time.Second, 10*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, "11.222.333/0001-44", snap.Basicos.CNPJAdministradora)
	assert.Equal(t, "Consórcio Alfa LTDA", snap.Basicos.Administradora)
	assert.Equal(t, "São Paulo", snap.Basicos.ComarcaAdministradora)
}

func TestParcelaOperations(t *testing.T) {
	c := newTestController(t, extractionBackend(t))

	assert.ErrorIs(t, c.AddParcela("", "100", ""), ErrParcelaInvalida)
	require.NoError(t, c.AddParcela("2024-01-01", "350,75", ""))
	require.NoError(t, c.AddParcela("2024-02-01", "100", entity.ParcelaAjuste))

	snap := c.Snapshot()
	require.Len(t, snap.Parcelas, 2)
	assert.InDelta(t, 350.75, snap.Parcelas[0].ValorPago, 0.001)
	assert.Equal(t, entity.ParcelaAjuste, snap.Parcelas[1].Tipo)

	require.NoError(t, c.UpdateParcela(0, "", "400,00"))
	assert.InDelta(t, 400, c.Snapshot().Parcelas[0].ValorPago, 0.001)

	require.NoError(t, c.DeleteParcela(0))
	assert.Error(t, c.DeleteParcela(5))
	assert.Len(t, c.Snapshot().Parcelas, 1)
}

func TestCustasClearedWhenNotApplicable(t *testing.T) {
	c := newTestController(t, extractionBackend(t))

	manuais := c.Snapshot().Manuais
	manuais.TipoJustica = entity.JusticaComum
	c.UpdateManuais(context.Background(), manuais)
	require.NoError(t, c.AddCusta(entity.CustaProcessual{Data: "2024-03-01", Valor: 150}))

	manuais.JusticaGratuita = true
	c.UpdateManuais(context.Background(), manuais)
	assert.Empty(t, c.Snapshot().Custas)

	assert.ErrorIs(t, c.AddCusta(entity.CustaProcessual{Valor: 10}), ErrCustasNaoAplicaveis)
}

func TestGerarDocumentosRequiresComarca(t *testing.T) {
	c := newTestController(t, extractionBackend(t))
	_, _, err := c.GerarDocumentos(context.Background())
	assert.ErrorIs(t, err, ErrComarcaObrigatoria)
}

func TestGerarDocumentosValidationBlocks(t *testing.T) {
	c := newTestController(t, extractionBackend(t))

	manuais := c.Snapshot().Manuais
	manuais.ComarcaEscolhida = "Belo Horizonte"
	c.UpdateManuais(context.Background(), manuais)

	docs, faltando, err := c.GerarDocumentos(context.Background())
	require.NoError(t, err)
	assert.Nil(t, docs)
	assert.NotEmpty(t, faltando)
	assert.False(t, c.Snapshot().ModalAberto)
}

func TestGerarDocumentosAdminRequiresAdvogado(t *testing.T) {
	c := newTestControllerAs(t, extractionBackend(t),
		entity.Identity{ID: 2, Perfil: entity.PerfilAdmin, Nome: "Ana Braga", Usuario: "ana"})

	manuais := c.Snapshot().Manuais
	manuais.ComarcaEscolhida = "Belo Horizonte"
	c.UpdateManuais(context.Background(), manuais)

	// preempts the field-error list even though the case is incomplete
	docs, faltando, err := c.GerarDocumentos(context.Background())
	assert.ErrorIs(t, err, ErrAdvogadoObrigatorio)
	assert.Nil(t, docs)
	assert.Empty(t, faltando)

	manuais = c.Snapshot().Manuais
	manuais.Advogado = "Dra. Costa"
	c.UpdateManuais(context.Background(), manuais)

	_, faltando, err = c.GerarDocumentos(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, faltando)
}

func TestGerarDocumentosOpensModal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gerar-documentos", func(w http.ResponseWriter, r *http.Request) {
		var req gateway.DocumentosRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Dra. Costa", req.AdvogadoNome)
		assert.Equal(t, "20%", req.PercentualHonorarios)
		assert.Equal(t, "Brasileiro", req.Nacionalidade)
		json.NewEncoder(w).Encode(entity.DocumentosGerados{
			ContratoPDF: "contrato.pdf", ProcuracaoPDF: "procuracao.pdf",
		})
	})
	c := newTestController(t, mux)

	basicos, manuais, parcelas := validCase()
	// first update registers the CEP and clears the address for the lookup;
	// the second re-applies the address without a CEP change
	c.UpdateBasicos(context.Background(), basicos)
	c.UpdateBasicos(context.Background(), basicos)
	c.UpdateManuais(context.Background(), manuais)
	for _, p := range parcelas {
		require.NoError(t, c.AddParcela(p.DataPagamento, "1000", p.Tipo))
	}

	docs, faltando, err := c.GerarDocumentos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, faltando)
	require.NotNil(t, docs)
	assert.Equal(t, "contrato.pdf", docs.ContratoPDF)
	assert.True(t, c.Snapshot().ModalAberto)

	require.NoError(t, c.FecharModal(context.Background()))
	snap := c.Snapshot()
	assert.False(t, snap.ModalAberto)
	assert.Nil(t, snap.Documentos)
}

func TestPerdemosHidesFutureEvenWithAcordoData(t *testing.T) {
	c := newTestController(t, extractionBackend(t))
	require.NoError(t, c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF")))

	manuais := c.Snapshot().Manuais
	manuais.HouveAcordo = true
	manuais.ValorAcordo = 5000
	c.UpdateManuais(context.Background(), manuais)

	manuais.FaseProcesso = entity.FasePerdemos
	c.UpdateManuais(context.Background(), manuais)

	assert.Nil(t, c.Snapshot().Resumo.LiquidoFuturo)
}

func TestWorkflowStages(t *testing.T) {
	c := newTestController(t, extractionBackend(t))
	require.NoError(t, c.Ingest(context.Background(), "extrato.pdf", []byte("%PDF")))

	require.NoError(t, c.Editar(context.Background()))
	assert.Equal(t, workflow.StageAjuste, c.Etapa())

	require.NoError(t, c.Salvar(context.Background()))
	assert.Equal(t, workflow.StageAnalise, c.Etapa())

	links, err := c.Exportar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "resumo.xlsx", links.Excel)
	assert.Equal(t, workflow.StageExportacao, c.Etapa())

	require.NoError(t, c.NovaConsulta(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, workflow.StageUpload, snap.Etapa)
	assert.Empty(t, snap.Parcelas)
	assert.Empty(t, snap.Basicos.NomeCliente)
	assert.Empty(t, snap.Links.Excel)
	// lawyer identity survives the reset
	assert.Equal(t, "Dra. Costa", snap.Manuais.Advogado)
}
