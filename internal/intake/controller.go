// Package intake owns the case workflow: uploaded extract, case fields,
// manual litigation fields, the installment list and the stage variable
// that gates each operation. All mutation goes through the Controller.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/domain/workflow"
	"github.com/leonardomol/pjmol-intake/internal/format"
	"github.com/leonardomol/pjmol-intake/internal/gateway"
	"github.com/leonardomol/pjmol-intake/internal/risk"
	"github.com/leonardomol/pjmol-intake/pkg/utils"
)

// PDFChecker validates an upload before it is sent for extraction.
type PDFChecker interface {
	Verify(filename string, data []byte) (int, error)
}

// campos numéricos da extração que chegam como string em alguns extratos.
var camposNumericos = []string{
	"fundo_comum",
	"fundo_reserva",
	"seguros",
	"multas",
	"juros",
	"adesao",
	"outros_valores",
	"taxa_adm_cobrada_valor",
	"percentual_taxa_adm_cobrada",
	"valor_taxa_adm_cobrada",
}

// ErrParcelaInvalida is returned for installment edits missing date or amount.
var ErrParcelaInvalida = errors.New("parcela requer data e valor")

// ErrCustasNaoAplicaveis blocks court-cost edits outside ordinary court or
// under free legal aid.
var ErrCustasNaoAplicaveis = errors.New("custas só se aplicam à Justiça Comum sem gratuidade")

// ErrComarcaObrigatoria blocks document generation without a chosen venue.
var ErrComarcaObrigatoria = errors.New("selecione a comarca")

// ErrAdvogadoObrigatorio blocks document generation for admin sessions that
// have not picked a lawyer. It preempts the field-error list.
var ErrAdvogadoObrigatorio = errors.New("selecione um advogado antes de gerar os documentos")

// ExportLinks references the export artifacts produced for a case.
type ExportLinks struct {
	Excel string `json:"excel,omitempty"`
	JSON  string `json:"json,omitempty"`
}

// Exporter writes the export artifacts for a finished case.
type Exporter interface {
	Export(id string, basicos entity.CaseRecord, manuais entity.ManualData, parcelas []entity.Parcela, resumo Summary) (ExportLinks, error)
}

// Deps wires the controller's collaborators.
type Deps struct {
	Gateway  *gateway.Client
	ViaCEP   *gateway.ViaCEPClient
	Checker  PDFChecker
	Exporter Exporter
	Logger   *zap.Logger
	Debounce time.Duration
	Identity entity.Identity
}

// Controller holds one case intake from upload to export. Operations are
// serialized by the mutex; enrichment lookups and the debounced
// recalculation run on their own goroutines and commit through versioned
// revisions so a stale response never overwrites a newer edit.
type Controller struct {
	mu sync.Mutex

	id       string
	machine  workflow.Machine
	identity entity.Identity

	basicos  entity.CaseRecord
	manuais  entity.ManualData
	parcelas []entity.Parcela
	custas   []entity.CustaProcessual

	documentos  *entity.DocumentosGerados
	modalAberto bool
	links       ExportLinks
	mensagem    string

	jurosHoje               float64
	jurosFuturo             float64
	taxaAdmDevidaValor      float64
	taxaAdmDevidaPercentual float64

	recalcRev   uint64
	recalcTimer *time.Timer
	cepRev      uint64
	admNomeRev  uint64
	admCNPJRev  uint64

	gateway  *gateway.Client
	viacep   *gateway.ViaCEPClient
	checker  PDFChecker
	exporter Exporter
	debounce time.Duration
	logger   *zap.Logger
}

// NewController starts an empty intake for the given identity. Lawyer
// sessions pre-fill the lawyer fields of the manual data.
func NewController(deps Deps) *Controller {
	c := &Controller{
		id:       uuid.NewString(),
		identity: deps.Identity,
		manuais:  entity.NewManualData(),
		gateway:  deps.Gateway,
		viacep:   deps.ViaCEP,
		checker:  deps.Checker,
		exporter: deps.Exporter,
		debounce: deps.Debounce,
		logger:   deps.Logger,
	}
	if c.debounce == 0 {
		c.debounce = 600 * time.Millisecond
	}
	c.machine = workflow.NewIntakeMachine(func(_ context.Context) bool {
		return c.links.Excel != "" || c.links.JSON != ""
	})
	if deps.Identity.Perfil == entity.PerfilAdvogado {
		c.manuais.Advogado = deps.Identity.Nome
		c.manuais.AdvogadoOAB = deps.Identity.OAB
		c.manuais.UsuarioAdvogado = deps.Identity.Usuario
	}
	return c
}

// RestoreController rebuilds a controller from a persisted snapshot, with
// the workflow resumed at the stored stage. Enrichment lookups and the
// calculation pick up again on the next edit.
func RestoreController(deps Deps, snap Snapshot) *Controller {
	c := NewController(deps)
	c.id = snap.ID
	c.machine = workflow.NewIntakeMachineAt(snap.Etapa, func(_ context.Context) bool {
		return c.links.Excel != "" || c.links.JSON != ""
	})
	c.basicos = snap.Basicos
	c.manuais = snap.Manuais
	c.parcelas = snap.Parcelas
	c.custas = snap.Custas
	c.documentos = snap.Documentos
	c.modalAberto = snap.ModalAberto
	c.links = snap.Links
	c.mensagem = snap.Mensagem
	c.jurosHoje = snap.Resumo.BaseHoje
	c.jurosFuturo = snap.Resumo.BaseFuturo
	return c
}

// ID returns the case identifier.
func (c *Controller) ID() string { return c.id }

// Ingest validates and uploads the extract PDF. All downstream state is
// reset first; on extraction failure only the message changes and the
// stage stays at upload.
func (c *Controller) Ingest(ctx context.Context, filename string, data []byte) error {
	if _, err := c.checker.Verify(filename, data); err != nil {
		c.mu.Lock()
		c.mensagem = "Arquivo inválido: envie um PDF legível"
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if err := c.resetLocked(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mensagem = "Processando PDF..."
	c.mu.Unlock()

	resultado, err := c.gateway.Extrair(ctx, filename, bytes.NewReader(data))
	if err != nil {
		c.mu.Lock()
		c.mensagem = mensagemDeErro(err)
		c.mu.Unlock()
		return err
	}

	basicos := coerceBasicos(resultado.DadosBasicos, c.logger)
	basicos.CPFCNPJ = format.ApplyMask(format.FieldCPFCNPJ, basicos.CPFCNPJ)
	basicos.CEP = format.ApplyMask(format.FieldCEP, basicos.CEP)

	parcelas := make([]entity.Parcela, len(resultado.Parcelas))
	for i, p := range resultado.Parcelas {
		p.Tipo = entity.ParcelaRegular
		parcelas[i] = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.basicos = basicos
	c.parcelas = parcelas
	c.mensagem = "PDF processado"
	if err := c.machine.Fire(ctx, workflow.TriggerExtractSucceeded); err != nil {
		return err
	}
	c.marcarRecalculoLocked()
	return nil
}

// Recalcular forces an immediate calculation, outside the debounce window.
func (c *Controller) Recalcular(ctx context.Context) error {
	c.mu.Lock()
	c.recalcRev++
	rev := c.recalcRev
	c.mu.Unlock()
	return c.recalcular(ctx, rev)
}

// UpdateBasicos replaces the case fields, re-masks the document and postal
// code, and fires the enrichment lookups the change calls for.
func (c *Controller) UpdateBasicos(ctx context.Context, novo entity.CaseRecord) {
	novo.CPFCNPJ = format.ApplyMask(format.FieldCPFCNPJ, novo.CPFCNPJ)
	novo.CEP = format.ApplyMask(format.FieldCEP, novo.CEP)
	novo.CNPJAdministradora = format.ApplyMask(format.FieldCNPJ, novo.CNPJAdministradora)

	c.mu.Lock()
	anterior := c.basicos
	c.basicos = novo

	cep := format.Digits(novo.CEP)
	if len(cep) == 8 && cep != format.Digits(anterior.CEP) {
		// The address fields go blank before the lookup so a failed
		// lookup never leaves stale data behind.
		c.basicos.Rua = ""
		c.basicos.Bairro = ""
		c.basicos.Cidade = ""
		c.basicos.Estado = ""
		c.basicos.ComarcaCliente = ""
		c.cepRev++
		go c.buscarEndereco(cep, c.cepRev)
	}

	nome := strings.TrimSpace(novo.Administradora)
	if nome != "" && novo.CNPJAdministradora == "" && nome != strings.TrimSpace(anterior.Administradora) {
		c.admNomeRev++
		go c.buscarCNPJ(nome, c.admNomeRev)
	}

	cnpj := format.Digits(novo.CNPJAdministradora)
	if len(cnpj) == 14 && cnpj != format.Digits(anterior.CNPJAdministradora) {
		c.admCNPJRev++
		go c.buscarAdministradora(cnpj, c.admCNPJRev)
	}

	c.marcarRecalculoLocked()
	c.mu.Unlock()
}

// UpdateManuais replaces the manual litigation fields. Court costs are
// cleared the moment they stop applying.
func (c *Controller) UpdateManuais(ctx context.Context, novo entity.ManualData) {
	novo.Telefone = format.ApplyMask(format.FieldTelefone, novo.Telefone)
	novo.NumeroProcesso = format.FormatNumeroProcesso(novo.NumeroProcesso)

	c.mu.Lock()
	c.manuais = novo
	if !c.manuais.CustasAplicaveis() && len(c.custas) > 0 {
		c.custas = nil
	}
	c.marcarRecalculoLocked()
	c.mu.Unlock()
}

// AddParcela appends an installment. Amounts accept the comma decimal
// separator.
func (c *Controller) AddParcela(data, valor, tipo string) error {
	if data == "" || valor == "" {
		return ErrParcelaInvalida
	}
	if tipo == "" {
		tipo = entity.ParcelaRegular
	}

	c.mu.Lock()
	c.parcelas = append(c.parcelas, entity.Parcela{
		DataPagamento: data,
		ValorPago:     format.ParseAmount(valor),
		Tipo:          tipo,
	})
	c.marcarRecalculoLocked()
	c.mu.Unlock()
	return nil
}

// UpdateParcela edits an installment in place.
func (c *Controller) UpdateParcela(idx int, data, valor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.parcelas) {
		return fmt.Errorf("parcela %d não existe", idx)
	}
	if data != "" {
		c.parcelas[idx].DataPagamento = data
	}
	if valor != "" {
		c.parcelas[idx].ValorPago = format.ParseAmount(valor)
	}
	c.marcarRecalculoLocked()
	return nil
}

// DeleteParcela removes the installment at idx.
func (c *Controller) DeleteParcela(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.parcelas) {
		return fmt.Errorf("parcela %d não existe", idx)
	}
	c.parcelas = append(c.parcelas[:idx], c.parcelas[idx+1:]...)
	c.marcarRecalculoLocked()
	return nil
}

// AddCusta appends a court-cost entry while costs apply.
func (c *Controller) AddCusta(custa entity.CustaProcessual) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.manuais.CustasAplicaveis() {
		return ErrCustasNaoAplicaveis
	}
	c.custas = append(c.custas, custa)
	c.marcarRecalculoLocked()
	return nil
}

// DeleteCusta removes the court-cost entry at idx.
func (c *Controller) DeleteCusta(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.custas) {
		return fmt.Errorf("custa %d não existe", idx)
	}
	c.custas = append(c.custas[:idx], c.custas[idx+1:]...)
	c.marcarRecalculoLocked()
	return nil
}

// ExtrairContato uploads a contract PDF and fills the client's phone and
// email from it.
func (c *Controller) ExtrairContato(ctx context.Context, filename string, data []byte) error {
	if _, err := c.checker.Verify(filename, data); err != nil {
		return err
	}
	contato, err := c.gateway.ExtrairContatoContrato(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return err
	}

	c.mu.Lock()
	if contato.Telefone != "" {
		c.manuais.Telefone = format.ApplyMask(format.FieldTelefone, contato.Telefone)
	}
	if contato.Email != "" {
		c.manuais.Email = contato.Email
	}
	c.marcarRecalculoLocked()
	c.mu.Unlock()
	return nil
}

// GerarDocumentos validates the case and requests the contract and
// power-of-attorney PDFs. The review modal opens with whatever file
// references came back, even on a backend error, which is still returned.
func (c *Controller) GerarDocumentos(ctx context.Context) (*entity.DocumentosGerados, []string, error) {
	c.mu.Lock()
	if strings.TrimSpace(c.manuais.ComarcaEscolhida) == "" {
		c.mu.Unlock()
		return nil, nil, ErrComarcaObrigatoria
	}
	if c.identity.Perfil == entity.PerfilAdmin && strings.TrimSpace(c.manuais.Advogado) == "" {
		c.mu.Unlock()
		return nil, nil, ErrAdvogadoObrigatorio
	}
	if faltando := ValidarCampos(c.basicos, c.manuais, c.parcelas); len(faltando) > 0 {
		c.mu.Unlock()
		return nil, faltando, nil
	}
	payload := c.payloadDocumentosLocked()
	c.mu.Unlock()

	docs, err := c.gateway.GerarDocumentos(ctx, payload)

	c.mu.Lock()
	c.documentos = docs
	c.modalAberto = docs != nil && (docs.ContratoPDF != "" || docs.ProcuracaoPDF != "")
	if err != nil {
		c.mensagem = mensagemDeErro(err)
	} else {
		c.mensagem = "Documentos gerados"
	}
	c.mu.Unlock()
	return docs, nil, err
}

func (c *Controller) payloadDocumentosLocked() gateway.DocumentosRequest {
	dataExtenso := format.LongDateBR(time.Now())

	nacionalidade := c.basicos.Nacionalidade
	if nacionalidade == "" {
		nacionalidade = "Brasileiro"
	}

	advogadoNome := c.manuais.Advogado
	advogadoOAB := c.manuais.AdvogadoOAB
	usuarioAdvogado := c.manuais.UsuarioAdvogado
	if c.identity.Perfil == entity.PerfilAdvogado {
		advogadoNome = c.identity.Nome
		advogadoOAB = c.identity.OAB
		usuarioAdvogado = c.identity.Usuario
	}

	return gateway.DocumentosRequest{
		Nome:                 c.basicos.NomeCliente,
		CPF:                  c.basicos.CPFCNPJ,
		EnderecoCliente:      c.basicos.EnderecoCompleto(),
		Cidade:               c.basicos.Cidade,
		Estado:               c.basicos.Estado,
		CidadeEstadoCliente:  c.basicos.Cidade + "/" + c.basicos.Estado,
		Comarca:              c.manuais.ComarcaEscolhida,
		ComarcaEscolhida:     c.manuais.ComarcaEscolhida,
		Telefone:             c.manuais.Telefone,
		Nacionalidade:        nacionalidade,
		AdvogadoNome:         advogadoNome,
		AdvogadoOAB:          advogadoOAB,
		PercentualHonorarios: strconv.FormatFloat(c.manuais.HonorariosPercentual, 'f', -1, 64) + "%",
		DataContrato:         dataExtenso,
		DataProcuracao:       dataExtenso,
		Administradora:       c.basicos.Administradora,
		DataEncerramento:     format.ISOToBR(c.basicos.DataEncerramento),
		UsuarioAdvogado:      usuarioAdvogado,
	}
}

// Exportar writes the export artifacts and moves the case to the export
// stage.
func (c *Controller) Exportar(ctx context.Context) (ExportLinks, error) {
	c.mu.Lock()
	resumo := BuildSummary(c.basicos, c.manuais, c.parcelas, c.custas, c.jurosHoje, c.jurosFuturo)
	id, basicos, manuais := c.id, c.basicos, c.manuais
	parcelas := append([]entity.Parcela(nil), c.parcelas...)
	c.mu.Unlock()

	links, err := c.exporter.Export(id, basicos, manuais, parcelas, resumo)
	if err != nil {
		return ExportLinks{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = links
	if err := c.machine.Fire(ctx, workflow.TriggerExportReady); err != nil {
		return links, err
	}
	return links, nil
}

// Editar moves from review to the installment edit stage.
func (c *Controller) Editar(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Fire(ctx, workflow.TriggerEdit)
}

// Salvar returns from the edit stage to review.
func (c *Controller) Salvar(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.machine.Fire(ctx, workflow.TriggerSave); err != nil {
		return err
	}
	c.marcarRecalculoLocked()
	return nil
}

// NovaConsulta discards the case and restarts at upload.
func (c *Controller) NovaConsulta(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked(ctx)
}

// FecharModal closes the review modal and sends the workflow back to the
// edit stage.
func (c *Controller) FecharModal(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modalAberto = false
	c.documentos = nil
	if c.machine.CanFire(workflow.TriggerEdit) {
		return c.machine.Fire(ctx, workflow.TriggerEdit)
	}
	return nil
}

// SubmeterDocumentos acknowledges the submit action. Electronic signature
// dispatch is handled outside this system for now.
func (c *Controller) SubmeterDocumentos() string {
	c.mu.Lock()
	c.modalAberto = false
	c.mu.Unlock()
	return "Documentos encaminhados para assinatura"
}

// Snapshot is the full state view served to the client.
type Snapshot struct {
	ID          string                    `json:"id"`
	Etapa       workflow.Stage            `json:"etapa"`
	Perfil      entity.Perfil             `json:"perfil"`
	Basicos     entity.CaseRecord         `json:"dados_basicos"`
	Manuais     entity.ManualData         `json:"dados_manuais"`
	Parcelas    []entity.Parcela          `json:"parcelas"`
	Custas      []entity.CustaProcessual  `json:"custas_processuais"`
	Documentos  *entity.DocumentosGerados `json:"documentos_gerados,omitempty"`
	ModalAberto bool                      `json:"modal_aberto"`
	Links       ExportLinks               `json:"links"`
	Mensagem    string                    `json:"mensagem"`
	Resumo      Summary                   `json:"resumo"`

	RiscoComarcaCliente        risk.Level `json:"risco_comarca_cliente"`
	RiscoComarcaAdministradora risk.Level `json:"risco_comarca_administradora"`
	RiscoEstado                risk.Level `json:"risco_estado"`

	// display hints, never blocking
	EmailInvalido    bool `json:"email_invalido"`
	TelefoneInvalido bool `json:"telefone_invalido"`
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ID:          c.id,
		Etapa:       c.machine.Stage(),
		Perfil:      c.identity.Perfil,
		Basicos:     c.basicos,
		Manuais:     c.manuais,
		Parcelas:    append([]entity.Parcela(nil), c.parcelas...),
		Custas:      append([]entity.CustaProcessual(nil), c.custas...),
		Documentos:  c.documentos,
		ModalAberto: c.modalAberto,
		Links:       c.links,
		Mensagem:    c.mensagem,
		Resumo:      BuildSummary(c.basicos, c.manuais, c.parcelas, c.custas, c.jurosHoje, c.jurosFuturo),

		RiscoComarcaCliente:        risk.ClassifyComarca(c.basicos.ComarcaCliente),
		RiscoComarcaAdministradora: risk.ClassifyComarca(c.basicos.ComarcaAdministradora),
		RiscoEstado:                risk.ClassifyEstado(c.basicos.Estado),

		EmailInvalido:    c.manuais.Email != "" && utils.ValidateEmail(c.manuais.Email) != nil,
		TelefoneInvalido: c.manuais.Telefone != "" && utils.ValidateTelefone(c.manuais.Telefone) != nil,
	}
}

// Etapa returns the current workflow stage.
func (c *Controller) Etapa() workflow.Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Stage()
}

// resetLocked returns the workflow to upload and clears every case field.
// The new-inquiry trigger is permitted from every stage, so re-uploading an
// extract mid-review restarts the case the way the original page did.
func (c *Controller) resetLocked(ctx context.Context) error {
	if err := c.machine.Fire(ctx, workflow.TriggerNewInquiry); err != nil {
		return err
	}
	c.basicos = entity.CaseRecord{}
	c.manuais = entity.NewManualData()
	if c.identity.Perfil == entity.PerfilAdvogado {
		c.manuais.Advogado = c.identity.Nome
		c.manuais.AdvogadoOAB = c.identity.OAB
		c.manuais.UsuarioAdvogado = c.identity.Usuario
	}
	c.parcelas = nil
	c.custas = nil
	c.documentos = nil
	c.modalAberto = false
	c.links = ExportLinks{}
	c.mensagem = ""
	c.jurosHoje = 0
	c.jurosFuturo = 0
	c.taxaAdmDevidaValor = 0
	c.taxaAdmDevidaPercentual = 0
	c.recalcRev++
	c.cepRev++
	c.admNomeRev++
	c.admCNPJRev++
	return nil
}

// marcarRecalculoLocked schedules the debounced recalculation. Each call
// bumps the revision; only the last scheduled run for the current revision
// actually hits the backend, and only while the case is under review.
func (c *Controller) marcarRecalculoLocked() {
	if c.machine.Stage() != workflow.StageAnalise {
		return
	}
	c.recalcRev++
	rev := c.recalcRev
	if c.recalcTimer != nil {
		c.recalcTimer.Stop()
	}
	c.recalcTimer = time.AfterFunc(c.debounce, func() {
		if err := c.recalcular(context.Background(), rev); err != nil {
			c.logger.Warn("Recalculation failed", zap.Error(err))
		}
	})
}

// recalcular posts the current case to the calculation endpoint and commits
// the result only if rev is still current when the response lands.
func (c *Controller) recalcular(ctx context.Context, rev uint64) error {
	c.mu.Lock()
	if rev != c.recalcRev {
		c.mu.Unlock()
		return nil
	}
	req := gateway.CalculoRequest{
		Parcelas:     append([]entity.Parcela(nil), c.parcelas...),
		DadosBasicos: c.basicos,
		DadosManuais: c.manuais,
	}
	c.mu.Unlock()

	resultado, err := c.gateway.Calcular(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if rev != c.recalcRev {
		return nil
	}
	if err != nil {
		c.mensagem = mensagemDeErro(err)
		return err
	}

	houveSentenca := c.manuais.HouveSentenca
	for i := range c.parcelas {
		// installments the backend did not return go to zero, never stale
		var hoje, futuro, taxa float64
		if i < len(resultado.ParcelasCorrigidas) {
			hoje = resultado.ParcelasCorrigidas[i].ValorCorrigidoHoje
			futuro = resultado.ParcelasCorrigidas[i].ValorCorrigidoFuturo
			taxa = resultado.ParcelasCorrigidas[i].TaxaAdmParcela
		}
		if houveSentenca {
			futuro = hoje
		}
		c.parcelas[i].ValorCorrigidoHoje = hoje
		c.parcelas[i].ValorCorrigidoFuturo = futuro
		c.parcelas[i].TaxaAdmParcela = taxa
	}

	c.manuais.ValorCorrigido = resultado.ValorCorrigidoHojeLiquido
	if houveSentenca {
		c.manuais.ValorFuturo = resultado.ValorCorrigidoHojeLiquido
	} else {
		c.manuais.ValorFuturo = resultado.ValorCorrigidoFuturoLiquido
	}
	c.manuais.TaxaAdministracaoDeduzida = resultado.TaxaAdministracaoDeduzida

	c.basicos.ValorARestituir = c.basicos.ValorTotalPagoExtrato - resultado.TaxaAdmDevidaValor

	c.jurosHoje = resultado.ValorComJurosHoje
	c.jurosFuturo = resultado.ValorComJurosFuturo
	c.taxaAdmDevidaValor = resultado.TaxaAdmDevidaValor
	c.taxaAdmDevidaPercentual = resultado.TaxaAdmDevidaPercentual
	c.mensagem = "Valores calculados"
	return nil
}

// buscarEndereco runs the postal-code chain: registry lookup first, then
// the venue lookup. Failures log and leave the address blank.
func (c *Controller) buscarEndereco(cep string, rev uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	endereco, err := c.viacep.Lookup(ctx, cep)
	if err != nil {
		c.logger.Warn("Address lookup failed", zap.String("cep", cep), zap.Error(err))
		return
	}

	c.mu.Lock()
	if rev != c.cepRev {
		c.mu.Unlock()
		return
	}
	c.basicos.Rua = endereco.Logradouro
	c.basicos.Bairro = endereco.Bairro
	c.basicos.Cidade = endereco.Localidade
	c.basicos.Estado = endereco.UF
	c.marcarRecalculoLocked()
	c.mu.Unlock()

	comarca, err := c.gateway.ComarcaPorCEP(ctx, cep)
	if err != nil || comarca == "" {
		if err != nil {
			c.logger.Warn("Venue lookup failed", zap.String("cep", cep), zap.Error(err))
		}
		return
	}

	c.mu.Lock()
	if rev == c.cepRev {
		c.basicos.ComarcaCliente = format.NormalizeComarca(comarca)
		c.marcarRecalculoLocked()
	}
	c.mu.Unlock()
}

func (c *Controller) buscarCNPJ(nome string, rev uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cnpj, err := c.gateway.CNPJPorAdministradora(ctx, nome)
	if err != nil {
		c.logger.Warn("Administrator CNPJ lookup failed", zap.String("nome", nome), zap.Error(err))
		return
	}
	digits := format.Digits(cnpj)
	if len(digits) != 14 {
		return
	}

	c.mu.Lock()
	if rev == c.admNomeRev && c.basicos.CNPJAdministradora == "" {
		c.basicos.CNPJAdministradora = format.ApplyMask(format.FieldCNPJ, digits)
		c.admCNPJRev++
		go c.buscarAdministradora(digits, c.admCNPJRev)
		c.marcarRecalculoLocked()
	}
	c.mu.Unlock()
}

func (c *Controller) buscarAdministradora(cnpj string, rev uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	nome, comarca, err := c.gateway.AdministradoraPorCNPJ(ctx, cnpj)
	if err != nil {
		c.logger.Warn("Administrator lookup failed", zap.String("cnpj", cnpj), zap.Error(err))
		return
	}

	c.mu.Lock()
	if rev == c.admCNPJRev {
		if nome != "" {
			c.basicos.Administradora = nome
		}
		if comarca != "" {
			c.basicos.ComarcaAdministradora = comarca
		}
		c.marcarRecalculoLocked()
	}
	c.mu.Unlock()
}

// coerceBasicos decodes the loosely-typed extraction fields, forcing the
// known numeric list to numbers with 0 for anything missing or invalid.
func coerceBasicos(dados map[string]any, logger *zap.Logger) entity.CaseRecord {
	if dados == nil {
		return entity.CaseRecord{}
	}
	for _, campo := range camposNumericos {
		dados[campo] = toFloat(dados[campo])
	}

	raw, err := json.Marshal(dados)
	if err != nil {
		logger.Warn("Failed to encode extracted fields", zap.Error(err))
		return entity.CaseRecord{}
	}
	var basicos entity.CaseRecord
	if err := json.Unmarshal(raw, &basicos); err != nil {
		// Best effort: fields before and after a mismatched one still decode.
		logger.Warn("Extracted fields only partially decoded", zap.Error(err))
	}
	return basicos
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		return format.ParseAmount(x)
	default:
		return 0
	}
}

func mensagemDeErro(err error) string {
	if errors.Is(err, gateway.ErrUnreachable) {
		return "Falha ao conectar com o backend"
	}
	if bizErr, ok := gateway.AsBusinessError(err); ok && bizErr.Detail != "" {
		return "Erro: " + bizErr.Detail
	}
	return "Erro: " + err.Error()
}
