package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/auth"
	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/gateway"
	"github.com/leonardomol/pjmol-intake/internal/intake"
	"github.com/leonardomol/pjmol-intake/internal/session"
	"github.com/leonardomol/pjmol-intake/internal/storage"
)

const identityKey = "identity"

// Handlers contains all HTTP request handlers.
type Handlers struct {
	auth    *auth.Service
	manager *Manager
	gateway *gateway.Client
	archive *storage.Archive
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance. The archive is optional;
// without one uploads are forwarded but not kept locally.
func NewHandlers(authService *auth.Service, manager *Manager, gw *gateway.Client, archive *storage.Archive, logger *zap.Logger) *Handlers {
	return &Handlers{
		auth:    authService,
		manager: manager,
		gateway: gw,
		archive: archive,
		logger:  logger,
	}
}

// archiveUpload keeps a local copy of an uploaded document, best effort.
func (h *Handlers) archiveUpload(caseID, filename string, data []byte) {
	if h.archive == nil {
		return
	}
	if _, err := h.archive.Save(caseID, filename, data); err != nil {
		h.logger.Warn("Failed to archive uploaded document",
			zap.String("case_id", caseID),
			zap.String("filename", filename),
			zap.Error(err))
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Perfil  entity.Perfil `json:"perfil" binding:"required"`
	Usuario string        `json:"usuario" binding:"required"`
	Senha   string        `json:"senha" binding:"required"`
}

// Login authenticates and opens the session.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "usuário, senha e perfil são obrigatórios"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Perfil, req.Usuario, req.Senha)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, Response{Error: auth.ErrInvalidCredentials.Error()})
			return
		}
		c.JSON(errorStatus(err), Response{Error: mensagemParaCliente(err)})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// Logout drops the session.
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.auth.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// Session returns the active identity.
func (h *Handlers) Session(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: c.MustGet(identityKey)})
}

// RequireSession rejects requests without an authenticated session.
func (h *Handlers) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := h.auth.Current()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Error: "sessão não iniciada"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{Error: err.Error()})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// ListAdvogados proxies the lawyer directory.
func (h *Handlers) ListAdvogados(c *gin.Context) {
	advogados, err := h.gateway.Advogados(c.Request.Context())
	if err != nil {
		c.JSON(errorStatus(err), Response{Error: mensagemParaCliente(err)})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: advogados})
}

// GetAdvogado proxies one lawyer lookup.
func (h *Handlers) GetAdvogado(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "id inválido"})
		return
	}
	advogado, err := h.gateway.Advogado(c.Request.Context(), id)
	if err != nil {
		c.JSON(errorStatus(err), Response{Error: mensagemParaCliente(err)})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: advogado})
}

// CreateCaso opens a new intake for the session identity.
func (h *Handlers) CreateCaso(c *gin.Context) {
	ident := c.MustGet(identityKey).(*entity.Identity)
	ctrl := h.manager.Create(*ident)
	c.JSON(http.StatusCreated, Response{Success: true, Data: ctrl.Snapshot()})
}

// ListCasos returns the case manifest.
func (h *Handlers) ListCasos(c *gin.Context) {
	casos, err := h.manager.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: casos})
}

// GetCaso returns the full snapshot of one case.
func (h *Handlers) GetCaso(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// DeleteCaso discards a case.
func (h *Handlers) DeleteCaso(c *gin.Context) {
	id := c.Param("id")
	if err := h.manager.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	if h.archive != nil {
		if err := h.archive.DeleteCase(id); err != nil {
			h.logger.Warn("Failed to delete case archive", zap.String("case_id", id), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// UploadExtrato ingests the extract PDF.
func (h *Handlers) UploadExtrato(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	filename, data, ok := h.formFile(c)
	if !ok {
		return
	}

	if err := ctrl.Ingest(c.Request.Context(), filename, data); err != nil {
		h.manager.Persist(ctrl)
		c.JSON(errorStatus(err), Response{Error: mensagemParaCliente(err), Data: ctrl.Snapshot()})
		return
	}
	h.archiveUpload(c.Param("id"), filename, data)
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// UploadContrato extracts the client contact from a contract PDF.
func (h *Handlers) UploadContrato(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	filename, data, ok := h.formFile(c)
	if !ok {
		return
	}

	if err := ctrl.ExtrairContato(c.Request.Context(), filename, data); err != nil {
		c.JSON(errorStatus(err), Response{Error: mensagemParaCliente(err)})
		return
	}
	h.archiveUpload(c.Param("id"), filename, data)
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// UpdateBasicos replaces the case fields.
func (h *Handlers) UpdateBasicos(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var basicos entity.CaseRecord
	if err := c.ShouldBindJSON(&basicos); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	ctrl.UpdateBasicos(c.Request.Context(), basicos)
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// UpdateManuais replaces the manual litigation fields.
func (h *Handlers) UpdateManuais(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var manuais entity.ManualData
	if err := c.ShouldBindJSON(&manuais); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	ctrl.UpdateManuais(c.Request.Context(), manuais)
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// ParcelaRequest is the installment payload. Valor accepts the comma
// decimal separator.
type ParcelaRequest struct {
	Data  string `json:"data_pagamento"`
	Valor string `json:"valor_pago"`
	Tipo  string `json:"tipo"`
}

// AddParcela appends an installment.
func (h *Handlers) AddParcela(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req ParcelaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err := ctrl.AddParcela(req.Data, req.Valor, req.Tipo); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// UpdateParcela edits an installment in place.
func (h *Handlers) UpdateParcela(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	idx, ok := h.index(c)
	if !ok {
		return
	}
	var req ParcelaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err := ctrl.UpdateParcela(idx, req.Data, req.Valor); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// DeleteParcela removes an installment.
func (h *Handlers) DeleteParcela(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	idx, ok := h.index(c)
	if !ok {
		return
	}
	if err := ctrl.DeleteParcela(idx); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// AddCusta appends a court-cost entry.
func (h *Handlers) AddCusta(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var custa entity.CustaProcessual
	if err := c.ShouldBindJSON(&custa); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err := ctrl.AddCusta(custa); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// DeleteCusta removes a court-cost entry.
func (h *Handlers) DeleteCusta(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	idx, ok := h.index(c)
	if !ok {
		return
	}
	if err := ctrl.DeleteCusta(idx); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// Calcular forces an immediate recalculation.
func (h *Handlers) Calcular(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.Recalcular(c.Request.Context()); err != nil {
		c.JSON(errorStatus(err), Response{Error: mensagemParaCliente(err), Data: ctrl.Snapshot()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// GetResumo returns only the financial summary.
func (h *Handlers) GetResumo(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot().Resumo})
}

// DocumentosResponse carries the generated files with their static URLs.
type DocumentosResponse struct {
	Documentos    *entity.DocumentosGerados `json:"documentos"`
	ContratoURL   string                    `json:"contrato_url,omitempty"`
	ProcuracaoURL string                    `json:"procuracao_url,omitempty"`
	Faltando      []string                  `json:"faltando,omitempty"`
}

// GerarDocumentos validates the case and requests the document pair.
func (h *Handlers) GerarDocumentos(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	docs, faltando, err := ctrl.GerarDocumentos(c.Request.Context())
	if errors.Is(err, intake.ErrComarcaObrigatoria) || errors.Is(err, intake.ErrAdvogadoObrigatorio) {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if len(faltando) > 0 {
		c.JSON(http.StatusUnprocessableEntity, Response{
			Error: "campos obrigatórios faltando",
			Data:  DocumentosResponse{Faltando: faltando},
		})
		return
	}

	h.manager.Persist(ctrl)

	resp := DocumentosResponse{Documentos: docs}
	if docs != nil {
		if docs.ContratoPDF != "" {
			resp.ContratoURL = h.gateway.DocumentoURL(docs.ContratoPDF)
		}
		if docs.ProcuracaoPDF != "" {
			resp.ProcuracaoURL = h.gateway.DocumentoURL(docs.ProcuracaoPDF)
		}
	}
	// The review modal opens with whatever came back, but a backend
	// failure is still reported.
	if err != nil {
		c.JSON(http.StatusOK, Response{Data: resp, Error: mensagemParaCliente(err)})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// FecharModal closes the review modal and returns to the edit stage.
func (h *Handlers) FecharModal(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.FecharModal(c.Request.Context()); err != nil {
		c.JSON(http.StatusConflict, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

// SubmeterDocumentos acknowledges the submit action.
func (h *Handlers) SubmeterDocumentos(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	mensagem := ctrl.SubmeterDocumentos()
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"mensagem": mensagem}})
}

// Exportar writes the export artifacts and moves to the export stage.
func (h *Handlers) Exportar(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	links, err := ctrl.Exportar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: links})
}

// Editar moves to the installment edit stage.
func (h *Handlers) Editar(c *gin.Context) {
	h.fireTransition(c, func(ctrl *intake.Controller) error {
		return ctrl.Editar(c.Request.Context())
	})
}

// Salvar returns from editing to review.
func (h *Handlers) Salvar(c *gin.Context) {
	h.fireTransition(c, func(ctrl *intake.Controller) error {
		return ctrl.Salvar(c.Request.Context())
	})
}

// NovaConsulta resets the case to the upload stage.
func (h *Handlers) NovaConsulta(c *gin.Context) {
	h.fireTransition(c, func(ctrl *intake.Controller) error {
		return ctrl.NovaConsulta(c.Request.Context())
	})
}

func (h *Handlers) fireTransition(c *gin.Context, fire func(*intake.Controller) error) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := fire(ctrl); err != nil {
		c.JSON(http.StatusConflict, Response{Error: err.Error()})
		return
	}
	h.manager.Persist(ctrl)
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.Snapshot()})
}

func (h *Handlers) controller(c *gin.Context) (*intake.Controller, bool) {
	ctrl, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, Response{Error: err.Error()})
		return nil, false
	}
	return ctrl, true
}

func (h *Handlers) index(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "índice inválido"})
		return 0, false
	}
	return idx, true
}

func (h *Handlers) formFile(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "arquivo não enviado"})
		return "", nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}

func errorStatus(err error) int {
	if errors.Is(err, gateway.ErrUnreachable) {
		return http.StatusBadGateway
	}
	if bizErr, ok := gateway.AsBusinessError(err); ok {
		return bizErr.Status
	}
	return http.StatusInternalServerError
}

func mensagemParaCliente(err error) string {
	if errors.Is(err, gateway.ErrUnreachable) {
		return "falha ao conectar com o backend"
	}
	if bizErr, ok := gateway.AsBusinessError(err); ok && bizErr.Detail != "" {
		return bizErr.Detail
	}
	return err.Error()
}
