// Package gateway is the HTTP client for the calculation backend: login,
// lawyer directory, PDF extraction, registry lookups, financial calculation
// and document generation. The backend owns all heavy logic; this client
// only carries the wire contracts.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
)

// Config holds gateway client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the calculation backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new gateway client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type loginRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

type loginResponse struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	Usuario string `json:"usuario"`
	OAB     string `json:"oab"`
	Email   string `json:"email"`
	Tipo    string `json:"tipo"`
	Perfil  string `json:"perfil"`
}

// LoginAdvogado exchanges lawyer credentials for an identity.
func (c *Client) LoginAdvogado(ctx context.Context, usuario, senha string) (*entity.Identity, error) {
	var resp loginResponse
	if err := c.postJSON(ctx, "/login/", loginRequest{Usuario: usuario, Senha: senha}, &resp); err != nil {
		return nil, err
	}
	return &entity.Identity{
		ID:      resp.ID,
		Perfil:  entity.PerfilAdvogado,
		Nome:    resp.Nome,
		Usuario: resp.Usuario,
		OAB:     resp.OAB,
		Email:   resp.Email,
	}, nil
}

// LoginUsuario exchanges regular-user credentials for an identity. Admins
// are regular users whose profile comes back as "admin".
func (c *Client) LoginUsuario(ctx context.Context, usuario, senha string) (*entity.Identity, error) {
	var resp loginResponse
	if err := c.postJSON(ctx, "/usuarios/login/", loginRequest{Usuario: usuario, Senha: senha}, &resp); err != nil {
		return nil, err
	}
	perfil := entity.PerfilUsuario
	switch {
	case resp.Perfil != "":
		perfil = entity.Perfil(resp.Perfil)
	case resp.Tipo != "":
		perfil = entity.Perfil(resp.Tipo)
	}
	return &entity.Identity{
		ID:     resp.ID,
		Perfil: perfil,
		Nome:   resp.Nome,
		Email:  resp.Email,
	}, nil
}

// Advogados lists the lawyer directory.
func (c *Client) Advogados(ctx context.Context) ([]entity.Advogado, error) {
	var out []entity.Advogado
	if err := c.getJSON(ctx, "/advogados/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Advogado fetches one lawyer by id.
func (c *Client) Advogado(ctx context.Context, id int64) (*entity.Advogado, error) {
	var out entity.Advogado
	if err := c.getJSON(ctx, fmt.Sprintf("/advogados/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtracaoResultado is the extraction response. The basic-data fields come
// back loosely typed (some administrators yield numeric strings), so they
// are coerced by the intake layer against an explicit field list.
type ExtracaoResultado struct {
	DadosBasicos map[string]any   `json:"dados_basicos"`
	Parcelas     []entity.Parcela `json:"parcelas"`
}

// Extrair uploads the extract PDF for extraction.
func (c *Client) Extrair(ctx context.Context, filename string, file io.Reader) (*ExtracaoResultado, error) {
	var out ExtracaoResultado
	if err := c.postMultipart(ctx, "/extrair", "file", filename, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtrairContatoContrato uploads a contract PDF and extracts the client's
// phone and email.
func (c *Client) ExtrairContatoContrato(ctx context.Context, filename string, file io.Reader) (*entity.Contato, error) {
	var out entity.Contato
	if err := c.postMultipart(ctx, "/extrair-contato-contrato", "arquivo", filename, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ComarcaPorCEP resolves the jurisdiction for an 8-digit postal code.
func (c *Client) ComarcaPorCEP(ctx context.Context, cep string) (string, error) {
	var out struct {
		Comarca string `json:"comarca"`
	}
	if err := c.getJSON(ctx, "/comarca-por-cep/"+url.PathEscape(cep), &out); err != nil {
		return "", err
	}
	return out.Comarca, nil
}

// CNPJPorAdministradora resolves an administrator's tax ID by name.
func (c *Client) CNPJPorAdministradora(ctx context.Context, nome string) (string, error) {
	in := map[string]string{"nome_administradora": nome}
	var out struct {
		CNPJ string `json:"cnpj"`
	}
	if err := c.postJSON(ctx, "/cnpj-por-administradora", in, &out); err != nil {
		return "", err
	}
	return out.CNPJ, nil
}

// AdministradoraPorCNPJ resolves an administrator's name and jurisdiction
// by its 14-digit tax ID.
func (c *Client) AdministradoraPorCNPJ(ctx context.Context, cnpj string) (nome, comarca string, err error) {
	var out struct {
		Administradora string `json:"administradora"`
		Comarca        string `json:"comarca"`
	}
	if err := c.getJSON(ctx, "/administradora-por-cnpj/"+url.PathEscape(cnpj), &out); err != nil {
		return "", "", err
	}
	return out.Administradora, out.Comarca, nil
}

// CalculoRequest is the payload for the calculation endpoint.
type CalculoRequest struct {
	Parcelas     []entity.Parcela  `json:"parcelas"`
	DadosBasicos entity.CaseRecord `json:"dados_basicos"`
	DadosManuais entity.ManualData `json:"dados_manuais"`
}

// Calcular posts the current case for monetary correction and net figures.
func (c *Client) Calcular(ctx context.Context, req CalculoRequest) (*entity.CalculoResultado, error) {
	var out entity.CalculoResultado
	if err := c.postJSON(ctx, "/calcular", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DocumentosRequest is the payload for document generation.
type DocumentosRequest struct {
	Nome                 string `json:"nome"`
	CPF                  string `json:"cpf"`
	EnderecoCliente      string `json:"endereco_cliente"`
	Cidade               string `json:"cidade"`
	Estado               string `json:"estado"`
	CidadeEstadoCliente  string `json:"cidade_estado_cliente"`
	Comarca              string `json:"comarca"`
	ComarcaEscolhida     string `json:"comarca_escolhida"`
	Telefone             string `json:"telefone"`
	Nacionalidade        string `json:"nacionalidade"`
	AdvogadoNome         string `json:"advogado_nome"`
	AdvogadoOAB          string `json:"advogado_oab"`
	PercentualHonorarios string `json:"percentual_honorarios"`
	DataContrato         string `json:"data_contrato"`
	DataProcuracao       string `json:"data_procuracao"`
	Administradora       string `json:"administradora"`
	DataEncerramento     string `json:"data_encerramento"`
	UsuarioAdvogado      string `json:"usuario_advogado"`
}

// GerarDocumentos requests the contract and power-of-attorney PDFs. On a
// non-success status the response body is still decoded: the review modal
// opens with whatever file references came back, alongside the error.
func (c *Client) GerarDocumentos(ctx context.Context, req DocumentosRequest) (*entity.DocumentosGerados, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/gerar-documentos", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var docs entity.DocumentosGerados
	_ = json.Unmarshal(raw, &docs)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &docs, c.businessError(resp.StatusCode, raw)
	}
	return &docs, nil
}

// DocumentoURL returns the static URL of a generated document.
func (c *Client) DocumentoURL(nome string) string {
	return c.baseURL + "/documentos/" + url.PathEscape(nome)
}

// SaidaURL returns the static URL of an export artifact.
func (c *Client) SaidaURL(nome string) string {
	return c.baseURL + "/saida/" + url.PathEscape(nome)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) postMultipart(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Gateway request failed",
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	c.logger.Debug("Gateway request",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.businessError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) businessError(status int, raw []byte) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(raw, &detail)
	if detail.Detail == "" {
		detail.Detail = strings.TrimSpace(string(raw))
	}
	return &BusinessError{Status: status, Detail: detail.Detail}
}
