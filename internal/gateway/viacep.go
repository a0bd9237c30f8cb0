package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Endereco is the address record returned by the postal-code lookup.
type Endereco struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
}

// ErrCEPNotFound signals that the postal service knows nothing about a CEP.
var ErrCEPNotFound = fmt.Errorf("cep not found")

// ViaCEPConfig holds ViaCEP client configuration.
type ViaCEPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ViaCEPClient resolves Brazilian postal codes to addresses.
type ViaCEPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewViaCEPClient creates a new ViaCEP client.
func NewViaCEPClient(cfg ViaCEPConfig, logger *zap.Logger) *ViaCEPClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://viacep.com.br"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &ViaCEPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Lookup resolves an 8-digit CEP. The upstream answers 200 with
// {"erro": true} for unknown codes, which maps to ErrCEPNotFound.
func (c *ViaCEPClient) Lookup(ctx context.Context, cep string) (*Endereco, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ws/"+cep+"/json/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("ViaCEP request failed", zap.String("cep", cep), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &BusinessError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
	}

	var payload struct {
		Endereco
		Erro bool `json:"erro"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Erro {
		return nil, ErrCEPNotFound
	}
	return &payload.Endereco, nil
}
