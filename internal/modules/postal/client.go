// Package postal looks up Brazilian postal codes (CEP) against the ViaCEP
// public API. The lookup is best-effort address enrichment for the order
// wizard: failures surface to the caller but never block the flow.
package postal

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://viacep.com.br"

var (
	// ErrInvalidCEP is returned before any network call when the code is not
	// exactly 8 digits.
	ErrInvalidCEP = errors.New("cep must be exactly 8 digits")

	// ErrNotFound is returned when ViaCEP reports no address for the code.
	ErrNotFound = errors.New("cep not found")
)

var cepPattern = regexp.MustCompile(`^[0-9]{8}$`)

// Address is the subset of the ViaCEP payload the wizard pre-fills.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
}

type viaCEPResponse struct {
	Address
	Erro bool `json:"erro"`
}

// Client queries ViaCEP with a short timeout and retries, since the lookup
// sits inside an interactive form.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient creates a ViaCEP client. An empty baseURL selects the public
// endpoint; tests point it at a local server.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(1 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, logger: logger}
}

// Lookup resolves an 8-digit CEP into an address.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	if !cepPattern.MatchString(cep) {
		return nil, ErrInvalidCEP
	}

	var body viaCEPResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/ws/%s/json/", cep))
	if err != nil {
		c.logger.Warn("cep lookup failed", zap.String("cep", cep), zap.Error(err))
		return nil, fmt.Errorf("cep lookup: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("cep lookup returned error status",
			zap.String("cep", cep), zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("cep lookup: unexpected status %d", resp.StatusCode())
	}
	// ViaCEP answers 200 with {"erro": true} for unknown codes.
	if body.Erro {
		return nil, ErrNotFound
	}
	return &body.Address, nil
}
