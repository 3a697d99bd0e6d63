package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNaoAutorizado indica resposta 401 do backend; a sessão deve ser encerrada.
	ErrNaoAutorizado = errors.New("não autorizado")
)

// APIError carrega o payload de erro devolvido pelo backend.
type APIError struct {
	Status   int    `json:"-"`
	Resumo   string `json:"error"`
	Mensagem string `json:"message"`
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Mensagem) != "" {
		return e.Mensagem
	}
	if strings.TrimSpace(e.Resumo) != "" {
		return e.Resumo
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// Unwrap permite errors.Is(err, ErrNaoAutorizado) em respostas 401.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrNaoAutorizado
	}
	return nil
}

// Client encapsula chamadas a um serviço REST do SmartPark.
// Uma única fábrica configurável substitui o par de interceptors
// repetido por recurso: base URL, timeout e política de erro ficam aqui.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient cria um cliente para a base URL informada.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("backend: base URL obrigatória")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	endpoint := c.baseURL + path

	var req *http.Request
	var err error
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return nil, err
		}
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executa a requisição e decodifica a resposta em v quando não-nulo.
// Falhas HTTP viram *APIError com o payload do backend quando decodificável.
func (c *Client) do(ctx context.Context, method, path, token string, body, v any) error {
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || (apiErr.Resumo == "" && apiErr.Mensagem == "") {
		apiErr.Mensagem = "Erro desconhecido"
	}
	return apiErr
}
