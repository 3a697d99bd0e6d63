package backend

import (
	"context"
	"fmt"
	"net/http"
)

// AcessoClient cobre registros de uso e o pagamento.
type AcessoClient struct {
	client *Client
}

func NewAcessoClient(client *Client) *AcessoClient {
	return &AcessoClient{client: client}
}

// AcessoInput é o payload de criação e atualização.
type AcessoInput struct {
	VagaID     int    `json:"vaga_id,omitempty"`
	VeiculoID  int    `json:"veiculo_id,omitempty"`
	TarifaID   int    `json:"tarifa_id,omitempty"`
	Data       string `json:"data,omitempty"`
	HoraInicio string `json:"hora_inicio,omitempty"`
	HoraFim    string `json:"hora_fim,omitempty"`
	Pago       string `json:"pago,omitempty"`
}

// List devolve todos os acessos visíveis ao gestor autenticado.
func (a *AcessoClient) List(ctx context.Context, token string) ([]Acesso, error) {
	var out []Acesso
	if err := a.client.do(ctx, http.MethodGet, "/acessos", token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar acessos: %w", err)
	}
	return out, nil
}

// ListCliente devolve os acessos do cliente autenticado.
func (a *AcessoClient) ListCliente(ctx context.Context, token string) ([]Acesso, error) {
	var out []Acesso
	if err := a.client.do(ctx, http.MethodGet, "/acessos/cliente", token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar acessos: %w", err)
	}
	return out, nil
}

func (a *AcessoClient) Get(ctx context.Context, token string, id int) (*Acesso, error) {
	var out Acesso
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/acessos/%d", id), token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar acesso: %w", err)
	}
	return &out, nil
}

func (a *AcessoClient) Create(ctx context.Context, token string, input AcessoInput) (*Acesso, error) {
	var out Acesso
	if err := a.client.do(ctx, http.MethodPost, "/acessos", token, input, &out); err != nil {
		return nil, fmt.Errorf("criar acesso: %w", err)
	}
	return &out, nil
}

func (a *AcessoClient) Update(ctx context.Context, token string, id int, input AcessoInput) (*Acesso, error) {
	var out Acesso
	if err := a.client.do(ctx, http.MethodPut, fmt.Sprintf("/acessos/%d", id), token, input, &out); err != nil {
		return nil, fmt.Errorf("atualizar acesso: %w", err)
	}
	return &out, nil
}

func (a *AcessoClient) Delete(ctx context.Context, token string, id int) error {
	if err := a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/acessos/%d", id), token, nil, nil); err != nil {
		return fmt.Errorf("deletar acesso: %w", err)
	}
	return nil
}

// Pagar marca o acesso como pago via atualização parcial.
func (a *AcessoClient) Pagar(ctx context.Context, token string, id int) (*Acesso, error) {
	out, err := a.Update(ctx, token, id, AcessoInput{Pago: Sim})
	if err != nil {
		return nil, fmt.Errorf("pagar acesso: %w", err)
	}
	return out, nil
}
