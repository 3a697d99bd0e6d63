package backend

import (
	"context"
	"fmt"
	"net/http"
)

// TarifaClient cobre o CRUD de tarifas.
type TarifaClient struct {
	client *Client
}

func NewTarifaClient(client *Client) *TarifaClient {
	return &TarifaClient{client: client}
}

// TarifaInput é o payload de criação e atualização.
type TarifaInput struct {
	Nome             string  `json:"nome"`
	Valor            float64 `json:"valor"`
	Tipo             string  `json:"tipo"`
	EstacionamentoID int     `json:"estacionamento_id"`
	Ativa            string  `json:"ativa"`
}

func (t *TarifaClient) List(ctx context.Context, token string) ([]Tarifa, error) {
	var out []Tarifa
	if err := t.client.do(ctx, http.MethodGet, "/tarifas", token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar tarifas: %w", err)
	}
	return out, nil
}

func (t *TarifaClient) Get(ctx context.Context, token string, id int) (*Tarifa, error) {
	var out Tarifa
	if err := t.client.do(ctx, http.MethodGet, fmt.Sprintf("/tarifas/%d", id), token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar tarifa: %w", err)
	}
	return &out, nil
}

func (t *TarifaClient) Create(ctx context.Context, token string, input TarifaInput) (*Tarifa, error) {
	var out Tarifa
	if err := t.client.do(ctx, http.MethodPost, "/tarifas", token, input, &out); err != nil {
		return nil, fmt.Errorf("criar tarifa: %w", err)
	}
	return &out, nil
}

func (t *TarifaClient) Update(ctx context.Context, token string, id int, input TarifaInput) (*Tarifa, error) {
	var out Tarifa
	if err := t.client.do(ctx, http.MethodPut, fmt.Sprintf("/tarifas/%d", id), token, input, &out); err != nil {
		return nil, fmt.Errorf("atualizar tarifa: %w", err)
	}
	return &out, nil
}

func (t *TarifaClient) Delete(ctx context.Context, token string, id int) error {
	if err := t.client.do(ctx, http.MethodDelete, fmt.Sprintf("/tarifas/%d", id), token, nil, nil); err != nil {
		return fmt.Errorf("deletar tarifa: %w", err)
	}
	return nil
}
