package backend

import (
	"context"
	"fmt"
	"net/http"
)

// EstacionamentoClient cobre o CRUD de estacionamentos.
type EstacionamentoClient struct {
	client *Client
}

func NewEstacionamentoClient(client *Client) *EstacionamentoClient {
	return &EstacionamentoClient{client: client}
}

// EstacionamentoInput é o payload de criação e atualização.
type EstacionamentoInput struct {
	Nome           string     `json:"nome"`
	Capacidade     int        `json:"capacidade"`
	HoraAbertura   string     `json:"hora_abertura"`
	HoraFechamento string     `json:"hora_fechamento"`
	GestorID       int        `json:"gestor_id"`
	Endereco       Endereco   `json:"endereco"`
	Telefones      []Telefone `json:"telefones"`
}

func (e *EstacionamentoClient) List(ctx context.Context, token string) ([]Estacionamento, error) {
	var out []Estacionamento
	if err := e.client.do(ctx, http.MethodGet, "/estacionamentos", token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar estacionamentos: %w", err)
	}
	return out, nil
}

func (e *EstacionamentoClient) Get(ctx context.Context, token string, id int) (*Estacionamento, error) {
	var out Estacionamento
	if err := e.client.do(ctx, http.MethodGet, fmt.Sprintf("/estacionamentos/%d", id), token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar estacionamento: %w", err)
	}
	return &out, nil
}

func (e *EstacionamentoClient) Create(ctx context.Context, token string, input EstacionamentoInput) (*Estacionamento, error) {
	var out Estacionamento
	if err := e.client.do(ctx, http.MethodPost, "/estacionamentos", token, input, &out); err != nil {
		return nil, fmt.Errorf("criar estacionamento: %w", err)
	}
	return &out, nil
}

func (e *EstacionamentoClient) Update(ctx context.Context, token string, id int, input EstacionamentoInput) (*Estacionamento, error) {
	var out Estacionamento
	if err := e.client.do(ctx, http.MethodPut, fmt.Sprintf("/estacionamentos/%d", id), token, input, &out); err != nil {
		return nil, fmt.Errorf("atualizar estacionamento: %w", err)
	}
	return &out, nil
}

func (e *EstacionamentoClient) Delete(ctx context.Context, token string, id int) error {
	if err := e.client.do(ctx, http.MethodDelete, fmt.Sprintf("/estacionamentos/%d", id), token, nil, nil); err != nil {
		return fmt.Errorf("deletar estacionamento: %w", err)
	}
	return nil
}
