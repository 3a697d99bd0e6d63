package backend

import (
	"context"
	"fmt"
	"net/http"
)

// VagaClient cobre o CRUD de vagas.
type VagaClient struct {
	client *Client
}

func NewVagaClient(client *Client) *VagaClient {
	return &VagaClient{client: client}
}

// VagaInput é o payload de criação e atualização.
type VagaInput struct {
	Identificacao    string `json:"identificacao"`
	Tipo             string `json:"tipo"`
	Disponivel       string `json:"disponivel"`
	EstacionamentoID int    `json:"estacionamento_id"`
}

func (v *VagaClient) ListByEstacionamento(ctx context.Context, token string, estacionamentoID int) ([]Vaga, error) {
	var out []Vaga
	path := fmt.Sprintf("/vagas/estacionamento/%d", estacionamentoID)
	if err := v.client.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar vagas: %w", err)
	}
	return out, nil
}

func (v *VagaClient) Get(ctx context.Context, token string, id int) (*Vaga, error) {
	var out Vaga
	if err := v.client.do(ctx, http.MethodGet, fmt.Sprintf("/vagas/%d", id), token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar vaga: %w", err)
	}
	return &out, nil
}

func (v *VagaClient) Create(ctx context.Context, token string, input VagaInput) (*Vaga, error) {
	var out Vaga
	if err := v.client.do(ctx, http.MethodPost, "/vagas", token, input, &out); err != nil {
		return nil, fmt.Errorf("criar vaga: %w", err)
	}
	return &out, nil
}

func (v *VagaClient) Update(ctx context.Context, token string, id int, input VagaInput) (*Vaga, error) {
	var out Vaga
	if err := v.client.do(ctx, http.MethodPut, fmt.Sprintf("/vagas/%d", id), token, input, &out); err != nil {
		return nil, fmt.Errorf("atualizar vaga: %w", err)
	}
	return &out, nil
}

func (v *VagaClient) Delete(ctx context.Context, token string, id int) error {
	if err := v.client.do(ctx, http.MethodDelete, fmt.Sprintf("/vagas/%d", id), token, nil, nil); err != nil {
		return fmt.Errorf("deletar vaga: %w", err)
	}
	return nil
}
