package backend

import (
	"context"
	"fmt"
	"net/http"
)

// VeiculoClient cobre os veículos do cliente autenticado.
type VeiculoClient struct {
	client *Client
}

func NewVeiculoClient(client *Client) *VeiculoClient {
	return &VeiculoClient{client: client}
}

// VeiculoInput é o payload de criação e atualização.
type VeiculoInput struct {
	Placa string `json:"placa"`
}

func (v *VeiculoClient) ListCliente(ctx context.Context, token string) ([]Veiculo, error) {
	var out []Veiculo
	if err := v.client.do(ctx, http.MethodGet, "/veiculos", token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar veículos: %w", err)
	}
	return out, nil
}

func (v *VeiculoClient) Get(ctx context.Context, token string, id int) (*Veiculo, error) {
	var out Veiculo
	if err := v.client.do(ctx, http.MethodGet, fmt.Sprintf("/veiculos/%d", id), token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar veículo: %w", err)
	}
	return &out, nil
}

func (v *VeiculoClient) Create(ctx context.Context, token string, input VeiculoInput) (*Veiculo, error) {
	var out Veiculo
	if err := v.client.do(ctx, http.MethodPost, "/veiculos", token, input, &out); err != nil {
		return nil, fmt.Errorf("criar veículo: %w", err)
	}
	return &out, nil
}

func (v *VeiculoClient) Update(ctx context.Context, token string, id int, input VeiculoInput) (*Veiculo, error) {
	var out Veiculo
	if err := v.client.do(ctx, http.MethodPut, fmt.Sprintf("/veiculos/%d", id), token, input, &out); err != nil {
		return nil, fmt.Errorf("atualizar veículo: %w", err)
	}
	return &out, nil
}

func (v *VeiculoClient) Delete(ctx context.Context, token string, id int) error {
	if err := v.client.do(ctx, http.MethodDelete, fmt.Sprintf("/veiculos/%d", id), token, nil, nil); err != nil {
		return fmt.Errorf("deletar veículo: %w", err)
	}
	return nil
}
