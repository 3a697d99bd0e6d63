package backend

import (
	"context"
	"fmt"
	"net/http"
)

// ReservaClient cobre reservas e a verificação de disponibilidade.
type ReservaClient struct {
	client *Client
}

func NewReservaClient(client *Client) *ReservaClient {
	return &ReservaClient{client: client}
}

// ReservaInput é o payload de POST /reservas. Horas no formato HH:MM:SS.
type ReservaInput struct {
	VagaID     int    `json:"vaga_id"`
	VeiculoID  int    `json:"veiculo_id"`
	Data       string `json:"data"`
	HoraInicio string `json:"hora_inicio"`
	HoraFim    string `json:"hora_fim"`
	Status     string `json:"status"`
}

// DisponibilidadeRequest é o corpo de POST /reservas/verificar-disponibilidade.
type DisponibilidadeRequest struct {
	VagaID     int    `json:"vaga_id"`
	Data       string `json:"data"`
	HoraInicio string `json:"hora_inicio"`
	HoraFim    string `json:"hora_fim"`
}

// List devolve todas as reservas visíveis ao gestor autenticado.
func (r *ReservaClient) List(ctx context.Context, token string) ([]Reserva, error) {
	var out []Reserva
	if err := r.client.do(ctx, http.MethodGet, "/reservas", token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar reservas: %w", err)
	}
	return out, nil
}

// ListCliente devolve as reservas do cliente autenticado.
func (r *ReservaClient) ListCliente(ctx context.Context, token string) ([]Reserva, error) {
	var out []Reserva
	if err := r.client.do(ctx, http.MethodGet, "/reservas/cliente", token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar reservas: %w", err)
	}
	return out, nil
}

func (r *ReservaClient) Get(ctx context.Context, token string, id int) (*Reserva, error) {
	var out Reserva
	if err := r.client.do(ctx, http.MethodGet, fmt.Sprintf("/reservas/%d", id), token, nil, &out); err != nil {
		return nil, fmt.Errorf("buscar reserva: %w", err)
	}
	return &out, nil
}

func (r *ReservaClient) Create(ctx context.Context, token string, input ReservaInput) (*Reserva, error) {
	var out Reserva
	if err := r.client.do(ctx, http.MethodPost, "/reservas", token, input, &out); err != nil {
		return nil, fmt.Errorf("criar reserva: %w", err)
	}
	return &out, nil
}

func (r *ReservaClient) Cancelar(ctx context.Context, token string, id int) error {
	path := fmt.Sprintf("/reservas/%d/cancelar", id)
	if err := r.client.do(ctx, http.MethodPut, path, token, nil, nil); err != nil {
		return fmt.Errorf("cancelar reserva: %w", err)
	}
	return nil
}

// VerificarDisponibilidade consulta o backend; a lógica de conflito
// mora inteiramente do outro lado da fronteira REST.
func (r *ReservaClient) VerificarDisponibilidade(ctx context.Context, token string, req DisponibilidadeRequest) (bool, error) {
	var resp struct {
		Disponivel bool `json:"disponivel"`
	}
	if err := r.client.do(ctx, http.MethodPost, "/reservas/verificar-disponibilidade", token, req, &resp); err != nil {
		return false, fmt.Errorf("verificar disponibilidade: %w", err)
	}
	return resp.Disponivel, nil
}
