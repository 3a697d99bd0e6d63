package cliente

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smartpark/portal/internal/backend"
	httpmiddleware "github.com/smartpark/portal/internal/http/middleware"
	"github.com/smartpark/portal/internal/session"
)

type stubEstacionamentos struct {
	estacionamentos []backend.Estacionamento
}

func (s *stubEstacionamentos) List(ctx context.Context, token string) ([]backend.Estacionamento, error) {
	return s.estacionamentos, nil
}
func (s *stubEstacionamentos) Get(ctx context.Context, token string, id int) (*backend.Estacionamento, error) {
	return &s.estacionamentos[0], nil
}

type stubVagas struct {
	vagas []backend.Vaga
}

func (s *stubVagas) ListByEstacionamento(ctx context.Context, token string, estacionamentoID int) ([]backend.Vaga, error) {
	return s.vagas, nil
}
func (s *stubVagas) Get(ctx context.Context, token string, id int) (*backend.Vaga, error) {
	return &s.vagas[0], nil
}

type stubReservas struct {
	reservas   []backend.Reserva
	disponivel bool
	criada     *backend.ReservaInput
	canceladas []int
}

func (s *stubReservas) ListCliente(ctx context.Context, token string) ([]backend.Reserva, error) {
	return s.reservas, nil
}
func (s *stubReservas) Cancelar(ctx context.Context, token string, id int) error {
	s.canceladas = append(s.canceladas, id)
	return nil
}
func (s *stubReservas) VerificarDisponibilidade(ctx context.Context, token string, req backend.DisponibilidadeRequest) (bool, error) {
	return s.disponivel, nil
}
func (s *stubReservas) Create(ctx context.Context, token string, input backend.ReservaInput) (*backend.Reserva, error) {
	s.criada = &input
	return &backend.Reserva{ID: 77, Status: input.Status, HoraInicio: input.HoraInicio, HoraFim: input.HoraFim}, nil
}

type stubVeiculos struct {
	veiculos []backend.Veiculo
	criado   *backend.VeiculoInput
}

func (s *stubVeiculos) ListCliente(ctx context.Context, token string) ([]backend.Veiculo, error) {
	return s.veiculos, nil
}
func (s *stubVeiculos) Create(ctx context.Context, token string, input backend.VeiculoInput) (*backend.Veiculo, error) {
	s.criado = &input
	return &backend.Veiculo{ID: 31, Placa: input.Placa}, nil
}
func (s *stubVeiculos) Update(ctx context.Context, token string, id int, input backend.VeiculoInput) (*backend.Veiculo, error) {
	return &backend.Veiculo{ID: id, Placa: input.Placa}, nil
}
func (s *stubVeiculos) Delete(ctx context.Context, token string, id int) error {
	return nil
}

type stubAcessos struct {
	acessos []backend.Acesso
	pagos   []int
}

func (s *stubAcessos) ListCliente(ctx context.Context, token string) ([]backend.Acesso, error) {
	return s.acessos, nil
}
func (s *stubAcessos) Pagar(ctx context.Context, token string, id int) (*backend.Acesso, error) {
	s.pagos = append(s.pagos, id)
	return &backend.Acesso{ID: id, Pago: backend.Sim}, nil
}

func sessaoCliente() *session.Sessao {
	return &session.Sessao{
		ID:       "s1",
		Token:    "tok",
		Usuario:  &backend.Usuario{ID: 4, Perfil: backend.PerfilCliente, Nome: "Ana"},
		ExpiraEm: time.Now().Add(time.Hour),
	}
}

func newTestHandler(reservas *stubReservas) (*Handler, *stubVeiculos, *stubAcessos) {
	veiculos := &stubVeiculos{veiculos: []backend.Veiculo{{ID: 10, Placa: "ABC1234"}, {ID: 11, Placa: "DEF5678"}}}
	acessos := &stubAcessos{acessos: []backend.Acesso{{ID: 21, Pago: backend.Nao}}}

	svc := &Service{
		estacionamentos: &stubEstacionamentos{estacionamentos: []backend.Estacionamento{{ID: 1, Nome: "Central"}}},
		vagas: &stubVagas{vagas: []backend.Vaga{
			{ID: 2, Identificacao: "A-01", Tipo: backend.VagaCarro, Disponivel: backend.Sim, EstacionamentoID: 1},
			{ID: 3, Identificacao: "A-02", Tipo: backend.VagaCarro, Disponivel: backend.Nao, EstacionamentoID: 1},
		}},
		reservas: reservas,
		veiculos: veiculos,
		acessos:  acessos,
	}
	return NewHandler(svc, nil, "smartpark_sessao"), veiculos, acessos
}

func executar(t *testing.T, handler *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(context.WithValue(req.Context(), httpmiddleware.ContextKeySessao, sessaoCliente()))
	rec := httptest.NewRecorder()

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	r.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v: %s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestClienteTelas(t *testing.T) {
	handler, _, _ := newTestHandler(&stubReservas{disponivel: true})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"home", http.MethodGet, "/home", nil, http.StatusOK},
		{"estacionamentos", http.MethodGet, "/estacionamentos", nil, http.StatusOK},
		{"vagas", http.MethodGet, "/vagas/1", nil, http.StatusOK},
		{"reservas", http.MethodGet, "/reservas", nil, http.StatusOK},
		{"cancelar reserva", http.MethodPost, "/reservas/5/cancelar", nil, http.StatusOK},
		{"veiculos", http.MethodGet, "/veiculos", nil, http.StatusOK},
		{"acessos", http.MethodGet, "/acessos", nil, http.StatusOK},
		{"pagar acesso", http.MethodPost, "/acessos/21/pagar", nil, http.StatusOK},
		{"excluir veiculo", http.MethodDelete, "/veiculos/10", nil, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := executar(t, handler, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, esperava %d: %s", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestClienteVagasContaLivres(t *testing.T) {
	handler, _, _ := newTestHandler(&stubReservas{})

	rec := executar(t, handler, http.MethodGet, "/vagas/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data := decodeData(t, rec)
	if livres, ok := data["vagas_livres"].(float64); !ok || livres != 1 {
		t.Fatalf("vagas_livres = %v", data["vagas_livres"])
	}
}

func TestClienteFluxoDeReserva(t *testing.T) {
	reservas := &stubReservas{disponivel: true}
	handler, _, _ := newTestHandler(reservas)

	// abrir a tela cria o fluxo, preenche data/hora e seleciona o
	// primeiro veículo
	rec := executar(t, handler, http.MethodGet, "/reservar/1/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("abrir tela: status = %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	tela := data["tela"].(map[string]any)
	if tela["veiculo_id"].(float64) != 10 {
		t.Fatalf("primeiro veículo deveria vir selecionado: %v", tela["veiculo_id"])
	}
	if tela["data"].(string) == "" || tela["hora_inicio"].(string) == "" {
		t.Fatal("data e hora deveriam vir preenchidas")
	}

	// verificar disponibilidade libera a confirmação
	rec = executar(t, handler, http.MethodPost, "/reservar/verificar", map[string]any{
		"data":        "2026-08-29",
		"hora_inicio": "09:00",
		"duracao":     2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verificar: status = %d: %s", rec.Code, rec.Body.String())
	}
	data = decodeData(t, rec)
	if data["estado"] != "disponivel" || data["pode_confirmar"] != true {
		t.Fatalf("fluxo errado após verificação: %v", data)
	}
	if data["hora_fim"] != "11:00" {
		t.Fatalf("hora_fim = %v", data["hora_fim"])
	}

	// confirmar envia a reserva ativa com segundos no horário
	rec = executar(t, handler, http.MethodPost, "/reservar/confirmar", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("confirmar: status = %d: %s", rec.Code, rec.Body.String())
	}
	if reservas.criada == nil {
		t.Fatal("reserva não chegou ao backend")
	}
	if reservas.criada.VagaID != 2 || reservas.criada.VeiculoID != 10 {
		t.Fatalf("reserva errada: %+v", reservas.criada)
	}
	if reservas.criada.HoraInicio != "09:00:00" || reservas.criada.HoraFim != "11:00:00" {
		t.Fatalf("horários errados: %+v", reservas.criada)
	}
	if reservas.criada.Status != backend.ReservaAtiva {
		t.Fatalf("status = %q", reservas.criada.Status)
	}

	// o fluxo concluído é descartado; nova confirmação exige nova tela
	rec = executar(t, handler, http.MethodPost, "/reservar/confirmar", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("segunda confirmação: status = %d", rec.Code)
	}
}

func TestClienteConfirmacaoBloqueadaSemVerificacao(t *testing.T) {
	handler, _, _ := newTestHandler(&stubReservas{disponivel: true})

	rec := executar(t, handler, http.MethodGet, "/reservar/1/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("abrir tela: status = %d", rec.Code)
	}

	rec = executar(t, handler, http.MethodPost, "/reservar/confirmar", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("confirmar sem verificar: status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClienteVagaIndisponivelBloqueiaConfirmacao(t *testing.T) {
	handler, _, _ := newTestHandler(&stubReservas{disponivel: false})

	rec := executar(t, handler, http.MethodGet, "/reservar/1/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("abrir tela: status = %d", rec.Code)
	}

	rec = executar(t, handler, http.MethodPost, "/reservar/verificar", map[string]any{
		"data":        "2026-08-29",
		"hora_inicio": "09:00",
		"duracao":     1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verificar: status = %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["estado"] != "indisponivel" || data["pode_confirmar"] != false {
		t.Fatalf("fluxo errado: %v", data)
	}
	if data["mensagem"] == "" {
		t.Fatal("esperava mensagem de indisponibilidade")
	}

	rec = executar(t, handler, http.MethodPost, "/reservar/confirmar", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("confirmar indisponível: status = %d", rec.Code)
	}
}

func TestClienteVerificarSemFluxo(t *testing.T) {
	handler, _, _ := newTestHandler(&stubReservas{})

	rec := executar(t, handler, http.MethodPost, "/reservar/verificar", map[string]any{
		"data":        "2026-08-29",
		"hora_inicio": "09:00",
		"duracao":     1,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClienteVerificarEntradaInvalida(t *testing.T) {
	handler, _, _ := newTestHandler(&stubReservas{disponivel: true})

	if rec := executar(t, handler, http.MethodGet, "/reservar/1/2", nil); rec.Code != http.StatusOK {
		t.Fatalf("abrir tela: status = %d", rec.Code)
	}

	tests := []struct {
		name string
		body map[string]any
	}{
		{"duração fora do conjunto", map[string]any{"data": "2026-08-29", "hora_inicio": "09:00", "duracao": 5}},
		{"hora inválida", map[string]any{"data": "2026-08-29", "hora_inicio": "9h", "duracao": 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := executar(t, handler, http.MethodPost, "/reservar/verificar", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestClienteCriarVeiculoNormalizaPlaca(t *testing.T) {
	handler, veiculos, _ := newTestHandler(&stubReservas{})

	rec := executar(t, handler, http.MethodPost, "/veiculos/", map[string]string{"placa": "abc-1234"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if veiculos.criado == nil || veiculos.criado.Placa != "ABC1234" {
		t.Fatalf("placa deveria ir maiúscula e sem máscara: %+v", veiculos.criado)
	}
}

func TestClienteCriarVeiculoPlacaInvalida(t *testing.T) {
	handler, _, _ := newTestHandler(&stubReservas{})

	rec := executar(t, handler, http.MethodPost, "/veiculos/", map[string]string{"placa": "AB12"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}
