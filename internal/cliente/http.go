package cliente

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/smartpark/portal/internal/backend"
	httpmiddleware "github.com/smartpark/portal/internal/http/middleware"
	"github.com/smartpark/portal/internal/reserva"
	"github.com/smartpark/portal/internal/session"
)

// Handler orquestra as rotas do cliente. Cada sessão carrega no máximo
// um fluxo de reserva em andamento; abrir a tela de reserva de outra
// vaga descarta o anterior.
type Handler struct {
	service    *Service
	sessoes    *session.Manager
	cookieName string

	mu     sync.Mutex
	fluxos map[string]*reserva.Workflow
}

func NewHandler(service *Service, sessoes *session.Manager, cookieName string) *Handler {
	return &Handler{
		service:    service,
		sessoes:    sessoes,
		cookieName: cookieName,
		fluxos:     make(map[string]*reserva.Workflow),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/home", h.handleHome)
	r.Get("/estacionamentos", h.handleEstacionamentos)
	r.Get("/vagas/{estacionamentoID}", h.handleVagas)

	r.Route("/reservar", func(r chi.Router) {
		r.Get("/{estacionamentoID}/{vagaID}", h.handleTelaReservar)
		r.Post("/veiculo", h.handleSelecionarVeiculo)
		r.Post("/verificar", h.handleVerificar)
		r.Post("/confirmar", h.handleConfirmar)
	})

	r.Route("/reservas", func(r chi.Router) {
		r.Get("/", h.handleReservas)
		r.Post("/{id}/cancelar", h.handleCancelarReserva)
	})

	r.Route("/veiculos", func(r chi.Router) {
		r.Get("/", h.handleVeiculos)
		r.Post("/", h.handleCriarVeiculo)
		r.Put("/{id}", h.handleAtualizarVeiculo)
		r.Delete("/{id}", h.handleExcluirVeiculo)
	})

	r.Route("/acessos", func(r chi.Router) {
		r.Get("/", h.handleAcessos)
		r.Post("/{id}/pagar", h.handlePagarAcesso)
	})
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	sessao := httpmiddleware.GetSessao(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"usuario": sessao.Usuario})
}

func (h *Handler) handleEstacionamentos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	ests, err := h.service.ListarEstacionamentos(ctx, sessao.Token)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /cliente/estacionamentos", sessao, start)
	writeJSON(w, http.StatusOK, map[string]any{"estacionamentos": ests})
}

func (h *Handler) handleVagas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	estID, err := idParam(r, "estacionamentoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "estacionamento inválido", nil)
		return
	}

	tela, err := h.service.Vagas(ctx, sessao.Token, estID)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /cliente/vagas", sessao, start)
	writeJSON(w, http.StatusOK, tela)
}

// estadoFluxo é o retrato do fluxo de reserva devolvido após cada
// interação, espelhando o que a tela precisa para habilitar o botão.
type estadoFluxo struct {
	Estado        string `json:"estado"`
	HoraFim       string `json:"hora_fim,omitempty"`
	Mensagem      string `json:"mensagem,omitempty"`
	PodeConfirmar bool   `json:"pode_confirmar"`
}

func retratoFluxo(wf *reserva.Workflow) estadoFluxo {
	return estadoFluxo{
		Estado:        wf.EstadoAtual().String(),
		HoraFim:       wf.HoraFim(),
		Mensagem:      wf.Mensagem(),
		PodeConfirmar: wf.PodeConfirmar(),
	}
}

func (h *Handler) handleTelaReservar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	estID, err := idParam(r, "estacionamentoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "estacionamento inválido", nil)
		return
	}
	vagaID, err := idParam(r, "vagaID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "vaga inválida", nil)
		return
	}

	tela, err := h.service.Reservar(ctx, sessao.Token, estID, vagaID, time.Now())
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	wf := h.service.NovoFluxo(vagaID)
	if tela.VeiculoID != 0 {
		wf.SelecionarVeiculo(tela.VeiculoID)
	}
	h.guardarFluxo(sessao.ID, wf)

	logRequest(ctx, "GET /cliente/reservar", sessao, start)
	writeJSON(w, http.StatusOK, map[string]any{"tela": tela, "fluxo": retratoFluxo(wf)})
}

func (h *Handler) handleSelecionarVeiculo(w http.ResponseWriter, r *http.Request) {
	sessao := httpmiddleware.GetSessao(r.Context())

	wf := h.fluxo(sessao.ID)
	if wf == nil {
		writeError(w, http.StatusConflict, "RESERVA", "nenhuma reserva em andamento", nil)
		return
	}

	var req struct {
		VeiculoID int `json:"veiculo_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VeiculoID <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "veículo inválido", nil)
		return
	}

	wf.SelecionarVeiculo(req.VeiculoID)
	writeJSON(w, http.StatusOK, retratoFluxo(wf))
}

func (h *Handler) handleVerificar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	wf := h.fluxo(sessao.ID)
	if wf == nil {
		writeError(w, http.StatusConflict, "RESERVA", "nenhuma reserva em andamento", nil)
		return
	}

	var req struct {
		Data       string  `json:"data"`
		HoraInicio string  `json:"hora_inicio"`
		Duracao    float64 `json:"duracao"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	if err := wf.DefinirHorario(ctx, sessao.Token, req.Data, req.HoraInicio, req.Duracao); err != nil {
		switch {
		case errors.Is(err, reserva.ErrHoraInvalida), errors.Is(err, reserva.ErrDuracaoInvalida):
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		case errors.Is(err, reserva.ErrReservaEncerrada):
			writeError(w, http.StatusConflict, "RESERVA", err.Error(), nil)
			return
		case errors.Is(err, backend.ErrNaoAutorizado):
			h.encerrarSessao(w, r, sessao.ID)
			return
		}
		// indisponibilidade e falhas de backend ficam registradas no
		// próprio fluxo; a tela decide o que mostrar
	}
	writeJSON(w, http.StatusOK, retratoFluxo(wf))
}

func (h *Handler) handleConfirmar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	wf := h.fluxo(sessao.ID)
	if wf == nil {
		writeError(w, http.StatusConflict, "RESERVA", "nenhuma reserva em andamento", nil)
		return
	}

	criada, err := wf.Confirmar(ctx, sessao.Token)
	if err != nil {
		switch {
		case errors.Is(err, reserva.ErrNaoConfirmavel):
			writeError(w, http.StatusConflict, "RESERVA", "confirme a disponibilidade e o veículo antes", nil)
		case errors.Is(err, backend.ErrNaoAutorizado):
			h.encerrarSessao(w, r, sessao.ID)
		default:
			// o fluxo voltou ao estado editável com a mensagem do backend
			writeJSON(w, http.StatusOK, retratoFluxo(wf))
		}
		return
	}

	h.removerFluxo(sessao.ID)
	logRequest(ctx, "POST /cliente/reservar/confirmar", sessao, start)
	writeJSON(w, http.StatusCreated, map[string]any{"reserva": criada, "fluxo": retratoFluxo(wf)})
}

func (h *Handler) handleReservas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	reservas, err := h.service.ListarReservas(ctx, sessao.Token)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /cliente/reservas", sessao, start)
	writeJSON(w, http.StatusOK, map[string]any{"reservas": reservas})
}

func (h *Handler) handleCancelarReserva(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.service.CancelarReserva(ctx, sessao.Token, id); err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cancelada": true})
}

func (h *Handler) handleVeiculos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	veiculos, err := h.service.ListarVeiculos(ctx, sessao.Token)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"veiculos": veiculos})
}

type veiculoRequest struct {
	Placa string `json:"placa"`
}

func (h *Handler) handleCriarVeiculo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	var req veiculoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	veiculo, err := h.service.CriarVeiculo(ctx, sessao.Token, req.Placa)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusCreated, veiculo)
}

func (h *Handler) handleAtualizarVeiculo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var req veiculoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	veiculo, err := h.service.AtualizarVeiculo(ctx, sessao.Token, id, req.Placa)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, veiculo)
}

func (h *Handler) handleExcluirVeiculo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.service.ExcluirVeiculo(ctx, sessao.Token, id); err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removido": true})
}

func (h *Handler) handleAcessos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	acessos, err := h.service.ListarAcessos(ctx, sessao.Token)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /cliente/acessos", sessao, start)
	writeJSON(w, http.StatusOK, map[string]any{"acessos": acessos})
}

func (h *Handler) handlePagarAcesso(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	acesso, err := h.service.PagarAcesso(ctx, sessao.Token, id)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, acesso)
}

func (h *Handler) guardarFluxo(sessaoID string, wf *reserva.Workflow) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fluxos[sessaoID] = wf
}

func (h *Handler) fluxo(sessaoID string) *reserva.Workflow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fluxos[sessaoID]
}

func (h *Handler) removerFluxo(sessaoID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.fluxos, sessaoID)
}

func idParam(r *http.Request, nome string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, nome))
	if err != nil || id <= 0 {
		return 0, errors.New("identificador inválido")
	}
	return id, nil
}

// falha mapeia erros das operações: 401 do backend encerra a sessão e
// redireciona, validação vira 400, o restante preserva o status do
// backend quando houver.
func (h *Handler) falha(w http.ResponseWriter, r *http.Request, sessao *session.Sessao, err error) {
	if errors.Is(err, backend.ErrNaoAutorizado) {
		h.encerrarSessao(w, r, sessao.ID)
		return
	}
	if errors.Is(err, ErrEntradaInvalida) {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.Status, "BACKEND", apiErr.Error(), nil)
		return
	}
	log.Error().Err(err).Msg("cliente handler error")
	writeError(w, http.StatusBadGateway, "BACKEND", "falha ao falar com o backend", nil)
}

func (h *Handler) encerrarSessao(w http.ResponseWriter, r *http.Request, sessaoID string) {
	h.removerFluxo(sessaoID)
	_ = h.sessoes.Destroy(r.Context(), sessaoID)
	httpmiddleware.ExpirarCookie(w, h.cookieName)
	http.Redirect(w, r, httpmiddleware.RotaLogin, http.StatusSeeOther)
}

func logRequest(ctx context.Context, label string, sessao *session.Sessao, start time.Time) {
	logger := log.Ctx(ctx)
	if logger == nil {
		logger = &log.Logger
	}
	reqID := chimiddleware.GetReqID(ctx)
	logger.Info().Str("request_id", reqID).Int("usuario_id", sessao.Usuario.ID).Str("label", label).Dur("duration", time.Since(start)).Msg("cliente_request")
}

// Helpers de resposta JSON compatíveis com o resto do projeto.
type successEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

type errorEnvelope struct {
	Data  any            `json:"data"`
	Error *errorResponse `json:"error"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Data: payload, Error: nil})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Data: nil, Error: &errorResponse{Code: code, Message: message, Details: details}})
}
