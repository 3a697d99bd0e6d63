package gestor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/smartpark/portal/internal/backend"
	httpmiddleware "github.com/smartpark/portal/internal/http/middleware"
	"github.com/smartpark/portal/internal/session"
)

// Handler orquestra as rotas do painel do gestor. O guard de perfil já
// rodou no router; aqui só restam sessão válida com perfil G.
type Handler struct {
	service    *Service
	sessoes    *session.Manager
	cookieName string
}

func NewHandler(service *Service, sessoes *session.Manager, cookieName string) *Handler {
	return &Handler{service: service, sessoes: sessoes, cookieName: cookieName}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/home", h.handleHome)

	r.Route("/estacionamentos", func(r chi.Router) {
		r.Get("/", h.handleListEstacionamentos)
		r.Post("/", h.handleCriarEstacionamento)
		r.Put("/{id}", h.handleAtualizarEstacionamento)
		r.Delete("/{id}", h.handleExcluirEstacionamento)
	})

	r.Route("/vagas", func(r chi.Router) {
		r.Get("/{estacionamentoID}", h.handleVagas)
		r.Post("/{estacionamentoID}", h.handleCriarVaga)
		r.Put("/{estacionamentoID}/{vagaID}", h.handleAtualizarVaga)
		r.Delete("/{estacionamentoID}/{vagaID}", h.handleExcluirVaga)
	})

	r.Route("/tarifas", func(r chi.Router) {
		r.Get("/", h.handleTarifas)
		r.Post("/", h.handleCriarTarifa)
		r.Put("/{id}", h.handleAtualizarTarifa)
		r.Delete("/{id}", h.handleExcluirTarifa)
	})

	r.Get("/acessos", h.handleAcessos)
	r.Get("/reservas", h.handleReservas)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	sessao := httpmiddleware.GetSessao(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"usuario": sessao.Usuario})
}

func (h *Handler) handleListEstacionamentos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	ests, err := h.service.ListarEstacionamentos(ctx, sessao.Token)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /gestor/estacionamentos", sessao, start)
	writeJSON(w, http.StatusOK, map[string]any{"estacionamentos": ests})
}

func (h *Handler) handleCriarEstacionamento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	var form EstacionamentoForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	est, err := h.service.CriarEstacionamento(ctx, sessao.Token, sessao.Usuario.ID, form)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusCreated, est)
}

func (h *Handler) handleAtualizarEstacionamento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var form EstacionamentoForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	est, err := h.service.AtualizarEstacionamento(ctx, sessao.Token, sessao.Usuario.ID, id, form)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (h *Handler) handleExcluirEstacionamento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.service.ExcluirEstacionamento(ctx, sessao.Token, id); err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removido": true})
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

	logRequest(ctx, "GET /gestor/vagas", sessao, start)
	writeJSON(w, http.StatusOK, tela)
}

func (h *Handler) handleCriarVaga(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	estID, err := idParam(r, "estacionamentoID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "estacionamento inválido", nil)
		return
	}

	var form VagaForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	vaga, err := h.service.CriarVaga(ctx, sessao.Token, estID, form)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusCreated, vaga)
}

func (h *Handler) handleAtualizarVaga(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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

	var form VagaForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	vaga, err := h.service.AtualizarVaga(ctx, sessao.Token, estID, vagaID, form)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, vaga)
}

func (h *Handler) handleExcluirVaga(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	vagaID, err := idParam(r, "vagaID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "vaga inválida", nil)
		return
	}

	if err := h.service.ExcluirVaga(ctx, sessao.Token, vagaID); err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removido": true})
}

func (h *Handler) handleTarifas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	filtro, err := filtroEstacionamento(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "filtro de estacionamento inválido", nil)
		return
	}

	tela, err := h.service.Tarifas(ctx, sessao.Token, filtro)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /gestor/tarifas", sessao, start)
	writeJSON(w, http.StatusOK, tela)
}

func (h *Handler) handleCriarTarifa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	var form TarifaForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	tarifa, err := h.service.CriarTarifa(ctx, sessao.Token, form)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusCreated, tarifa)
}

func (h *Handler) handleAtualizarTarifa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var form TarifaForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	tarifa, err := h.service.AtualizarTarifa(ctx, sessao.Token, id, form)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, tarifa)
}

func (h *Handler) handleExcluirTarifa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessao := httpmiddleware.GetSessao(ctx)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.service.ExcluirTarifa(ctx, sessao.Token, id); err != nil {
		h.falha(w, r, sessao, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removido": true})
}

func (h *Handler) handleAcessos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	filtro, err := filtroEstacionamento(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "filtro de estacionamento inválido", nil)
		return
	}

	tela, err := h.service.Acessos(ctx, sessao.Token, filtro)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /gestor/acessos", sessao, start)
	writeJSON(w, http.StatusOK, tela)
}

func (h *Handler) handleReservas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessao := httpmiddleware.GetSessao(ctx)

	filtro, err := filtroEstacionamento(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "filtro de estacionamento inválido", nil)
		return
	}
	status := r.URL.Query().Get("status")

	tela, err := h.service.Reservas(ctx, sessao.Token, filtro, status)
	if err != nil {
		h.falha(w, r, sessao, err)
		return
	}

	logRequest(ctx, "GET /gestor/reservas", sessao, start)
	writeJSON(w, http.StatusOK, tela)
}

func idParam(r *http.Request, nome string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, nome))
	if err != nil || id <= 0 {
		return 0, errors.New("identificador inválido")
	}
	return id, nil
}

func filtroEstacionamento(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("estacionamento")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// falha mapeia erros das operações: 401 do backend encerra a sessão e
// redireciona, validação vira 400, o restante preserva o status do
// backend quando houver.
func (h *Handler) falha(w http.ResponseWriter, r *http.Request, sessao *session.Sessao, err error) {
	if errors.Is(err, backend.ErrNaoAutorizado) {
		_ = h.sessoes.Destroy(r.Context(), sessao.ID)
		httpmiddleware.ExpirarCookie(w, h.cookieName)
		http.Redirect(w, r, httpmiddleware.RotaLogin, http.StatusSeeOther)
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
	writeUpstreamError(w, err)
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("gestor handler error")
	writeError(w, http.StatusBadGateway, "BACKEND", "falha ao falar com o backend", nil)
}

func logRequest(ctx context.Context, label string, sessao *session.Sessao, start time.Time) {
	logger := log.Ctx(ctx)
	if logger == nil {
		logger = &log.Logger
	}
	reqID := chimiddleware.GetReqID(ctx)
	logger.Info().Str("request_id", reqID).Int("usuario_id", sessao.Usuario.ID).Str("label", label).Dur("duration", time.Since(start)).Msg("gestor_request")
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
