package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartpark/portal/internal/backend"
	"github.com/smartpark/portal/internal/format"
	httpmiddleware "github.com/smartpark/portal/internal/http/middleware"
	"github.com/smartpark/portal/internal/session"
	"github.com/smartpark/portal/internal/util"
)

type loginRequest struct {
	Email  string `json:"email"`
	Senha  string `json:"senha"`
	Perfil string `json:"perfil"`
}

type cadastroRequest struct {
	Perfil string `json:"perfil"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Senha  string `json:"senha"`
	CNPJ   string `json:"cnpj"`
}

type sessaoResponse struct {
	Usuario  *backend.Usuario `json:"usuario"`
	ExpiraEm string           `json:"expira_em"`
}

// Login autentica contra o serviço de auth e abre a sessão. Erros do
// backend viram erro de formulário; 401 aqui nunca redireciona.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	if err := util.ValidarEmail(req.Email); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := util.Obrigatorio(req.Senha, "senha"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if req.Perfil != backend.PerfilCliente && req.Perfil != backend.PerfilGestor {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "perfil inválido", nil)
		return
	}

	sessao, err := h.sessoes.Login(r.Context(), req.Email, req.Senha, req.Perfil)
	if err != nil {
		writeBackendFormError(w, err)
		return
	}

	h.setSessionCookie(w, sessao)
	WriteJSON(w, http.StatusOK, sessaoResponse{Usuario: sessao.Usuario, ExpiraEm: sessao.ExpiraEm.Format(timeFormat)})
}

// Cadastro registra o usuário e já abre a sessão.
func (h *Handler) Cadastro(w http.ResponseWriter, r *http.Request) {
	var req cadastroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	if err := util.Obrigatorio(req.Nome, "nome"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := util.ValidarEmail(req.Email); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := util.ValidarSenha(req.Senha); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if req.Perfil != backend.PerfilCliente && req.Perfil != backend.PerfilGestor {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "perfil inválido", nil)
		return
	}

	// CNPJ segue sem máscara, como o backend espera.
	var cnpj *string
	if req.CNPJ != "" {
		if err := util.ValidarCNPJ(req.CNPJ); err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		digitos := format.ApenasDigitos(req.CNPJ)
		cnpj = &digitos
	}

	sessao, err := h.sessoes.Register(r.Context(), backend.RegisterRequest{
		Perfil: req.Perfil,
		Nome:   req.Nome,
		Email:  req.Email,
		Senha:  req.Senha,
		CNPJ:   cnpj,
	})
	if err != nil {
		writeBackendFormError(w, err)
		return
	}

	h.setSessionCookie(w, sessao)
	WriteJSON(w, http.StatusCreated, sessaoResponse{Usuario: sessao.Usuario, ExpiraEm: sessao.ExpiraEm.Format(timeFormat)})
}

// Logout encerra a sessão (melhor esforço no serviço de auth) e volta
// para a tela de login.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessao := httpmiddleware.GetSessao(r.Context()); sessao != nil {
		_ = h.sessoes.Logout(r.Context(), sessao.ID)
	}
	httpmiddleware.ExpirarCookie(w, h.cfg.CookieName)
	http.Redirect(w, r, httpmiddleware.RotaLogin, http.StatusSeeOther)
}

// Me devolve o perfil corrente direto do serviço de auth.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sessao := httpmiddleware.GetSessao(r.Context())

	usuario, err := h.api.Auth.Me(r.Context(), sessao.Token)
	if err != nil {
		if errors.Is(err, backend.ErrNaoAutorizado) {
			h.encerrarSessao(w, r, sessao.ID)
			return
		}
		writeBackendFormError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, usuario)
}

// Refresh renova o token da sessão. Falha derruba a sessão.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	sessao := httpmiddleware.GetSessao(r.Context())

	renovada, err := h.sessoes.Refresh(r.Context(), sessao.ID)
	if err != nil {
		httpmiddleware.ExpirarCookie(w, h.cfg.CookieName)
		if errors.Is(err, backend.ErrNaoAutorizado) || errors.Is(err, session.ErrNaoEncontrada) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "sessão expirada", nil)
			return
		}
		writeBackendFormError(w, err)
		return
	}

	h.setSessionCookie(w, renovada)
	WriteJSON(w, http.StatusOK, sessaoResponse{Usuario: renovada.Usuario, ExpiraEm: renovada.ExpiraEm.Format(timeFormat)})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessao *session.Sessao) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    sessao.ID,
		Path:     "/",
		Expires:  sessao.ExpiraEm,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// encerrarSessao aplica a política de 401 vindo do backend: limpa o
// estado local e manda o navegador para o login.
func (h *Handler) encerrarSessao(w http.ResponseWriter, r *http.Request, sessaoID string) {
	_ = h.sessoes.Destroy(r.Context(), sessaoID)
	httpmiddleware.ExpirarCookie(w, h.cfg.CookieName)
	http.Redirect(w, r, httpmiddleware.RotaLogin, http.StatusSeeOther)
}

// writeBackendFormError traduz erros do backend para o envelope,
// preservando o status e a mensagem do payload quando existirem.
func writeBackendFormError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		code := "BACKEND"
		if apiErr.Status == http.StatusUnauthorized {
			code = "CREDENCIAIS"
		}
		WriteError(w, apiErr.Status, code, apiErr.Error(), nil)
		return
	}
	WriteError(w, http.StatusBadGateway, "BACKEND", err.Error(), nil)
}
