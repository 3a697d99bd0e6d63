package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartpark/portal/internal/backend"
)

var (
	// ErrLoginInvalido indica resposta de login sem token.
	ErrLoginInvalido = errors.New("resposta de login sem token")
)

// Manager concentra o ciclo de vida de sessões: login, cadastro,
// leitura, renovação e logout.
type Manager struct {
	auth  *backend.AuthClient
	store Store
	ttl   time.Duration
}

func NewManager(auth *backend.AuthClient, store Store, ttl time.Duration) *Manager {
	return &Manager{auth: auth, store: store, ttl: ttl}
}

// Login autentica no serviço de auth e cria a sessão. Erros do backend
// (401 inclusive) são devolvidos ao chamador para exibição no
// formulário, nunca convertidos em redirect.
func (m *Manager) Login(ctx context.Context, email, senha, perfil string) (*Sessao, error) {
	resp, err := m.auth.Login(ctx, backend.LoginRequest{Email: email, Senha: senha, Perfil: perfil})
	if err != nil {
		return nil, err
	}
	return m.criar(ctx, resp)
}

// Register cadastra o usuário e já abre a sessão, como o fluxo de
// cadastro do portal.
func (m *Manager) Register(ctx context.Context, req backend.RegisterRequest) (*Sessao, error) {
	resp, err := m.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.criar(ctx, resp)
}

func (m *Manager) criar(ctx context.Context, resp *backend.AuthResponse) (*Sessao, error) {
	if resp.Token == "" {
		return nil, ErrLoginInvalido
	}

	now := time.Now()
	sessao := &Sessao{
		ID:       uuid.NewString(),
		Token:    resp.Token,
		Usuario:  resp.Usuario,
		CriadaEm: now,
		ExpiraEm: expiraEm(resp.Token, now, m.ttl),
	}
	if err := m.store.Save(ctx, sessao); err != nil {
		return nil, err
	}
	return sessao, nil
}

// Get devolve a sessão viva ou ErrNaoEncontrada.
func (m *Manager) Get(ctx context.Context, id string) (*Sessao, error) {
	if id == "" {
		return nil, ErrNaoEncontrada
	}
	return m.store.Get(ctx, id)
}

// Logout avisa o serviço de auth (melhor esforço) e sempre destrói o
// estado local.
func (m *Manager) Logout(ctx context.Context, id string) error {
	sessao, err := m.store.Get(ctx, id)
	if err == nil {
		if err := m.auth.Logout(ctx, sessao.Token); err != nil {
			log.Warn().Err(err).Msg("logout no serviço de auth falhou")
		}
	}
	return m.store.Delete(ctx, id)
}

// Destroy remove a sessão sem avisar o backend. Usado na política de
// 401: o token já não vale nada do outro lado.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Refresh renova o token mantendo o usuário atual. Falha destrói a
// sessão, espelhando o serviço de auth original.
func (m *Manager) Refresh(ctx context.Context, id string) (*Sessao, error) {
	sessao, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := m.auth.Refresh(ctx, sessao.Token)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return nil, err
	}
	if resp.Token == "" {
		_ = m.store.Delete(ctx, id)
		return nil, ErrLoginInvalido
	}

	sessao.Token = resp.Token
	sessao.ExpiraEm = expiraEm(resp.Token, time.Now(), m.ttl)
	if resp.Usuario != nil {
		sessao.Usuario = resp.Usuario
	}
	if err := m.store.Save(ctx, sessao); err != nil {
		return nil, err
	}
	return sessao, nil
}
