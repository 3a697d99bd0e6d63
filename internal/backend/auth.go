package backend

import (
	"context"
	"fmt"
	"net/http"
)

// AuthClient fala com o serviço de autenticação.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

// LoginRequest é o corpo de POST /auth/login.
type LoginRequest struct {
	Email  string `json:"email"`
	Senha  string `json:"senha"`
	Perfil string `json:"perfil"`
}

// RegisterRequest é o corpo de POST /auth/register. CNPJ é opcional
// e só faz sentido para o perfil gestor.
type RegisterRequest struct {
	Perfil string  `json:"perfil"`
	Nome   string  `json:"nome"`
	Email  string  `json:"email"`
	Senha  string  `json:"senha"`
	CNPJ   *string `json:"cnpj"`
}

// AuthResponse é a resposta de login, register e refresh.
type AuthResponse struct {
	Token   string   `json:"token"`
	Usuario *Usuario `json:"usuario"`
}

func (a *AuthClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("cadastro: %w", err)
	}
	return &resp, nil
}

// Logout avisa o serviço de auth; o chamador limpa o estado local
// independentemente do resultado.
func (a *AuthClient) Logout(ctx context.Context, token string) error {
	if err := a.client.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (a *AuthClient) Me(ctx context.Context, token string) (*Usuario, error) {
	var usuario Usuario
	if err := a.client.do(ctx, http.MethodGet, "/auth/me", token, nil, &usuario); err != nil {
		return nil, fmt.Errorf("buscar usuário: %w", err)
	}
	return &usuario, nil
}

func (a *AuthClient) Refresh(ctx context.Context, token string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/refresh", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("renovar token: %w", err)
	}
	return &resp, nil
}
