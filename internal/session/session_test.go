package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartpark/portal/internal/backend"
)

func tokenComExp(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo-do-auth"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestMemoryStoreExpiracao(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	viva := &Sessao{ID: "viva", Token: "t", ExpiraEm: time.Now().Add(time.Hour)}
	morta := &Sessao{ID: "morta", Token: "t", ExpiraEm: time.Now().Add(-time.Minute)}

	if err := store.Save(ctx, viva); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, morta); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, "viva"); err != nil {
		t.Fatalf("sessão viva: %v", err)
	}
	if _, err := store.Get(ctx, "morta"); !errors.Is(err, ErrNaoEncontrada) {
		t.Fatalf("esperava ErrNaoEncontrada, veio %v", err)
	}
	if _, err := store.Get(ctx, "inexistente"); !errors.Is(err, ErrNaoEncontrada) {
		t.Fatalf("esperava ErrNaoEncontrada, veio %v", err)
	}

	if err := store.Delete(ctx, "viva"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "viva"); !errors.Is(err, ErrNaoEncontrada) {
		t.Fatalf("sessão apagada deveria sumir, veio %v", err)
	}
}

func TestMemoryStoreDevolveCopia(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := &Sessao{ID: "s1", Token: "t", Usuario: &backend.Usuario{ID: 1}, ExpiraEm: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, original); err != nil {
		t.Fatal(err)
	}

	lida, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	lida.Token = "alterado"

	denovo, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if denovo.Token != "t" {
		t.Fatal("mutação do chamador não deveria vazar para o store")
	}
}

func autServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req backend.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Senha != "senha-certa" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "message": "Credenciais inválidas"})
			return
		}
		json.NewEncoder(w).Encode(backend.AuthResponse{
			Token:   token,
			Usuario: &backend.Usuario{ID: 1, Perfil: backend.PerfilCliente, Nome: "Ana", Email: req.Email},
		})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux)
}

func newTestManager(t *testing.T, srvURL string, ttl time.Duration) *Manager {
	t.Helper()
	client, err := backend.NewClient(srvURL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return NewManager(backend.NewAuthClient(client), NewMemoryStore(), ttl)
}

func TestManagerLogin(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute)
	srv := autServer(t, tokenComExp(t, exp))
	defer srv.Close()

	manager := newTestManager(t, srv.URL, 24*time.Hour)

	sessao, err := manager.Login(context.Background(), "ana@exemplo.com", "senha-certa", backend.PerfilCliente)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sessao.ID == "" || sessao.Token == "" {
		t.Fatalf("sessão incompleta: %+v", sessao)
	}
	if sessao.Perfil() != backend.PerfilCliente {
		t.Fatalf("perfil errado: %q", sessao.Perfil())
	}

	// o exp do JWT é menor que o TTL configurado e deve prevalecer
	if diff := sessao.ExpiraEm.Sub(exp); diff < -time.Second || diff > time.Second {
		t.Fatalf("expiração deveria seguir o exp do token, veio %v", sessao.ExpiraEm)
	}

	lida, err := manager.Get(context.Background(), sessao.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lida.Token != sessao.Token {
		t.Fatal("token divergente na leitura")
	}
}

func TestManagerLoginInvalido(t *testing.T) {
	srv := autServer(t, tokenComExp(t, time.Now().Add(time.Hour)))
	defer srv.Close()

	manager := newTestManager(t, srv.URL, time.Hour)

	_, err := manager.Login(context.Background(), "ana@exemplo.com", "senha-errada", backend.PerfilCliente)
	if !errors.Is(err, backend.ErrNaoAutorizado) {
		t.Fatalf("esperava ErrNaoAutorizado, veio %v", err)
	}
}

func TestManagerTTLMenorQueExp(t *testing.T) {
	srv := autServer(t, tokenComExp(t, time.Now().Add(48*time.Hour)))
	defer srv.Close()

	ttl := time.Hour
	manager := newTestManager(t, srv.URL, ttl)

	sessao, err := manager.Login(context.Background(), "ana@exemplo.com", "senha-certa", backend.PerfilCliente)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	limite := time.Now().Add(ttl)
	if diff := sessao.ExpiraEm.Sub(limite); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("expiração deveria seguir o TTL, veio %v", sessao.ExpiraEm)
	}
}

func TestManagerLogoutDerrubaSessao(t *testing.T) {
	srv := autServer(t, tokenComExp(t, time.Now().Add(time.Hour)))
	defer srv.Close()

	manager := newTestManager(t, srv.URL, time.Hour)

	sessao, err := manager.Login(context.Background(), "ana@exemplo.com", "senha-certa", backend.PerfilCliente)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := manager.Logout(context.Background(), sessao.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := manager.Get(context.Background(), sessao.ID); !errors.Is(err, ErrNaoEncontrada) {
		t.Fatalf("sessão deveria ter sumido, veio %v", err)
	}
}
