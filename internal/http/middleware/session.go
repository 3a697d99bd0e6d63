package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/smartpark/portal/internal/backend"
	"github.com/smartpark/portal/internal/session"
)

type contextKey string

const (
	// ContextKeySessao guarda a sessão carregada do cookie.
	ContextKeySessao contextKey = "sessao"
)

// Rotas de destino dos redirecionamentos de guarda.
const (
	RotaLogin       = "/login"
	RotaHomeGestor  = "/gestor/home"
	RotaHomeCliente = "/cliente/home"
)

// Sessions carrega a sessão apontada pelo cookie, quando existir, e a
// injeta no contexto. Não bloqueia nada; as guardas decidem.
func Sessions(manager *session.Manager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sessao, err := manager.Get(r.Context(), cookie.Value)
			if err != nil {
				// cookie órfão ou sessão expirada
				ExpirarCookie(w, cookieName)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySessao, sessao)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessao recupera a sessão do contexto, ou nil.
func GetSessao(ctx context.Context) *session.Sessao {
	val, _ := ctx.Value(ContextKeySessao).(*session.Sessao)
	return val
}

// RequireAuth redireciona não autenticados para a tela de login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSessao(r.Context()) == nil {
			http.Redirect(w, r, RotaLogin, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePerfil garante o perfil exigido pela rota. Perfil divergente
// é redirecionado para a home do próprio perfil; a guarda é função pura
// da sessão, sem outros efeitos.
func RequirePerfil(perfil string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessao := GetSessao(r.Context())
			if sessao == nil {
				http.Redirect(w, r, RotaLogin, http.StatusSeeOther)
				return
			}
			if sessao.Perfil() != perfil {
				http.Redirect(w, r, HomePerfil(sessao.Perfil()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HomePerfil devolve a home adequada ao perfil.
func HomePerfil(perfil string) string {
	if perfil == backend.PerfilGestor {
		return RotaHomeGestor
	}
	return RotaHomeCliente
}

// ExpirarCookie derruba o cookie de sessão no navegador.
func ExpirarCookie(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}
