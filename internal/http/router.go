package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/smartpark/portal/internal/backend"
	"github.com/smartpark/portal/internal/cliente"
	"github.com/smartpark/portal/internal/config"
	"github.com/smartpark/portal/internal/gestor"
	httpmiddleware "github.com/smartpark/portal/internal/http/middleware"
	"github.com/smartpark/portal/internal/session"
)

// Handler concentra as dependências das rotas do portal.
type Handler struct {
	cfg           *config.Config
	sessoes       *session.Manager
	api           *backend.API
	publicLimiter *httpmiddleware.RateLimiter
	sessaoLimiter *httpmiddleware.RateLimiter
}

// NewRouter devolve o roteador configurado do portal: rotas públicas
// de autenticação e as telas guardadas de gestor e cliente.
func NewRouter(cfg *config.Config, sessoes *session.Manager, api *backend.API) http.Handler {
	h := &Handler{
		cfg:           cfg,
		sessoes:       sessoes,
		api:           api,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublico.RequestsPerSecond, cfg.RateLimitPublico.Burst),
		sessaoLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitSessao.RequestsPerSecond, cfg.RateLimitSessao.Burst),
	}

	gestorHandler := gestor.NewHandler(gestor.NewService(api), sessoes, cfg.CookieName)
	clienteHandler := cliente.NewHandler(cliente.NewService(api), sessoes, cfg.CookieName)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Sessions(sessoes, cfg.CookieName))
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, httpmiddleware.RotaLogin, http.StatusSeeOther)
		})
		public.Post("/login", h.Login)
		public.Post("/cadastro", h.Cadastro)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.RequireAuth)
		private.Use(httpmiddleware.SessionRateLimit(h.sessaoLimiter))

		private.Post("/logout", h.Logout)
		private.Get("/me", h.Me)
		private.Post("/refresh", h.Refresh)

		private.Group(func(g chi.Router) {
			g.Use(httpmiddleware.RequirePerfil(backend.PerfilGestor))
			g.Route("/gestor", func(r chi.Router) {
				gestorHandler.RegisterRoutes(r)
			})
		})

		private.Group(func(c chi.Router) {
			c.Use(httpmiddleware.RequirePerfil(backend.PerfilCliente))
			c.Route("/cliente", func(r chi.Router) {
				clienteHandler.RegisterRoutes(r)
			})
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
