package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"gamecatalog/internal/delivery/http/controllers"
	h "gamecatalog/internal/delivery/http/helpers"
	"gamecatalog/internal/delivery/http/middleware"
	"gamecatalog/internal/domain"
)

// RouterConfig holds the collaborators and settings NewRouter wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Auth           *controllers.AuthController
	Games          *controllers.GameController
	Favorites      *controllers.FavoriteController
	Admin          *controllers.AdminController
	AuthRateLimit  int
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(cfg.Verifier)
	requireAdmin := middleware.RequireAdmin(cfg.Verifier)
	rateLimit := middleware.RateLimitByIP(cfg.AuthRateLimit, time.Minute)

	// Auth
	mux.HandleFunc("POST /api/auth/register", rateLimit(cfg.Auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimit(cfg.Auth.Login))
	mux.HandleFunc("GET /api/auth/me", requireAuth(cfg.Auth.Me))

	// Catalog
	mux.HandleFunc("GET /api/games", cfg.Games.List)
	mux.HandleFunc("GET /api/games/search", cfg.Games.Search)
	mux.HandleFunc("GET /api/games/{id}", cfg.Games.GetByID)
	mux.HandleFunc("GET /api/games/tags", requireAuth(cfg.Games.ListTags))
	mux.HandleFunc("GET /api/games/tags/search", cfg.Games.SearchTags)
	mux.HandleFunc("POST /api/games/{gameId}/tags/{tagId}", requireAdmin(cfg.Games.AddTag))
	mux.HandleFunc("DELETE /api/games/{gameId}/tags/{tagId}", requireAdmin(cfg.Games.RemoveTag))

	// Favorites
	mux.HandleFunc("POST /api/user/favorites/game/{gameId}", requireAuth(cfg.Favorites.ToggleGame))
	mux.HandleFunc("POST /api/user/favorites/tag/{tagId}", requireAuth(cfg.Favorites.ToggleTag))
	mux.HandleFunc("GET /api/user/favorites/games", requireAuth(cfg.Favorites.ListGames))
	mux.HandleFunc("GET /api/user/favorites/tags", requireAuth(cfg.Favorites.ListTags))
	mux.HandleFunc("GET /api/user/favorites/recommendations", requireAuth(cfg.Favorites.Recommendations))

	// Admin
	mux.HandleFunc("POST /api/admin/games", requireAdmin(cfg.Admin.CreateGame))
	mux.HandleFunc("PUT /api/admin/games/{id}", requireAdmin(cfg.Admin.UpdateGame))
	mux.HandleFunc("DELETE /api/admin/games/{id}", requireAdmin(cfg.Admin.DeleteGame))
	mux.HandleFunc("POST /api/admin/games/{gameId}/tags/{tagId}", requireAdmin(cfg.Games.AddTag))
	mux.HandleFunc("DELETE /api/admin/games/{gameId}/tags/{tagId}", requireAdmin(cfg.Games.RemoveTag))
	mux.HandleFunc("POST /api/admin/tags", requireAdmin(cfg.Admin.CreateTag))
	mux.HandleFunc("GET /api/admin/tags", requireAdmin(cfg.Admin.ListTags))
	mux.HandleFunc("GET /api/admin/tags/search", requireAdmin(cfg.Admin.SearchTags))
	mux.HandleFunc("DELETE /api/admin/tags/{id}", requireAdmin(cfg.Admin.DeleteTag))
	mux.HandleFunc("PUT /api/admin/users/{username}/role", requireAdmin(cfg.Admin.PromoteUser))

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with request ids, request logging and metrics, and CORS.
func NewHandler(cfg RouterConfig) http.Handler {
	var handler http.Handler = NewRouter(cfg)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.RequestID(handler)
	return handler
}
