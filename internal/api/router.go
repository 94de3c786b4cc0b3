package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/emiliohtp1/tienda-backend/internal/auth"
	"github.com/emiliohtp1/tienda-backend/internal/domain"
)

// NewRouter wires all handlers behind the shared middleware stack. The cart
// and checkout routes require any authenticated user; catalog writes need
// editor, user administration needs admin.
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	catalogHandler *CatalogHandler,
	cartHandler *CartHandler,
	tokens *auth.TokenManager,
	log *zap.Logger,
	requestTimeout time.Duration,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/users", userHandler.Create)

		r.Get("/products", catalogHandler.List)
		r.Get("/products/{product_id}", catalogHandler.Get)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens))

			r.With(RequireRole(domain.RoleEditor)).Post("/products", catalogHandler.Create)

			r.With(RequireRole(domain.RoleAdmin)).Get("/users", userHandler.List)
			r.With(RequireRole(domain.RoleAdmin)).Put("/users/{username}/role", userHandler.UpdateRole)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.Clear)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
				r.Post("/checkout", cartHandler.Checkout)
			})
		})
	})

	return r
}
