package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler carries the shared dependencies for the root-level endpoints.
type Handler struct {
	pool        *pgxpool.Pool
	frontendURL string
}

func New(pool *pgxpool.Pool, frontendURL string) *Handler {
	return &Handler{pool: pool, frontendURL: frontendURL}
}

// Root handles GET / with a welcome message.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the ContactHub API"})
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.frontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
