package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware that lets the storefront front end call the API.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionIDHeader, "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{SessionIDHeader, "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
