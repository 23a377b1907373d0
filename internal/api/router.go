package api

import (
	"net/http"

	"cryptolab/internal/auth"

	"github.com/gorilla/mux"
)

// NewRouter wires the HTTP surface the teacher exposed over gRPC:
// Register/Login, RSA key custody, Diffie-Hellman session negotiation,
// one-shot encrypt/decrypt, and a websocket streaming endpoint for
// chunked file transforms.
func NewRouter(svc *Service, issuer *auth.Issuer) *mux.Router {
	h := NewHandler(svc)
	r := mux.NewRouter()
	r.Use(AuthMiddleware(issuer))

	r.HandleFunc("/v1/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/v1/auth/login", h.Login).Methods(http.MethodPost)

	r.HandleFunc("/v1/keys/rsa", h.GenerateRSAKey).Methods(http.MethodPost)
	r.HandleFunc("/v1/keys/rsa/{id}/export", h.ExportRSAKey).Methods(http.MethodPost)

	r.HandleFunc("/v1/keys/dh", h.StartDHExchange).Methods(http.MethodPost)
	r.HandleFunc("/v1/keys/dh/{id}/complete", h.CompleteDHExchange).Methods(http.MethodPost)

	r.HandleFunc("/v1/encrypt", h.Encrypt).Methods(http.MethodPost)
	r.HandleFunc("/v1/decrypt", h.Decrypt).Methods(http.MethodPost)

	r.HandleFunc("/v1/stream/{op}", h.Stream)

	return r
}
