package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	myErrors "cryptolab/internal/errors"
	"cryptolab/rsa"

	"github.com/gorilla/mux"
)

// Handler exposes Service's operations over HTTP, the role the
// teacher's ChatHandler played over its ChatServiceServer.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, myErrors.ErrOperatorNotFound), errors.Is(err, myErrors.ErrKeyNotFound), errors.Is(err, myErrors.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, myErrors.ErrInvalidPassphrase):
		return http.StatusForbidden
	case errors.Is(err, myErrors.ErrOperatorExists):
		return http.StatusConflict
	case errors.Is(err, myErrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, myErrors.ErrUnsupportedCipher):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type credentialsRequest struct {
	Username   string `json:"username"`
	Passphrase string `json:"passphrase"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slog.Info("register request received", "username", req.Username)
	operatorID, err := h.svc.Register(r.Context(), req.Username, req.Passphrase)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	token, err := h.svc.issuer.GenerateToken(operatorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"operator_id": operatorID, "token": token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slog.Info("login request received", "username", req.Username)
	token, err := h.svc.Login(r.Context(), req.Username, req.Passphrase)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type rsaKeyGenRequest struct {
	Label          string  `json:"label"`
	PrimeTestKind  string  `json:"prime_test_kind"`
	BitLength      int     `json:"bit_length"`
	MinProbability float64 `json:"min_prime_probability"`
}

func parsePrimeTestKind(name string) (rsa.PrimeTestKind, error) {
	switch name {
	case "Fermat":
		return rsa.Fermat, nil
	case "SolovayStrassen", "Solovay-Strassen":
		return rsa.SolovayStrassen, nil
	case "MillerRabin", "Miller-Rabin":
		return rsa.MillerRabin, nil
	default:
		return 0, errors.New("api: unknown prime_test_kind")
	}
}

func (h *Handler) GenerateRSAKey(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := OperatorID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing operator id")
		return
	}

	var req rsaKeyGenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := parsePrimeTestKind(req.PrimeTestKind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	keyID, pub, err := h.svc.GenerateRSAKey(r.Context(), operatorID, RSAKeyGenRequest{
		Label:          req.Label,
		TestKind:       kind,
		BitLength:      req.BitLength,
		MinProbability: req.MinProbability,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"key_id": keyID,
		"n_hex":  pub.N.Text(16),
		"e_hex":  pub.E.Text(16),
	})
}

func (h *Handler) ExportRSAKey(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := OperatorID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing operator id")
		return
	}
	keyID := mux.Vars(r)["id"]

	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	priv, err := h.svc.ExportRSAKey(r.Context(), operatorID, keyID, req.Passphrase)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"n_hex": priv.Public.N.Text(16),
		"e_hex": priv.Public.E.Text(16),
		"d_hex": priv.D.Text(16),
		"p_hex": priv.P.Text(16),
		"q_hex": priv.Q.Text(16),
	})
}

type dhStartRequest struct {
	BitLength    int    `json:"bit_length,omitempty"`
	PrimeHex     string `json:"prime_hex,omitempty"`
	GeneratorHex string `json:"generator_hex,omitempty"`
}

func (h *Handler) StartDHExchange(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := OperatorID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing operator id")
		return
	}

	var req dhStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BitLength == 0 {
		req.BitLength = 512
	}

	sessionID, publicKey, err := h.svc.StartDHExchange(r.Context(), operatorID, req.BitLength, req.PrimeHex, req.GeneratorHex)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": sessionID,
		"public_hex": publicKey.Text(16),
	})
}

func (h *Handler) CompleteDHExchange(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := OperatorID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing operator id")
		return
	}
	sessionID := mux.Vars(r)["id"]

	var req struct {
		PeerPublicHex string `json:"peer_public_hex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shared, err := h.svc.CompleteDHExchange(r.Context(), operatorID, sessionID, req.PeerPublicHex)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shared_secret_hex": shared.Text(16)})
}

type cipherRequest struct {
	CipherSpec
	DataHex string `json:"data_hex"`
}

func (h *Handler) Encrypt(w http.ResponseWriter, r *http.Request) {
	h.runCipher(w, r, h.svc.Encrypt)
}

func (h *Handler) Decrypt(w http.ResponseWriter, r *http.Request) {
	h.runCipher(w, r, h.svc.Decrypt)
}

func (h *Handler) runCipher(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, operatorID string, spec CipherSpec, data []byte) ([]byte, error)) {
	operatorID, ok := OperatorID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing operator id")
		return
	}

	var req cipherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	data, err := hex.DecodeString(req.DataHex)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid data_hex")
		return
	}

	out, err := run(r.Context(), operatorID, req.CipherSpec, data)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"data_hex": hex.EncodeToString(out)})
}
