// Package server wires the HTTP surface: the operation endpoint, login, and
// health, behind the rate-limit and auth middleware.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/dispatch"
	identityservice "business-analytics-server/internal/identity/service"
	"business-analytics-server/internal/server/middleware"
)

// LoginService authenticates credentials and issues tokens.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*identityservice.LoginResult, error)
}

// Server handles the analytics HTTP API.
type Server struct {
	dispatcher *dispatch.Dispatcher
	login      LoginService
}

// New builds the handler chain: rate limit, then bearer auth, then routing.
// limiter and tokens may not be nil; login may be nil only in tests that
// never hit /auth/login.
func New(dispatcher *dispatch.Dispatcher, login LoginService, tokens middleware.Verifier, limiter *middleware.RateLimiter) http.Handler {
	s := &Server{dispatcher: dispatcher, login: login}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /rpc", s.handleRPC)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /operations", s.handleOperations)

	return limiter.Limit(middleware.Auth(tokens)(mux))
}

// handleRPC decodes one operation request and always answers with the
// dispatch envelope. Transport-level failures (undecodable body) are the
// only 4xx this endpoint produces.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	resp := s.dispatcher.Dispatch(r.Context(), &req)
	writeJSON(w, http.StatusOK, resp)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	res, err := s.login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrAuthentication):
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
		default:
			log.Printf("server: login failed: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOperations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"operations": dispatch.Catalog()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: failed to encode response: %v", err)
	}
}
