package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nearActivity/internal/chain"
	"nearActivity/internal/config"
)

const readyTimeout = 5 * time.Second

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	limit, err := ParseLimit(r, s.opts.DefaultLimit, s.opts.MaxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cursor, err := config.ParseCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.activity.GetAccountActivity(r.Context(), accountID, limit, cursor)
	if err != nil {
		s.failure(w, r, "get account activity", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	if s.node == nil {
		writeError(w, http.StatusNotFound, "node rpc not configured")
		return
	}
	accountID := chi.URLParam(r, "accountID")
	view, err := s.node.ViewAccount(r.Context(), accountID)
	if err != nil {
		s.failure(w, r, "view account", upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{AccountView: view, IsContract: view.IsContract()})
}

type accountResponse struct {
	chain.AccountView
	IsContract bool `json:"is_contract"`
}

func (s *Server) getReady(w http.ResponseWriter, r *http.Request) {
	if s.opts.DB == nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.opts.DB.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", zap.String("request_id", requestID(r)), zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	if s.node == nil {
		writeError(w, http.StatusNotFound, "node rpc not configured")
		return
	}
	status, err := s.node.Status(r.Context())
	if err != nil {
		s.failure(w, r, "node status", upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// failure logs err with the request id and writes a sanitized response.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("request_id", requestID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(operation, fields...)
	} else {
		s.logger.Info(operation, fields...)
	}
	writeError(w, status, publicMessage(operation, status, err))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
