package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/herring101/docs-mcp/internal/apperr"
	"github.com/herring101/docs-mcp/internal/search"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps query errors to a status code. The body carries the same
// text the MCP tools return.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidPattern):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrProviderNotConfigured), errors.Is(err, apperr.ErrNoEmbeddings):
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperr.ErrProvider):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		slog.Error("api request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, status, errorBody(search.ErrorText(err)))
}
