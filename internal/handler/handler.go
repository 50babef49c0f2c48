// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bloghub/bloghub/internal/fault"
	"github.com/bloghub/bloghub/internal/handler/dto"
)

// Handler wraps application-level handlers that need no service
// dependencies.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello is a simple info endpoint.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Hello from Bloghub!",
		"version": "0.1.0",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "unknown endpoint",
	}
	writeJSON(w, http.StatusNotFound, response)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "method not allowed",
	}
	writeJSON(w, http.StatusMethodNotAllowed, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeFault maps a classified error to its stable HTTP status. The
// taxonomy is closed, so this switch is the only place the transport
// needs to know about failure kinds.
func writeFault(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := fault.KindOf(err)

	var status int
	switch kind {
	case fault.KindMalformedID, fault.KindValidation, fault.KindDuplicateUsername:
		status = http.StatusBadRequest
	case fault.KindAuthentication:
		status = http.StatusUnauthorized
	case fault.KindOwnership:
		status = http.StatusForbidden
	case fault.KindNotFound:
		status = http.StatusNotFound
	case fault.KindPartialWrite:
		// Never collapsed into success; the reconcile sweep repairs
		// the stores, the caller learns the mutation half-applied.
		logger.Error("partially applied mutation", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
	default:
		logger.Error("internal error", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, dto.ErrorResponse{
		Error: fault.MessageOf(err),
		Code:  kind.String(),
		Field: fault.FieldOf(err),
	})
}
