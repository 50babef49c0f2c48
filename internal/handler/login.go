package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bloghub/bloghub/internal/handler/dto"
	"github.com/bloghub/bloghub/internal/service"
)

// LoginHandler handles HTTP requests for authentication.
type LoginHandler struct {
	svc    *service.LoginService
	logger *slog.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(svc *service.LoginService, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{svc: svc, logger: logger}
}

// Login handles POST /api/login.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	})
}
