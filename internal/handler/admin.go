package handler

import (
	"log/slog"
	"net/http"

	"github.com/bloghub/bloghub/internal/service"
)

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	svc    *service.BlogService
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc *service.BlogService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// Reconcile handles POST /api/admin/reconcile. It re-derives every
// user's owned-blog list from the blogs table, repairing any drift left
// behind by interrupted writes.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	repaired, err := h.svc.Reconcile(r.Context())
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	h.logger.Info("reconcile_completed", slog.Int("users_repaired", repaired))

	writeJSON(w, http.StatusOK, map[string]int{"users_repaired": repaired})
}
