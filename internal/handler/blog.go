package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/handler/dto"
	"github.com/bloghub/bloghub/internal/service"
)

// BlogHandler handles HTTP requests for blog operations.
type BlogHandler struct {
	svc    *service.BlogService
	logger *slog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{svc: svc, logger: logger}
}

// List handles GET /api/blogs.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.svc.List(r.Context())
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBlogListResponse(blogs))
}

// Get handles GET /api/blogs/{id}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBlogResponse(blog))
}

// Create handles POST /api/blogs.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	identity := auth.IdentityFromContext(r.Context())

	blog, err := h.svc.Create(r.Context(), identity, service.CreateBlogInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	h.logger.Info("blog_created",
		slog.String("blog_id", blog.ID),
		slog.String("user_id", identity.UserID),
	)

	writeJSON(w, http.StatusCreated, dto.ToBlogResponse(blog))
}

// Update handles PUT /api/blogs/{id}.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")

	blog, err := h.svc.Update(r.Context(), id, service.UpdateBlogInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	h.logger.Info("blog_updated", slog.String("blog_id", id))

	writeJSON(w, http.StatusOK, dto.ToBlogResponse(blog))
}

// AddComment handles POST /api/blogs/{id}/comments.
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")

	blog, err := h.svc.AppendComment(r.Context(), id, req.Comment)
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBlogResponse(blog))
}

// Delete handles DELETE /api/blogs/{id}.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := auth.IdentityFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), identity, id); err != nil {
		writeFault(w, h.logger, err)
		return
	}

	h.logger.Info("blog_deleted",
		slog.String("blog_id", id),
		slog.String("user_id", identity.UserID),
	)

	w.WriteHeader(http.StatusNoContent)
}
