package handler

import (
	"log/slog"
	"net/http"

	"github.com/bloghub/bloghub/internal/service"
	"github.com/bloghub/bloghub/internal/stats"
)

// StatsHandler serves aggregate statistics computed over the full blog
// collection.
type StatsHandler struct {
	svc    *service.BlogService
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *service.BlogService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

type statsResponse struct {
	TotalBlogs   int                `json:"total_blogs"`
	TotalLikes   int                `json:"total_likes"`
	FavoriteBlog *stats.Favorite    `json:"favorite_blog"`
	MostBlogs    *stats.AuthorCount `json:"most_blogs"`
	MostLikes    *stats.AuthorLikes `json:"most_likes"`
}

// Get handles GET /api/stats. All aggregates are computed over a single
// snapshot of the collection, so the numbers are mutually consistent.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.svc.List(r.Context())
	if err != nil {
		writeFault(w, h.logger, err)
		return
	}

	resp := statsResponse{
		TotalBlogs: len(blogs),
		TotalLikes: stats.TotalLikes(blogs),
	}
	if fav, ok := stats.FavoriteBlog(blogs); ok {
		resp.FavoriteBlog = &fav
	}
	if mb, ok := stats.MostBlogs(blogs); ok {
		resp.MostBlogs = &mb
	}
	if ml, ok := stats.MostLikes(blogs); ok {
		resp.MostLikes = &ml
	}

	writeJSON(w, http.StatusOK, resp)
}
