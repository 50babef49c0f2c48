// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/bloghub/bloghub/internal/model"
)

// CreateBlogRequest represents the request body for creating a blog.
type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes,omitempty"`
}

// UpdateBlogRequest represents the request body for updating a blog.
// There is deliberately no owner/user field; any such value in the
// payload is dropped before it reaches the service.
type UpdateBlogRequest struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	URL    *string `json:"url,omitempty"`
	Likes  *int    `json:"likes,omitempty"`
}

// AddCommentRequest represents the request body for appending a comment.
type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// OwnerResponse is the minimal owner view on blog read endpoints.
type OwnerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// BlogResponse represents a blog in API responses.
type BlogResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Author    string         `json:"author,omitempty"`
	URL       string         `json:"url"`
	Likes     int            `json:"likes"`
	Comments  []string       `json:"comments"`
	User      *OwnerResponse `json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// ToBlogResponse converts a Blog model to BlogResponse DTO.
func ToBlogResponse(blog *model.Blog) *BlogResponse {
	resp := &BlogResponse{
		ID:        blog.ID,
		Title:     blog.Title,
		Author:    blog.Author,
		URL:       blog.URL,
		Likes:     blog.Likes,
		Comments:  blog.Comments,
		CreatedAt: blog.CreatedAt,
		UpdatedAt: blog.UpdatedAt,
	}
	if resp.Comments == nil {
		resp.Comments = []string{}
	}
	if blog.Owner != nil {
		resp.User = &OwnerResponse{
			ID:       blog.Owner.ID,
			Username: blog.Owner.Username,
			Name:     blog.Owner.Name,
		}
	}
	return resp
}

// ToBlogListResponse converts a slice of blogs.
func ToBlogListResponse(blogs []model.Blog) []*BlogResponse {
	out := make([]*BlogResponse, 0, len(blogs))
	for i := range blogs {
		out = append(out, ToBlogResponse(&blogs[i]))
	}
	return out
}
