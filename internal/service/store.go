// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/bloghub/bloghub/internal/model"
)

// BlogStore is the durable keyed storage for blog records.
// *repository.Repository satisfies it; tests substitute in-memory
// fakes.
type BlogStore interface {
	CreateBlog(ctx context.Context, blog *model.Blog) error
	GetBlogByID(ctx context.Context, id string) (*model.Blog, error)
	ListBlogs(ctx context.Context) ([]model.Blog, error)
	UpdateBlog(ctx context.Context, blog *model.Blog) error
	AppendBlogComment(ctx context.Context, id, comment string) error
	DeleteBlog(ctx context.Context, id string) error
}

// UserStore is the durable keyed storage for user records. Each user
// holds an ordered set of owned blog identifiers; AddOwnedBlog and
// RemoveOwnedBlog are single atomic store operations so concurrent
// mutations of the same user's set cannot lose updates.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	AddOwnedBlog(ctx context.Context, userID, blogID string) error
	RemoveOwnedBlog(ctx context.Context, userID, blogID string) error
	ReconcileOwnedBlogs(ctx context.Context) (int, error)
}
