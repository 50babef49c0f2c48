package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bloghub/bloghub/internal/fault"
	"github.com/bloghub/bloghub/internal/model"
	"github.com/bloghub/bloghub/internal/repository"
)

// BlogService orchestrates blog lifecycle operations against the blog
// and user stores, enforcing the ownership policy and keeping the
// bidirectional blog/user reference consistent.
type BlogService struct {
	blogs  BlogStore
	users  UserStore
	logger *slog.Logger
}

// NewBlogService creates a new BlogService.
func NewBlogService(blogs BlogStore, users UserStore, logger *slog.Logger) *BlogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogService{blogs: blogs, users: users, logger: logger}
}

// CreateBlogInput defines input for creating a blog.
type CreateBlogInput struct {
	Title  string
	Author string
	URL    string
	Likes  *int
}

// UpdateBlogInput defines the mutable subset of a blog. The owner is
// never part of it.
type UpdateBlogInput struct {
	Title  *string
	Author *string
	URL    *string
	Likes  *int
}

// Create validates the payload and persists a new blog owned by the
// caller. The blog write happens first; the owner-list append is only
// attempted once the blog write succeeded. A failure of the second
// write is surfaced as a partial-write fault, never as success.
func (s *BlogService) Create(ctx context.Context, identity *model.Identity, input CreateBlogInput) (*model.Blog, error) {
	if identity == nil || identity.UserID == "" {
		return nil, fault.New(fault.KindAuthentication, "authentication required")
	}

	if input.Title == "" {
		return nil, fault.Validation("title", "title is required")
	}
	if input.URL == "" {
		return nil, fault.Validation("url", "url is required")
	}

	likes := 0
	if input.Likes != nil {
		if *input.Likes < 0 {
			return nil, fault.Validation("likes", "likes must not be negative")
		}
		likes = *input.Likes
	}

	owner, err := s.users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fault.Wrap(fault.KindAuthentication, "unknown user", err)
		}
		return nil, err
	}

	now := time.Now().UTC()
	blog := &model.Blog{
		ID:        ulid.Make().String(),
		Title:     input.Title,
		Author:    input.Author,
		URL:       input.URL,
		Likes:     likes,
		Comments:  []string{},
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.blogs.CreateBlog(ctx, blog); err != nil {
		return nil, err
	}

	if err := s.users.AddOwnedBlog(ctx, owner.ID, blog.ID); err != nil {
		// The blog exists but the owner's list does not name it yet.
		// Surface the inconsistency; the reconcile sweep repairs it.
		s.logger.Error("owner list append failed after blog create",
			slog.String("blog_id", blog.ID),
			slog.String("user_id", owner.ID),
			slog.String("error", err.Error()),
		)
		return nil, fault.Wrap(fault.KindPartialWrite, "blog created but owner list update failed", err)
	}

	blog.Owner = &model.Owner{ID: owner.ID, Username: owner.Username, Name: owner.Name}
	return blog, nil
}

// Get retrieves a blog by ID.
func (s *BlogService) Get(ctx context.Context, id string) (*model.Blog, error) {
	if err := validateBlogID(id); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetBlogByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return nil, fault.Wrap(fault.KindNotFound, "blog not found", err)
		}
		return nil, err
	}

	return blog, nil
}

// List retrieves all blogs with their owners projected to the minimal
// {id, username, name} view.
func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	return s.blogs.ListBlogs(ctx)
}

// Update applies the mutable subset of the patch to an existing blog.
// The owner is always preserved from the stored record; no ownership
// check is performed.
func (s *BlogService) Update(ctx context.Context, id string, patch UpdateBlogInput) (*model.Blog, error) {
	if err := validateBlogID(id); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetBlogByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return nil, fault.Wrap(fault.KindNotFound, "blog not found", err)
		}
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, fault.Validation("title", "title must not be empty")
		}
		blog.Title = *patch.Title
	}
	if patch.Author != nil {
		blog.Author = *patch.Author
	}
	if patch.URL != nil {
		if *patch.URL == "" {
			return nil, fault.Validation("url", "url must not be empty")
		}
		blog.URL = *patch.URL
	}
	if patch.Likes != nil {
		if *patch.Likes < 0 {
			return nil, fault.Validation("likes", "likes must not be negative")
		}
		blog.Likes = *patch.Likes
	}

	blog.UpdatedAt = time.Now().UTC()

	if err := s.blogs.UpdateBlog(ctx, blog); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return nil, fault.Wrap(fault.KindNotFound, "blog not found", err)
		}
		return nil, err
	}

	return blog, nil
}

// AppendComment appends a comment to the end of the blog's comment
// list. Comments are append-only and order-preserving; no ownership
// check is performed.
func (s *BlogService) AppendComment(ctx context.Context, id, comment string) (*model.Blog, error) {
	if err := validateBlogID(id); err != nil {
		return nil, err
	}
	if comment == "" {
		return nil, fault.Validation("comment", "comment is required")
	}

	if err := s.blogs.AppendBlogComment(ctx, id, comment); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return nil, fault.Wrap(fault.KindNotFound, "blog not found", err)
		}
		return nil, err
	}

	blog, err := s.blogs.GetBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// Delete removes a blog. Only the owner may delete; a mismatch is
// reported as an ownership fault and performs no mutation. The blog
// delete happens first; the owner-list removal is only attempted once
// the delete is confirmed, so the user record never names a blog that
// was not actually removed.
func (s *BlogService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if identity == nil || identity.UserID == "" {
		return fault.New(fault.KindAuthentication, "authentication required")
	}
	if err := validateBlogID(id); err != nil {
		return err
	}

	blog, err := s.blogs.GetBlogByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return fault.Wrap(fault.KindNotFound, "blog not found", err)
		}
		return err
	}

	if blog.OwnerID != identity.UserID {
		return fault.New(fault.KindOwnership, "blog is owned by a different user")
	}

	if err := s.blogs.DeleteBlog(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return fault.Wrap(fault.KindNotFound, "blog not found", err)
		}
		return err
	}

	if err := s.users.RemoveOwnedBlog(ctx, blog.OwnerID, id); err != nil {
		// The blog is gone but the owner's list still names it.
		// Surface the inconsistency; the reconcile sweep repairs it.
		s.logger.Error("owner list removal failed after blog delete",
			slog.String("blog_id", id),
			slog.String("user_id", blog.OwnerID),
			slog.String("error", err.Error()),
		)
		return fault.Wrap(fault.KindPartialWrite, "blog deleted but owner list update failed", err)
	}

	return nil
}

// Reconcile re-derives every user's owned-blog list from the blogs
// that name them as owner, repairing partially applied mutations.
func (s *BlogService) Reconcile(ctx context.Context) (int, error) {
	repaired, err := s.users.ReconcileOwnedBlogs(ctx)
	if err != nil {
		return 0, err
	}
	if repaired > 0 {
		s.logger.Warn("ownership reconciliation repaired users",
			slog.Int("users_repaired", repaired),
		)
	}
	return repaired, nil
}

// validateBlogID rejects identifiers that do not parse as ULIDs before
// any store access is attempted.
func validateBlogID(id string) error {
	if _, err := ulid.Parse(id); err != nil {
		return fault.Wrap(fault.KindMalformedID, "malformed blog id", err)
	}
	return nil
}
