package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/bloghub/bloghub/internal/model"
)

// Common errors for blog repository operations.
var (
	ErrBlogNotFound = errors.New("blog not found")
)

// CreateBlog inserts a new blog into the database.
func (r *Repository) CreateBlog(ctx context.Context, blog *model.Blog) error {
	query := `
		INSERT INTO blogs (id, title, author, url, likes, comments, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		blog.ID,
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		pq.Array(blog.Comments),
		blog.OwnerID,
		blog.CreatedAt,
		blog.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	return nil
}

// GetBlogByID retrieves a blog by its ID, with the owner projected to
// the minimal {id, username, name} view.
func (r *Repository) GetBlogByID(ctx context.Context, id string) (*model.Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.comments, b.owner_id,
		       b.created_at, b.updated_at, u.username, u.name
		FROM blogs b
		JOIN users u ON u.id = b.owner_id
		WHERE b.id = $1
	`

	blog, err := scanBlog(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to get blog by ID: %w", err)
	}

	return blog, nil
}

// ListBlogs retrieves all blogs in creation order, each with its owner
// projected to the minimal view.
func (r *Repository) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.comments, b.owner_id,
		       b.created_at, b.updated_at, u.username, u.name
		FROM blogs b
		JOIN users u ON u.id = b.owner_id
		ORDER BY b.created_at, b.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]model.Blog, 0)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blogs: %w", err)
	}

	return blogs, nil
}

// UpdateBlog persists the mutable fields of a blog. The owner column is
// deliberately not part of the statement.
func (r *Repository) UpdateBlog(ctx context.Context, blog *model.Blog) error {
	query := `
		UPDATE blogs
		SET title = $2, author = $3, url = $4, likes = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		blog.ID,
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		blog.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}

	return nil
}

// AppendBlogComment appends a comment to the blog's comment list in a
// single statement, preserving append order under concurrent writers.
func (r *Repository) AppendBlogComment(ctx context.Context, id, comment string) error {
	query := `
		UPDATE blogs
		SET comments = array_append(comments, $2), updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, comment)
	if err != nil {
		return fmt.Errorf("failed to append comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}

	return nil
}

// DeleteBlog removes a blog permanently.
func (r *Repository) DeleteBlog(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}

	return nil
}

// scanBlog scans a blog row joined with its owner projection.
func scanBlog(row pgx.Row) (*model.Blog, error) {
	var blog model.Blog
	var owner model.Owner
	var comments []string

	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Author,
		&blog.URL,
		&blog.Likes,
		pq.Array(&comments),
		&blog.OwnerID,
		&blog.CreatedAt,
		&blog.UpdatedAt,
		&owner.Username,
		&owner.Name,
	)
	if err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []string{}
	}
	blog.Comments = comments
	owner.ID = blog.OwnerID
	blog.Owner = &owner

	return &blog, nil
}
