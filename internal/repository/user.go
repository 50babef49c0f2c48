package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/bloghub/bloghub/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
)

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, name, password_hash, blog_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		user.PasswordHash,
		pq.Array(user.BlogIDs),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, username, name, password_hash, blog_ids, created_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, name, password_hash, blog_ids, created_at
		FROM users
		WHERE username = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// ListUsers retrieves all users in creation order.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT id, username, name, password_hash, blog_ids, created_at
		FROM users
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// AddOwnedBlog appends blogID to the user's ordered blog-id set in a
// single statement. Adding an id that is already present is a no-op, so
// concurrent creates against the same user cannot lose or duplicate
// entries.
func (r *Repository) AddOwnedBlog(ctx context.Context, userID, blogID string) error {
	query := `
		UPDATE users
		SET blog_ids = CASE
			WHEN blog_ids @> ARRAY[$2] THEN blog_ids
			ELSE array_append(blog_ids, $2)
		END
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, blogID)
	if err != nil {
		return fmt.Errorf("failed to add owned blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// RemoveOwnedBlog removes blogID from the user's blog-id set in a
// single statement.
func (r *Repository) RemoveOwnedBlog(ctx context.Context, userID, blogID string) error {
	query := `
		UPDATE users
		SET blog_ids = array_remove(blog_ids, $2)
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, blogID)
	if err != nil {
		return fmt.Errorf("failed to remove owned blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ReconcileOwnedBlogs re-derives every user's blog-id set from the
// blogs whose owner_id matches, repairing any partially applied
// create/delete. Returns the number of users whose set changed.
func (r *Repository) ReconcileOwnedBlogs(ctx context.Context) (int, error) {
	query := `
		UPDATE users u
		SET blog_ids = COALESCE(d.ids, '{}')
		FROM users u2
		LEFT JOIN (
			SELECT owner_id, array_agg(id ORDER BY created_at, id) AS ids
			FROM blogs
			GROUP BY owner_id
		) d ON d.owner_id = u2.id
		WHERE u.id = u2.id
		  AND u.blog_ids IS DISTINCT FROM COALESCE(d.ids, '{}')
	`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile owned blogs: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// scanUser scans a user row.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var blogIDs []string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
		pq.Array(&blogIDs),
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if blogIDs == nil {
		blogIDs = []string{}
	}
	user.BlogIDs = blogIDs

	return &user, nil
}
