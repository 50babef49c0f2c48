// Package model defines domain entities for the application.
package model

import "time"

// Blog represents a blog post owned by exactly one user.
// The owner reference is set at creation and never changes afterwards.
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	Comments  []string  `json:"comments"`
	OwnerID   string    `json:"-"`
	Owner     *Owner    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner is the minimal view of a blog's owning user used on read endpoints.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}
