package model

import "time"

// User represents an account that owns zero or more blogs.
// BlogIDs is an ordered, append-only set of owned blog identifiers;
// entries are removed only when the referenced blog is deleted.
// PasswordHash is opaque to everything except the auth package and is
// never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	BlogIDs      []string  `json:"blogs"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the resolved caller identity attached to a request after
// bearer-token verification.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
