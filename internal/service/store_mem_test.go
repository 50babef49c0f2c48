package service

import (
	"context"
	"sync"

	"github.com/bloghub/bloghub/internal/model"
	"github.com/bloghub/bloghub/internal/repository"
)

// memStore is an in-memory implementation of BlogStore and UserStore
// for service tests. It returns the same sentinel errors as the real
// repository and preserves insertion order. failAddOwned and
// failRemoveOwned simulate a user-store failure after a successful
// blog-store write.
type memStore struct {
	mu              sync.Mutex
	blogs           map[string]*model.Blog
	blogOrder       []string
	users           map[string]*model.User
	userOrder       []string
	failAddOwned    error
	failRemoveOwned error
}

func newMemStore() *memStore {
	return &memStore{
		blogs: make(map[string]*model.Blog),
		users: make(map[string]*model.User),
	}
}

func (m *memStore) addUser(user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	if copied.BlogIDs == nil {
		copied.BlogIDs = []string{}
	}
	m.users[copied.ID] = &copied
	m.userOrder = append(m.userOrder, copied.ID)
}

func (m *memStore) CreateBlog(_ context.Context, blog *model.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *blog
	m.blogs[copied.ID] = &copied
	m.blogOrder = append(m.blogOrder, copied.ID)
	return nil
}

func (m *memStore) GetBlogByID(_ context.Context, id string) (*model.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blog, ok := m.blogs[id]
	if !ok {
		return nil, repository.ErrBlogNotFound
	}
	copied := *blog
	copied.Comments = append([]string(nil), blog.Comments...)
	return &copied, nil
}

func (m *memStore) ListBlogs(_ context.Context) ([]model.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blogs := make([]model.Blog, 0, len(m.blogOrder))
	for _, id := range m.blogOrder {
		blogs = append(blogs, *m.blogs[id])
	}
	return blogs, nil
}

func (m *memStore) UpdateBlog(_ context.Context, blog *model.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.blogs[blog.ID]
	if !ok {
		return repository.ErrBlogNotFound
	}
	stored.Title = blog.Title
	stored.Author = blog.Author
	stored.URL = blog.URL
	stored.Likes = blog.Likes
	stored.UpdatedAt = blog.UpdatedAt
	return nil
}

func (m *memStore) AppendBlogComment(_ context.Context, id, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	blog, ok := m.blogs[id]
	if !ok {
		return repository.ErrBlogNotFound
	}
	blog.Comments = append(blog.Comments, comment)
	return nil
}

func (m *memStore) DeleteBlog(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[id]; !ok {
		return repository.ErrBlogNotFound
	}
	delete(m.blogs, id)
	for i, bid := range m.blogOrder {
		if bid == id {
			m.blogOrder = append(m.blogOrder[:i], m.blogOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	copied := *user
	m.users[copied.ID] = &copied
	m.userOrder = append(m.userOrder, copied.ID)
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	copied.BlogIDs = append([]string(nil), user.BlogIDs...)
	return &copied, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			copied.BlogIDs = append([]string(nil), user.BlogIDs...)
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]model.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		users = append(users, *m.users[id])
	}
	return users, nil
}

func (m *memStore) AddOwnedBlog(_ context.Context, userID, blogID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAddOwned != nil {
		return m.failAddOwned
	}
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for _, id := range user.BlogIDs {
		if id == blogID {
			return nil
		}
	}
	user.BlogIDs = append(user.BlogIDs, blogID)
	return nil
}

func (m *memStore) RemoveOwnedBlog(_ context.Context, userID, blogID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRemoveOwned != nil {
		return m.failRemoveOwned
	}
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	kept := user.BlogIDs[:0]
	for _, id := range user.BlogIDs {
		if id != blogID {
			kept = append(kept, id)
		}
	}
	user.BlogIDs = kept
	return nil
}

func (m *memStore) ReconcileOwnedBlogs(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	repaired := 0
	for _, user := range m.users {
		derived := make([]string, 0)
		for _, id := range m.blogOrder {
			if m.blogs[id].OwnerID == user.ID {
				derived = append(derived, id)
			}
		}
		if !equalStrings(user.BlogIDs, derived) {
			user.BlogIDs = derived
			repaired++
		}
	}
	return repaired, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
