package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/model"
	"github.com/bloghub/bloghub/internal/repository"
	"github.com/bloghub/bloghub/internal/service"
)

// fakeStore is an in-memory stand-in for the Postgres repository. It
// preserves insertion order and mirrors the owner projection the real
// repository performs on reads.
type fakeStore struct {
	mu        sync.Mutex
	blogs     map[string]*model.Blog
	blogOrder []string
	users     map[string]*model.User
	userOrder []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		blogs: make(map[string]*model.Blog),
		users: make(map[string]*model.User),
	}
}

func (s *fakeStore) CreateBlog(ctx context.Context, blog *model.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *blog
	s.blogs[blog.ID] = &cp
	s.blogOrder = append(s.blogOrder, blog.ID)
	return nil
}

func (s *fakeStore) GetBlogByID(ctx context.Context, id string) (*model.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blog, ok := s.blogs[id]
	if !ok {
		return nil, repository.ErrBlogNotFound
	}
	cp := *blog
	cp.Comments = append([]string(nil), blog.Comments...)
	s.projectOwner(&cp)
	return &cp, nil
}

func (s *fakeStore) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Blog, 0, len(s.blogOrder))
	for _, id := range s.blogOrder {
		cp := *s.blogs[id]
		cp.Comments = append([]string(nil), s.blogs[id].Comments...)
		s.projectOwner(&cp)
		out = append(out, cp)
	}
	return out, nil
}

func (s *fakeStore) UpdateBlog(ctx context.Context, blog *model.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.blogs[blog.ID]
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

func (s *fakeStore) AppendBlogComment(ctx context.Context, id, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blog, ok := s.blogs[id]
	if !ok {
		return repository.ErrBlogNotFound
	}
	blog.Comments = append(blog.Comments, comment)
	return nil
}

func (s *fakeStore) DeleteBlog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[id]; !ok {
		return repository.ErrBlogNotFound
	}
	delete(s.blogs, id)
	for i, bid := range s.blogOrder {
		if bid == id {
			s.blogOrder = append(s.blogOrder[:i], s.blogOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *fakeStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *user
	cp.BlogIDs = append([]string(nil), user.BlogIDs...)
	return &cp, nil
}

func (s *fakeStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			cp := *user
			cp.BlogIDs = append([]string(nil), user.BlogIDs...)
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		cp := *s.users[id]
		cp.BlogIDs = append([]string(nil), s.users[id].BlogIDs...)
		out = append(out, cp)
	}
	return out, nil
}

func (s *fakeStore) AddOwnedBlog(ctx context.Context, userID, blogID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
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

func (s *fakeStore) RemoveOwnedBlog(ctx context.Context, userID, blogID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for i, id := range user.BlogIDs {
		if id == blogID {
			user.BlogIDs = append(user.BlogIDs[:i], user.BlogIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) ReconcileOwnedBlogs(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	repaired := 0
	for _, user := range s.users {
		derived := make([]string, 0)
		for _, id := range s.blogOrder {
			if s.blogs[id].OwnerID == user.ID {
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

// projectOwner mirrors the JOIN the repository does on blog reads.
// Callers must hold s.mu.
func (s *fakeStore) projectOwner(blog *model.Blog) {
	if owner, ok := s.users[blog.OwnerID]; ok {
		blog.Owner = &model.Owner{ID: owner.ID, Username: owner.Username, Name: owner.Name}
	}
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

// testEnv wires real services over the fake store behind a chi router,
// so requests travel the same path they would in production minus the
// token verification.
type testEnv struct {
	store  *fakeStore
	router *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	logger := discardLogger()

	blogSvc := service.NewBlogService(store, store, logger)
	userSvc := service.NewUserService(store, logger)

	blogs := NewBlogHandler(blogSvc, logger)
	users := NewUserHandler(userSvc, logger)
	statsH := NewStatsHandler(blogSvc, logger)
	admin := NewAdminHandler(blogSvc, logger)

	r := chi.NewRouter()
	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", blogs.List)
		r.Get("/{id}", blogs.Get)
		r.With(injectIdentity(store)).Post("/", blogs.Create)
		r.Put("/{id}", blogs.Update)
		r.Post("/{id}/comments", blogs.AddComment)
		r.With(injectIdentity(store)).Delete("/{id}", blogs.Delete)
	})
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Post("/", users.Create)
	})
	r.Get("/api/stats", statsH.Get)
	r.With(injectIdentity(store)).Post("/api/admin/reconcile", admin.Reconcile)

	return &testEnv{store: store, router: r}
}

// injectIdentity stands in for the auth middleware: it resolves the
// X-User-ID header against the store and injects the identity.
func injectIdentity(store *fakeStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			identity := &model.Identity{UserID: userID}
			if user, err := store.GetUserByID(r.Context(), userID); err == nil {
				identity.Username = user.Username
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) addUser(t *testing.T, username, name string) *model.User {
	t.Helper()
	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		Name:         name,
		PasswordHash: "unused",
		BlogIDs:      []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *testEnv) addBlog(t *testing.T, ownerID, title, author string, likes int) *model.Blog {
	t.Helper()
	now := time.Now().UTC()
	blog := &model.Blog{
		ID:        ulid.Make().String(),
		Title:     title,
		Author:    author,
		URL:       "https://example.com/" + title,
		Likes:     likes,
		Comments:  []string{},
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.CreateBlog(context.Background(), blog); err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	if err := e.store.AddOwnedBlog(context.Background(), ownerID, blog.ID); err != nil {
		t.Fatalf("seed owner list: %v", err)
	}
	return blog
}
