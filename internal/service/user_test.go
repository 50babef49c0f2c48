package service

import (
	"context"
	"testing"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/fault"
)

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newMemStore(), nil)

	tests := []struct {
		name      string
		input     CreateUserInput
		wantField string
	}{
		{"missing_username", CreateUserInput{Password: "sekret"}, "username"},
		{"short_username", CreateUserInput{Username: "ab", Password: "sekret"}, "username"},
		{"missing_password", CreateUserInput{Username: "root"}, "password"},
		{"short_password", CreateUserInput{Username: "root", Password: "ab"}, "password"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), test.input)
			if fault.KindOf(err) != fault.KindValidation {
				t.Fatalf("expected validation fault, got %v", err)
			}
			if got := fault.FieldOf(err); got != test.wantField {
				t.Errorf("fault field = %q, want %q", got, test.wantField)
			}
		})
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := NewUserService(newMemStore(), nil)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username: "root",
		Name:     "Superuser",
		Password: "sekret",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.PasswordHash == "sekret" {
		t.Fatal("password stored in plaintext")
	}
	match, err := auth.VerifyPassword("sekret", user.PasswordHash)
	if err != nil || !match {
		t.Errorf("stored hash should verify the original password (match=%v, err=%v)", match, err)
	}
	if user.BlogIDs == nil || len(user.BlogIDs) != 0 {
		t.Errorf("new user should start with an empty blog list, got %v", user.BlogIDs)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, nil)

	if _, err := svc.Create(context.Background(), CreateUserInput{Username: "root", Password: "sekret"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateUserInput{Username: "root", Password: "other"})
	if fault.KindOf(err) != fault.KindDuplicateUsername {
		t.Errorf("expected duplicate-username fault, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, nil)

	for _, name := range []string{"alice", "bob"} {
		if _, err := svc.Create(context.Background(), CreateUserInput{Username: name, Password: "sekret"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("users out of creation order: %s, %s", users[0].Username, users[1].Username)
	}
}
