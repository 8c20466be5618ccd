package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"Waver/internal/core/users"
)

type stubDirectory struct {
	users map[string]*users.User
}

func (d *stubDirectory) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	if u, ok := d.users[username]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func (d *stubDirectory) GetByID(ctx context.Context, id int64) (*users.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (d *stubDirectory) Create(ctx context.Context, user *users.User) error {
	d.users[user.Username] = user
	return nil
}

func newAuthFixture(t *testing.T) (*BasicAuthMiddleware, http.Handler, *int64) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("P4ssword"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	dir := &stubDirectory{users: map[string]*users.User{
		"alice": {ID: 7, Username: "alice", PasswordHash: string(hash)},
	}}

	var seenID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	return NewBasicAuthMiddleware(dir), next, &seenID
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	m, next, _ := newAuthFixture(t)

	rec := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_WrongPassword(t *testing.T) {
	m, next, seenID := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "wrong")

	rec := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if *seenID != 0 {
		t.Error("next handler should not have run")
	}
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	m, next, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("mallory", "P4ssword")

	rec := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_ValidCredentials(t *testing.T) {
	m, next, seenID := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "P4ssword")

	rec := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *seenID != 7 {
		t.Errorf("expected user id 7 in context, got %d", *seenID)
	}
}

func TestGetUserID_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetUserID(req); got != 0 {
		t.Errorf("expected 0 for bare request, got %d", got)
	}
}
