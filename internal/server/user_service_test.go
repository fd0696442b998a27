package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"docstash/internal/auth"
	"docstash/internal/models"
	"docstash/internal/token"
)

// fakeUserStore keeps users in memory and mimics the unique constraints the
// real schema enforces.
type fakeUserStore struct {
	nextID int64
	users  []*models.User

	createErr error
}

func (f *fakeUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return nil, fmt.Errorf("constraint failed: UNIQUE constraint failed: users.email")
		}
		if u.Username == username {
			return nil, fmt.Errorf("constraint failed: UNIQUE constraint failed: users.username")
		}
	}
	f.nextID++
	user := &models.User{ID: f.nextID, Username: username, Email: email, PasswordHash: passwordHash}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newTestUserService(t *testing.T) (*UserService, *fakeUserStore) {
	t.Helper()
	issuer, err := token.NewIssuer("test-secret", 0)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	fake := &fakeUserStore{}
	return NewUserService(fake, issuer), fake
}

func requireStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	if got := httpStatusFromError(err); got != want {
		t.Fatalf("expected status %d, got %d (%v)", want, got, err)
	}
}

func requireErrorCode(t *testing.T, err error, want int) {
	t.Helper()
	var apiErr apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apiError, got %v", err)
	}
	if apiErr.errCode != want {
		t.Fatalf("expected error code %d, got %d (%v)", want, apiErr.errCode, err)
	}
}

func TestUserServiceRegister(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("creates account and issues token", func(t *testing.T) {
		svc, fake := newTestUserService(t)

		user, signed, err := svc.Register(ctx, " Bob ", "Bob@Example.com", "pw123", now)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if user.Username != "bob" || user.Email != "bob@example.com" {
			t.Fatalf("expected normalized identity, got %s / %s", user.Username, user.Email)
		}
		if user.PasswordHash == "pw123" {
			t.Fatal("password hash must not be the plaintext")
		}
		if !auth.VerifyPassword(user.PasswordHash, "pw123") {
			t.Fatal("stored hash must verify the original password")
		}

		subject, err := svc.issuer.Verify(signed)
		if err != nil {
			t.Fatalf("verify issued token: %v", err)
		}
		if subject != "bob" {
			t.Fatalf("expected subject bob, got %q", subject)
		}
		if len(fake.users) != 1 {
			t.Fatalf("expected 1 stored user, got %d", len(fake.users))
		}
	})

	t.Run("rejects bad username", func(t *testing.T) {
		svc, _ := newTestUserService(t)
		_, _, err := svc.Register(ctx, "bad/name", "bob@example.com", "pw123", now)
		requireStatus(t, err, http.StatusBadRequest)
		requireErrorCode(t, err, ErrCodeInvalidUsername)
	})

	t.Run("rejects bad email", func(t *testing.T) {
		svc, _ := newTestUserService(t)
		_, _, err := svc.Register(ctx, "bob", "not-an-email", "pw123", now)
		requireStatus(t, err, http.StatusBadRequest)
		requireErrorCode(t, err, ErrCodeInvalidEmail)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _ := newTestUserService(t)
		_, _, err := svc.Register(ctx, "bob", "bob@example.com", "pw", now)
		requireStatus(t, err, http.StatusBadRequest)
		requireErrorCode(t, err, ErrCodeInvalidPassword)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newTestUserService(t)
		if _, _, err := svc.Register(ctx, "bob", "bob@example.com", "pw123", now); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, _, err := svc.Register(ctx, "robert", "bob@example.com", "pw123", now)
		requireStatus(t, err, http.StatusConflict)
		requireErrorCode(t, err, ErrCodeEmailExists)
	})

	t.Run("maps racing username constraint to conflict", func(t *testing.T) {
		svc, fake := newTestUserService(t)
		fake.createErr = fmt.Errorf("constraint failed: UNIQUE constraint failed: users.username")
		_, _, err := svc.Register(ctx, "bob", "bob@example.com", "pw123", now)
		requireStatus(t, err, http.StatusConflict)
		requireErrorCode(t, err, ErrCodeUsernameExists)
	})
}

func TestUserServiceLogin(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	svc, _ := newTestUserService(t)
	if _, _, err := svc.Register(ctx, "bob", "bob@example.com", "pw123", now); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("issues token for valid credentials", func(t *testing.T) {
		user, signed, err := svc.Login(ctx, "bob", "pw123", now)
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if user.Username != "bob" {
			t.Fatalf("unexpected user: %+v", user)
		}
		subject, err := svc.issuer.Verify(signed)
		if err != nil || subject != "bob" {
			t.Fatalf("expected valid token for bob, got %q (%v)", subject, err)
		}
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost", "pw123", now)
		requireStatus(t, err, http.StatusNotFound)
		requireErrorCode(t, err, ErrCodeUserNotFound)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "bob", "wrong", now)
		requireStatus(t, err, http.StatusUnauthorized)
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	svc, fake := newTestUserService(t)
	if _, _, err := svc.Register(ctx, "bob", "bob@example.com", "pw123", now); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("resolves valid token", func(t *testing.T) {
		signed, err := svc.issuer.Issue("bob", now)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		user, err := svc.Authenticate(ctx, signed)
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if user.Username != "bob" {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "garbage")
		requireStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		signed, err := svc.issuer.Issue("bob", now.Add(-token.DefaultTTL-time.Hour))
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		_, err = svc.Authenticate(ctx, signed)
		requireStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("dangling subject is not found", func(t *testing.T) {
		signed, err := svc.issuer.Issue("bob", now)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		fake.users = nil

		_, err = svc.Authenticate(ctx, signed)
		requireStatus(t, err, http.StatusNotFound)
		requireErrorCode(t, err, ErrCodeUserNotFound)
	})
}
