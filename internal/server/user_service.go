package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	internalauth "docstash/internal/auth"
	"docstash/internal/models"
	"docstash/internal/store"
	"docstash/internal/token"
)

var errInvalidCredentials = errors.New("invalid credentials")

// UserService implements registration, login, and token resolution over the
// credential store and the session issuer.
type UserService struct {
	store  store.UserStore
	issuer *token.Issuer
}

// NewUserService constructs a UserService.
func NewUserService(userStore store.UserStore, issuer *token.Issuer) *UserService {
	return &UserService{store: userStore, issuer: issuer}
}

// Register creates one account and issues its first session token. The email
// is checked for prior registration before the insert; the unique constraint
// backstops the check under concurrent registration.
func (s *UserService) Register(ctx context.Context, username, email, password string, now time.Time) (*models.User, string, error) {
	if s == nil || s.store == nil || s.issuer == nil {
		return nil, "", internalError(fmt.Errorf("user service is not configured"))
	}

	normalizedUsername, err := internalauth.NormalizeUsername(username)
	if err != nil {
		return nil, "", badRequestCode(err, ErrCodeInvalidUsername)
	}
	normalizedEmail, err := internalauth.NormalizeEmail(email)
	if err != nil {
		return nil, "", badRequestCode(err, ErrCodeInvalidEmail)
	}
	if err := internalauth.ValidatePassword(password); err != nil {
		return nil, "", badRequestCode(err, ErrCodeInvalidPassword)
	}

	existing, err := s.store.GetUserByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, "", storeFailure(err)
	}
	if existing != nil {
		return nil, "", conflictCode(fmt.Errorf("email already registered"), ErrCodeEmailExists)
	}

	hash, err := internalauth.HashPassword(password)
	if err != nil {
		return nil, "", internalError(err)
	}

	user, err := s.store.CreateUser(ctx, normalizedUsername, normalizedEmail, hash)
	if err != nil {
		switch {
		case isUniqueConstraint(err, "users.email"):
			return nil, "", conflictCode(fmt.Errorf("email already registered"), ErrCodeEmailExists)
		case isUniqueConstraint(err, "users.username"):
			return nil, "", conflictCode(fmt.Errorf("username already taken"), ErrCodeUsernameExists)
		default:
			return nil, "", storeFailure(err)
		}
	}

	signed, err := s.issuer.Issue(user.Username, now)
	if err != nil {
		return nil, "", internalError(err)
	}
	return user, signed, nil
}

// Login verifies credentials and issues a fresh session token. An unknown
// username and a wrong password stay distinguishable for the client.
func (s *UserService) Login(ctx context.Context, username, password string, now time.Time) (*models.User, string, error) {
	if s == nil || s.store == nil || s.issuer == nil {
		return nil, "", internalError(fmt.Errorf("user service is not configured"))
	}

	normalized, err := internalauth.NormalizeUsername(username)
	if err != nil {
		return nil, "", badRequestCode(err, ErrCodeInvalidUsername)
	}

	user, err := s.store.GetUserByUsername(ctx, normalized)
	if err != nil {
		return nil, "", storeFailure(err)
	}
	if user == nil {
		return nil, "", notFoundCode(fmt.Errorf("user not found"), ErrCodeUserNotFound)
	}
	if !internalauth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", unauthorized(errInvalidCredentials)
	}

	signed, err := s.issuer.Issue(user.Username, now)
	if err != nil {
		return nil, "", internalError(err)
	}
	return user, signed, nil
}

// Authenticate resolves a presented session token back to its user record.
// Invalid or expired tokens are unauthorized; a dangling subject (user gone
// after issuance) is reported as not found.
func (s *UserService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	if s == nil || s.store == nil || s.issuer == nil {
		return nil, internalError(fmt.Errorf("user service is not configured"))
	}

	subject, err := s.issuer.Verify(rawToken)
	if err != nil {
		return nil, unauthorized(fmt.Errorf("could not validate credentials"))
	}

	user, err := s.store.GetUserByUsername(ctx, subject)
	if err != nil {
		return nil, storeFailure(err)
	}
	if user == nil {
		return nil, notFoundCode(fmt.Errorf("user not found"), ErrCodeUserNotFound)
	}
	return user, nil
}
