// Package api defines the JSON request and response shapes of the docstash
// HTTP API.
package api

import "time"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// ErrorCode is the stable numeric error identifier.
	ErrorCode int `json:"error_code,omitempty"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPayload carries one issued session token.
type TokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserSummary is the identity projection returned on register and login.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   TokenPayload `json:"token"`
	User    UserSummary  `json:"user"`
}

// DocumentRecord is one listed document including its stored content.
// Content is the hex text exactly as persisted in the blob store.
type DocumentRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Content   string    `json:"content"`
}

// DocumentListResponse is returned when listing one owner's documents.
type DocumentListResponse struct {
	Message string           `json:"message"`
	Data    []DocumentRecord `json:"data"`
}

// CreateNoteRequest attaches a note to one document.
type CreateNoteRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// NoteRecord is the denormalized note projection carrying the parent
// document's name.
type NoteRecord struct {
	ID           int64     `json:"id"`
	NoteName     string    `json:"note_name"`
	NoteContent  string    `json:"note_content"`
	DocumentName string    `json:"document_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NoteListResponse is returned when listing one owner's notes.
type NoteListResponse struct {
	Message string       `json:"message"`
	Data    []NoteRecord `json:"data"`
}

// ConfirmationResponse is returned by mutations that carry no payload.
type ConfirmationResponse struct {
	Message string `json:"message"`
}
