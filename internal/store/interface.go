package store

import (
	"context"
	"time"

	"docstash/internal/models"
)

// UserStore is the persistence surface required by the credential service.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// DocumentStore is the persistence surface required by the document service.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	ListDocumentsByOwner(ctx context.Context, ownerID int64) ([]models.Document, error)
	GetDocument(ctx context.Context, ownerID, documentID int64) (*models.Document, error)
	GetDocumentByBlobPath(ctx context.Context, blobPath string) (*models.Document, error)
	TouchDocumentByBlobPath(ctx context.Context, blobPath string, now time.Time) (bool, error)
	DeleteDocument(ctx context.Context, ownerID, documentID int64) (bool, error)
}

// NoteStore is the persistence surface required by the note service.
type NoteStore interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, noteID int64) (*models.Note, error)
	ListNotesByDocument(ctx context.Context, documentID int64) ([]models.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID int64) ([]models.UserNote, error)
	DeleteNotesByDocument(ctx context.Context, documentID int64) error
	DeleteNoteOwned(ctx context.Context, ownerID, noteID int64) (bool, error)
}
