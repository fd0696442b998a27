package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docstash/internal/models"
	"docstash/internal/store"
)

// NoteService manages text annotations attached to documents. The parent
// document must exist and belong to the caller for every operation, including
// delete; unscoped note deletion is deliberately not exposed.
type NoteService struct {
	notes     store.NoteStore
	documents store.DocumentStore
}

// NewNoteService constructs a NoteService.
func NewNoteService(noteStore store.NoteStore, documentStore store.DocumentStore) *NoteService {
	return &NoteService{notes: noteStore, documents: documentStore}
}

// Create attaches one note to a document owned by owner. Note names are
// globally unique across all documents, matching the persisted schema.
func (s *NoteService) Create(ctx context.Context, owner *models.User, documentID int64, name, content string) (*models.Note, error) {
	if s == nil || s.notes == nil || s.documents == nil {
		return nil, internalError(fmt.Errorf("note service is not configured"))
	}
	if owner == nil {
		return nil, internalError(fmt.Errorf("owner is required"))
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequestCode(fmt.Errorf("note name is required"), ErrCodeMissingRequired)
	}

	doc, err := s.documents.GetDocument(ctx, owner.ID, documentID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if doc == nil {
		return nil, notFoundCode(fmt.Errorf("document not found"), ErrCodeDocumentNotFound)
	}

	now := time.Now().UTC()
	note := &models.Note{
		Name:       name,
		Content:    content,
		DocumentID: doc.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		if isUniqueConstraint(err, "notes.name") {
			return nil, conflictCode(fmt.Errorf("note name already exists"), ErrCodeNoteNameExists)
		}
		return nil, storeFailure(err)
	}
	return note, nil
}

// ListByOwner returns the denormalized notes of every document the owner has,
// grouped in document listing order.
func (s *NoteService) ListByOwner(ctx context.Context, ownerID int64) ([]models.UserNote, error) {
	if s == nil || s.notes == nil {
		return nil, internalError(fmt.Errorf("note service is not configured"))
	}
	notes, err := s.notes.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return notes, nil
}

// Delete removes one note after checking, via the note's parent document,
// that it belongs to the caller. A note owned by someone else is reported as
// absent, never as forbidden.
func (s *NoteService) Delete(ctx context.Context, owner *models.User, noteID int64) error {
	if s == nil || s.notes == nil {
		return internalError(fmt.Errorf("note service is not configured"))
	}
	if owner == nil {
		return internalError(fmt.Errorf("owner is required"))
	}

	deleted, err := s.notes.DeleteNoteOwned(ctx, owner.ID, noteID)
	if err != nil {
		return storeFailure(err)
	}
	if !deleted {
		return notFoundCode(fmt.Errorf("note not found"), ErrCodeNoteNotFound)
	}
	return nil
}
