package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docstash/internal/models"
)

// CreateNote inserts one note row and fills in the storage-assigned id.
// Note names are globally unique; the constraint violation surfaces to the
// caller, which maps it to a conflict.
func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	if note == nil {
		return fmt.Errorf("note is required")
	}
	if strings.TrimSpace(note.Name) == "" {
		return fmt.Errorf("note name is required")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (name, content, document_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		note.Name,
		note.Content,
		note.DocumentID,
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	note.ID = id
	return nil
}

// GetNote returns one note by id, or nil if absent.
func (s *Store) GetNote(ctx context.Context, noteID int64) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, content, document_id, created_at, updated_at
		FROM notes
		WHERE id = ?
		LIMIT 1
	`, noteID)
	return scanNote(row)
}

// ListNotesByDocument returns all notes of one document in insertion order.
func (s *Store) ListNotesByDocument(ctx context.Context, documentID int64) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, content, document_id, created_at, updated_at
		FROM notes
		WHERE document_id = ?
		ORDER BY id ASC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		if note == nil {
			continue
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListNotesByOwner returns the denormalized note projection for every
// document owned by one user, grouped by the owner's document listing order.
func (s *Store) ListNotesByOwner(ctx context.Context, ownerID int64) ([]models.UserNote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.name, n.content, d.name, n.created_at, n.updated_at
		FROM notes n
		JOIN documents d ON d.id = n.document_id
		WHERE d.owner_id = ?
		ORDER BY d.id ASC, n.id ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.UserNote, 0)
	for rows.Next() {
		var note models.UserNote
		var createdAt string
		var updatedAt string
		if err := rows.Scan(&note.ID, &note.NoteName, &note.Content, &note.DocumentName, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		parsedCreated, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		parsedUpdated, err := parseTime(updatedAt)
		if err != nil {
			return nil, err
		}
		note.CreatedAt = parsedCreated
		note.UpdatedAt = parsedUpdated
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// DeleteNotesByDocument bulk-deletes all notes of one document. Used only as
// the cascade step of document deletion.
func (s *Store) DeleteNotesByDocument(ctx context.Context, documentID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM notes
		WHERE document_id = ?
	`, documentID)
	return err
}

// DeleteNoteOwned deletes one note only when its parent document belongs to
// the given owner. Returns false when the note is absent or owned elsewhere.
func (s *Store) DeleteNoteOwned(ctx context.Context, ownerID, noteID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM notes
		WHERE id = ?
		  AND document_id IN (SELECT id FROM documents WHERE owner_id = ?)
	`, noteID, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func scanNote(scanner interface {
	Scan(dest ...any) error
}) (*models.Note, error) {
	var note models.Note
	var createdAt string
	var updatedAt string
	if err := scanner.Scan(&note.ID, &note.Name, &note.Content, &note.DocumentID, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	parsedCreated, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	parsedUpdated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	note.CreatedAt = parsedCreated
	note.UpdatedAt = parsedUpdated
	return &note, nil
}
