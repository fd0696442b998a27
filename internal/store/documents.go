package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"docstash/internal/models"
)

// CreateDocument inserts one document metadata row and fills in the
// storage-assigned id.
func (s *Store) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	if strings.TrimSpace(doc.Name) == "" {
		return fmt.Errorf("document name is required")
	}
	if strings.TrimSpace(doc.BlobPath) == "" {
		return fmt.Errorf("blob path is required")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, type, blob_path, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		doc.Name,
		doc.Type,
		doc.BlobPath,
		doc.OwnerID,
		formatTime(doc.CreatedAt),
		formatTime(doc.UpdatedAt),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	doc.ID = id
	return nil
}

// ListDocumentsByOwner returns all documents owned by one user in insertion order.
func (s *Store) ListDocumentsByOwner(ctx context.Context, ownerID int64) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, blob_path, owner_id, created_at, updated_at
		FROM documents
		WHERE owner_id = ?
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocument returns one document scoped to both owner and id. A document
// owned by a different user is reported as absent, never as forbidden.
func (s *Store) GetDocument(ctx context.Context, ownerID, documentID int64) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, blob_path, owner_id, created_at, updated_at
		FROM documents
		WHERE owner_id = ? AND id = ?
		LIMIT 1
	`, ownerID, documentID)
	return scanDocument(row)
}

// GetDocumentByBlobPath returns the document whose content lives at the given
// blob locator, or nil if no metadata row references it.
func (s *Store) GetDocumentByBlobPath(ctx context.Context, blobPath string) (*models.Document, error) {
	blobPath = strings.TrimSpace(blobPath)
	if blobPath == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, blob_path, owner_id, created_at, updated_at
		FROM documents
		WHERE blob_path = ?
		LIMIT 1
	`, blobPath)
	return scanDocument(row)
}

// TouchDocumentByBlobPath refreshes updated_at on the row matching one blob
// locator. Returns false when no row matched.
func (s *Store) TouchDocumentByBlobPath(ctx context.Context, blobPath string, now time.Time) (bool, error) {
	blobPath = strings.TrimSpace(blobPath)
	if blobPath == "" {
		return false, fmt.Errorf("blob path is required")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET updated_at = ?
		WHERE blob_path = ?
	`, formatTime(now), blobPath)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// DeleteDocument removes one document scoped to (owner, id) together with all
// its notes inside a single transaction. When the document does not exist for
// that owner the transaction is rolled back and no note is touched.
func (s *Store) DeleteDocument(ctx context.Context, ownerID, documentID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM notes
		WHERE document_id = ?
	`, documentID); err != nil {
		return false, err
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `
		DELETE FROM documents
		WHERE owner_id = ? AND id = ?
	`, ownerID, documentID)
	if err != nil {
		return false, err
	}
	var affected int64
	affected, err = result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected != 1 {
		_ = tx.Rollback()
		return false, nil
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func scanDocument(scanner interface {
	Scan(dest ...any) error
}) (*models.Document, error) {
	var doc models.Document
	var createdAt string
	var updatedAt string
	if err := scanner.Scan(&doc.ID, &doc.Name, &doc.Type, &doc.BlobPath, &doc.OwnerID, &createdAt, &updatedAt); err != nil {
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
	doc.CreatedAt = parsedCreated
	doc.UpdatedAt = parsedUpdated
	return &doc, nil
}
