package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docstash/internal/blobstore"
	"docstash/internal/models"
	"docstash/internal/store"
)

// DocumentService orchestrates document metadata rows and their content
// blobs. Metadata lives in the store, content in the blob store; every
// mutation keeps the pair consistent with a compensating action or ordering.
type DocumentService struct {
	store store.DocumentStore
	blobs blobstore.BlobStore
}

// DocumentWithContent pairs one metadata row with its stored content text.
type DocumentWithContent struct {
	models.Document
	Content string
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(documentStore store.DocumentStore, blobs blobstore.BlobStore) *DocumentService {
	return &DocumentService{store: documentStore, blobs: blobs}
}

// Create validates the type, writes the blob exclusively at the locator
// derived from the owner's namespace, then inserts the metadata row. A blob
// already occupying the locator is a conflict, never a silent overwrite.
// If the metadata insert fails the freshly written blob is removed again.
func (s *DocumentService) Create(ctx context.Context, owner *models.User, name, docType, filename string, content []byte) (*models.Document, error) {
	if s == nil || s.store == nil || s.blobs == nil {
		return nil, internalError(fmt.Errorf("document service is not configured"))
	}
	if owner == nil {
		return nil, internalError(fmt.Errorf("owner is required"))
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequestCode(fmt.Errorf("document name is required"), ErrCodeMissingRequired)
	}
	parsedType, err := models.ParseDocumentType(docType)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeInvalidDocumentType)
	}

	key, err := s.blobs.Key(owner.Username, filename)
	if err != nil {
		return nil, badRequest(err)
	}

	if err := s.blobs.Create(ctx, key, content); err != nil {
		if errors.Is(err, blobstore.ErrExists) {
			return nil, conflictCode(fmt.Errorf("%s already exists", filename), ErrCodeBlobExists)
		}
		return nil, blobFailure(err)
	}

	now := time.Now().UTC()
	doc := &models.Document{
		Name:      name,
		Type:      string(parsedType),
		BlobPath:  key,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		// Compensate: the metadata row never landed, so the blob must go too.
		_ = s.blobs.Delete(ctx, key)
		switch {
		case isUniqueConstraint(err, "documents.name"):
			return nil, conflictCode(fmt.Errorf("document name already exists"), ErrCodeDocumentNameExists)
		case isUniqueConstraint(err, "documents.blob_path"):
			return nil, conflictCode(fmt.Errorf("%s already exists", filename), ErrCodeBlobExists)
		default:
			return nil, storeFailure(err)
		}
	}

	return doc, nil
}

// ListByOwner returns all of one owner's documents with their stored content.
func (s *DocumentService) ListByOwner(ctx context.Context, ownerID int64) ([]DocumentWithContent, error) {
	if s == nil || s.store == nil || s.blobs == nil {
		return nil, internalError(fmt.Errorf("document service is not configured"))
	}

	docs, err := s.store.ListDocumentsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeFailure(err)
	}

	out := make([]DocumentWithContent, 0, len(docs))
	for _, doc := range docs {
		content, err := s.blobs.Read(ctx, doc.BlobPath)
		if err != nil {
			return nil, blobFailure(fmt.Errorf("read %s: %w", doc.BlobPath, err))
		}
		out = append(out, DocumentWithContent{Document: doc, Content: content})
	}
	return out, nil
}

// Get returns one document scoped to (owner, id), or nil when absent for
// that owner.
func (s *DocumentService) Get(ctx context.Context, ownerID, documentID int64) (*models.Document, error) {
	if s == nil || s.store == nil {
		return nil, internalError(fmt.Errorf("document service is not configured"))
	}
	doc, err := s.store.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return doc, nil
}

// ReplaceContent uploads a new content version keyed by the locator derived
// from the owner's namespace and the original filename. When no metadata row
// references the locator nothing is written and false is returned; the blob
// on disk is only touched for a known document.
func (s *DocumentService) ReplaceContent(ctx context.Context, owner *models.User, filename string, content []byte) (bool, error) {
	if s == nil || s.store == nil || s.blobs == nil {
		return false, internalError(fmt.Errorf("document service is not configured"))
	}
	if owner == nil {
		return false, internalError(fmt.Errorf("owner is required"))
	}

	key, err := s.blobs.Key(owner.Username, filename)
	if err != nil {
		return false, badRequest(err)
	}

	doc, err := s.store.GetDocumentByBlobPath(ctx, key)
	if err != nil {
		return false, storeFailure(err)
	}
	if doc == nil {
		return false, nil
	}

	if err := s.blobs.Replace(ctx, key, content); err != nil {
		return false, blobFailure(err)
	}
	matched, err := s.store.TouchDocumentByBlobPath(ctx, key, time.Now().UTC())
	if err != nil {
		return false, storeFailure(err)
	}
	return matched, nil
}

// Delete removes one document, its notes, and its blob. The metadata
// transaction (cascade note delete + row delete) must commit before the blob
// is physically removed, so a failed delete never orphans metadata.
func (s *DocumentService) Delete(ctx context.Context, ownerID, documentID int64) (bool, error) {
	if s == nil || s.store == nil || s.blobs == nil {
		return false, internalError(fmt.Errorf("document service is not configured"))
	}

	doc, err := s.store.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return false, storeFailure(err)
	}
	if doc == nil {
		return false, nil
	}

	deleted, err := s.store.DeleteDocument(ctx, ownerID, documentID)
	if err != nil {
		return false, storeFailure(err)
	}
	if !deleted {
		return false, nil
	}

	if err := s.blobs.Delete(ctx, doc.BlobPath); err != nil {
		return true, blobFailure(fmt.Errorf("delete blob %s: %w", doc.BlobPath, err))
	}
	return true, nil
}
