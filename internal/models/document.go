package models

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType classifies what processing a document went through.
type DocumentType string

const (
	DocumentTypeTranscription DocumentType = "transcription"
	DocumentTypeStructuring   DocumentType = "structuring"
)

var validDocumentTypes = map[DocumentType]struct{}{
	DocumentTypeTranscription: {},
	DocumentTypeStructuring:   {},
}

// ParseDocumentType validates a raw document type value.
func ParseDocumentType(raw string) (DocumentType, error) {
	value := DocumentType(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("document type is required")
	}
	if _, ok := validDocumentTypes[value]; !ok {
		return "", fmt.Errorf("invalid document type: %s", value)
	}
	return value, nil
}

// Document is one owned binary artifact. BlobPath is the unique locator of
// the stored content inside the blob store; exactly one blob exists per
// locator. A document always has exactly one owner.
type Document struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	BlobPath  string    `json:"-"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
