package models

import "time"

// Note is one text annotation attached to a single document.
// Note names are globally unique, matching the persisted schema.
type Note struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	DocumentID int64     `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserNote is the denormalized note projection returned when listing all
// notes of one owner, carrying the parent document's name.
type UserNote struct {
	ID           int64     `json:"id"`
	NoteName     string    `json:"note_name"`
	Content      string    `json:"note_content"`
	DocumentName string    `json:"document_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
