package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"docstash/internal/models"
)

func seedUser(t *testing.T, st *Store, username string) *models.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedDocument(t *testing.T, st *Store, owner *models.User, name, filename string) *models.Document {
	t.Helper()
	now := time.Now().UTC()
	doc := &models.Document{
		Name:      name,
		Type:      string(models.DocumentTypeTranscription),
		BlobPath:  owner.Username + "/" + filename,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("seed document %s: %v", name, err)
	}
	return doc
}

func TestCreateAndListDocuments(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	bob := seedUser(t, st, "bob")

	first := seedDocument(t, st, bob, "lecture1", "lecture1.bin")
	second := seedDocument(t, st, bob, "lecture2", "lecture2.bin")
	if first.ID <= 0 || second.ID <= first.ID {
		t.Fatalf("expected increasing ids, got %d and %d", first.ID, second.ID)
	}

	docs, err := st.ListDocumentsByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Name != "lecture1" || docs[1].Name != "lecture2" {
		t.Fatalf("unexpected order: %s, %s", docs[0].Name, docs[1].Name)
	}
	if docs[0].BlobPath != "bob/lecture1.bin" {
		t.Fatalf("unexpected blob path: %s", docs[0].BlobPath)
	}
}

func TestGetDocumentScopedToOwner(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	bob := seedUser(t, st, "bob")
	eve := seedUser(t, st, "eve")

	doc := seedDocument(t, st, bob, "lecture1", "lecture1.bin")

	got, err := st.GetDocument(ctx, bob.ID, doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got == nil || got.ID != doc.ID {
		t.Fatalf("unexpected document: %+v", got)
	}

	// Someone else's id does not resolve.
	got, err = st.GetDocument(ctx, eve.ID, doc.ID)
	if err != nil {
		t.Fatalf("get document as other owner: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for foreign document, got %+v", got)
	}
}

func TestGetDocumentByBlobPath(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	bob := seedUser(t, st, "bob")
	doc := seedDocument(t, st, bob, "lecture1", "lecture1.bin")

	got, err := st.GetDocumentByBlobPath(ctx, doc.BlobPath)
	if err != nil {
		t.Fatalf("get by blob path: %v", err)
	}
	if got == nil || got.ID != doc.ID {
		t.Fatalf("unexpected document: %+v", got)
	}

	got, err = st.GetDocumentByBlobPath(ctx, "bob/unknown.bin")
	if err != nil {
		t.Fatalf("get by unknown blob path: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown blob path, got %+v", got)
	}
}

func TestCreateDocumentUniqueName(t *testing.T) {
	st := testStore(t)
	bob := seedUser(t, st, "bob")

	seedDocument(t, st, bob, "lecture1", "lecture1.bin")

	now := time.Now().UTC()
	dup := &models.Document{
		Name:      "lecture1",
		Type:      string(models.DocumentTypeStructuring),
		BlobPath:  "bob/other.bin",
		OwnerID:   bob.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := st.CreateDocument(context.Background(), dup)
	if err == nil {
		t.Fatal("expected unique violation for duplicate name")
	}
	if !strings.Contains(err.Error(), "documents.name") {
		t.Fatalf("expected documents.name in error, got %v", err)
	}
}

func TestTouchDocumentByBlobPath(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	bob := seedUser(t, st, "bob")
	doc := seedDocument(t, st, bob, "lecture1", "lecture1.bin")

	later := doc.UpdatedAt.Add(time.Hour)
	matched, err := st.TouchDocumentByBlobPath(ctx, doc.BlobPath, later)
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if !matched {
		t.Fatal("expected touch to match a row")
	}

	got, err := st.GetDocument(ctx, bob.ID, doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at %v, got %v", later, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) {
		t.Fatalf("created_at must not change: %v != %v", got.CreatedAt, doc.CreatedAt)
	}

	matched, err = st.TouchDocumentByBlobPath(ctx, "bob/unknown.bin", later)
	if err != nil {
		t.Fatalf("touch unknown: %v", err)
	}
	if matched {
		t.Fatal("expected no match for unknown blob path")
	}
}

func TestDeleteDocumentCascadesNotes(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	bob := seedUser(t, st, "bob")
	doc := seedDocument(t, st, bob, "lecture1", "lecture1.bin")
	other := seedDocument(t, st, bob, "lecture2", "lecture2.bin")

	seedNote(t, st, doc.ID, "remark1", "first")
	seedNote(t, st, doc.ID, "remark2", "second")
	kept := seedNote(t, st, other.ID, "remark3", "third")

	deleted, err := st.DeleteDocument(ctx, bob.ID, doc.ID)
	if err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if !deleted {
		t.Fatal("expected document to be deleted")
	}

	got, err := st.GetDocument(ctx, bob.ID, doc.ID)
	if err != nil {
		t.Fatalf("get deleted document: %v", err)
	}
	if got != nil {
		t.Fatalf("expected document gone, got %+v", got)
	}

	notes, err := st.ListNotesByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected notes cascade-deleted, got %d", len(notes))
	}

	// Notes of the surviving document are untouched.
	note, err := st.GetNote(ctx, kept.ID)
	if err != nil {
		t.Fatalf("get kept note: %v", err)
	}
	if note == nil {
		t.Fatal("expected unrelated note to survive")
	}
}

func TestDeleteDocumentWrongOwnerKeepsNotes(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	bob := seedUser(t, st, "bob")
	eve := seedUser(t, st, "eve")
	doc := seedDocument(t, st, bob, "lecture1", "lecture1.bin")
	note := seedNote(t, st, doc.ID, "remark1", "first")

	deleted, err := st.DeleteDocument(ctx, eve.ID, doc.ID)
	if err != nil {
		t.Fatalf("delete as wrong owner: %v", err)
	}
	if deleted {
		t.Fatal("expected no delete for foreign owner")
	}

	// The transaction must have rolled back the cascade too.
	got, err := st.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got == nil {
		t.Fatal("expected note to survive rolled-back delete")
	}
}
