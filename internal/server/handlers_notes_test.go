package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"docstash/internal/api"
)

func seedTestDocument(t *testing.T, srv *Server, bearer, name, filename string) api.DocumentRecord {
	t.Helper()
	w := doUpload(t, srv, http.MethodPost, "/v1/me/documents", bearer,
		map[string]string{"name": name, "type": "transcription"}, filename, []byte("content"))
	if w.Code != http.StatusCreated {
		t.Fatalf("seed document %s: expected 201, got %d (%s)", name, w.Code, w.Body.String())
	}
	docs := listDocuments(t, srv, bearer)
	for _, doc := range docs {
		if doc.Name == name {
			return doc
		}
	}
	t.Fatalf("seeded document %s not listed", name)
	return api.DocumentRecord{}
}

func listNotes(t *testing.T, srv *Server, bearer string) []api.NoteRecord {
	t.Helper()
	w := doJSON(t, srv, http.MethodGet, "/v1/me/notes", bearer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list notes: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp api.NoteListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode note list: %v", err)
	}
	return resp.Data
}

func TestCreateAndListNotes(t *testing.T) {
	srv := newTestServer(t)
	bearer := registerTestUser(t, srv, "bob", "bob@x.com", "pw123")
	doc := seedTestDocument(t, srv, bearer, "lecture1", "lecture1.bin")

	w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+itoa(doc.ID)+"/notes", bearer,
		api.CreateNoteRequest{Name: "remark1", Content: "check the intro"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create note: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	notes := listNotes(t, srv, bearer)
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	note := notes[0]
	if note.NoteName != "remark1" || note.NoteContent != "check the intro" {
		t.Fatalf("unexpected note: %+v", note)
	}
	if note.DocumentName != "lecture1" {
		t.Fatalf("expected document name lecture1, got %q", note.DocumentName)
	}
}

func TestCreateNoteValidation(t *testing.T) {
	srv := newTestServer(t)
	bearer := registerTestUser(t, srv, "bob", "bob@x.com", "pw123")
	doc := seedTestDocument(t, srv, bearer, "lecture1", "lecture1.bin")

	t.Run("missing name", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+itoa(doc.ID)+"/notes", bearer,
			api.CreateNoteRequest{Content: "body only"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
		}
		errResp := decodeError(t, w)
		if errResp.ErrorCode != ErrCodeMissingRequired {
			t.Fatalf("expected error code %d, got %d", ErrCodeMissingRequired, errResp.ErrorCode)
		}
	})

	t.Run("unknown document", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/99999/notes", bearer,
			api.CreateNoteRequest{Name: "remark1", Content: "x"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
		}
		errResp := decodeError(t, w)
		if errResp.ErrorCode != ErrCodeDocumentNotFound {
			t.Fatalf("expected error code %d, got %d", ErrCodeDocumentNotFound, errResp.ErrorCode)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+itoa(doc.ID)+"/notes", bearer,
			api.CreateNoteRequest{Name: "remark-dup", Content: "x"})
		if w.Code != http.StatusCreated {
			t.Fatalf("first create: expected 201, got %d (%s)", w.Code, w.Body.String())
		}
		w = doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+itoa(doc.ID)+"/notes", bearer,
			api.CreateNoteRequest{Name: "remark-dup", Content: "y"})
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d (%s)", w.Code, w.Body.String())
		}
		errResp := decodeError(t, w)
		if errResp.ErrorCode != ErrCodeNoteNameExists {
			t.Fatalf("expected error code %d, got %d", ErrCodeNoteNameExists, errResp.ErrorCode)
		}
	})
}

func TestCreateNoteOnForeignDocument(t *testing.T) {
	srv := newTestServer(t)
	bob := registerTestUser(t, srv, "bob", "bob@x.com", "pw123")
	eve := registerTestUser(t, srv, "eve", "eve@x.com", "pw123")
	doc := seedTestDocument(t, srv, bob, "lecture1", "lecture1.bin")

	// Someone else's document reads as absent.
	w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+itoa(doc.ID)+"/notes", eve,
		api.CreateNoteRequest{Name: "intruder", Content: "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}

	if notes := listNotes(t, srv, bob); len(notes) != 0 {
		t.Fatalf("expected no notes on bob's document, got %d", len(notes))
	}
}

func TestDeleteNote(t *testing.T) {
	srv := newTestServer(t)
	bearer := registerTestUser(t, srv, "bob", "bob@x.com", "pw123")
	doc := seedTestDocument(t, srv, bearer, "lecture1", "lecture1.bin")

	w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+itoa(doc.ID)+"/notes", bearer,
		api.CreateNoteRequest{Name: "remark1", Content: "x"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create note: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	note := listNotes(t, srv, bearer)[0]

	w = doJSON(t, srv, http.MethodDelete, "/v1/me/notes/"+itoa(note.ID), bearer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete note: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	if notes := listNotes(t, srv, bearer); len(notes) != 0 {
		t.Fatalf("expected no notes after delete, got %d", len(notes))
	}

	// A second delete reports absence.
	w = doJSON(t, srv, http.MethodDelete, "/v1/me/notes/"+itoa(note.ID), bearer, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestDeleteForeignNote(t *testing.T) {
	srv := newTestServer(t)
	bob := registerTestUser(t, srv, "bob", "bob@x.com", "pw123")
	eve := registerTestUser(t, srv, "eve", "eve@x.com", "pw123")
	doc := seedTestDocument(t, srv, bob, "lecture1", "lecture1.bin")

	w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+itoa(doc.ID)+"/notes", bob,
		api.CreateNoteRequest{Name: "remark1", Content: "x"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create note: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	note := listNotes(t, srv, bob)[0]

	w = doJSON(t, srv, http.MethodDelete, "/v1/me/notes/"+itoa(note.ID), eve, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign note, got %d (%s)", w.Code, w.Body.String())
	}
	errResp := decodeError(t, w)
	if errResp.ErrorCode != ErrCodeNoteNotFound {
		t.Fatalf("expected error code %d, got %d", ErrCodeNoteNotFound, errResp.ErrorCode)
	}

	if notes := listNotes(t, srv, bob); len(notes) != 1 {
		t.Fatalf("expected bob's note to survive, got %d", len(notes))
	}
}

func TestNotesCascadeOnDocumentDelete(t *testing.T) {
	srv := newTestServer(t)
	bearer := registerTestUser(t, srv, "bob", "bob@x.com", "pw123")
	doc := seedTestDocument(t, srv, bearer, "lecture1", "lecture1.bin")
	other := seedTestDocument(t, srv, bearer, "lecture2", "lecture2.bin")

	for _, n := range []struct{ name, target string }{
		{"remark1", itoa(doc.ID)},
		{"remark2", itoa(doc.ID)},
		{"remark3", itoa(other.ID)},
	} {
		w := doJSON(t, srv, http.MethodPost, "/v1/me/documents/"+n.target+"/notes", bearer,
			api.CreateNoteRequest{Name: n.name, Content: "x"})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d (%s)", n.name, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, srv, http.MethodDelete, "/v1/me/documents/"+itoa(doc.ID), bearer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete document: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	notes := listNotes(t, srv, bearer)
	if len(notes) != 1 {
		t.Fatalf("expected only the unrelated note to survive, got %d", len(notes))
	}
	if notes[0].NoteName != "remark3" || notes[0].DocumentName != "lecture2" {
		t.Fatalf("unexpected surviving note: %+v", notes[0])
	}
}
