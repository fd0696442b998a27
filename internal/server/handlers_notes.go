package server

import (
	"fmt"
	"net/http"

	"docstash/internal/api"
)

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("unauthorized")))
		return
	}

	documentID, err := parsePathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req api.CreateNoteRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	note, err := s.notes.Create(r.Context(), user, documentID, req.Name, req.Content)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("note created", "note_id", note.ID, "document_id", documentID, "owner_id", user.ID)
	s.writeJSON(w, http.StatusCreated, api.ConfirmationResponse{Message: "created successfully"})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("unauthorized")))
		return
	}

	notes, err := s.notes.ListByOwner(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	records := make([]api.NoteRecord, 0, len(notes))
	for _, note := range notes {
		records = append(records, api.NoteRecord{
			ID:           note.ID,
			NoteName:     note.NoteName,
			NoteContent:  note.Content,
			DocumentName: note.DocumentName,
			CreatedAt:    note.CreatedAt,
			UpdatedAt:    note.UpdatedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, api.NoteListResponse{Message: "notes listed successfully", Data: records})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("unauthorized")))
		return
	}

	noteID, err := parsePathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.notes.Delete(r.Context(), user, noteID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("note deleted", "note_id", noteID, "owner_id", user.ID)
	s.writeJSON(w, http.StatusOK, api.ConfirmationResponse{Message: "deleted successfully"})
}
