package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Accounts and sessions.
	mux.HandleFunc("POST /v1/users", s.handleRegister)
	mux.HandleFunc("POST /v1/login", s.handleLogin)

	// Documents of the authenticated user.
	mux.HandleFunc("POST /v1/me/documents", s.requireUser(s.handleUploadDocument))
	mux.HandleFunc("GET /v1/me/documents", s.requireUser(s.handleListDocuments))
	mux.HandleFunc("PUT /v1/me/documents/content", s.requireUser(s.handleReplaceDocumentContent))
	mux.HandleFunc("DELETE /v1/me/documents/{id}", s.requireUser(s.handleDeleteDocument))

	// Notes.
	mux.HandleFunc("POST /v1/me/documents/{id}/notes", s.requireUser(s.handleCreateNote))
	mux.HandleFunc("GET /v1/me/notes", s.requireUser(s.handleListNotes))
	mux.HandleFunc("DELETE /v1/me/notes/{id}", s.requireUser(s.handleDeleteNote))

	return s.withRequestLogging(mux)
}
