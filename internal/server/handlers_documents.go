package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"docstash/internal/api"
)

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("unauthorized")))
		return
	}

	filename, content, err := s.readUploadedFile(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	doc, err := s.documents.Create(r.Context(), user, r.FormValue("name"), r.FormValue("type"), filename, content)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("document created", "document_id", doc.ID, "owner_id", user.ID, "type", doc.Type)
	s.writeJSON(w, http.StatusCreated, api.ConfirmationResponse{Message: "created successfully"})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("unauthorized")))
		return
	}

	docs, err := s.documents.ListByOwner(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	records := make([]api.DocumentRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, api.DocumentRecord{
			ID:        doc.ID,
			Name:      doc.Name,
			Type:      doc.Type,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
			Content:   doc.Content,
		})
	}

	s.writeJSON(w, http.StatusOK, api.DocumentListResponse{Message: "documents listed successfully", Data: records})
}

func (s *Server) handleReplaceDocumentContent(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("unauthorized")))
		return
	}

	filename, content, err := s.readUploadedFile(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	replaced, err := s.documents.ReplaceContent(r.Context(), user, filename, content)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !replaced {
		s.writeErrorReq(w, r, http.StatusFailedDependency,
			failedDependency(fmt.Errorf("no document matches %s", filename)))
		return
	}

	s.writeJSON(w, http.StatusOK, api.ConfirmationResponse{Message: "updated successfully"})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := s.documents.Delete(r.Context(), user.ID, documentID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !deleted {
		s.writeErrorReq(w, r, http.StatusFailedDependency,
			failedDependency(fmt.Errorf("document %d not found", documentID)))
		return
	}

	s.log().Info("document deleted", "document_id", documentID, "owner_id", user.ID)
	s.writeJSON(w, http.StatusOK, api.ConfirmationResponse{Message: "deleted successfully"})
}

// readUploadedFile extracts the single multipart file part from an upload
// request, enforcing the configured size limits.
func (s *Server) readUploadedFile(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return "", nil, makeAPIError(http.StatusBadRequest, "invalid_argument", ErrCodeRequestTooLarge,
				fmt.Errorf("upload exceeds %d bytes", maxBytesErr.Limit))
		}
		return "", nil, badRequest(fmt.Errorf("invalid multipart form: %w", err))
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, badRequestCode(fmt.Errorf("file part is required"), ErrCodeMissingRequired)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, badRequest(fmt.Errorf("read uploaded file: %w", err))
	}
	return header.Filename, content, nil
}
