package server

import (
	"fmt"
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

// requireUser guards one handler: it verifies the presented bearer token and
// resolves it to a user record before the handler runs. The resolved user is
// placed on the request context.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerTokenFromRequest(r)
		if raw == "" {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("missing bearer token")))
			return
		}

		user, err := s.users.Authenticate(r.Context(), raw)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		next(w, r.WithContext(contextWithUser(r.Context(), user)))
	}
}

func bearerTokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
