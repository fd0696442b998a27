package server

import (
	"net/http"
	"time"

	"docstash/internal/api"
)

const tokenTypeBearer = "bearer"

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	user, signed, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password, time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("user registered", "user_id", user.ID, "username", user.Username)
	s.writeJSON(w, http.StatusCreated, api.AuthResponse{
		Message: "created successfully",
		Token:   api.TokenPayload{AccessToken: signed, TokenType: tokenTypeBearer},
		User:    api.UserSummary{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	user, signed, err := s.users.Login(r.Context(), req.Username, req.Password, time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.AuthResponse{
		Message: "login successful",
		Token:   api.TokenPayload{AccessToken: signed, TokenType: tokenTypeBearer},
		User:    api.UserSummary{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}
