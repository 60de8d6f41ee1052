// ABOUTME: HTTP handlers for account registration, login and profiles
// ABOUTME: Registration hashes with bcrypt; login answers with a signed JWT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/focuslearn/focuslearn/internal/auth"
	"github.com/focuslearn/focuslearn/internal/store"
)

// RegisterRequest is the JSON request body for POST /api/v1/users/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the JSON response for a successful registration.
type RegisterResponse struct {
	ID int64 `json:"id"`
}

// LoginRequest is the JSON request body for POST /api/v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse is the JSON shape of a user, without the password hash.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		s.sendJSONError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if _, err := s.users.GetByEmail(r.Context(), req.Email); err == nil {
		s.sendJSONError(w, http.StatusBadRequest, "email already in use")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.sendStoreError(w, err, "")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	id, err := s.users.Create(r.Context(), &store.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	})
	if err != nil {
		// The uniqueness check above races with concurrent signups; the
		// email constraint is authoritative.
		if errors.Is(err, store.ErrConstraint) {
			s.sendJSONError(w, http.StatusBadRequest, "email already in use")
			return
		}
		s.sendStoreError(w, err, "")
		return
	}

	s.logger.Info("user registered", "user", id, "username", req.Username)
	s.writeJSON(w, http.StatusCreated, RegisterResponse{ID: id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		s.sendStoreError(w, err, "")
		return
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	token, err := s.verifier.Generate(&auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		s.logger.Error("signing token", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	user, err := s.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		s.sendStoreError(w, err, "user not found")
		return
	}

	s.writeJSON(w, http.StatusOK, UserResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	s.writeJSON(w, http.StatusOK, out)
}
