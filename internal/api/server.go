// ABOUTME: HTTP API server wiring routes, middleware and dependencies
// ABOUTME: JSON endpoints under /api/v1 backed by the store repositories

// Package api exposes the focuslearn REST surface: accounts, journeys,
// chapters, notes, journey forking and playlist import.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/focuslearn/focuslearn/internal/auth"
	"github.com/focuslearn/focuslearn/internal/store"
	"github.com/focuslearn/focuslearn/internal/youtube"
)

// Server holds the API dependencies and handlers.
type Server struct {
	logger   *slog.Logger
	verifier *auth.JWTVerifier

	users    *store.Users
	journeys *store.Journeys
	chapters *store.Chapters
	notes    *store.Notes
	forks    *store.ForkedJourneys
	forker   *store.Forker

	playlists *youtube.Client
}

// New creates the API server over an opened store engine.
func New(engine *store.Engine, verifier *auth.JWTVerifier, playlists *youtube.Client, logger *slog.Logger) *Server {
	journeys := store.NewJourneys(engine)
	chapters := store.NewChapters(engine)
	notes := store.NewNotes(engine)

	return &Server{
		logger:    logger.With("component", "api"),
		verifier:  verifier,
		users:     store.NewUsers(engine),
		journeys:  journeys,
		chapters:  chapters,
		notes:     notes,
		forks:     store.NewForkedJourneys(engine),
		forker:    store.NewForker(journeys, chapters, notes),
		playlists: playlists,
	}
}

// Handler builds the route table. Everything except registration,
// login, the public journey listing and the health check requires a
// bearer token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	authed := auth.Middleware(s.verifier)

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/public-journeys", s.handleListPublicJourneys)

	protected := map[string]http.HandlerFunc{
		"GET /api/v1/users/me": s.handleProfile,
		"GET /api/v1/users":    s.handleListUsers,

		"POST /api/v1/journeys":               s.handleCreateJourney,
		"GET /api/v1/journeys":                s.handleListJourneys,
		"GET /api/v1/journeys/{id}":           s.handleGetJourney,
		"PUT /api/v1/journeys/{id}":           s.handleUpdateJourney,
		"DELETE /api/v1/journeys/{id}":        s.handleDeleteJourney,
		"POST /api/v1/journeys/{id}/fork":     s.handleForkJourney,
		"POST /api/v1/journeys/from-playlist": s.handleCreateFromPlaylist,

		"POST /api/v1/journeys/{id}/chapters": s.handleCreateChapter,
		"GET /api/v1/journeys/{id}/chapters":  s.handleListChapters,
		"PUT /api/v1/chapters/{id}":           s.handleUpdateChapter,
		"DELETE /api/v1/chapters/{id}":        s.handleDeleteChapter,
		"POST /api/v1/chapters/{id}/complete": s.handleCompleteChapter,

		"POST /api/v1/chapters/{id}/notes": s.handleCreateNote,
		"GET /api/v1/journeys/{id}/notes":  s.handleListJourneyNotes,
		"GET /api/v1/notes/{id}":           s.handleGetNote,
		"PUT /api/v1/notes/{id}":           s.handleUpdateNote,
		"DELETE /api/v1/notes/{id}":        s.handleDeleteNote,
	}
	for pattern, handler := range protected {
		mux.Handle(pattern, authed(handler))
	}

	return requestID(requestLogger(s.logger)(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// sendStoreError maps store errors onto HTTP statuses: missing rows to
// 404, constraint violations to 400, anything else to a generic 500.
func (s *Server) sendStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrConstraint):
		s.sendJSONError(w, http.StatusBadRequest, "constraint violation")
	default:
		s.logger.Error("storage failure", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
