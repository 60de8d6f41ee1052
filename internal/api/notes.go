// ABOUTME: HTTP handlers for notes attached to chapters
// ABOUTME: Notes are markdown; GET supports rendered HTML via ?format=html

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/focuslearn/focuslearn/internal/auth"
	"github.com/focuslearn/focuslearn/internal/store"
)

// NoteRequest is the JSON request body for creating or updating a note.
type NoteRequest struct {
	Content string `json:"content"`
}

// NoteResponse is the JSON shape of a note. HTML is only populated when
// rendered output was requested.
type NoteResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"`
	ChapterID int64     `json:"chapter_id"`
	JourneyID int64     `json:"journey_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func noteResponse(n *store.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Content:   n.Content,
		ChapterID: n.ChapterID,
		JourneyID: n.JourneyID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	chapterID, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		s.sendJSONError(w, http.StatusBadRequest, "content is required")
		return
	}

	chapter, err := s.requireChapter(r.Context(), chapterID, identity.UserID, true)
	if err != nil {
		s.sendStoreError(w, err, "chapter not found")
		return
	}

	// journey_id mirrors the chapter's journey so journey-wide listing
	// stays a single indexed lookup.
	id, err := s.notes.Create(r.Context(), &store.Note{
		Content:   req.Content,
		ChapterID: chapter.ID,
		JourneyID: chapter.JourneyID,
	})
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListJourneyNotes(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	journeyID, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid journey id")
		return
	}

	if _, err := s.requireJourney(r.Context(), journeyID, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "journey not found")
		return
	}

	notes, err := s.notes.ListByJourney(r.Context(), journeyID)
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteResponse(n))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := s.notes.GetByID(r.Context(), id)
	if err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}

	if _, err := s.requireJourney(r.Context(), note.JourneyID, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}

	resp := noteResponse(note)
	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(note.Content), &buf); err != nil {
			s.logger.Error("rendering note", "note", id, "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal error")
			return
		}
		resp.HTML = buf.String()
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		s.sendJSONError(w, http.StatusBadRequest, "content is required")
		return
	}

	note, err := s.notes.GetByID(r.Context(), id)
	if err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}
	if _, err := s.requireJourney(r.Context(), note.JourneyID, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}

	if err := s.notes.UpdateContent(r.Context(), id, req.Content); err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := s.notes.GetByID(r.Context(), id)
	if err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}
	if _, err := s.requireJourney(r.Context(), note.JourneyID, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}

	if err := s.notes.Delete(r.Context(), id); err != nil {
		s.sendStoreError(w, err, "note not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
