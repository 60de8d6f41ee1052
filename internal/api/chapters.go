// ABOUTME: HTTP handlers for chapter CRUD and completion tracking
// ABOUTME: Ownership is checked through the chapter's parent journey

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/focuslearn/focuslearn/internal/auth"
	"github.com/focuslearn/focuslearn/internal/store"
)

// ChapterRequest is the JSON request body for creating or updating a
// chapter.
type ChapterRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoLink    string `json:"video_link"`
	ExternalLink string `json:"external_link"`
	ChapterNo    int64  `json:"chapter_no"`
}

// ChapterResponse is the JSON shape of a chapter.
type ChapterResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoLink    string `json:"video_link"`
	ExternalLink string `json:"external_link,omitempty"`
	IsCompleted  bool   `json:"is_completed"`
	ChapterNo    int64  `json:"chapter_no"`
	JourneyID    int64  `json:"journey_id"`
}

func chapterResponse(c *store.Chapter) ChapterResponse {
	return ChapterResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		VideoLink:    c.VideoLink,
		ExternalLink: c.ExternalLink,
		IsCompleted:  c.IsCompleted,
		ChapterNo:    c.ChapterNo,
		JourneyID:    c.JourneyID,
	}
}

// requireJourney loads a journey and checks the requester may see it.
// Writes demand ownership; reads also accept public journeys. A denial
// reads the same as a missing journey so probes learn nothing.
func (s *Server) requireJourney(ctx context.Context, journeyID, userID int64, write bool) (*store.Journey, error) {
	journey, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if journey.UserID == userID {
		return journey, nil
	}
	if !write && journey.IsPublic {
		return journey, nil
	}
	return nil, store.ErrNotFound
}

// requireChapter resolves a chapter and applies the parent journey's
// access rule.
func (s *Server) requireChapter(ctx context.Context, chapterID, userID int64, write bool) (*store.Chapter, error) {
	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireJourney(ctx, chapter.JourneyID, userID, write); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *Server) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	journeyID, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid journey id")
		return
	}

	var req ChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.requireJourney(r.Context(), journeyID, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "journey not found")
		return
	}

	id, err := s.chapters.Create(r.Context(), &store.Chapter{
		Title:        req.Title,
		Description:  req.Description,
		VideoLink:    req.VideoLink,
		ExternalLink: req.ExternalLink,
		ChapterNo:    req.ChapterNo,
		JourneyID:    journeyID,
	})
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	journeyID, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid journey id")
		return
	}

	if _, err := s.requireJourney(r.Context(), journeyID, identity.UserID, false); err != nil {
		s.sendStoreError(w, err, "journey not found")
		return
	}

	chapters, err := s.chapters.ListByJourney(r.Context(), journeyID)
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	out := make([]ChapterResponse, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, chapterResponse(c))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}

	var req ChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.requireChapter(r.Context(), id, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "chapter not found")
		return
	}

	err = s.chapters.Update(r.Context(), id, &store.Chapter{
		Title:        req.Title,
		Description:  req.Description,
		VideoLink:    req.VideoLink,
		ExternalLink: req.ExternalLink,
		ChapterNo:    req.ChapterNo,
	})
	if err != nil {
		s.sendStoreError(w, err, "chapter not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}

	if _, err := s.requireChapter(r.Context(), id, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "chapter not found")
		return
	}

	if err := s.chapters.Delete(r.Context(), id); err != nil {
		s.sendStoreError(w, err, "chapter not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCompleteChapter(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}

	if _, err := s.requireChapter(r.Context(), id, identity.UserID, true); err != nil {
		s.sendStoreError(w, err, "chapter not found")
		return
	}

	if err := s.chapters.SetCompleted(r.Context(), id, true); err != nil {
		s.sendStoreError(w, err, "chapter not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
