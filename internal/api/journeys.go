// ABOUTME: HTTP handlers for journey CRUD, forking and playlist import
// ABOUTME: Mutations are owner-scoped; forks require a public or owned source

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/focuslearn/focuslearn/internal/auth"
	"github.com/focuslearn/focuslearn/internal/store"
)

// JourneyRequest is the JSON request body for creating or updating a
// journey.
type JourneyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// JourneyResponse is the JSON shape of a journey.
type JourneyResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	UserID      int64  `json:"user_id"`
}

// PublicJourneyResponse is one row of GET /api/v1/public-journeys.
type PublicJourneyResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Username    string `json:"username"`
}

// CreatedResponse carries the id of a newly created resource.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// PlaylistImportRequest is the JSON request body for
// POST /api/v1/journeys/from-playlist.
type PlaylistImportRequest struct {
	PlaylistID string `json:"playlist_id"`
	IsPublic   *bool  `json:"is_public"`
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func journeyResponse(j *store.Journey) JourneyResponse {
	return JourneyResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		IsPublic:    j.IsPublic,
		UserID:      j.UserID,
	}
}

func (s *Server) handleCreateJourney(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	var req JourneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Journeys are public unless the request says otherwise.
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	id, err := s.journeys.Create(r.Context(), &store.Journey{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    isPublic,
		UserID:      identity.UserID,
	})
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	s.writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) handleListJourneys(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	journeys, err := s.journeys.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	out := make([]JourneyResponse, 0, len(journeys))
	for _, j := range journeys {
		out = append(out, journeyResponse(j))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetJourney(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid journey id")
		return
	}

	journey, err := s.journeys.GetByID(r.Context(), id)
	if err != nil {
		s.sendStoreError(w, err, "journey not found")
		return
	}

	if !journey.IsPublic && journey.UserID != identity.UserID {
		s.sendJSONError(w, http.StatusNotFound, "journey not found")
		return
	}

	s.writeJSON(w, http.StatusOK, journeyResponse(journey))
}

func (s *Server) handleUpdateJourney(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid journey id")
		return
	}

	var req JourneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	err = s.journeys.Update(r.Context(), id, identity.UserID, &store.Journey{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    isPublic,
	})
	if err != nil {
		s.sendStoreError(w, err, "journey not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteJourney(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid journey id")
		return
	}

	if err := s.journeys.Delete(r.Context(), id, identity.UserID); err != nil {
		s.sendStoreError(w, err, "journey not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListPublicJourneys(w http.ResponseWriter, r *http.Request) {
	journeys, err := s.journeys.ListPublic(r.Context())
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	out := make([]PublicJourneyResponse, 0, len(journeys))
	for _, j := range journeys {
		out = append(out, PublicJourneyResponse{
			ID:          j.ID,
			Title:       j.Title,
			Description: j.Description,
			Username:    j.Username,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleForkJourney(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid journey id")
		return
	}

	source, err := s.journeys.GetByID(r.Context(), id)
	if err != nil {
		s.sendStoreError(w, err, "journey not found")
		return
	}
	if !source.IsPublic && source.UserID != identity.UserID {
		s.sendJSONError(w, http.StatusNotFound, "journey not found")
		return
	}

	newID, err := s.forker.ForkJourney(r.Context(), id, identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "journey not found")
			return
		}
		s.sendStoreError(w, err, "journey not found")
		return
	}

	// The relationship row is informational; a failure to record it
	// does not undo the fork.
	if _, err := s.forks.Create(r.Context(), identity.UserID, id); err != nil {
		s.logger.Warn("recording fork relationship failed", "journey", id, "error", err)
	}

	s.writeJSON(w, http.StatusCreated, CreatedResponse{ID: newID})
}

func (s *Server) handleCreateFromPlaylist(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	var req PlaylistImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlaylistID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "playlist_id is required")
		return
	}

	details, err := s.playlists.GetPlaylistDetails(r.Context(), req.PlaylistID)
	if err != nil {
		s.logger.Error("playlist lookup failed", "playlist", req.PlaylistID, "error", err)
		s.sendJSONError(w, http.StatusBadGateway, "playlist lookup failed")
		return
	}
	videos, err := s.playlists.GetPlaylistVideos(r.Context(), req.PlaylistID)
	if err != nil {
		s.logger.Error("playlist videos lookup failed", "playlist", req.PlaylistID, "error", err)
		s.sendJSONError(w, http.StatusBadGateway, "playlist lookup failed")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	journeyID, err := s.journeys.Create(r.Context(), &store.Journey{
		Title:       details.Title,
		Description: details.Description,
		IsPublic:    isPublic,
		UserID:      identity.UserID,
	})
	if err != nil {
		s.sendStoreError(w, err, "")
		return
	}

	for _, video := range videos {
		_, err := s.chapters.Create(r.Context(), &store.Chapter{
			Title:       video.Title,
			Description: video.Description,
			VideoLink:   video.VideoLink,
			ChapterNo:   video.ChapterNo,
			JourneyID:   journeyID,
		})
		if err != nil {
			s.sendStoreError(w, err, "")
			return
		}
	}

	s.logger.Info("journey imported from playlist",
		"journey", journeyID, "playlist", req.PlaylistID, "chapters", len(videos))
	s.writeJSON(w, http.StatusCreated, CreatedResponse{ID: journeyID})
}
