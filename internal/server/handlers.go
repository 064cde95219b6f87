package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jspicer/mediahub/internal/formatter"
	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/recommend"
	"github.com/jspicer/mediahub/internal/shared"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type itemResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Link           string    `json:"link"`
	CatalogID      string    `json:"catalog_id,omitempty"`
	MediaKind      string    `json:"media_kind,omitempty"`
	CatalogTrackID string    `json:"catalog_track_id,omitempty"`
	ArtworkURL     string    `json:"artwork_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	Username       string    `json:"username,omitempty"`
}

func toItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:             item.ID(),
		Title:          item.Title(),
		Link:           item.Link(),
		CatalogID:      item.CatalogID(),
		MediaKind:      item.MediaKind(),
		CatalogTrackID: item.CatalogTrackID(),
		ArtworkURL:     item.ArtworkURL(),
		CreatedAt:      item.CreatedAt(),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}

	user, err := s.auth.Register(req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.auth.MintToken(user)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, UserID: user.ID(), Username: user.Username()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}

	user, err := s.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.auth.MintToken(user)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	respondJSON(w, http.StatusOK, sessionResponse{Token: token, UserID: user.ID(), Username: user.Username()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	data := map[string][]itemResponse{}
	for _, category := range models.Categories() {
		items, err := s.items.ListByUser(session.UserID, category)
		if err != nil {
			s.writeError(w, err)
			return
		}

		responses := make([]itemResponse, 0, len(items))
		for _, item := range items {
			responses = append(responses, toItemResponse(item))
		}
		data[category.String()] = responses
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"username": session.Username,
		"data":     data,
	})
}

type addItemRequest struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Link    string `json:"link"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}

	category, err := models.ParseCategory(req.Section)
	if err != nil {
		s.writeError(w, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		s.writeError(w, fmt.Errorf("%w: title is required", shared.ErrInvalidInput))
		return
	}

	item := s.resolveNewItem(r, session.UserID, category, title, strings.TrimSpace(req.Link))

	if err := s.items.Create(item); err != nil {
		s.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleAddRecommendation(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}

	category, err := models.ParseCategory(req.Section)
	if err != nil {
		s.writeError(w, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		s.writeError(w, fmt.Errorf("%w: title is required", shared.ErrInvalidInput))
		return
	}

	// Recommendations are stored verbatim; the placeholder link can be
	// changed by the user later.
	link := strings.TrimSpace(req.Link)
	if link == "" {
		link = "#"
	}

	item := models.NewItem(category, session.UserID, title, link)
	if err := s.items.Create(item); err != nil {
		s.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	category, err := models.ParseCategory(chi.URLParam(r, "section"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.items.Delete(session.UserID, category, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type recommendRequest struct {
	ArtistPreference string   `json:"artist_preference"`
	DislikedItems    []string `json:"disliked_items"`
	ExcludedFromRecs []string `json:"excluded_from_recs"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}

	set, err := s.engine.Recommend(r.Context(), recommend.Request{
		UserID:           session.UserID,
		Category:         category,
		ArtistPreference: req.ArtistPreference,
		Disliked:         req.DislikedItems,
		Excluded:         req.ExcludedFromRecs,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, set)
}

func (s *Server) handleAdminView(w http.ResponseWriter, r *http.Request) {
	data := map[string][]itemResponse{}
	for _, category := range models.Categories() {
		owned, err := s.items.ListAll(category)
		if err != nil {
			s.writeError(w, err)
			return
		}

		responses := make([]itemResponse, 0, len(owned))
		for _, o := range owned {
			resp := toItemResponse(o.Item)
			resp.Username = o.Username
			responses = append(responses, resp)
		}
		data[category.String()] = responses
	}

	respondJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(chi.URLParam(r, "section"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.items.DeleteAny(category, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(r.URL.Query().Get("section"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	owned, err := s.items.ListAll(category)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, contentType, err := formatter.Export(r.URL.Query().Get("format"), category, owned)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	task := r.URL.Query().Get("task")

	result, err := s.maintenance.Run(r.Context(), task)
	if err != nil {
		s.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"task": task, "result": result})
}
