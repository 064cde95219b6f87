package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jspicer/mediahub/internal/auth"
	"github.com/jspicer/mediahub/internal/recommend"
	"github.com/jspicer/mediahub/internal/repositories"
	"github.com/jspicer/mediahub/internal/services"
	"github.com/jspicer/mediahub/internal/shared"
	"github.com/jspicer/mediahub/internal/tasks"
)

// Server holds every dependency the HTTP handlers need. All collaborators are
// passed in explicitly so tests can substitute fakes.
type Server struct {
	config      *shared.Config
	logger      *log.Logger
	auth        *auth.Authenticator
	users       *repositories.UserRepository
	items       *repositories.ItemRepository
	songs       services.SongCatalog
	movies      services.MovieCatalog
	engine      *recommend.Engine
	maintenance *tasks.MaintenanceEngine
}

// Opts contains the dependencies for building a [Server].
type Opts struct {
	Config      *shared.Config
	Logger      *log.Logger
	Auth        *auth.Authenticator
	Users       *repositories.UserRepository
	Items       *repositories.ItemRepository
	Songs       services.SongCatalog
	Movies      services.MovieCatalog
	Engine      *recommend.Engine
	Maintenance *tasks.MaintenanceEngine
}

// New creates a Server with the provided dependencies.
func New(opts Opts) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Server{
		config:      opts.Config,
		logger:      opts.Logger,
		auth:        opts.Auth,
		users:       opts.Users,
		items:       opts.Items,
		songs:       opts.Songs,
		movies:      opts.Movies,
		engine:      opts.Engine,
		maintenance: opts.Maintenance,
	}
}

// Router assembles the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.requestLogger)

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/home", s.handleHome)
		r.Post("/api/add_item", s.handleAddItem)
		r.Post("/api/add_recommendation", s.handleAddRecommendation)
		r.Post("/api/delete_item/{section}/{id}", s.handleDeleteItem)
		r.Post("/api/recommend/{category}", s.handleRecommend)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware, s.adminMiddleware)

		r.Get("/admin", s.handleAdminView)
		r.Post("/admin/delete/{section}/{id}", s.handleAdminDelete)
		r.Get("/admin/export", s.handleAdminExport)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.cronMiddleware)

		r.Get("/cron-job", s.handleCron)
		r.Post("/cron-job", s.handleCron)
	})

	return r
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps sentinel errors to HTTP statuses in one place.
//
// Backend failures keep their cause in the log and surface a generic message;
// user-correctable conditions surface their sentinel text.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrAuthFailed):
		// Constant body regardless of whether the username existed.
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: shared.ErrAuthFailed.Error()})
	case errors.Is(err, shared.ErrNotAuthenticated):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.Is(err, shared.ErrNotAuthorized):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "you do not have permission to do that"})
	case errors.Is(err, shared.ErrDuplicateUsername):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "username already exists, please choose another"})
	case errors.Is(err, shared.ErrNoEligibleItems):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "add more items or uncheck some exclusions to get a recommendation"})
	case errors.Is(err, shared.ErrNoRecommendations):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "no new recommendations found, try unchecking some exclusions"})
	case errors.Is(err, shared.ErrInvalidSeed):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "the selected item cannot be used as a recommendation seed"})
	case errors.Is(err, shared.ErrInvalidCategory), errors.Is(err, shared.ErrInvalidInput):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, shared.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, shared.ErrNotConfigured):
		s.logger.Warn("feature not configured", "err", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "this feature is not configured"})
	default:
		s.logger.Error("request failed", "err", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "something went wrong"})
	}
}
