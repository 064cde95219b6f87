package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/services"
	"github.com/jspicer/mediahub/internal/shared"
)

// resolveNewItem builds the item to store for an add request. Songs and movies
// are enriched through their catalogs; when lookup fails the item falls back
// to a web search link so a stored entry never has an empty destination.
func (s *Server) resolveNewItem(r *http.Request, userID string, category models.Category, title, link string) *models.Item {
	item := models.NewItem(category, userID, title, link)

	switch category {
	case models.CategorySongs:
		s.enrichSong(r.Context(), item, title, link)
	case models.CategoryMovies:
		s.enrichMovie(r.Context(), item, title, link)
	default:
		if link == "" {
			item.SetLink(services.SearchLink(title))
		}
	}

	return item
}

func (s *Server) enrichSong(ctx context.Context, item *models.Item, title, link string) {
	if s.songs == nil {
		if link == "" {
			item.SetLink(services.SearchLink(title))
		}
		return
	}

	// A pasted catalog link resolves by its track id, otherwise the title
	// is searched. A plain external link is kept as-is.
	query := title
	if link != "" {
		ref, ok := services.ParseTrackRef(link)
		if !ok {
			return
		}
		query = ref
	}

	track, err := s.songs.ResolveTrack(ctx, query)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrNotConfigured) {
			s.logger.Warn("song lookup failed", "title", title, "err", err)
		}
		if link == "" {
			item.SetLink(services.SearchLink(title, "song"))
		}
		return
	}

	item.SetTitle(track.Display())
	item.SetCatalogTrackID(track.ID)
	item.SetArtworkURL(track.ArtworkURL)
	if track.URL != "" {
		item.SetLink(track.URL)
	}
}

func (s *Server) enrichMovie(ctx context.Context, item *models.Item, title, link string) {
	if s.movies == nil || link != "" {
		if link == "" {
			item.SetLink(services.SearchLink(title))
		}
		return
	}

	movie, err := s.movies.ResolveMovie(ctx, title)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrNotConfigured) {
			s.logger.Warn("movie lookup failed", "title", title, "err", err)
		}
		item.SetLink(services.SearchLink(title, "movie"))
		return
	}

	item.SetCatalogID(movie.ID)
	item.SetMediaKind(movie.Kind)
	if movie.URL != "" {
		item.SetLink(movie.URL)
	}
}
