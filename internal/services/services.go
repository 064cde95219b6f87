// package services defines interfaces for the outbound catalog and recommendation backends
package services

import (
	"context"
	"fmt"
	"net/url"
)

// Track represents a canonical song record from the catalog.
type Track struct {
	ID         string
	Name       string
	Artist     string
	ArtistID   string
	URL        string
	ArtworkURL string
}

// Display returns the human-readable "Title by Artist" form used for
// exclusion matching and responses.
func (t Track) Display() string {
	if t.Artist == "" {
		return t.Name
	}
	return fmt.Sprintf("%s by %s", t.Name, t.Artist)
}

// Movie represents a canonical movie or series record from the metadata API.
type Movie struct {
	ID    string
	Title string
	Kind  string // "film" or "series"
	URL   string
}

// BookSuggestion is one structured title produced by the language model.
type BookSuggestion struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// SongCatalog resolves songs and produces song recommendations.
type SongCatalog interface {
	// ResolveTrack turns free text or a pasted link/identifier into a canonical track.
	ResolveTrack(ctx context.Context, input string) (*Track, error)

	// Recommendations returns tracks related to the given seed track id.
	// A seed the catalog rejects reports [shared.ErrInvalidSeed].
	Recommendations(ctx context.Context, seedTrackID string) ([]Track, error)

	// ArtistTopTracks returns the artist's top tracks, used as a fallback when
	// seed recommendations come back empty.
	ArtistTopTracks(ctx context.Context, artistID string) ([]Track, error)
}

// MovieCatalog resolves movie titles and produces related titles.
type MovieCatalog interface {
	// ResolveMovie returns the first film or series matching the title.
	ResolveMovie(ctx context.Context, title string) (*Movie, error)

	// RelatedMovies returns titles related to the given record.
	RelatedMovies(ctx context.Context, id, kind string) ([]Movie, error)
}

// BookRecommender produces structured book suggestions from a basis title.
type BookRecommender interface {
	SuggestBooks(ctx context.Context, basisTitle string, n int) ([]BookSuggestion, error)
}

// SearchLink builds a plain search-engine query link from title parts.
// Used as the unresolved passthrough for books, bookmarks, and any title the
// catalogs cannot place.
func SearchLink(parts ...string) string {
	query := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if query != "" {
			query += " "
		}
		query += p
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}
