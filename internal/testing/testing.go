// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/jspicer/mediahub/internal/services"
	"github.com/jspicer/mediahub/internal/shared"
)

// MockSongCatalog is a test double for [services.SongCatalog]. Unset
// functions report a backend failure so tests notice unexpected calls.
type MockSongCatalog struct {
	ResolveTrackFn    func(ctx context.Context, input string) (*services.Track, error)
	RecommendationsFn func(ctx context.Context, seedTrackID string) ([]services.Track, error)
	ArtistTopTracksFn func(ctx context.Context, artistID string) ([]services.Track, error)

	ResolveCalls   int
	RecommendCalls int
	TopTrackCalls  int
}

func (m *MockSongCatalog) ResolveTrack(ctx context.Context, input string) (*services.Track, error) {
	m.ResolveCalls++
	if m.ResolveTrackFn == nil {
		return nil, errors.New("unexpected ResolveTrack call")
	}
	return m.ResolveTrackFn(ctx, input)
}

func (m *MockSongCatalog) Recommendations(ctx context.Context, seedTrackID string) ([]services.Track, error) {
	m.RecommendCalls++
	if m.RecommendationsFn == nil {
		return nil, errors.New("unexpected Recommendations call")
	}
	return m.RecommendationsFn(ctx, seedTrackID)
}

func (m *MockSongCatalog) ArtistTopTracks(ctx context.Context, artistID string) ([]services.Track, error) {
	m.TopTrackCalls++
	if m.ArtistTopTracksFn == nil {
		return nil, errors.New("unexpected ArtistTopTracks call")
	}
	return m.ArtistTopTracksFn(ctx, artistID)
}

// MockMovieCatalog is a test double for [services.MovieCatalog].
type MockMovieCatalog struct {
	ResolveMovieFn  func(ctx context.Context, title string) (*services.Movie, error)
	RelatedMoviesFn func(ctx context.Context, id, kind string) ([]services.Movie, error)

	ResolveCalls int
	RelatedCalls int
}

func (m *MockMovieCatalog) ResolveMovie(ctx context.Context, title string) (*services.Movie, error) {
	m.ResolveCalls++
	if m.ResolveMovieFn == nil {
		return nil, errors.New("unexpected ResolveMovie call")
	}
	return m.ResolveMovieFn(ctx, title)
}

func (m *MockMovieCatalog) RelatedMovies(ctx context.Context, id, kind string) ([]services.Movie, error) {
	m.RelatedCalls++
	if m.RelatedMoviesFn == nil {
		return nil, errors.New("unexpected RelatedMovies call")
	}
	return m.RelatedMoviesFn(ctx, id, kind)
}

// MockBookRecommender is a test double for [services.BookRecommender].
type MockBookRecommender struct {
	SuggestBooksFn func(ctx context.Context, basisTitle string, n int) ([]services.BookSuggestion, error)
	SuggestCalls   int
}

func (m *MockBookRecommender) SuggestBooks(ctx context.Context, basisTitle string, n int) ([]services.BookSuggestion, error) {
	m.SuggestCalls++
	if m.SuggestBooksFn == nil {
		return nil, errors.New("unexpected SuggestBooks call")
	}
	return m.SuggestBooksFn(ctx, basisTitle, n)
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MustOpenDB opens an in-memory database with the full schema applied and
// closes it when the test ends.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}
