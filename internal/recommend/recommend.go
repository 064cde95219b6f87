package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/repositories"
	"github.com/jspicer/mediahub/internal/services"
	"github.com/jspicer/mediahub/internal/shared"
)

// resultCaps is the maximum number of recommendations returned per category.
var resultCaps = map[models.Category]int{
	models.CategoryMovies: 5,
	models.CategorySongs:  5,
	models.CategoryBooks:  3,
}

// Request carries one recommendation call's inputs. Disliked and Excluded
// titles form the request-scoped exclusion set; nothing here is persisted.
type Request struct {
	UserID           string
	Category         models.Category
	ArtistPreference string
	Disliked         []string
	Excluded         []string
}

// Strategy is one candidate source tried in order. Fetch returns raw
// candidates before filtering; an error aborts the whole chain.
type Strategy struct {
	Name  string
	Fetch func(ctx context.Context) ([]models.Recommendation, error)
}

// EngineOpts contains the dependencies for building an [Engine].
type EngineOpts struct {
	Items  *repositories.ItemRepository
	Songs  services.SongCatalog
	Movies services.MovieCatalog
	Books  services.BookRecommender
	Logger *log.Logger

	// PickFn selects a basis index from n eligible items. Defaults to
	// uniform random; tests inject a deterministic picker.
	PickFn func(n int) int
}

// Engine orchestrates recommendation requests against the configured backends.
type Engine struct {
	items  *repositories.ItemRepository
	songs  services.SongCatalog
	movies services.MovieCatalog
	books  services.BookRecommender
	logger *log.Logger
	pick   func(n int) int
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.PickFn == nil {
		opts.PickFn = rand.Intn
	}

	return &Engine{
		items:  opts.Items,
		songs:  opts.Songs,
		movies: opts.Movies,
		books:  opts.Books,
		logger: opts.Logger,
		pick:   opts.PickFn,
	}
}

// Recommend runs the full pipeline for one request.
//
// When the eligible basis pool is empty it reports [shared.ErrNoEligibleItems]
// before any backend is touched; when every strategy is exhausted it reports
// [shared.ErrNoRecommendations].
func (e *Engine) Recommend(ctx context.Context, req Request) (*models.RecommendationSet, error) {
	limit, ok := resultCaps[req.Category]
	if !ok {
		return nil, fmt.Errorf("%w: no recommendation backend for %q", shared.ErrInvalidCategory, req.Category)
	}

	stored, err := e.items.ListByUser(req.UserID, req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}

	excluded := newTitleSet(req.Disliked, req.Excluded)

	basis := e.selectBasis(stored, excluded, req.ArtistPreference)
	if basis == nil {
		return nil, shared.ErrNoEligibleItems
	}

	e.logger.Debug("selected recommendation basis", "category", req.Category, "title", basis.Title())

	// Filtering also excludes everything the user already owns.
	owned := newTitleSet()
	for _, item := range stored {
		owned.add(item.Title())
	}

	for _, strategy := range e.strategiesFor(req.Category, basis) {
		candidates, err := strategy.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		usable := filter(candidates, excluded, owned, limit)
		if len(usable) == 0 {
			e.logger.Debug("strategy produced no usable candidates", "strategy", strategy.Name)
			continue
		}

		return &models.RecommendationSet{
			BasedOn: basis.Title(),
			Section: req.Category,
			Results: usable,
		}, nil
	}

	return nil, shared.ErrNoRecommendations
}

// selectBasis picks a basis item uniformly at random from the stored items
// that carry a usable seed and are not excluded.
//
// A non-empty artist preference narrows the pool to titles containing it
// (case-insensitive) when any such items exist; otherwise the full pool is used.
func (e *Engine) selectBasis(stored []*models.Item, excluded titleSet, artistPreference string) *models.Item {
	var eligible []*models.Item
	for _, item := range stored {
		if item.HasCatalogRef() && !excluded.has(item.Title()) {
			eligible = append(eligible, item)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	if pref := strings.TrimSpace(artistPreference); pref != "" {
		var preferred []*models.Item
		for _, item := range eligible {
			if strings.Contains(strings.ToLower(item.Title()), strings.ToLower(pref)) {
				preferred = append(preferred, item)
			}
		}
		if len(preferred) > 0 {
			eligible = preferred
		}
	}

	return eligible[e.pick(len(eligible))]
}

// strategiesFor returns the ordered candidate sources for a category.
func (e *Engine) strategiesFor(category models.Category, basis *models.Item) []Strategy {
	switch category {
	case models.CategoryMovies:
		return []Strategy{
			{Name: "related-movies", Fetch: func(ctx context.Context) ([]models.Recommendation, error) {
				return e.relatedMovies(ctx, basis)
			}},
		}
	case models.CategorySongs:
		return []Strategy{
			{Name: "seed-recommendations", Fetch: func(ctx context.Context) ([]models.Recommendation, error) {
				return e.seedRecommendations(ctx, basis)
			}},
			{Name: "artist-top-tracks", Fetch: func(ctx context.Context) ([]models.Recommendation, error) {
				return e.artistTopTracks(ctx, basis)
			}},
		}
	case models.CategoryBooks:
		return []Strategy{
			{Name: "book-completion", Fetch: func(ctx context.Context) ([]models.Recommendation, error) {
				return e.bookSuggestions(ctx, basis)
			}},
		}
	}
	return nil
}

func (e *Engine) relatedMovies(ctx context.Context, basis *models.Item) ([]models.Recommendation, error) {
	movies, err := e.movies.RelatedMovies(ctx, basis.CatalogID(), basis.MediaKind())
	if err != nil {
		return nil, err
	}

	var candidates []models.Recommendation
	for _, m := range movies {
		candidates = append(candidates, models.Recommendation{
			Title:  m.Title,
			Link:   m.URL,
			Reason: fmt.Sprintf("Related to %s", basis.Title()),
		})
	}
	return candidates, nil
}

func (e *Engine) seedRecommendations(ctx context.Context, basis *models.Item) ([]models.Recommendation, error) {
	tracks, err := e.songs.Recommendations(ctx, basis.CatalogTrackID())
	if err != nil {
		return nil, err
	}
	return trackCandidates(tracks, fmt.Sprintf("Similar to %s", basis.Title()), ""), nil
}

// artistTopTracks is the songs-only fallback: resolve the basis track's
// primary artist and recommend that artist's top tracks, never the basis
// title itself. It runs only when seed recommendations produced nothing
// usable; an invalid seed never reaches it.
func (e *Engine) artistTopTracks(ctx context.Context, basis *models.Item) ([]models.Recommendation, error) {
	track, err := e.songs.ResolveTrack(ctx, basis.CatalogTrackID())
	if err != nil {
		return nil, err
	}
	if track.ArtistID == "" {
		return nil, nil
	}

	tracks, err := e.songs.ArtistTopTracks(ctx, track.ArtistID)
	if err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("Top track by %s (artist top tracks)", track.Artist)
	return trackCandidates(tracks, reason, basis.Title()), nil
}

func (e *Engine) bookSuggestions(ctx context.Context, basis *models.Item) ([]models.Recommendation, error) {
	suggestions, err := e.books.SuggestBooks(ctx, basis.Title(), resultCaps[models.CategoryBooks])
	if err != nil {
		return nil, err
	}

	var candidates []models.Recommendation
	for _, s := range suggestions {
		candidates = append(candidates, models.Recommendation{
			Title:  s.Title,
			Link:   services.SearchLink(s.Title),
			Reason: s.Reason,
		})
	}
	return candidates, nil
}

func trackCandidates(tracks []services.Track, reason, skipTitle string) []models.Recommendation {
	var candidates []models.Recommendation
	for _, t := range tracks {
		display := t.Display()
		if skipTitle != "" && (display == skipTitle || t.Name == skipTitle) {
			continue
		}

		link := t.URL
		if link == "" {
			link = services.SearchLink(t.Name, t.Artist)
		}

		candidates = append(candidates, models.Recommendation{
			Title:  display,
			Link:   link,
			Reason: reason,
		})
	}
	return candidates
}

// filter drops candidates whose title literally matches an excluded or owned
// title, then truncates to the cap. Backend ordering is preserved; there is
// no re-ranking.
func filter(candidates []models.Recommendation, excluded, owned titleSet, limit int) []models.Recommendation {
	var usable []models.Recommendation
	for _, c := range candidates {
		if excluded.has(c.Title) || owned.has(c.Title) {
			continue
		}
		usable = append(usable, c)
		if len(usable) == limit {
			break
		}
	}
	return usable
}

// titleSet is a literal, case-sensitive title membership set.
type titleSet map[string]struct{}

func newTitleSet(groups ...[]string) titleSet {
	set := titleSet{}
	for _, group := range groups {
		for _, title := range group {
			set.add(title)
		}
	}
	return set
}

func (s titleSet) add(title string) {
	if title = strings.TrimSpace(title); title != "" {
		s[title] = struct{}{}
	}
}

func (s titleSet) has(title string) bool {
	_, ok := s[title]
	return ok
}
