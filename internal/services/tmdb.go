// TMDb implementation of [MovieCatalog]
//
// Response types based on https://developer.themoviedb.org/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/jspicer/mediahub/internal/shared"
)

const defaultTMDbBaseURL = "https://api.themoviedb.org/3"

type tmdbResult struct {
	ID        int    `json:"id"`
	MediaType string `json:"media_type"`
	Title     string `json:"title"` // movies
	Name      string `json:"name"`  // series
}

type tmdbResultsResponse struct {
	Results []tmdbResult `json:"results"`
}

// TMDbService implements [MovieCatalog] against the TMDb API.
// Authentication is a plain api-key query parameter on every call.
type TMDbService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTMDbService creates a movie metadata client from configuration.
// Without an API key the service is created unconfigured and every call
// reports [shared.ErrNotConfigured].
func NewTMDbService(cfg shared.MoviesConfig, httpClient *http.Client) *TMDbService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTMDbBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: outboundTimeout}
	}

	return &TMDbService{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(catalogRPS), 1),
	}
}

// Configured reports whether the client has a usable API key.
func (t *TMDbService) Configured() bool {
	return t.apiKey != ""
}

func (t *TMDbService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if !t.Configured() {
		return fmt.Errorf("%w: movie metadata API key missing", shared.ErrNotConfigured)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{status: resp.StatusCode, endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrBackendUnavailable, err)
	}

	return nil
}

// ResolveMovie returns the first search result that is a film or series.
// A single call, no locale fallback; anything else reports [shared.ErrNotFound].
func (t *TMDbService) ResolveMovie(ctx context.Context, title string) (*Movie, error) {
	params := url.Values{}
	params.Set("query", title)

	var res tmdbResultsResponse
	if err := t.doRequest(ctx, "/search/multi", params, &res); err != nil {
		return nil, err
	}

	for _, r := range res.Results {
		if movie := fromTMDbResult(r, ""); movie != nil {
			return movie, nil
		}
	}

	return nil, fmt.Errorf("%w: no film or series matched %q", shared.ErrNotFound, title)
}

// RelatedMovies returns titles related to the given record via the per-kind
// similar endpoint.
func (t *TMDbService) RelatedMovies(ctx context.Context, id, kind string) ([]Movie, error) {
	var endpoint string
	switch kind {
	case "series":
		endpoint = "/tv/" + url.PathEscape(id) + "/similar"
	default:
		endpoint = "/movie/" + url.PathEscape(id) + "/similar"
		kind = "film"
	}

	var res tmdbResultsResponse
	if err := t.doRequest(ctx, endpoint, nil, &res); err != nil {
		return nil, err
	}

	var movies []Movie
	for _, r := range res.Results {
		// The similar endpoints omit media_type; inherit the basis kind.
		if r.MediaType == "" {
			r.MediaType = mediaTypeFor(kind)
		}
		if movie := fromTMDbResult(r, kind); movie != nil {
			movies = append(movies, *movie)
		}
	}

	return movies, nil
}

// fromTMDbResult maps a raw result to a Movie, or nil when it is neither a
// film nor a series (people and other media types are skipped).
func fromTMDbResult(r tmdbResult, kindHint string) *Movie {
	var kind, title, path string
	switch r.MediaType {
	case "movie":
		kind, title, path = "film", r.Title, "movie"
	case "tv":
		kind, title, path = "series", r.Name, "tv"
	default:
		return nil
	}
	if kindHint != "" {
		kind = kindHint
	}
	if title == "" {
		return nil
	}

	return &Movie{
		ID:    fmt.Sprintf("%d", r.ID),
		Title: title,
		Kind:  kind,
		URL:   fmt.Sprintf("https://www.themoviedb.org/%s/%d", path, r.ID),
	}
}

func mediaTypeFor(kind string) string {
	if kind == "series" {
		return "tv"
	}
	return "movie"
}
