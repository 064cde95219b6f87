// Spotify Web API implementation of [SongCatalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/jspicer/mediahub/internal/shared"
)

const (
	defaultSpotifyBaseURL  = "https://api.spotify.com/v1"
	defaultSpotifyTokenURL = "https://accounts.spotify.com/api/token"

	outboundTimeout = 8 * time.Second
	catalogRPS      = 5
)

// apiError carries the status code of a non-2xx catalog response so callers
// can distinguish client rejections (4xx) from availability failures.
type apiError struct {
	status   int
	endpoint string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("catalog API error: status %d on %s", e.status, e.endpoint)
}

// statusOf extracts the status code from an apiError chain, or 0.
func statusOf(err error) int {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status
	}
	return 0
}

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Images []spotifyImage `json:"images"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyTrack struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Artists      []spotifyArtist     `json:"artists"`
	Album        spotifyAlbum        `json:"album"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyTracksResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

// SpotifyService implements [SongCatalog] against the Spotify Web API.
//
// Authentication uses the client-credentials flow; the oauth2 transport
// refreshes the app token transparently.
type SpotifyService struct {
	baseURL    string
	markets    []string
	httpClient *http.Client
	limiter    *rate.Limiter
	configured bool
}

// NewSpotifyService creates a Spotify catalog client from configuration.
//
// A nil httpClient selects the client-credentials transport when credentials
// are present; without credentials the service is created unconfigured and
// every call reports [shared.ErrNotConfigured] instead of crashing.
func NewSpotifyService(cfg shared.CatalogConfig, httpClient *http.Client) *SpotifyService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSpotifyBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultSpotifyTokenURL
	}

	markets := marketOrder(cfg.Market, cfg.FallbackMarkets)

	configured := httpClient != nil
	if httpClient == nil && cfg.ClientID != "" && cfg.ClientSecret != "" {
		creds := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}
		httpClient = creds.Client(context.Background())
		configured = true
	}
	if httpClient != nil && httpClient.Timeout == 0 {
		httpClient.Timeout = outboundTimeout
	}

	return &SpotifyService{
		baseURL:    baseURL,
		markets:    markets,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(catalogRPS), 1),
		configured: configured,
	}
}

// Configured reports whether the client has usable credentials.
func (s *SpotifyService) Configured() bool {
	return s.configured
}

// marketOrder builds the locale priority list: primary first, then fallbacks,
// duplicates dropped. The unscoped attempt is represented by the empty string
// appended by callers that want it.
func marketOrder(primary string, fallbacks []string) []string {
	seen := map[string]bool{}
	var markets []string
	for _, m := range append([]string{primary}, fallbacks...) {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		markets = append(markets, m)
	}
	if len(markets) == 0 {
		markets = []string{"US"}
	}
	return markets
}

// ParseTrackRef extracts a track id from pasted input.
//
// Three shapes are accepted: the scheme-qualified "spotify:track:<id>" form, a
// web link with a /track/<id> path segment, and a bare id of plausible length
// and character set.
func ParseTrackRef(input string) (string, bool) {
	input = strings.TrimSpace(input)

	if rest, ok := strings.CutPrefix(input, "spotify:track:"); ok {
		return rest, isTrackID(rest)
	}

	if strings.Contains(input, "/track/") {
		if u, err := url.Parse(input); err == nil {
			segments := strings.Split(strings.Trim(u.Path, "/"), "/")
			for i, seg := range segments {
				if seg == "track" && i+1 < len(segments) {
					return segments[i+1], isTrackID(segments[i+1])
				}
			}
		}
	}

	if isTrackID(input) {
		return input, true
	}

	return "", false
}

// isTrackID reports whether s looks like a catalog track id: 22 base62 characters.
func isTrackID(s string) bool {
	if len(s) != 22 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// doRequest performs a rate-limited GET against the catalog and decodes the response.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if !s.configured {
		return fmt.Errorf("%w: song catalog credentials missing", shared.ErrNotConfigured)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{status: resp.StatusCode, endpoint: endpoint}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrBackendUnavailable, err)
		}
	}

	return nil
}

// ResolveTrack turns free text or a pasted link/identifier into a canonical track.
//
// Identifier input tries a direct lookup per market, then unscoped. Free text
// searches two query shapes per market, then both shapes unscoped, returning
// the first non-empty result's first match. Exhaustion reports [shared.ErrNotFound].
func (s *SpotifyService) ResolveTrack(ctx context.Context, input string) (*Track, error) {
	if id, ok := ParseTrackRef(input); ok {
		return s.lookupTrack(ctx, id)
	}
	return s.searchTrack(ctx, input)
}

func (s *SpotifyService) lookupTrack(ctx context.Context, id string) (*Track, error) {
	for _, market := range append(s.markets, "") {
		endpoint := "/tracks/" + url.PathEscape(id)
		if market != "" {
			endpoint += "?market=" + url.QueryEscape(market)
		}

		var st spotifyTrack
		err := s.doRequest(ctx, endpoint, &st)
		if err == nil && st.ID != "" {
			return fromSpotifyTrack(st), nil
		}
		if err != nil && statusOf(err) == 0 && !errors.Is(err, shared.ErrBackendUnavailable) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: track %s unavailable in all markets", shared.ErrNotFound, id)
}

func (s *SpotifyService) searchTrack(ctx context.Context, text string) (*Track, error) {
	// Bare text first, then the field-qualified quoted form.
	shapes := []string{text, fmt.Sprintf("track:%q", text)}

	for _, market := range append(s.markets, "") {
		for _, q := range shapes {
			track, err := s.searchOnce(ctx, q, market)
			if err != nil {
				return nil, err
			}
			if track != nil {
				return track, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: no track matched %q", shared.ErrNotFound, text)
}

func (s *SpotifyService) searchOnce(ctx context.Context, query, market string) (*Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", "1")
	if market != "" {
		params.Set("market", market)
	}

	var res spotifySearchResponse
	if err := s.doRequest(ctx, "/search?"+params.Encode(), &res); err != nil {
		return nil, err
	}

	if len(res.Tracks.Items) == 0 {
		return nil, nil
	}
	return fromSpotifyTrack(res.Tracks.Items[0]), nil
}

// Recommendations returns tracks related to the seed, iterating the market
// list until one returns a non-empty list.
//
// A 4xx response means the seed id itself is invalid; that is terminal and
// reported as [shared.ErrInvalidSeed] without trying further markets. Empty
// results everywhere return an empty slice so the caller can fall back.
func (s *SpotifyService) Recommendations(ctx context.Context, seedTrackID string) ([]Track, error) {
	for _, market := range append(s.markets, "") {
		params := url.Values{}
		params.Set("seed_tracks", seedTrackID)
		params.Set("limit", "20")
		if market != "" {
			params.Set("market", market)
		}

		var res spotifyTracksResponse
		err := s.doRequest(ctx, "/recommendations?"+params.Encode(), &res)
		if err != nil {
			if status := statusOf(err); status >= 400 && status < 500 {
				return nil, fmt.Errorf("%w: seed %s rejected (status %d)", shared.ErrInvalidSeed, seedTrackID, status)
			}
			return nil, err
		}

		if len(res.Tracks) > 0 {
			return fromSpotifyTracks(res.Tracks), nil
		}
	}

	return nil, nil
}

// ArtistTopTracks returns the artist's top tracks from the first market that has any.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, artistID string) ([]Track, error) {
	for _, market := range s.markets {
		params := url.Values{}
		params.Set("market", market)

		var res spotifyTracksResponse
		err := s.doRequest(ctx, "/artists/"+url.PathEscape(artistID)+"/top-tracks?"+params.Encode(), &res)
		if err != nil {
			if statusOf(err) != 0 {
				continue
			}
			return nil, err
		}

		if len(res.Tracks) > 0 {
			return fromSpotifyTracks(res.Tracks), nil
		}
	}

	return nil, nil
}

func fromSpotifyTrack(st spotifyTrack) *Track {
	track := &Track{
		ID:   st.ID,
		Name: st.Name,
		URL:  st.ExternalURLs.Spotify,
	}

	if len(st.Artists) > 0 {
		track.Artist = st.Artists[0].Name
		track.ArtistID = st.Artists[0].ID
	}
	if len(st.Album.Images) > 0 {
		track.ArtworkURL = st.Album.Images[0].URL
	}
	if track.URL == "" {
		track.URL = "https://open.spotify.com/track/" + st.ID
	}

	return track
}

func fromSpotifyTracks(sts []spotifyTrack) []Track {
	tracks := make([]Track, 0, len(sts))
	for _, st := range sts {
		tracks = append(tracks, *fromSpotifyTrack(st))
	}
	return tracks
}
