package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jspicer/mediahub/internal/shared"
)

func spotifyTestService(t *testing.T, handler http.HandlerFunc, markets ...string) *SpotifyService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := shared.CatalogConfig{BaseURL: server.URL, Market: "US"}
	if len(markets) > 0 {
		cfg.Market = markets[0]
		cfg.FallbackMarkets = markets[1:]
	}

	return NewSpotifyService(cfg, server.Client())
}

func writeSearchResult(w http.ResponseWriter, tracks ...spotifyTrack) {
	var res spotifySearchResponse
	res.Tracks.Items = tracks
	_ = json.NewEncoder(w).Encode(res)
}

func testTrack(id, name, artist string) spotifyTrack {
	return spotifyTrack{
		ID:      id,
		Name:    name,
		Artists: []spotifyArtist{{ID: "artist-" + id, Name: artist}},
	}
}

func TestParseTrackRef(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"uri form", "spotify:track:3BQHpFgAp4l80e1XslIjNI", "3BQHpFgAp4l80e1XslIjNI", true},
		{"web link", "https://open.spotify.com/track/3BQHpFgAp4l80e1XslIjNI", "3BQHpFgAp4l80e1XslIjNI", true},
		{"web link with query", "https://open.spotify.com/track/3BQHpFgAp4l80e1XslIjNI?si=abc123", "3BQHpFgAp4l80e1XslIjNI", true},
		{"bare id", "3BQHpFgAp4l80e1XslIjNI", "3BQHpFgAp4l80e1XslIjNI", true},
		{"surrounding whitespace", "  3BQHpFgAp4l80e1XslIjNI  ", "3BQHpFgAp4l80e1XslIjNI", true},
		{"free text", "Yesterday", "", false},
		{"id too short", "3BQHpFgAp4l80e1XslIjN", "", false},
		{"id with punctuation", "3BQHpFgAp4l80e1XslIjN!", "", false},
		{"uri with bad id", "spotify:track:tooshort", "tooshort", false},
		{"unrelated link", "https://example.com/video/abc", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTrackRef(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMarketOrder(t *testing.T) {
	got := marketOrder("us", []string{"gb", "US", " de ", ""})
	want := []string{"US", "GB", "DE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := marketOrder("", nil); !reflect.DeepEqual(got, []string{"US"}) {
		t.Errorf("expected default market US, got %v", got)
	}
}

func TestResolveTrack(t *testing.T) {
	t.Run("search tries bare text before qualified shape", func(t *testing.T) {
		var queries []string
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			queries = append(queries, r.URL.Query().Get("q"))
			if len(queries) < 2 {
				writeSearchResult(w)
				return
			}
			writeSearchResult(w, testTrack("3BQHpFgAp4l80e1XslIjNI", "Yesterday", "The Beatles"))
		}, "US")

		track, err := svc.ResolveTrack(context.Background(), "Yesterday")
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if track.Display() != "Yesterday by The Beatles" {
			t.Errorf("unexpected display: %s", track.Display())
		}
		want := []string{"Yesterday", `track:"Yesterday"`}
		if !reflect.DeepEqual(queries, want) {
			t.Errorf("expected query shapes %v, got %v", want, queries)
		}
	})

	t.Run("search walks markets then unscoped", func(t *testing.T) {
		var markets []string
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			market := r.URL.Query().Get("market")
			if r.URL.Query().Get("q") == "Yesterday" {
				markets = append(markets, market)
			}
			if market == "" {
				writeSearchResult(w, testTrack("3BQHpFgAp4l80e1XslIjNI", "Yesterday", "The Beatles"))
				return
			}
			writeSearchResult(w)
		}, "US", "GB")

		if _, err := svc.ResolveTrack(context.Background(), "Yesterday"); err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		want := []string{"US", "GB", ""}
		if !reflect.DeepEqual(markets, want) {
			t.Errorf("expected market order %v, got %v", want, markets)
		}
	})

	t.Run("exhausted search reports not found", func(t *testing.T) {
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			writeSearchResult(w)
		}, "US")

		_, err := svc.ResolveTrack(context.Background(), "does not exist")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("identifier input uses direct lookup", func(t *testing.T) {
		var paths []string
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			_ = json.NewEncoder(w).Encode(testTrack("3BQHpFgAp4l80e1XslIjNI", "Yesterday", "The Beatles"))
		}, "US")

		track, err := svc.ResolveTrack(context.Background(), "spotify:track:3BQHpFgAp4l80e1XslIjNI")
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}

		if track.ID != "3BQHpFgAp4l80e1XslIjNI" {
			t.Errorf("unexpected track id: %s", track.ID)
		}
		if len(paths) != 1 || paths[0] != "/tracks/3BQHpFgAp4l80e1XslIjNI" {
			t.Errorf("expected a single /tracks lookup, got %v", paths)
		}
	})

	t.Run("synthesizes web url when response omits it", func(t *testing.T) {
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			writeSearchResult(w, testTrack("3BQHpFgAp4l80e1XslIjNI", "Yesterday", "The Beatles"))
		}, "US")

		track, err := svc.ResolveTrack(context.Background(), "Yesterday")
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}
		if track.URL != "https://open.spotify.com/track/3BQHpFgAp4l80e1XslIjNI" {
			t.Errorf("unexpected url: %s", track.URL)
		}
	})
}

func TestRecommendations(t *testing.T) {
	t.Run("returns first non-empty market", func(t *testing.T) {
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("market") == "GB" {
				_ = json.NewEncoder(w).Encode(spotifyTracksResponse{
					Tracks: []spotifyTrack{testTrack("2x9SpqnPi8rlE9pjHBwmSC", "Let It Be", "The Beatles")},
				})
				return
			}
			_ = json.NewEncoder(w).Encode(spotifyTracksResponse{})
		}, "US", "GB")

		tracks, err := svc.Recommendations(context.Background(), "3BQHpFgAp4l80e1XslIjNI")
		if err != nil {
			t.Fatalf("failed to get recommendations: %v", err)
		}
		if len(tracks) != 1 || tracks[0].Name != "Let It Be" {
			t.Errorf("unexpected tracks: %+v", tracks)
		}
	})

	t.Run("client rejection is terminal", func(t *testing.T) {
		var calls int
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		}, "US", "GB")

		_, err := svc.Recommendations(context.Background(), "badseed")
		if !errors.Is(err, shared.ErrInvalidSeed) {
			t.Fatalf("expected ErrInvalidSeed, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected no retries after a 4xx, got %d calls", calls)
		}
	})

	t.Run("empty everywhere returns nothing without error", func(t *testing.T) {
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(spotifyTracksResponse{})
		}, "US")

		tracks, err := svc.Recommendations(context.Background(), "3BQHpFgAp4l80e1XslIjNI")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected no tracks, got %d", len(tracks))
		}
	})
}

func TestArtistTopTracks(t *testing.T) {
	t.Run("skips failing markets", func(t *testing.T) {
		svc := spotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("market") == "US" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(spotifyTracksResponse{
				Tracks: []spotifyTrack{testTrack("2x9SpqnPi8rlE9pjHBwmSC", "Let It Be", "The Beatles")},
			})
		}, "US", "GB")

		tracks, err := svc.ArtistTopTracks(context.Background(), "artist-1")
		if err != nil {
			t.Fatalf("failed to get top tracks: %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("expected 1 track, got %d", len(tracks))
		}
	})
}

func TestUnconfiguredCatalog(t *testing.T) {
	svc := NewSpotifyService(shared.CatalogConfig{}, nil)

	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}

	if _, err := svc.ResolveTrack(context.Background(), "Yesterday"); !errors.Is(err, shared.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := svc.Recommendations(context.Background(), "3BQHpFgAp4l80e1XslIjNI"); !errors.Is(err, shared.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTrackDisplay(t *testing.T) {
	if got := (Track{Name: "Yesterday", Artist: "The Beatles"}).Display(); got != "Yesterday by The Beatles" {
		t.Errorf("unexpected display: %s", got)
	}
	if got := (Track{Name: "Yesterday"}).Display(); got != "Yesterday" {
		t.Errorf("expected bare name without artist, got %s", got)
	}
}
