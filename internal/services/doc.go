// Package services implements the outbound HTTP clients backing item resolution and recommendations.
//
// # Interfaces
//
// Three narrow interfaces decouple the orchestrator from concrete providers:
//   - [SongCatalog] : resolve free text or pasted identifiers to canonical
//     tracks, fetch seed-based recommendations, and fetch artist top tracks
//   - [MovieCatalog] : resolve movie titles and fetch related titles
//   - [BookRecommender] : language-model completion producing structured
//     book suggestions
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the client-credentials flow via
// [clientcredentials.Config]; the oauth2 client refreshes tokens automatically.
//
// Catalog availability is region-gated, so lookups and searches iterate an
// ordered market list (configured primary first, then fallbacks, then one
// unscoped attempt) and return the first hit. The search path tries two query
// shapes per market: the bare text, then a field-qualified quoted form.
//
// # TMDb Implementation
//
// [TMDbService] uses a plain api-key query parameter. Movie resolution is a
// single multi-search call taking the first film or series result; related
// titles come from the per-kind similar endpoint.
//
// # Gemini Implementation
//
// [GeminiBooks] asks a generative model for a fixed number of titles with a
// one-line justification each, constrained to a machine-parseable JSON array.
//
// # Error Handling
//
// Clients use sentinel errors from the shared package:
//   - [shared.ErrNotConfigured] : backend credentials absent, feature degraded
//   - [shared.ErrNotFound] : exhaustive search found nothing
//   - [shared.ErrInvalidSeed] : the catalog rejected a seed id (4xx), terminal
//   - [shared.ErrBackendUnavailable] : transport failure or non-2xx response
//
// Every outbound call takes a context, runs under a per-client rate limiter,
// and is bounded by the client timeout.
package services
