// Package recommend implements the recommendation orchestrator.
//
// One request moves through a fixed pipeline: select a basis item from the
// caller's collection, fetch candidates from the category's backend, filter
// out excluded and already-owned titles, optionally fall back, respond.
//
// # Strategy Chain
//
// The per-category fetch order is an explicit ordered list of [Strategy]
// values rather than nested control flow, so the search order is a data
// structure the tests can exercise without network calls:
//
//   - movies: catalog related-items
//   - songs: seed recommendations, then artist top tracks
//   - books: language-model completion
//
// A strategy error is terminal for the whole chain (an invalid seed is a
// property of the basis item, not a transient condition); the next strategy
// runs only when the previous one produced zero usable candidates.
//
// # Exclusion Semantics
//
// The caller-supplied disliked and already-shown titles form a request-scoped
// exclusion set. It shrinks the basis pool before selection and, together
// with the user's stored titles, filters the candidate list. Matching is a
// case-sensitive literal comparison of display titles ("Title by Creator"
// for songs and movies).
package recommend
