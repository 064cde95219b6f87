// Package models defines domain entities and shared value types for the mediahub collection tracker.
//
// The package contains two categories of types:
//
// 1. Value types and DTOs: request-scoped data that is never persisted
//   - [Category] : the four fixed collection sections
//   - [Recommendation] : a single recommended title with link and reason
//   - [RecommendationSet] : a full recommendation response with its basis item
//
// 2. Persistent Entities: database-backed models
//   - [User] : account identity with a salted password hash
//   - [Item] : a titled entry in one of the four sections, optionally carrying
//     category-specific catalog metadata (catalog id and media kind for movies,
//     catalog track id and artwork URL for songs)
//
// Persistent entities implement the [Model] interface providing ID access, creation timestamps, and validation.
package models
