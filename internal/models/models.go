// package models defines the data model for the media collection service
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include [User] and [Item].
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Recommendation is a single recommended title returned by the orchestrator.
// Recommendations are request-scoped and never persisted; the caller may add
// one back into the collection through the ordinary add-item flow.
type Recommendation struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Reason string `json:"reason"`
}

// RecommendationSet is the full response of one recommendation request.
type RecommendationSet struct {
	BasedOn string           `json:"based_on"`
	Section Category         `json:"section"`
	Results []Recommendation `json:"results"`
}
