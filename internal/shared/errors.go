package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNotConfigured = fmt.Errorf("backend not configured")

	// Authentication errors
	ErrAuthFailed        = fmt.Errorf("invalid username or password")
	ErrNotAuthenticated  = fmt.Errorf("not authenticated")
	ErrNotAuthorized     = fmt.Errorf("not authorized")
	ErrDuplicateUsername = fmt.Errorf("username already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidCategory = fmt.Errorf("invalid category")

	// Persistence errors
	ErrNotFound = fmt.Errorf("not found")

	// Recommendation and catalog errors
	ErrBackendUnavailable = fmt.Errorf("backend unavailable")
	ErrNoEligibleItems    = fmt.Errorf("no eligible items")
	ErrNoRecommendations  = fmt.Errorf("no recommendations found")
	ErrInvalidSeed        = fmt.Errorf("invalid recommendation seed")
)
