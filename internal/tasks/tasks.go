package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/repositories"
	"github.com/jspicer/mediahub/internal/shared"
)

// HealthSnapshot reports database liveness at a point in time.
type HealthSnapshot struct {
	Database string    `json:"database"`
	Users    int       `json:"users"`
	TakenAt  time.Time `json:"taken_at"`
}

// StatsResult reports collection sizes across all users.
type StatsResult struct {
	Users    int            `json:"users"`
	Sections map[string]int `json:"sections"`
	Total    int            `json:"total"`
}

// CleanupResult reports what the cleanup task removed.
type CleanupResult struct {
	Deleted int    `json:"deleted"`
	Note    string `json:"note,omitempty"`
}

// MaintenanceEngine runs the named maintenance tasks behind the cron endpoint.
type MaintenanceEngine struct {
	db     *sql.DB
	users  *repositories.UserRepository
	items  *repositories.ItemRepository
	logger *log.Logger
}

// NewMaintenanceEngine creates a MaintenanceEngine with the provided dependencies.
func NewMaintenanceEngine(db *sql.DB, users *repositories.UserRepository, items *repositories.ItemRepository, logger *log.Logger) *MaintenanceEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MaintenanceEngine{db: db, users: users, items: items, logger: logger}
}

// Run dispatches a task by name. Unknown names report [shared.ErrInvalidInput].
func (e *MaintenanceEngine) Run(ctx context.Context, task string) (any, error) {
	switch task {
	case "", "health":
		return e.Health(ctx)
	case "stats":
		return e.Stats(ctx)
	case "cleanup":
		return e.Cleanup(ctx)
	}
	return nil, fmt.Errorf("%w: unknown task %q", shared.ErrInvalidInput, task)
}

// Health pings the database and counts accounts.
func (e *MaintenanceEngine) Health(ctx context.Context) (*HealthSnapshot, error) {
	snapshot := &HealthSnapshot{Database: "ok", TakenAt: time.Now()}

	if err := e.db.PingContext(ctx); err != nil {
		e.logger.Error("health snapshot: database unreachable", "err", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}

	users, err := e.users.Count()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	snapshot.Users = users

	return snapshot, nil
}

// Stats counts stored items per section across all users.
func (e *MaintenanceEngine) Stats(ctx context.Context) (*StatsResult, error) {
	result := &StatsResult{Sections: map[string]int{}}

	users, err := e.users.Count()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	result.Users = users

	for _, category := range models.Categories() {
		count, err := e.items.Count(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
		}
		result.Sections[category.String()] = count
		result.Total += count
	}

	return result, nil
}

// Cleanup is a stub: no retention policy is defined yet, so it deletes
// nothing and says so.
//
// TODO: specify retention (which sections, what age) before implementing.
func (e *MaintenanceEngine) Cleanup(ctx context.Context) (*CleanupResult, error) {
	e.logger.Info("cleanup task invoked; retention policy not defined, nothing deleted")
	return &CleanupResult{Deleted: 0, Note: "retention policy not defined"}, nil
}
