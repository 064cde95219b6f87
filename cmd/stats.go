package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jspicer/mediahub/internal/repositories"
	"github.com/jspicer/mediahub/internal/shared"
	"github.com/jspicer/mediahub/internal/tasks"
)

// Stats runs a maintenance task against the local database and prints the result.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	engine := tasks.NewMaintenanceEngine(db,
		repositories.NewUserRepository(db),
		repositories.NewItemRepository(db),
		r.logger)

	result, err := engine.Run(ctx, cmd.String("task"))
	if err != nil {
		return err
	}

	return r.writeJSON(result, cmd.Bool("pretty"))
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Report collection counts and database health",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "task",
				Usage: "Task to run (health, stats, cleanup)",
				Value: "stats",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Stats,
	}
}
