package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jspicer/mediahub/internal/auth"
	"github.com/jspicer/mediahub/internal/recommend"
	"github.com/jspicer/mediahub/internal/repositories"
	"github.com/jspicer/mediahub/internal/server"
	"github.com/jspicer/mediahub/internal/services"
	"github.com/jspicer/mediahub/internal/shared"
	"github.com/jspicer/mediahub/internal/tasks"
)

// Serve starts the HTTP server and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		return err
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	authenticator := auth.NewAuthenticator(users, config.Session.Secret,
		time.Duration(config.Session.TTLHours)*time.Hour)

	songs := services.NewSpotifyService(config.Catalog, nil)
	movies := services.NewTMDbService(config.Movies, nil)
	books, err := services.NewGeminiBooks(ctx, config.Books)
	if err != nil {
		return fmt.Errorf("failed to create book backend: %w", err)
	}
	defer books.Close()

	engine := recommend.NewEngine(recommend.EngineOpts{
		Items:  items,
		Songs:  songs,
		Movies: movies,
		Books:  books,
		Logger: r.logger,
	})

	srv := server.New(server.Opts{
		Config:      config,
		Logger:      r.logger,
		Auth:        authenticator,
		Users:       users,
		Items:       items,
		Songs:       songs,
		Movies:      movies,
		Engine:      engine,
		Maintenance: tasks.NewMaintenanceEngine(db, users, items, r.logger),
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-stop:
		r.logger.Info("shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}
