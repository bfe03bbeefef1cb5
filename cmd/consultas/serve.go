package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/consultas-api/internal/database"
	"github.com/deppfellow/consultas-api/internal/handler"
	"github.com/deppfellow/consultas-api/internal/repository"
	"github.com/deppfellow/consultas-api/internal/router"
	"github.com/deppfellow/consultas-api/internal/server"
	"github.com/deppfellow/consultas-api/internal/service"
)

// ShutdownTimeout bounds how long in-flight requests get after a signal.
const ShutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the cache warm worker",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	log := rt.logger
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if rt.cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, &log, rt.cfg); err != nil {
			return err
		}
	}

	srv, err := server.New(rt.cfg, &log, rt.loggerService)
	if err != nil {
		return err
	}

	if err := setup(srv); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			shutdown(srv)
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	return shutdown(srv)
}

// setup wires the services and routes onto srv and starts the job worker.
// srv is shut down when a step fails.
func setup(srv *server.Server) error {
	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		shutdown(srv)
		return err
	}

	// The warmer is registered by NewServices, so jobs start only now.
	if err := srv.StartJobs(); err != nil {
		shutdown(srv)
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))
	return nil
}

func shutdown(srv *server.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		srv.Logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	srv.Logger.Info().Msg("server exited properly")
	return nil
}
