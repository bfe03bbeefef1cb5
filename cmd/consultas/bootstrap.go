package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/consultas-api/internal/config"
	"github.com/deppfellow/consultas-api/internal/logger"
)

// app is what every subcommand needs before doing its work.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	loggerService *logger.LoggerService
}

func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:           cfg,
		logger:        logger.NewLoggerWithService(cfg.Observability, loggerService),
		loggerService: loggerService,
	}, nil
}

func (r *app) close() {
	r.loggerService.Shutdown()
}
