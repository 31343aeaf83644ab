package main

import (
	"os"

	"github.com/churchmanager/scheduler/internal/pkg/logger"
	"github.com/churchmanager/scheduler/internal/server"
)

// @title Church Scheduler API
// @version 1.0
// @description Administration API for church ministry schedules and WhatsApp notifications

// @host localhost:8000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin JWT, sent as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until SIGINT/SIGTERM
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
