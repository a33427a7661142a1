package main

import (
	"shutter/config"
	"shutter/di"
	_ "shutter/docs"
	"shutter/helper"
	"shutter/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Shutter API
// @version 1.0
// @description Photography booking service: packages, bookings and their lifecycle, messages, payments and deliverables.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
