package main

import (
	"realty/config"
	"realty/di"
	"realty/helper"
	"realty/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	defer logger.Setup(cfg)()

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
