package main

import (
	_ "groop/docs"
	"groop/internal/config"
	"groop/internal/logger"
	"groop/internal/server"

	"github.com/rs/zerolog/log"
)

// @title           Groop API
// @version         1.0
// @description     Shared task lists for groups: members, categories, tasks and scores.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)

	s, err := server.Init(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("Server initialization failed")
	}

	s.Run()
}
