package main

import (
	_ "planner/docs"
	"planner/internal/config"
	"planner/internal/logging"
	"planner/internal/server"
)

// @title           Planner API
// @version         1.0
// @description     Personal task planner with recurring tasks generated on demand.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	for _, warning := range cfg.Warnings {
		logger.Warn("⚠️  " + warning)
	}

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Server initialization failed", "err", err)
	}

	s.Run()
}
