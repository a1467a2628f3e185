package main

import (
	"github.com/joho/godotenv"

	"github.com/bookden/bookden/internal/config"
	"github.com/bookden/bookden/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// Optional .env file for local development; environment wins.
	_ = godotenv.Load()

	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
