package main

import (
	"context"
	"log"

	"github.com/celestia-oracle/celestia/internal/server"
	"github.com/celestia-oracle/celestia/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
