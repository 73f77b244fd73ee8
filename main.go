package main

import (
	"context"
	"flag"
	"log"

	"github.com/Black-And-White-Club/rock-destroyer/app"
	"github.com/Black-And-White-Club/rock-destroyer/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if err := application.WaitForShutdown(ctx); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
}
