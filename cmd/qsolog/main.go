package main

import (
	"context"
	"flag"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/app"
	"github.com/shrimpsizemoose/qsolog/internal/console"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		logPath    = flag.String("log", "", "Contest log file, read on start and saved after every change")
		noColor    = flag.Bool("no-color", false, "Disable terminal colors")
	)
	flag.Parse()

	if *logPath == "" {
		logger.Error.Fatalf("No log file given, use -log contest.log")
	}

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	service, err := app.NewService(ctx, config, *logPath, clockwork.NewRealClock())
	if err != nil {
		logger.Error.Fatalf("Failed to start session: %v", err)
	}

	c := console.New(service.Session, service, config.Contest.Name, os.Stdin, os.Stdout, !*noColor)
	runErr := c.Run(ctx)

	if err := service.Close(); err != nil {
		logger.Error.Printf("Shutdown: %v", err)
	}
	if runErr != nil {
		logger.Error.Fatalf("Logger stopped: %v", runErr)
	}
}
