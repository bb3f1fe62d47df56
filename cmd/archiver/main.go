package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/app"
	"github.com/shrimpsizemoose/qsolog/internal/handlers"
	"github.com/shrimpsizemoose/qsolog/internal/models"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		logPath    = flag.String("log", "", "Finished contest log to archive")
		serve      = flag.Bool("serve", false, "Serve the standings API after archiving")
	)
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	if *logPath != "" {
		if err := archiveLog(config, *logPath); err != nil {
			logger.Error.Fatalf("Failed to archive %s: %v", *logPath, err)
		}
	}

	if *serve {
		if err := serveStandings(config); err != nil {
			logger.Error.Fatalf("Standings server failed: %v", err)
		}
	}
}

func archiveLog(config *app.Config, logPath string) error {
	if _, err := os.Stat(logPath); err != nil {
		return err
	}

	service, err := app.NewService(context.Background(), config, logPath, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer service.Close()

	sub, err := service.ArchiveLog()
	if err != nil {
		return err
	}
	logger.Info.Printf("Archived %s: %d QSOs, %d points x %d multipliers = %d (receipt %s)",
		sub.Call, sub.QSOCount, sub.Points, sub.Multipliers+sub.Fields, sub.Score, sub.Receipt)

	standings, err := service.Standings(sub.Class)
	if err != nil {
		return err
	}
	return printStandings(os.Stdout, sub.Class, standings)
}

func printStandings(w io.Writer, class string, standings []models.Submission) error {
	fmt.Fprintf(w, "Standings class %s\n\n", class)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tCall\tDOK\tQSOs\tPoints\tMulti\tScore\t")
	for i, s := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t\n",
			i+1, s.Call, s.DOK, s.QSOCount, s.Points, s.Multipliers+s.Fields, s.Score)
	}
	return tw.Flush()
}

func serveStandings(config *app.Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is not specified in config, use a value like :9999")
	}

	archive, err := app.NewArchive(config.Archive.DSN, config.Archive.MigrationsDir)
	if err != nil {
		return err
	}
	defer archive.Close()

	mux := http.NewServeMux()
	handlers.NewStandingsHandler(archive).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: config.Server.Port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("Starting standings server on %s", config.Server.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info.Println("Shutting down standings server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
