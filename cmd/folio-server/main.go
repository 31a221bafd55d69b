package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to folio.toml (default: $FOLIO_CONFIG, then binary dir, then config/folio.toml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		common.LoadVersionFromFile()
		fmt.Println(common.CurrentBuild())
		return
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	srv := server.NewServer(a)

	// Start HTTP server
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	a.Logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)).
		Dur("startup", time.Since(a.StartupTime)).
		Msg("Server ready")

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		a.Logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errChan:
		a.Logger.Error().Err(err).Msg("HTTP server failed")
		exitCode = 1
	}

	common.PrintShutdownBanner(a.Logger)

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	a.Logger.Info().Msg("Server stopped")

	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
