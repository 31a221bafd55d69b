package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

var folioArt = []string{
	` 8888888888  .d88888b.  888      8888888  .d88888b.`,
	` 888        d88P" "Y88b 888        888   d88P" "Y88b`,
	` 888        888     888 888        888   888     888`,
	` 8888888    888     888 888        888   888     888`,
	` 888        888     888 888        888   888     888`,
	` 888        Y88b. .d88P 888        888   Y88b. .d88P`,
	` 888         "Y88888P"  88888888 8888888  "Y88888P"`,
}

const (
	bannerWidth   = 70
	shutdownWidth = 42
	labelWidth    = 16
)

func rule(width int) string {
	return banner.ColorCyan + strings.Repeat("═", width) + banner.ColorReset
}

func bold(s string) string {
	return banner.ColorBold + banner.ColorWhite + s + banner.ColorReset
}

// startupFacts lists the label/value rows shown under the logo.
func startupFacts(config *Config) [][2]string {
	build := CurrentBuild()
	return [][2]string{
		{"Version", build.Version},
		{"Build", build.Build},
		{"Commit", build.Commit},
		{"Environment", config.Environment},
		{"Service URL", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)},
		{"Storage", config.Storage.Backend},
		{"Storage Addr", storageAddress(config)},
		{"Currency", config.Currency},
	}
}

// storageAddress never exposes a postgres password.
func storageAddress(config *Config) string {
	if config.Storage.Backend == "postgres" {
		return redactDSN(config.Storage.Postgres.DSN)
	}
	return config.Storage.Address
}

func writeBanner(w io.Writer, config *Config) {
	fmt.Fprintf(w, "\n%s\n\n", rule(bannerWidth))
	for _, line := range folioArt {
		fmt.Fprintln(w, bold(line))
	}
	fmt.Fprintf(w, "\n%s\n\n%s\n\n", bold("  Personal Investment Portfolio Tracker"), rule(bannerWidth))
	for _, kv := range startupFacts(config) {
		fmt.Fprintln(w, bold(fmt.Sprintf("  %-*s %s", labelWidth, kv[0], kv[1])))
	}
	fmt.Fprintf(w, "\n%s\n\n", rule(bannerWidth))
}

// PrintBanner writes the startup banner to stderr and logs the same facts.
func PrintBanner(config *Config, logger *Logger) {
	writeBanner(os.Stderr, config)

	build := CurrentBuild()
	logger.Info().
		Str("version", build.Version).
		Str("commit", build.Commit).
		Str("environment", config.Environment).
		Str("storage_backend", config.Storage.Backend).
		Str("storage_address", storageAddress(config)).
		Int("port", config.Server.Port).
		Msg("Application started")
}

// PrintShutdownBanner writes the shutdown notice to stderr.
func PrintShutdownBanner(logger *Logger) {
	fmt.Fprintf(os.Stderr, "\n%s\n%s\n%s\n\n", rule(shutdownWidth), bold("  FOLIO SHUTTING DOWN"), rule(shutdownWidth))
	logger.Info().Msg("Application shutting down")
}

// redactDSN hides the password component of a postgres URL.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return dsn[:scheme+3] + creds[:colon] + ":****" + dsn[at:]
	}
	return dsn
}
