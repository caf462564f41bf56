package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/domshim/internal/config"
	"github.com/GriffinCanCode/domshim/internal/logging"
	"go.uber.org/zap"
)

func main() {
	htmlPath := flag.String("html", "", "HTML document to load")
	manifestPath := flag.String("manifest", "", "Page manifest (.yaml, .yml or .toml)")
	asJSON := flag.Bool("json", false, "Print a JSON report instead of the rendered document")
	sanitize := flag.String("sanitize", "", "innerHTML sanitize policy: none, ugc, strict (overrides DOMSHIM_SANITIZE)")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	if *sanitize != "" {
		cfg.Host.Sanitize = *sanitize
	}

	logger, err := logging.New(cfg.Logging.Logger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	p, err := loadPage(*htmlPath, *manifestPath, flag.Args())
	if err != nil {
		logger.Fatal("Failed to load page", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := run(ctx, cfg, p, logger)
	if err != nil {
		logger.Fatal("Run failed", zap.Error(err))
	}

	if err := rep.write(os.Stdout, *asJSON); err != nil {
		logger.Fatal("Failed to write output", zap.Error(err))
	}
	if rep.failed() {
		os.Exit(2)
	}
}
