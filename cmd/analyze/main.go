// Package main analyzes one address and prints a paperhands report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luckyturtle/nftape.me/internal/app"
	"github.com/luckyturtle/nftape.me/internal/config"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/reporting"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	address := flag.String("address", "", "Wallet address to analyze")
	method := flag.String("method", "", "Price method: mean, median or floor (default from config)")
	format := flag.String("format", "markdown", "Output format: markdown, json or csv")
	output := flag.String("output", "", "Write the report to this file instead of stdout")
	flag.Parse()

	if *address == "" && flag.NArg() > 0 {
		*address = flag.Arg(0)
	}
	if *address == "" {
		fmt.Fprintln(os.Stderr, "Error: --address is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *method != "" {
		cfg.Pricing.Method = *method
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewWithOutput(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize")
	}
	defer a.Close()

	report, err := a.Orchestrator.Analyze(ctx, *address)
	if err != nil {
		logger.WithError(err).Error("Analysis failed")
		a.Close()
		os.Exit(1)
	}

	out, err := render(reporting.Build(report), *format)
	if err != nil {
		logger.WithError(err).Error("Failed to render report")
		a.Close()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*output, []byte(out), 0644); err != nil {
		logger.WithError(err).Error("Failed to write report")
		a.Close()
		os.Exit(1)
	}
	logger.WithField("path", *output).Info("Report written")
}

func render(doc *reporting.Document, format string) (string, error) {
	switch format {
	case "markdown", "md":
		return reporting.RenderMarkdown(doc), nil
	case "json":
		b, err := reporting.RenderJSON(doc)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "csv":
		return reporting.RenderCSV(doc)
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
