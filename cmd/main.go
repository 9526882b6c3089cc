package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelofallars/hyperinvoice/app"
	"github.com/angelofallars/hyperinvoice/internal/api"
	"github.com/angelofallars/hyperinvoice/internal/config"
	"github.com/angelofallars/hyperinvoice/internal/document"
	"github.com/angelofallars/hyperinvoice/internal/service"
	"github.com/angelofallars/hyperinvoice/internal/store"
	"github.com/angelofallars/hyperinvoice/pkg/invoiceapi"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "hyperinvoice",
		Usage: "invoice form and invoice service",
		Commands: []*cli.Command{
			{
				Name:  "web",
				Usage: "run the invoice form",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: cfg.Web.Host, Usage: "listen host"},
					&cli.UintFlag{Name: "port", Value: cfg.Web.Port, Usage: "listen port"},
					&cli.StringFlag{Name: "api-url", Value: cfg.Web.APIURL, Usage: "invoice service base URL"},
				},
				Action: func(c *cli.Context) error {
					return runWeb(c.Context, logger, cfg, c.String("host"), c.Uint("port"), c.String("api-url"))
				},
			},
			{
				Name:  "api",
				Usage: "run the invoice service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: cfg.API.Host, Usage: "listen host"},
					&cli.UintFlag{Name: "port", Value: cfg.API.Port, Usage: "listen port"},
				},
				Action: func(c *cli.Context) error {
					return runAPI(c.Context, logger, cfg, c.String("host"), c.Uint("port"))
				},
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger.Error("exited with error", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.Development() {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func runWeb(ctx context.Context, logger *slog.Logger, cfg config.Config, host string, port uint, apiURL string) error {
	client := invoiceapi.New(apiURL, invoiceapi.WithAPIKey(cfg.Web.APIKey))
	if err := client.Health(ctx); err != nil {
		logger.Warn("invoice service is not reachable", "url", apiURL, "err", err)
	}

	svcInvoice := service.NewInvoice(client)

	return app.New(logger, svcInvoice).
		WithHost(host).
		WithPort(port).
		Serve(ctx)
}

func runAPI(ctx context.Context, logger *slog.Logger, cfg config.Config, host string, port uint) error {
	st, err := store.Open(cfg.API.DatabaseDSN, cfg.Development(), store.WithInvoiceStart(cfg.API.InvoiceStart))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	var archiver document.Archiver = document.Dir{Root: cfg.API.OutputDir}
	if cfg.API.S3Bucket != "" {
		archiver, err = document.NewS3(cfg.API.AWSRegion, cfg.API.S3Bucket, cfg.API.S3Prefix)
		if err != nil {
			return fmt.Errorf("configuring S3 archive: %w", err)
		}
		logger.Info("archiving invoices to S3", "bucket", cfg.API.S3Bucket)
	}

	return api.New(logger, st, archiver, api.Settings{
		APIKey:        cfg.API.APIKey,
		InvoicePrefix: cfg.API.InvoicePrefix,
		Header:        cfg.API.Header,
		DueDays:       cfg.API.DueDays,
		CORSOrigins:   cfg.API.CORSOrigins,
	}).
		WithHost(host).
		WithPort(port).
		Serve(ctx)
}
