package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angelofallars/hyperinvoice/internal/document"
	"github.com/angelofallars/hyperinvoice/internal/store"
	"github.com/go-chi/chi/v5"
)

// Settings are the invoice policies the service applies on save.
type Settings struct {
	APIKey        string
	InvoicePrefix string
	Header        string
	DueDays       int
	CORSOrigins   []string
}

type API struct {
	host string
	port int

	slog   *slog.Logger
	router chi.Router

	store    *store.Store
	archiver document.Archiver
	settings Settings
}

func New(slog *slog.Logger, st *store.Store, archiver document.Archiver, settings Settings) *API {
	if settings.DueDays == 0 {
		settings.DueDays = 30
	}

	api := &API{
		host: "0.0.0.0",
		port: 8000,

		router: chi.NewRouter(),
		slog:   slog,

		store:    st,
		archiver: archiver,
		settings: settings,
	}

	api.RegisterRoutes()

	return api
}

func (a *API) WithHost(host string) *API {
	a.host = host
	return a
}

func (a *API) WithPort(port uint) *API {
	a.port = int(port)
	return a
}

func (a *API) Handler() http.Handler { return a.router }

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (a *API) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := &http.Server{
		Addr:    addr,
		Handler: a.router,

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.slog.Info("invoice service started listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.slog.Info("invoice service stopped")
	return nil
}
