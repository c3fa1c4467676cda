package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/actuallystonmai/aniweb/internal/cache"
	"github.com/actuallystonmai/aniweb/internal/decrypt"
	"github.com/actuallystonmai/aniweb/internal/handler"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/actuallystonmai/aniweb/internal/router"
	"github.com/actuallystonmai/aniweb/internal/service"
	"github.com/actuallystonmai/aniweb/internal/upstream"
	"github.com/actuallystonmai/aniweb/seeds"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	log := logging.For("server")

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seeds.Setup(ctx, store); err != nil {
		return fmt.Errorf("failed to check seed: %w", err)
	}

	responses, err := cache.Connect(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, caching disabled")
		responses = cache.NewCache(nil, cfg.CacheTTL)
	}
	defer responses.Close()

	scraper := upstream.NewClient(cfg.ScraperURL, cfg.UpstreamTimeout, cfg.UpstreamRPS)
	decryptor := decrypt.New(decrypt.Options{
		V1BaseURL:    cfg.V1BaseURL,
		EmbedBaseURL: cfg.EmbedBaseURL,
		DecoderURL:   cfg.DecoderURL,
		Fallback1:    cfg.Fallback1,
		Fallback2:    cfg.Fallback2,
		Timeout:      cfg.UpstreamTimeout,
	})

	svc := service.NewService(store, scraper, decryptor, responses)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(handler.NewHandler(svc), cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
