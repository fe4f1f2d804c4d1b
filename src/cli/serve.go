package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/username/tradeperf/src/config"
	"github.com/username/tradeperf/src/handlers"
	"github.com/username/tradeperf/src/logger"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	cfg  *config.AppConfig
	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the upload web server" }
func (*serveCmd) Usage() string {
	return `tradeperf serve [-port <port>]

  Serves the upload form on / and the JSON API under /api.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", c.cfg.Port, "TCP port to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger.InitLogger(c.cfg.LogLevel, c.cfg.LogFormat)
	logger.L.Info("tradeperf server starting...")

	uploadService, err := newUploadService(c.cfg, c.cfg.UploadDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	uploadHandler := handlers.NewUploadHandler(uploadService, handlers.UploadHandlerOptions{
		MaxUploadSizeBytes: c.cfg.MaxUploadSizeBytes,
		AllowedExtensions:  c.cfg.AllowedExtensions,
	})
	router := handlers.NewRouter(uploadHandler, handlers.RouterOptions{
		Limiter:        rate.NewLimiter(rate.Every(c.cfg.RateLimitInterval), c.cfg.RateLimitBurst),
		AllowedOrigins: c.cfg.AllowedOrigins,
	})

	serverAddr := ":" + c.port
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("Failed to start server", "error", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		logger.L.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Graceful shutdown failed", "error", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
