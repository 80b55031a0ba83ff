package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NetworkArchetype/PLM/internal/api"
	"github.com/NetworkArchetype/PLM/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Database        string
	Addr            string
	ShutdownTimeout time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded runs over a read-only HTTP API",
		Long: `Start an HTTP server over a run database.

Endpoints:
  GET /healthz             liveness + database reachability
  GET /runs                list recorded runs
  GET /runs/{id}           one run's metadata
  GET /runs/{id}/samples   the run's full sample series, ordered by t
  GET /metrics             Prometheus metrics

The server never writes to the database; record runs separately with
'plm run --record'.

Examples:
  plm serve --db ./plm.db
  plm serve --db ./plm.db --addr :9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&opts.ShutdownTimeout, "shutdown-timeout", 5*time.Second, "graceful shutdown deadline")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runServe(opts *ServeOptions) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           api.New(st).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("serving runs", "addr", opts.Addr, "db", opts.Database)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitCommandError, "server failed", err)
		}
		return nil

	case sig := <-shutdown:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown incomplete, closing", "error", err)
			if err := srv.Close(); err != nil {
				return WrapExitError(ExitFailure, "failed to close server", err)
			}
		}
		slog.Info("server stopped")
		return nil
	}
}
