package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/mrpplan/pkg/interfaces/api"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Addr            string
	StorePath       string
	Workers         int
	MaxBuckets      int
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// ServeCommand serves the planning API until its context is cancelled
type ServeCommand struct {
	config ServeConfig
	logger *zap.Logger
	out    io.Writer
	// ready, when set, receives the bound address once the listener is open
	ready func(addr string)
}

// NewServeCommand creates a new serve command
func NewServeCommand(config ServeConfig, logger *zap.Logger, out io.Writer) *ServeCommand {
	return &ServeCommand{config: config, logger: logger.Named("serve"), out: out}
}

// Execute runs the server and shuts it down gracefully when ctx is done
func (c *ServeCommand) Execute(ctx context.Context) error {
	store, err := sqlite.NewStore(c.config.StorePath, c.logger)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer store.Close()

	service := mrp.NewMRPService(mrp.NewEngineWithConfig(mrp.EngineConfig{
		Workers:    c.config.Workers,
		MaxBuckets: c.config.MaxBuckets,
	}), store, c.logger)
	srv := &http.Server{
		Handler:           api.NewServer(service, store, c.logger, c.config.MaxBodyBytes).Routes(),
		ReadTimeout:       c.config.ReadTimeout,
		ReadHeaderTimeout: c.config.ReadTimeout,
	}

	listener, err := net.Listen("tcp", c.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.config.Addr, err)
	}
	addr := listener.Addr().String()
	fmt.Fprintf(c.out, "Listening on: http://%s\n", addr)
	c.logger.Info("Serving planning API", zap.String("addr", addr), zap.String("store", c.config.StorePath))
	if c.ready != nil {
		c.ready(addr)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	c.logger.Info("Shutting down planning API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newServeCmd(env *environment) *cobra.Command {
	var (
		addr      string
		storePath string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning API over HTTP",
		Long: `Serve the planning contract as JSON over HTTP:

  POST /v1/plans        run a planning request
  GET  /v1/runs         list stored runs, newest first
  GET  /v1/runs/{id}    fetch a stored run (?format=xlsx for a workbook)
  GET  /healthz         liveness

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := ServeConfig{
				Addr:            env.cfg.Server.Addr,
				StorePath:       env.cfg.Store.Path,
				Workers:         env.cfg.Planning.Workers,
				MaxBuckets:      env.cfg.Planning.MaxBuckets,
				ReadTimeout:     env.cfg.Server.ReadTimeout,
				ShutdownTimeout: env.cfg.Server.ShutdownTimeout,
				MaxBodyBytes:    env.cfg.Server.MaxBodyBytes,
			}
			if cmd.Flags().Changed("addr") {
				config.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				config.StorePath = storePath
			}
			if cmd.Flags().Changed("workers") {
				config.Workers = workers
			}
			return NewServeCommand(config, env.logger, cmd.OutOrStdout()).Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite run store path (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers per low-level code (default from config)")
	return cmd
}
