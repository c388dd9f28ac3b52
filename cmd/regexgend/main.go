package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/aschepis/backscratcher/regexgen/client"
	"github.com/aschepis/backscratcher/regexgen/config"
	"github.com/aschepis/backscratcher/regexgen/httpapi"
	rglogger "github.com/aschepis/backscratcher/regexgen/logger"
	"github.com/aschepis/backscratcher/regexgen/runtime"
	"github.com/aschepis/backscratcher/regexgen/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type daemonOptions struct {
	configPath string
	socketPath string
	tcpAddress string
	httpAddr   string
	logFile    string
	pretty     bool
}

func newRootCmd() *cobra.Command {
	opts := &daemonOptions{}
	cmd := &cobra.Command{
		Use:          "regexgend",
		Short:        "Serve regex translation over gRPC and HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: $REGEXGEN_CONFIG_PATH or ~/.regexgen/config.yaml)")
	flags.StringVar(&opts.socketPath, "socket", "", "Unix socket path for gRPC server (default: server.socket from config)")
	flags.StringVar(&opts.tcpAddress, "tcp", "", "TCP address to listen on (e.g., localhost:50051). If set, disables Unix socket")
	flags.StringVar(&opts.httpAddr, "http", "", "HTTP API address (e.g., localhost:8080). Overrides server.http from config")
	flags.StringVar(&opts.logFile, "logfile", "", "Path to log file. If not set, logs to stderr")
	flags.BoolVar(&opts.pretty, "pretty", false, "Use pretty console output (only valid when logfile is not set)")
	return cmd
}

func run(opts *daemonOptions) error {
	// Validate that --logfile and --pretty are mutually exclusive
	if opts.logFile != "" && opts.pretty {
		return fmt.Errorf("--logfile and --pretty are mutually exclusive")
	}

	logger, err := rglogger.InitWithOptions(opts.logFile, opts.pretty)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.LoadDotEnv(); err != nil {
		logger.Warn().Err(err).Msg("Ignoring .env file")
	}
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.GetConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info().Str("path", configPath).Msg("Loaded configuration")

	// Command line flags override config
	if opts.socketPath != "" {
		cfg.Server.Socket = opts.socketPath
	}
	if opts.tcpAddress != "" {
		cfg.Server.TCP = opts.tcpAddress
	}
	if opts.httpAddr != "" {
		cfg.Server.HTTP = opts.httpAddr
	}
	if cfg.Server.Socket == "" {
		cfg.Server.Socket = client.DefaultSocketPath
	}

	app, err := runtime.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck // No remedy for close errors on shutdown

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		SocketPath: cfg.Server.Socket,
		Logger:     logger,
	}, app.Service)

	serverErr := make(chan error, 1)
	go func() {
		if cfg.Server.TCP != "" {
			serverErr <- srv.ServeTCP(cfg.Server.TCP)
			return
		}
		// Remove existing socket file if it exists
		if err := os.Remove(cfg.Server.Socket); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("socket", cfg.Server.Socket).Msg("Failed to remove existing socket file")
		}
		serverErr <- srv.ServeUnix(cfg.Server.Socket)
	}()

	// httpDone stays nil, and never ready, when the HTTP API is off.
	var httpDone chan error
	if cfg.Server.HTTP != "" {
		httpSrv, err := httpapi.New(cfg.Server.HTTP, app.Service, logger)
		if err != nil {
			return err
		}
		httpDone = make(chan error, 1)
		go func() {
			httpDone <- httpSrv.Run(ctx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal")
		srv.GracefulStop()
	case err := <-serverErr:
		runErr = err
	case err := <-httpDone:
		runErr = err
		httpDone = nil
		srv.GracefulStop()
	}

	stop()
	if httpDone != nil {
		if err := <-httpDone; err != nil && runErr == nil {
			runErr = err
		}
	}

	// Cleanup socket file on shutdown
	if cfg.Server.TCP == "" {
		if err := os.Remove(cfg.Server.Socket); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("socket", cfg.Server.Socket).Msg("Failed to remove socket file on shutdown")
		}
	}

	if runErr != nil && !errors.Is(runErr, grpc.ErrServerStopped) {
		return fmt.Errorf("server error: %w", runErr)
	}
	logger.Info().Msg("regexgend shutdown complete")
	return nil
}
