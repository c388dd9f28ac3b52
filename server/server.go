// Package server implements the gRPC server for the regexgend daemon.
package server

import (
	"context"
	"net"
	"time"

	"github.com/aschepis/backscratcher/regexgen/api/regexgenpb"
	reqctx "github.com/aschepis/backscratcher/regexgen/context"
	"github.com/aschepis/backscratcher/regexgen/ui"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
)

// Server is the main gRPC server for regexgend.
type Server struct {
	regexgenpb.UnimplementedTranslationServiceServer

	grpcServer *grpc.Server
	service    ui.TranslationService
	logger     zerolog.Logger

	startedAt  time.Time
	socketPath string
}

// Config holds server configuration options.
type Config struct {
	SocketPath string
	Logger     zerolog.Logger
}

// New creates a new gRPC server backed by service.
func New(cfg Config, service ui.TranslationService) *Server {
	s := &Server{
		service:    service,
		logger:     cfg.Logger.With().Str("component", "grpc-server").Logger(),
		socketPath: cfg.SocketPath,
	}

	s.grpcServer = grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.requestIDInterceptor, s.loggingInterceptor),
	)

	regexgenpb.RegisterTranslationServiceServer(s.grpcServer, s)

	// Enable reflection for debugging tools like grpcurl
	reflection.Register(s.grpcServer)

	return s
}

// Serve starts the gRPC server on the given listener.
func (s *Server) Serve(listener net.Listener) error {
	s.startedAt = time.Now()
	s.logger.Info().Str("address", listener.Addr().String()).Msg("Starting gRPC server")
	return s.grpcServer.Serve(listener)
}

// ServeUnix starts the server on a Unix domain socket.
func (s *Server) ServeUnix(socketPath string) error {
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	s.socketPath = socketPath
	return s.Serve(listener)
}

// ServeTCP starts the server on a TCP address.
func (s *Server) ServeTCP(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// GracefulStop gracefully stops the server.
func (s *Server) GracefulStop() {
	s.logger.Info().Dur("uptime", s.Uptime()).Msg("Gracefully stopping gRPC server")
	s.grpcServer.GracefulStop()
}

// Stop immediately stops the server.
func (s *Server) Stop() {
	s.logger.Info().Msg("Stopping gRPC server")
	s.grpcServer.Stop()
}

// Uptime returns how long the server has been serving, or zero before Serve.
func (s *Server) Uptime() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}

// requestIDInterceptor copies x-request-id from incoming metadata into the
// context, generating one when absent.
func (s *Server) requestIDInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	id := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(regexgenpb.RequestIDHeader); len(values) > 0 {
			id = values[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	return handler(reqctx.WithRequestID(ctx, id), req)
}

// loggingInterceptor logs unary RPC calls.
func (s *Server) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start)

	if err != nil {
		s.logger.Error().
			Str("method", info.FullMethod).
			Str("request_id", reqctx.RequestID(ctx)).
			Dur("duration", duration).
			Err(err).
			Msg("RPC failed")
	} else {
		s.logger.Debug().
			Str("method", info.FullMethod).
			Str("request_id", reqctx.RequestID(ctx)).
			Dur("duration", duration).
			Msg("RPC completed")
	}

	return resp, err
}
