package client

import (
	"fmt"
	"strings"

	"github.com/aschepis/backscratcher/regexgen/api/regexgenpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	// DefaultSocketPath is the default Unix socket path for the daemon.
	DefaultSocketPath = "/tmp/regexgend.sock"
)

// Client is the main client for interacting with the regexgend daemon.
type Client struct {
	conn *grpc.ClientConn

	Translation regexgenpb.TranslationServiceClient
}

// Connect connects to the regexgend daemon.
// The address can be:
//   - A Unix socket path (e.g., "/tmp/regexgend.sock")
//   - A TCP address (e.g., "localhost:50051")
//
// If the address starts with "unix://", it will be treated as a Unix socket.
// Otherwise, if it contains ":" it will be treated as TCP, else Unix socket.
// Extra dial options are appended after the transport credentials.
func Connect(address string, extra ...grpc.DialOption) (*Client, error) {
	target := Target(address)
	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	opts = append(opts, extra...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", address, err)
	}

	return &Client{
		conn:        conn,
		Translation: regexgenpb.NewTranslationServiceClient(conn),
	}, nil
}

// Target converts a daemon address to a gRPC dial target.
func Target(address string) string {
	switch {
	case strings.HasPrefix(address, "unix://"):
		return address
	case strings.Contains(address, ":") && !strings.HasPrefix(address, "/"):
		return address
	default:
		return "unix://" + address
	}
}

// Close closes the connection to the daemon.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
