package lsp

import (
	"context"
	"io"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Serve runs a server over a JSON-RPC stream on in and out until the
// connection closes.
func Serve(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer, opts Options) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, logger)

	server := NewServer(client, logger, opts)

	// Register the server handler with the connection
	conn.Go(ctx, protocol.ServerHandler(server, nil))

	// Wait for the connection to close
	select {
	case <-conn.Done():
		return conn.Err()
	case <-ctx.Done():
		_ = conn.Close()

		return ctx.Err()
	}
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
