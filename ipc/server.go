package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
)

// ListenUnix binds a unix socket at path, removing a stale socket file left
// by an unclean shutdown.
func ListenUnix(path string) (net.Listener, error) {
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("clean up socket %s: %w", path, err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}
	return ln, nil
}

// Serve accepts connections until ctx is cancelled, running each one on its
// own goroutine. setup registers handlers on the new connection.
func Serve(ctx context.Context, ln net.Listener, setup func(*Connection)) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}
		slog.Info("new connection accepted")
		c := NewConnection(NewFrameTransport(conn), nil)
		setup(c)
		go c.ReadLoop()
	}
}
