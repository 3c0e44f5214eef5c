package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
)

// Listen binds the first free port among attempts consecutive candidates
// starting at port, and returns the listener with the port it got.
func Listen(ctx context.Context, host string, port, attempts int) (net.Listener, int, error) {
	if attempts < 1 {
		attempts = 1
	}
	lc := net.ListenConfig{}
	var lastErr error
	for i := 0; i < attempts; i++ {
		candidate := port + i
		if candidate > 65535 {
			break
		}
		ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(host, fmt.Sprint(candidate)))
		if err == nil {
			return ln, candidate, nil
		}
		lastErr = err
		slog.Debug("Port unavailable", logfields.Port(candidate), logfields.Error(err))
	}
	return nil, 0, foundation.ResourceError(fmt.Sprintf("exhausted %d candidate ports starting at %d", attempts, port)).
		WithCause(lastErr).
		Fatal().
		Build()
}
