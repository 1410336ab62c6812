// Package server owns the websocket endpoint: binding it, serving sessions
// on it, and bringing it back after it fails.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultHeartbeat = 1 * time.Second
	DefaultBackoff   = 5 * time.Second
)

// ErrNoAddress means there is nothing to bind to; the daemon cannot run.
var ErrNoAddress = errors.New("could not resolve a bind address")

var errListenerExited = errors.New("listener exited unexpectedly")

// Supervisor keeps exactly one listener bound until its context is
// cancelled. Any bind or serve failure is retried after Backoff, forever.
// There is no retry cap: under a persistent bind failure the supervisor keeps
// logging and retrying every Backoff until shutdown.
type Supervisor struct {
	Resolve   func() (string, error)
	Listen    func(addr string) (Listener, error)
	Heartbeat time.Duration
	Backoff   time.Duration
	Logger    *slog.Logger
}

// Run returns nil once ctx is cancelled, or ErrNoAddress when Resolve fails.
func (s *Supervisor) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		addr, err := s.Resolve()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoAddress, err)
		}

		err = s.serve(ctx, addr)
		if err == nil || ctx.Err() != nil {
			break
		}

		s.Logger.Error("server error", "error", err)
		s.Logger.Info("attempting to restart server", "backoff", s.Backoff)
		if !sleep(ctx, s.Backoff) {
			break
		}
	}
	s.Logger.Info("server stopped")
	return nil
}

// serve returns nil only when ctx is cancelled. The listener is always
// stopped before serve returns.
func (s *Supervisor) serve(ctx context.Context, addr string) error {
	s.Logger.Info("starting websocket server", "address", addr)
	l, err := s.Listen(addr)
	if err != nil {
		return err
	}
	s.Logger.Info("server listening", "address", l.Addr().String())

	heartbeat := s.Heartbeat
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	started := time.Now()
	for {
		select {
		case <-ctx.Done():
			if err := l.Stop(); err != nil {
				s.Logger.Warn("could not stop listener cleanly", "error", err)
			}
			return nil
		case err := <-l.Done():
			if err == nil {
				err = errListenerExited
			}
			_ = l.Stop()
			return err
		case <-ticker.C:
			s.Logger.Debug("heartbeat", "address", addr, "uptime", time.Since(started).Round(time.Second))
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
