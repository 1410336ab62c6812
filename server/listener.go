package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxMessageSize    = 512
	writeWait         = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	closeGracePeriod  = 2 * time.Second
)

// UnknownPeer is logged for connections whose remote address can't be read.
const UnknownPeer = "Unknown IP"

// Behavior is the per-connection callback set. OnMessage returns the single
// response that is written back before the next message is read.
type Behavior interface {
	OnOpen(peer string)
	OnMessage(peer, raw string) string
	OnClose(peer string)
	OnError(peer string, err error)
}

// Listener is one bound websocket endpoint.
type Listener interface {
	Addr() net.Addr
	// Done yields an error if the listener stops serving on its own and is
	// closed once it has stopped.
	Done() <-chan error
	Stop() error
}

type wsListener struct {
	path     string
	behavior Behavior
	logger   *slog.Logger
	upgrader websocket.Upgrader
	ln       net.Listener
	srv      *http.Server
	done     chan error

	mu       sync.Mutex
	stopped  bool
	conns    map[*websocket.Conn]struct{}
	sessions sync.WaitGroup
	stopOnce sync.Once
	stopErr  error
}

// Listen binds addr and serves websocket sessions on path until Stop.
func Listen(addr, path string, behavior Behavior, logger *slog.Logger) (Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not bind %s: %w", addr, err)
	}
	return serve(ln, path, behavior, logger), nil
}

func serve(ln net.Listener, path string, behavior Behavior, logger *slog.Logger) *wsListener {
	l := &wsListener{
		path:     path,
		behavior: behavior,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		ln:    ln,
		done:  make(chan error, 1),
		conns: make(map[*websocket.Conn]struct{}),
	}
	l.srv = &http.Server{
		Handler:           http.HandlerFunc(l.serveHTTP),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.done <- err
		}
		close(l.done)
	}()
	return l
}

func (l *wsListener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *wsListener) Done() <-chan error {
	return l.done
}

// Stop closes the socket and wakes every session blocked on a read. Sessions
// in the middle of a message still write their response, then send a
// going-away close frame themselves. Sessions still open after
// closeGracePeriod are force-closed.
func (l *wsListener) Stop() error {
	l.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeGracePeriod)
		defer cancel()

		l.stopErr = l.srv.Shutdown(ctx)

		l.mu.Lock()
		l.stopped = true
		for c := range l.conns {
			_ = c.UnderlyingConn().SetReadDeadline(time.Now())
		}
		l.mu.Unlock()

		finished := make(chan struct{})
		go func() {
			l.sessions.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-ctx.Done():
			l.mu.Lock()
			for c := range l.conns {
				_ = c.Close()
			}
			l.mu.Unlock()
			l.logger.Warn("force-closed lingering sessions")
		}
	})
	return l.stopErr
}

func (l *wsListener) stopping() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

func (l *wsListener) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != l.path {
		http.NotFound(w, r)
		return
	}
	c, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	if !l.track(c) {
		_ = c.Close()
		return
	}
	defer l.untrack(c)
	l.serveSession(c, peerAddress(r.RemoteAddr))
}

func (l *wsListener) serveSession(c *websocket.Conn, peer string) {
	defer c.Close()
	c.SetReadLimit(maxMessageSize)

	l.behavior.OnOpen(peer)
	defer l.behavior.OnClose(peer)

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if l.stopping() {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping")
				_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				l.behavior.OnError(peer, err)
			}
			return
		}
		response := l.behavior.OnMessage(peer, string(message))
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, []byte(response)); err != nil {
			l.behavior.OnError(peer, fmt.Errorf("could not write response: %w", err))
			return
		}
	}
}

func (l *wsListener) track(c *websocket.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	l.conns[c] = struct{}{}
	l.sessions.Add(1)
	return true
}

func (l *wsListener) untrack(c *websocket.Conn) {
	l.mu.Lock()
	delete(l.conns, c)
	l.mu.Unlock()
	l.sessions.Done()
}

func peerAddress(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil || host == "" {
		return UnknownPeer
	}
	return host
}
