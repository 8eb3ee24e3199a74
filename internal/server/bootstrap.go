package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/phrazzld/sitegen/internal/config"
)

// State is a lifecycle state of a Bootstrap.
type State int

const (
	Stopped State = iota
	Starting
	Running
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

// Bootstrap binds a listener and serves an http.Handler on it.
type Bootstrap struct {
	cfg     config.ServerConfig
	handler http.Handler
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	server   *http.Server
	listener net.Listener
}

// New creates a stopped Bootstrap for handler.
func New(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) (*Bootstrap, error) {
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Bootstrap{
		cfg:     cfg,
		handler: handler,
		logger:  logger.With(slog.String("component", "server")),
		state:   Stopped,
	}, nil
}

// State returns the current lifecycle state.
func (b *Bootstrap) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Addr returns the bound listener address, or nil when not running.
func (b *Bootstrap) Addr() net.Addr {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener == nil {
		return nil
	}
	return b.listener.Addr()
}

// Start binds host:port and serves in the background. It returns a *BindError
// when the port cannot be bound, leaving the bootstrap Stopped.
func (b *Bootstrap) Start(ctx context.Context) error {
	_, err := b.start(ctx)
	return err
}

// start does the work of Start and returns the channel that is closed when
// the serve loop exits, carrying its error if it failed.
func (b *Bootstrap) start(ctx context.Context) (<-chan error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Stopped {
		return nil, ErrAlreadyStarted
	}
	b.state = Starting

	addr := net.JoinHostPort(b.cfg.Host, strconv.Itoa(b.cfg.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		b.state = Stopped
		b.logger.Error("Failed to bind listener", "addr", addr, "error", err)
		return nil, &BindError{Addr: addr, Err: err}
	}

	readHeaderTimeout := seconds(b.cfg.ReadHeaderTimeoutSeconds, defaultReadHeaderTimeout)
	srv := &http.Server{
		Handler:           b.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(b.logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	b.server = srv
	b.listener = ln
	b.state = Running

	b.logger.Info("Server listening", "addr", ln.Addr().String())
	return serveErr, nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests until
// ctx is done. Calling it on a stopped bootstrap is a no-op.
func (b *Bootstrap) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Stopped {
		return nil
	}

	b.logger.Info("Shutting down server...")
	err := b.server.Shutdown(ctx)
	if err != nil {
		// Graceful drain timed out; drop remaining connections.
		_ = b.server.Close()
	}

	b.server = nil
	b.listener = nil
	b.state = Stopped

	if err != nil {
		b.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	b.logger.Info("Server shutdown completed")
	return nil
}

// Run starts the server and blocks until ctx is cancelled, SIGINT or SIGTERM
// arrives, or the serve loop fails, then shuts down within the configured
// timeout. A Shutdown from elsewhere also ends Run.
func (b *Bootstrap) Run(ctx context.Context) error {
	serveErr, err := b.start(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		b.logger.Info("Shutdown signal received")
	case err, ok := <-serveErr:
		if ok && err != nil {
			b.logger.Error("Server failed", "error", err)
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	timeout := seconds(b.cfg.ShutdownTimeoutSeconds, defaultShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := b.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
