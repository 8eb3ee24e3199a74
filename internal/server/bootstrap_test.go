package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/phrazzld/sitegen/internal/config"
	"github.com/phrazzld/sitegen/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("OK"))
})

// freePort asks the kernel for an unused loopback port.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func newTestBootstrap(t *testing.T, cfg config.ServerConfig) *Bootstrap {
	t.Helper()
	l, _ := logger.NewTestLogger()
	b, err := New(cfg, okHandler, l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Shutdown(context.Background()) })
	return b
}

func TestNewValidation(t *testing.T) {
	l, _ := logger.NewTestLogger()

	_, err := New(config.ServerConfig{}, nil, l)
	assert.Error(t, err)

	_, err = New(config.ServerConfig{}, okHandler, nil)
	assert.Error(t, err)
}

func TestStartBindsDefaultPort(t *testing.T) {
	for _, name := range []string{"PORT", "SITEGEN_SERVER_PORT", "SITEGEN_SERVER_HOST"} {
		t.Setenv(name, "")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.DefaultPort, cfg.Server.Port)

	probe, err := net.Listen("tcp", ":"+strconv.Itoa(config.DefaultPort))
	if err != nil {
		t.Skipf("port %d is in use on this machine: %v", config.DefaultPort, err)
	}
	require.NoError(t, probe.Close())

	b := newTestBootstrap(t, cfg.Server)
	require.NoError(t, b.Start(context.Background()))

	assert.Equal(t, config.DefaultPort, b.Addr().(*net.TCPAddr).Port)
	assert.Equal(t, Running, b.State())
}

func TestStartBindsOverriddenPort(t *testing.T) {
	port := freePort(t)
	t.Setenv("SITEGEN_SERVER_PORT", "")
	t.Setenv("PORT", strconv.Itoa(port))
	cfg, err := config.Load()
	require.NoError(t, err)

	b := newTestBootstrap(t, cfg.Server)
	require.NoError(t, b.Start(context.Background()))

	assert.Equal(t, port, b.Addr().(*net.TCPAddr).Port)

	resp, err := http.Get("http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port)) + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestSecondStartOnSamePortFails(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: freePort(t)}

	first := newTestBootstrap(t, cfg)
	require.NoError(t, first.Start(context.Background()))

	second := newTestBootstrap(t, cfg)
	err := second.Start(context.Background())

	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Port)), bindErr.Addr)
	assert.True(t, errors.Is(err, syscall.EADDRINUSE))
	assert.Equal(t, Stopped, second.State())
	assert.Nil(t, second.Addr())
	assert.Equal(t, Running, first.State())
}

func TestStartTwiceOnSameBootstrap(t *testing.T) {
	b := newTestBootstrap(t, config.ServerConfig{Host: "127.0.0.1", Port: freePort(t)})
	require.NoError(t, b.Start(context.Background()))

	assert.ErrorIs(t, b.Start(context.Background()), ErrAlreadyStarted)
}

func TestShutdownIsIdempotent(t *testing.T) {
	b := newTestBootstrap(t, config.ServerConfig{Host: "127.0.0.1", Port: freePort(t)})
	assert.NoError(t, b.Shutdown(context.Background()), "shutdown before start")

	require.NoError(t, b.Start(context.Background()))
	addr := b.Addr().String()

	assert.NoError(t, b.Shutdown(context.Background()))
	assert.NoError(t, b.Shutdown(context.Background()))
	assert.Equal(t, Stopped, b.State())

	_, err := net.DialTimeout("tcp", addr, time.Second)
	assert.Error(t, err, "listener should be released")
}

func TestRestartAfterShutdown(t *testing.T) {
	b := newTestBootstrap(t, config.ServerConfig{Host: "127.0.0.1", Port: freePort(t)})

	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Shutdown(context.Background()))
	require.NoError(t, b.Start(context.Background()))
	assert.Equal(t, Running, b.State())
}

func TestStartReachesRunningQuickly(t *testing.T) {
	b := newTestBootstrap(t, config.ServerConfig{Host: "127.0.0.1", Port: freePort(t)})

	start := time.Now()
	require.NoError(t, b.Start(context.Background()))

	assert.Equal(t, Running, b.State())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	b := newTestBootstrap(t, config.ServerConfig{
		Host:                   "127.0.0.1",
		Port:                   freePort(t),
		ShutdownTimeoutSeconds: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool { return b.State() == Running }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, Stopped, b.State())
}

func TestRunReturnsAfterExternalShutdown(t *testing.T) {
	b := newTestBootstrap(t, config.ServerConfig{
		Host:                   "127.0.0.1",
		Port:                   freePort(t),
		ShutdownTimeoutSeconds: 1,
	})

	done := make(chan error, 1)
	go func() { done <- b.Run(context.Background()) }()

	require.Eventually(t, func() bool { return b.State() == Running }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, b.Shutdown(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
	assert.Equal(t, Stopped, b.State())
}

func TestRunReturnsBindError(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: freePort(t)}
	holder := newTestBootstrap(t, cfg)
	require.NoError(t, holder.Start(context.Background()))

	b := newTestBootstrap(t, cfg)
	err := b.Run(context.Background())

	var bindErr *BindError
	assert.ErrorAs(t, err, &bindErr)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "starting", Starting.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "unknown", State(42).String())
}
