package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/config"
)

// ServerDependencies holds all dependencies needed for the storefront server
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	Handler      http.Handler
	Logger       *zap.Logger
}

func (d ServerDependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// RunServe starts the storefront and blocks until SIGINT or SIGTERM
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.logger())
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	logger := deps.logger()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/", deps.Handler)

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// BaseURL is the loopback URL of a listener returned by StartServer
func BaseURL(listener net.Listener) string {
	return fmt.Sprintf("http://127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown is nil, a new channel is created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, logger *zap.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, logger)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Force close the server after timeout
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
