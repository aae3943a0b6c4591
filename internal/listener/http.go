package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownGrace = 5 * time.Second

// HttpListener serves the web surface as a worker.
type HttpListener struct {
	port    uint16
	handler http.Handler
}

func NewHttpListener(port uint16, handler http.Handler) *HttpListener {
	return &HttpListener{
		port:    port,
		handler: handler,
	}
}

func (l *HttpListener) Start(ctx context.Context) error {
	svr := &http.Server{
		Addr:              fmt.Sprintf(":%d", l.port),
		Handler:           l.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- svr.ListenAndServe()
	}()

	slog.InfoContext(ctx, "listening for http", "port", l.port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return svr.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http on port %d: %w", l.port, err)
	}
}
