package feed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Path is where listeners connect.
const Path = "/events"

// Serve runs the feed on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, hub *Hub) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", addr, err)
	}
	return ServeListener(ctx, ln, hub)
}

func ServeListener(ctx context.Context, ln net.Listener, hub *Hub) error {
	mux := http.NewServeMux()
	mux.Handle(Path, hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	hub.logger.Info("event feed listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("feed shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("feed serve: %w", err)
	}
}
