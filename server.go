package vessel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-logr/logr"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// shutdownTimeout is the time given for outstanding requests to finish
// before shutdown.
const shutdownTimeout = 5 * time.Second

type ServerConfig struct {
	EnableRequestLogging bool
}

type Server struct {
	logr.Logger
	ServerConfig

	server *http.Server
}

// NewServer serves app along with /healthz and /metrics.
func NewServer(logger logr.Logger, cfg ServerConfig, app *App) *Server {
	r := app.Router

	// Catch panics and return 500s
	r.Use(gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{logger}),
		gorillaHandlers.PrintRecoveryStack(true),
	))

	r.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)

	app.Get("/healthz", func(strand *Strand) error {
		return strand.WriteJson(StatusOK{})
	})

	if cfg.EnableRequestLogging {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				m := httpsnoop.CaptureMetrics(next, w, r)
				logger.Info("request",
					"duration", fmt.Sprintf("%dms", m.Duration.Milliseconds()),
					"status", m.Code,
					"method", r.Method,
					"path", fmt.Sprintf("%s?%s", r.URL.Path, r.URL.RawQuery))
			})
		})
	}

	return &Server{
		Logger:       logger,
		ServerConfig: cfg,
		server:       &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second},
	}
}

// Start serves on ln until the server fails or ctx is cancelled.
func (s *Server) Start(ctx context.Context, ln net.Listener) error {
	errch := make(chan error, 1)
	go func() {
		errch <- s.server.Serve(ln)
	}()

	s.Info("started server", "address", ln.Addr().String())

	select {
	case err := <-errch:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Info("gracefully shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			return s.server.Close()
		}
		return nil
	}
}

type recoveryLogger struct {
	logger logr.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error(fmt.Errorf("%s", fmt.Sprint(v...)), "recovered from panic")
}
