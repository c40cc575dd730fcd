package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fplduel/fplduel-backend/pkg/config"
	"github.com/fplduel/fplduel-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is the dependency health surface /healthz reports on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerParams configure the worker's HTTP surface.
type HandlerParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	Pingers map[string]Pinger
}

// NewHandler returns the handler the worker binaries expose: /healthz with
// per-dependency status and /metrics for prometheus scrapes.
func NewHandler(params HandlerParams) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", healthzHandler(params))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return router
}

func healthzHandler(params HandlerParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		deps := map[string]string{}
		for name, pinger := range params.Pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				deps[name] = "down"
				status = http.StatusServiceUnavailable
				if params.Logger != nil {
					params.Logger.Error(ctx, "health check dependency failed", err)
				}
				continue
			}
			deps[name] = "ok"
		}

		response := map[string]any{
			"status":       overallStatus(status),
			"dependencies": deps,
		}
		if params.Config != nil {
			response["env"] = params.Config.App.Env
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(response); err != nil && params.Logger != nil {
			params.Logger.Error(ctx, "failed to write health response", err)
		}
	}
}

func overallStatus(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}

// Serve runs the handler on the configured port until ctx is canceled.
func Serve(ctx context.Context, port string, handler http.Handler, logg *logger.Logger) error {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if logg != nil {
			logg.Info(ctx, "metrics server stopped")
		}
		return nil
	}
}
