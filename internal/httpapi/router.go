// Package httpapi exposes ID generation over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eduardolat/nanogen/internal/config"
	"github.com/eduardolat/nanogen/internal/issuer"
	"github.com/eduardolat/nanogen/internal/outfile"
	"github.com/eduardolat/nanogen/internal/version"
)

// Issuer is the subset of issuer.Issuer the router needs
type Issuer interface {
	Issue(ctx context.Context, req issuer.Request) (*issuer.Result, error)
	Profiles() []issuer.ProfileInfo
}

// Router serves the HTTP API
type Router struct {
	issuer   Issuer
	maxCount int
	logger   *slog.Logger
	metrics  *Metrics
}

// NewRouter builds the HTTP handler
func NewRouter(iss Issuer, server config.Server, logger *slog.Logger, m *Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger, m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", version.UserAgent()))

	api := &Router{
		issuer:   iss,
		maxCount: server.GetMaxCount(),
		logger:   logger,
		metrics:  m,
	}

	r.MethodFunc(http.MethodGet, "/healthz", api.handleHealth)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/profiles", api.handleProfiles)
		r.Get("/ids", api.handleIDs)
	})

	return r
}

// requestLogger logs every request and counts it by route pattern
func requestLogger(logger *slog.Logger, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				route := "unmatched"
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				m.observeRequest(route, status)

				logger.Info("request",
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"size", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

type idsResp struct {
	Profile string   `json:"profile"`
	IDs     []string `json:"ids"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (rt *Router) handleIDs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	profile := query.Get("profile")
	if profile == "" {
		profile = config.DefaultProfileName
	}

	count := 1
	if raw := query.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, errorResp{Error: "count must be a positive integer"}, http.StatusBadRequest)
			return
		}
		count = n
	}
	if count > rt.maxCount {
		writeJSON(w, errorResp{Error: "count exceeds max_count " + strconv.Itoa(rt.maxCount)}, http.StatusBadRequest)
		return
	}

	result, err := rt.issuer.Issue(r.Context(), issuer.Request{Profile: profile, Count: count})
	switch {
	case errors.Is(err, issuer.ErrUnknownProfile):
		writeJSON(w, errorResp{Error: err.Error()}, http.StatusNotFound)
		return
	case err != nil:
		rt.logger.Error("failed to issue ids",
			"request_id", middleware.GetReqID(r.Context()),
			"profile", profile,
			"error", err)
		writeJSON(w, errorResp{Error: "failed to generate ids"}, http.StatusInternalServerError)
		return
	}

	rt.metrics.observeIssue(result.Profile, len(result.IDs), result.Duration.Seconds())

	if query.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(outfile.Encode(result.IDs))
		return
	}

	writeJSON(w, idsResp{Profile: result.Profile, IDs: result.IDs}, http.StatusOK)
}

func (rt *Router) handleProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, rt.issuer.Profiles(), http.StatusOK)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
