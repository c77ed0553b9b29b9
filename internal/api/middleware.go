package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"esmlex/internal/core/errors"
	"esmlex/internal/shared/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument tags each request with an id, a span and a metrics sample.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		route := routeLabel(r.URL.Path)
		ctx, span := observability.Tracer.Start(r.Context(), r.Method+" "+route, trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("request.id", requestID),
		))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		observability.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.DebugContext(ctx, "http request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"request_id", requestID,
		)
	})
}

// rateLimit applies the per-client token bucket to API routes.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiters != nil && !s.limiters.Allow(clientIP(r)) {
			observability.HTTPRateLimitedTotal.Inc()
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorEnvelope{Error: ErrorBody{
				Code:    "RATE_LIMITED",
				Message: "rate limit exceeded",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps request bodies at maxBytes.
func limitBody(maxBytes int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			if r.ContentLength > maxBytes {
				writeError(w, errors.Wrap(&http.MaxBytesError{Limit: maxBytes}, errors.CodeValidationError, "request body too large"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

var knownRoutes = []string{"/v1/parse-multiple", "/v1/parse", "/health", "/metrics", "/openapi.yaml"}

func routeLabel(path string) string {
	for _, route := range knownRoutes {
		if path == route || strings.TrimSuffix(path, "/") == route {
			return route
		}
	}
	return "other"
}
