package httpserver

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	_ "net/http/pprof"
)

type Server interface {
	Run()
	Shutdown()
}

var _ Server = &StandardServer{}

type StandardServer struct {
	server *http.Server
}

func (s *StandardServer) Run() {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}

func (s *StandardServer) Shutdown() {
	if err := s.server.Shutdown(context.Background()); err != nil {
		panic(err)
	}
}

func NewServer(addr string, controllers ...Controller) *StandardServer {
	router := http.NewServeMux()

	// The dashboard frontend may be served from anywhere (reverse proxy,
	// local dev server), so the API stays origin-agnostic.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	tracingMiddleware := createTracingMiddleware()
	metricsMiddleware := MetricsMiddleware()

	server := &StandardServer{
		&http.Server{
			Addr: addr,
			Handler: c.Handler(
				metricsMiddleware(
					tracingMiddleware(router),
				),
			),
		},
	}

	router.Handle("GET /metrics", promhttp.Handler())

	for _, controller := range controllers {
		controller.AddRoutes(router)
	}

	return server
}

// createTracingMiddleware creates a middleware that adds OpenTelemetry tracing to all requests
func createTracingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			propagator := b3.New()
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			tracer := otel.Tracer("feinstaub-server")
			ctx, span := tracer.Start(ctx, "http.request",
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
					attribute.String("http.user_agent", r.UserAgent()),
					attribute.String("http.remote_addr", r.RemoteAddr),
					attribute.String("span.kind", "server"),
					attribute.String("component", "http-server"),
				),
			)
			defer span.End()

			// Update request with the traced context
			r = r.WithContext(ctx)

			// Inject trace context into response headers for client propagation
			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			wrapped := &statusCodeResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			span.SetAttributes(attribute.Int("http.status_code", wrapped.statusCode))
		})
	}
}

type statusCodeResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusCodeResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working behind the middleware chain.
func (w *statusCodeResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not support hijacking")
}
