package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AccessLog logs one line per request, keyed by the request id header that
// echo's RequestID middleware sets on the response.
func AccessLog(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
			}
			if sc := trace.SpanContextFromContext(req.Context()); sc.HasTraceID() {
				fields = append(fields, zap.String("trace", sc.TraceID().String()))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			switch {
			case res.Status >= 500:
				logger.Warn("request failed", fields...)
			default:
				logger.Debug("request", fields...)
			}
			return nil
		}
	}
}

type RequestMetrics struct {
	requests *prometheus.CounterVec
}

func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	m := &RequestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crankfeed",
			Name:      "http_requests_total",
			Help:      "Served requests by route and status code",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.requests)
	return m
}

func (m *RequestMetrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		m.requests.WithLabelValues(c.Path(), strconv.Itoa(status)).Inc()
		return err
	}
}
