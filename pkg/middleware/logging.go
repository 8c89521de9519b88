package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spotted/pkg/logger"
)

type reqIdKey int

const requestIdKey reqIdKey = iota

const RequestIdHeader = "X-Request-Id"

type LoggingMiddleware struct {
	logger *zap.Logger
}

func NewLoggingMiddleware(l *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: l}
}

func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}

// SetupTracing keeps the caller's request id or issues a new one and echoes
// it in the response.
func (lm *LoggingMiddleware) SetupTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIdHeader, id)
		ctx := context.WithValue(r.Context(), requestIdKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (lm *LoggingMiddleware) SetupLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(lm.withLogger(r)))
	})
}

func (lm *LoggingMiddleware) withLogger(r *http.Request) context.Context {
	l := lm.logger.With(
		zap.String("request_id", RequestId(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	).Sugar()
	return logger.WithLogger(r.Context(), l)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (lm *LoggingMiddleware) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := logger.FromContext(ctx); !ok {
			ctx = lm.withLogger(r)
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		logger.Log(ctx).Infow("access",
			"remote_addr", r.RemoteAddr,
			"status", sw.status,
			"took", time.Since(start),
		)
	})
}
