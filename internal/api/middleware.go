package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bisub/internal/logging"
	"bisub/internal/services"
)

// silentPaths are polling endpoints logged only on errors.
var silentPaths = map[string]bool{
	"/api/health": true,
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// requestContext copies chi's request ID into the services context so
// pipeline logs carry it as correlation_id.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			r = r.WithContext(services.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			if silentPaths[r.URL.Path] && wrapped.statusCode < 400 {
				return
			}
			attrs := []logging.Attr{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", wrapped.statusCode),
				logging.Duration("elapsed", time.Since(start)),
				logging.String("remote", r.RemoteAddr),
			}
			reqLogger := logging.WithContext(r.Context(), logger)
			if wrapped.statusCode >= 500 {
				reqLogger.Warn("http request", logging.Args(attrs...)...)
				return
			}
			reqLogger.Info("http request", logging.Args(attrs...)...)
		})
	}
}

func maxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// bearerAuth requires "Authorization: Bearer <token>". An empty token
// disables the check.
func (s *Server) bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, value, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				s.writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(value)), []byte(token)) != 1 {
				s.writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func corsOptions(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Credentials stay off for wildcard origins.
	allowCreds := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCreds = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: allowCreds,
		MaxAge:           300,
	}
}
