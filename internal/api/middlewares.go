package api

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"

	"github.com/diacor/portal/pkg/logger"
)

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

const (
	swaggerPrefix = "/api/swagger/"
	maxLoggedBody = 4 << 10
)

var hiddenHeaders = []string{"Authorization", "Cookie", "X-Api-Key"}

var (
	errMissingAPIKey = errors.New("missing api key")
	errInvalidAPIKey = errors.New("invalid api key")
)

type Middleware struct {
	apiKeyEnabled bool
	apiKey        string
}

func NewMiddleware(apiKeyEnabled bool, apiKey string) *Middleware {
	return &Middleware{
		apiKeyEnabled: apiKeyEnabled,
		apiKey:        apiKey,
	}
}

// Log tags the request with an id and logs it together with the final status.
func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx = logger.WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-Id", requestID)

		if _, skip := skipLogging[r.URL.Path]; skip || strings.HasPrefix(r.URL.Path, swaggerPrefix) {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		reqBody, err := io.ReadAll(r.Body)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "read request body")
			return
		}

		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(reqBody))

		if len(reqBody) > maxLoggedBody {
			reqBody = reqBody[:maxLoggedBody]
		}

		headers := r.Header.Clone()
		for _, h := range hiddenHeaders {
			headers.Del(h)
		}

		slog.InfoContext(ctx, "incoming request",
			"method", r.Method,
			"url", r.URL.Redacted(),
			"body", string(reqBody),
			"headers", headers,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		slog.InfoContext(ctx, "request done",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took_ms", time.Since(started).Milliseconds(),
		)
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec != nil {
				slog.ErrorContext(ctx, "recovered from panic", "error", rec, "stack", string(debug.Stack()))
				SendJSONErr(ctx, w, http.StatusInternalServerError, fmt.Errorf("panic: %v", rec), "server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key, Origin, Accept, User-Agent, Cache-Control")

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIKeyAuth guards operator endpoints with a static key.
func (m *Middleware) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !m.apiKeyEnabled {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get("X-Api-Key")
		if apiKey == "" {
			SendJSONErr(ctx, w, http.StatusUnauthorized, errMissingAPIKey, "missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.apiKey)) != 1 {
			SendJSONErr(ctx, w, http.StatusUnauthorized, errInvalidAPIKey, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
