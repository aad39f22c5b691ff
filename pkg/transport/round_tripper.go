package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/diacor/portal/pkg/logger"
)

// LoggingRoundTripper forwards the request id and logs every outgoing call to third parties.
// Only the method and the redacted URL are logged, bodies may carry gateway credentials.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
}

func NewLoggingRoundTripper(transport http.RoundTripper) *LoggingRoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &LoggingRoundTripper{Transport: transport}
}

func (l *LoggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	target := fmt.Sprintf("%s %s", r.Method, r.URL.Redacted())

	reqID := logger.RequestIDFromCtx(ctx)
	if reqID != "" {
		r.Header.Set("X-Request-Id", reqID)
	}

	slog.InfoContext(ctx, "outgoing request", "request", target)

	started := time.Now()

	resp, err := l.Transport.RoundTrip(r)
	if err != nil {
		slog.WarnContext(ctx, "outgoing request failed", "request", target, "error", err.Error())
		return nil, fmt.Errorf("round trip: %w", err)
	}

	level := slog.LevelInfo
	if resp.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	slog.Log(ctx, level, "incoming response",
		"response", target,
		"status", resp.StatusCode,
		"took_ms", time.Since(started).Milliseconds(),
	)

	return resp, nil
}
