package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// SendJSONErr logs the original error and answers with a short message.
// Server errors keep the details in the log only.
func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	resp := ErrorResponse{Message: msgToSend}

	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "api error", "error", originErr.Error(), "status", code)
	} else {
		slog.WarnContext(ctx, "api error", "error", originErr.Error(), "status", code)
		resp.Description = originErr.Error()
	}

	SendJSON(ctx, w, code, resp)
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		code = http.StatusInternalServerError
		http.Error(w, http.StatusText(code), code)

		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}
