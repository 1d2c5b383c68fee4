package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/storyreview/pkg/sdk"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 1 << 20

// writeError renders err as the JSON error body of the story API.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, detail := sdk.ErrorDetailFor(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "url", r.URL.Path, "status", status, "error", err)
	} else {
		logger.DebugContext(r.Context(), "request rejected",
			"method", r.Method, "url", r.URL.Path, "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(sdk.ErrorBody{Error: detail})
}
