// Package httpapi serves the story API consumed by the remote data source.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

type StatusCoder interface {
	StatusCode() int
}

type Validator interface {
	Validate() error
}

type DecoderFunc[In any] func(r *http.Request) (In, error)

type TargetFunc[In any, Out any] func(context.Context, *http.Request, In) (Out, error)

type TransportConfig[In any, Out any] struct {
	decoderFn DecoderFunc[In]
	targetFn  TargetFunc[In, Out]
}

func TransportFor[In any, Out any](target TargetFunc[In, Out]) *TransportConfig[In, Out] {
	return &TransportConfig[In, Out]{
		targetFn: target,
	}
}

// RequestFromJSON decodes the request body into In.
func (h *TransportConfig[In, Out]) RequestFromJSON() *TransportConfig[In, Out] {
	h.decoderFn = func(r *http.Request) (In, error) {
		var in In

		err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody)).Decode(&in)
		if err != nil {
			return in, story.NewValidationError("body", "malformed JSON: "+err.Error())
		}

		return in, nil
	}

	return h
}

func (h *TransportConfig[In, Out]) encode(w http.ResponseWriter, out Out) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// If the output implements the StatusCoder interface, use the status code from it
	code := http.StatusOK
	if sc, ok := any(out).(StatusCoder); ok {
		code = sc.StatusCode()
	}

	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return nil
	}

	return json.NewEncoder(w).Encode(out)
}

func (h *TransportConfig[In, Out]) Build(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		var err error

		if h.decoderFn != nil {
			in, err = h.decoderFn(r)
			if err != nil {
				writeError(w, r, logger, err)
				return
			}
		}

		if v, ok := any(in).(Validator); ok {
			if err := v.Validate(); err != nil {
				writeError(w, r, logger, err)
				return
			}
		}

		out, err := h.targetFn(r.Context(), r, in)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}

		// We always encode the response as JSON
		if err := h.encode(w, out); err != nil {
			logger.ErrorContext(r.Context(), "failed to encode response", "url", r.URL.Path, "error", err)
		}
	}
}
