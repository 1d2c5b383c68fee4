package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// NewRouter mounts the story API. Browsers from allowedOrigins may call it.
func NewRouter(h *Handlers, allowedOrigins []string, logger *slog.Logger) *chi.Mux {
	corsMW := cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(corsMW)
	router.Use(RequestLogger(logger, "/healthz"))

	router.Get("/healthz", TransportFor(h.Health).Build(logger))

	router.Route("/api", func(r chi.Router) {
		r.Route("/stories", func(r chi.Router) {
			r.Get("/", TransportFor(h.ListStories).Build(logger))
			r.Get("/{id}", TransportFor(h.GetStory).Build(logger))
			r.Put("/{id}", TransportFor(h.UpdateStory).RequestFromJSON().Build(logger))
			r.Post("/{id}/approve", TransportFor(h.ApproveStory).Build(logger))
			r.Post("/{id}/reject", TransportFor(h.RejectStory).Build(logger))
			r.Post("/{id}/publish", TransportFor(h.PublishStory).Build(logger))
		})

		r.Post("/ingest", TransportFor(h.Ingest).RequestFromJSON().Build(logger))
		r.Get("/transcript/{meetingId}", TransportFor(h.GetTranscript).Build(logger))
		r.Post("/process-transcript", TransportFor(h.ProcessTranscript).RequestFromJSON().Build(logger))

		if h.stream != nil {
			r.Get("/events", h.stream.ServeHTTP)
		}
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, logger, &story.NotFoundError{Kind: "route", ID: r.URL.Path})
	})

	return router
}
