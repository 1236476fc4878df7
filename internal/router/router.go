package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"gate-tutor-backend/internal/handlers"
	"gate-tutor-backend/internal/logger"
	"gate-tutor-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	scheduleHandler *handlers.ScheduleHandler,
	ui http.Handler,
	allowedOrigins []string,
	log *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(allowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/chat", chatHandler.Chat)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Post("/", scheduleHandler.Create)
		})
	})

	if ui != nil {
		r.Handle("/*", ui)
	}

	return r
}
