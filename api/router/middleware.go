package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// withMiddleware wraps h with request ids, access logging through logger and panic recovery.
func withMiddleware(logger *slog.Logger, h http.Handler) http.Handler {
	requestLogger := middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	})
	return middleware.RequestID(requestLogger(middleware.Recoverer(h)))
}
