package routes

import (
	"net/http"

	"github.com/Dosada05/rps-country-cup/handlers"
	"github.com/Dosada05/rps-country-cup/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Metrics        http.Handler
}

func SetupRoutes(
	router chi.Router,
	tournamentHandler *handlers.TournamentHandler,
	authHandler *handlers.AuthHandler,
	webSocketHandler *handlers.WebSocketHandler,
	opts Options,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}
	router.Get("/ws/live", webSocketHandler.ServeLive)

	router.Route("/api", func(r chi.Router) {
		r.Get("/state", tournamentHandler.GetState)
		r.Get("/history", tournamentHandler.GetHistory)
		r.Post("/auth/token", authHandler.IssueToken)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Post("/advance", tournamentHandler.Advance)
			r.Post("/reset", tournamentHandler.Reset)
		})
	})
}
