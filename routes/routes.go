package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlukic/matchday/handlers"
	"github.com/mlukic/matchday/middleware"
	"github.com/mlukic/matchday/services"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Storage    *handlers.StorageHandler
	Live       *handlers.LiveHandler
}

func InitRoutes(h Handlers, authService *services.AuthService) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		// Public read access.
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/standings", h.Tournament.StandingsHandler)
		r.Get("/{tournamentID}/scorers", h.Tournament.ScorersHandler)

		// Mutations require an organizer session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))

			r.Post("/", h.Tournament.SaveHandler)
			r.Post("/draw", h.Tournament.DrawTeamsHandler)
			r.Post("/{tournamentID}/fixtures", h.Tournament.GenerateFixturesHandler)
			r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)
		})
	})

	router.Route("/storage", func(r chi.Router) {
		r.Get("/status", h.Storage.StatusHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))

			r.Post("/retry", h.Storage.RetryHandler)
			r.Post("/migrate", h.Storage.MigrateHandler)
			r.Post("/repair", h.Storage.RepairHandler)
		})
	})

	router.Get("/ws", h.Live.ServeWs)
	router.Get("/ws/{tournamentID}", h.Live.ServeWs)

	return router
}
