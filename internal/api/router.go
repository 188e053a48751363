package api

import (
	"net/http"

	"github.com/Rrens/campus-console/internal/api/handler"
	customMiddleware "github.com/Rrens/campus-console/internal/api/middleware"
	"github.com/Rrens/campus-console/internal/backend"
	"github.com/Rrens/campus-console/internal/chat"
	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/Rrens/campus-console/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived objects the console serves
type Deps struct {
	Client        *backend.Client
	Sessions      *session.Manager
	Store         domain.StateRepository
	Conversations *chat.Holder
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	// Initialize services
	studentService := service.NewStudentService(deps.Client)
	analyticsService := service.NewAnalyticsService(deps.Client)
	historyService := service.NewHistoryService(deps.Client)
	profileService := service.NewProfileService(deps.Client, deps.Sessions)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(deps.Sessions, profileService)
	studentHandler := handler.NewStudentHandler(studentService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	historyHandler := handler.NewHistoryHandler(historyService)
	chatHandler := handler.NewChatHandler(deps.Conversations, deps.Sessions, deps.Client)

	// a replaced or cleared token ends the conversation and its event streams
	deps.Sessions.OnTokenChange(func(string) { deps.Conversations.Release() })

	guard := customMiddleware.NewSessionGuard(deps.Sessions)

	r.Route("/api/v1", func(r chi.Router) {
		// event streams outlive any request timeout
		r.With(guard.Require).Get("/chat/events", chatHandler.Events)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

			// Health check
			r.Get("/health", handler.HealthCheck)
			r.Get("/ready", handler.ReadyCheck(deps.Store))

			// Auth routes (public)
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", authHandler.Login)
				r.Post("/signup", authHandler.Signup)
				r.Post("/logout", authHandler.Logout)
				r.Get("/session", authHandler.Session)

				r.Group(func(r chi.Router) {
					r.Use(guard.Require)
					r.Get("/me", authHandler.Me)
					r.Put("/me", authHandler.UpdateMe)
					r.Get("/users", authHandler.Users)
				})
			})

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(guard.Require)

				r.Route("/students", func(r chi.Router) {
					r.Get("/", studentHandler.List)
					r.Post("/", studentHandler.Create)
					r.Get("/analytics", analyticsHandler.Students)

					r.Route("/{studentID}", func(r chi.Router) {
						r.Get("/", studentHandler.Get)
						r.Put("/", studentHandler.Update)
						r.Delete("/", studentHandler.Delete)
					})
				})

				r.Get("/analytics", analyticsHandler.Dashboard)

				r.Route("/history", func(r chi.Router) {
					r.Get("/", historyHandler.List)
					r.Delete("/", historyHandler.Clear)
					r.Get("/sessions/{sessionID}", historyHandler.Session)
				})

				r.Get("/chat/turns", chatHandler.Turns)
				r.Post("/chat/messages", chatHandler.Send)
				r.Post("/chat/reply", chatHandler.Reply)
			})
		})
	})

	return r
}
