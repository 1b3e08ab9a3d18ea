package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskhub/backend/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the task
// manager API.
//
// Parameters:
//
//	authHandler - handler for registration, login and profile endpoints
//	taskHandler - handler for the task CRUD endpoints
//	auth        - bearer-token authentication middleware for protected routes
//	logger      - structured logger for request logging middleware
//
// Routes:
//
//	GET    /health                      → liveness probe
//	POST   /api/auth/register           → authHandler.Register
//	POST   /api/auth/login              → authHandler.Login
//	GET    /api/auth/profile            → authHandler.Profile   (protected)
//	GET    /api/tasks                   → taskHandler.List      (protected)
//	POST   /api/tasks                   → taskHandler.Create    (protected)
//	GET    /api/tasks/stats/summary     → taskHandler.Stats     (protected)
//	GET    /api/tasks/{id}              → taskHandler.Get       (protected)
//	PUT    /api/tasks/{id}              → taskHandler.Update    (protected)
//	PATCH  /api/tasks/{id}/toggle       → taskHandler.Toggle    (protected)
//	DELETE /api/tasks/{id}              → taskHandler.Delete    (protected)
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	auth func(http.Handler) http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message":   "Task Manager API is running!",
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/auth", func(r chi.Router) {
			// Public endpoints
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected group: requires a valid access token
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/profile", authHandler.Profile)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(auth)

			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/stats/summary", taskHandler.Stats)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Patch("/{id}/toggle", taskHandler.Toggle)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})

	return r
}
