package routes

import (
	"net/http"

	"github.com/allergycanada/find-allergist/backend/internal/api/handlers"
	"github.com/allergycanada/find-allergist/backend/internal/api/middleware"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler      *handlers.SearchHandler
	physicianHandler   *handlers.PhysicianHandler
	geolocationHandler *handlers.GeolocationHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	physicianHandler *handlers.PhysicianHandler,
	geolocationHandler *handlers.GeolocationHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:      searchHandler,
		physicianHandler:   physicianHandler,
		geolocationHandler: geolocationHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/allergists/search", r.searchHandler.Search)
	r.mux.HandleFunc("GET /api/allergists/page", r.searchHandler.Page)
	r.mux.HandleFunc("DELETE /api/allergists/session/{id}", r.searchHandler.ClearSession)

	// Physician endpoints
	r.mux.HandleFunc("GET /api/allergists/suggest", r.physicianHandler.Suggest)
	r.mux.HandleFunc("GET /api/allergists/{id}", r.physicianHandler.GetPhysician)
	r.mux.HandleFunc("PATCH /api/allergists/{id}", r.physicianHandler.UpdatePhysician)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
