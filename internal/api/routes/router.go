package routes

import (
	"net/http"

	"github.com/ayursutra/wellness-portal/internal/api/handlers"
	"github.com/ayursutra/wellness-portal/internal/api/middleware"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	systemHandler      *handlers.SystemHandler
	patientHandler     *handlers.PatientHandler
	appointmentHandler *handlers.AppointmentHandler
	centreHandler      *handlers.CentreHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. metrics may be nil.
func NewRouter(
	systemHandler *handlers.SystemHandler,
	patientHandler *handlers.PatientHandler,
	appointmentHandler *handlers.AppointmentHandler,
	centreHandler *handlers.CentreHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		systemHandler:      systemHandler,
		patientHandler:     patientHandler,
		appointmentHandler: appointmentHandler,
		centreHandler:      centreHandler,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.HandleFunc("GET /api/ping", r.systemHandler.Ping)
	r.mux.HandleFunc("GET /api/demo", r.systemHandler.Demo)

	// Patient
	r.mux.HandleFunc("GET /api/patient", r.patientHandler.GetPatient)

	// Appointments
	r.mux.HandleFunc("GET /api/appointments", r.appointmentHandler.ListAppointments)
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.BookAppointment)

	// Centre search
	r.mux.HandleFunc("GET /api/centres/search", r.centreHandler.Search)
	r.mux.HandleFunc("GET /api/centres/nearby", r.centreHandler.Nearby)
	r.mux.HandleFunc("GET /api/centres/capability", r.centreHandler.Capability)
	r.mux.HandleFunc("GET /api/location", r.centreHandler.CurrentLocation)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so preflight and error responses carry its headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
