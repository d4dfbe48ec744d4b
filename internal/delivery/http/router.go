package http

import (
	"net/http"

	"hospital-management-backend/internal/delivery/http/handler"
	"hospital-management-backend/internal/delivery/http/middleware"
	"hospital-management-backend/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	doctorHandler       *handler.DoctorHandler
	patientHandler      *handler.PatientHandler
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	treatmentHandler    *handler.TreatmentHandler
	auditLogHandler     *handler.AuditLogHandler
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	treatmentHandler *handler.TreatmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		doctorHandler:       doctorHandler,
		patientHandler:      patientHandler,
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		treatmentHandler:    treatmentHandler,
		auditLogHandler:     auditLogHandler,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctors
	api.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)
	api.HandleFunc("/doctors/{id}/status", r.doctorHandler.UpdateDoctorStatus).Methods(http.MethodPatch)

	// Availability
	api.HandleFunc("/doctors/{id}/availability", r.availabilityHandler.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/availability", r.availabilityHandler.CreateWeek).Methods(http.MethodPost)
	api.HandleFunc("/doctors/{id}/availability", r.availabilityHandler.DeleteAvailability).Methods(http.MethodDelete)
	api.HandleFunc("/doctors/{id}/availability/{date}", r.availabilityHandler.UpdateAvailability).Methods(http.MethodPut)

	// Patients
	api.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	api.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)
	api.HandleFunc("/patients/{id}/status", r.patientHandler.UpdatePatientStatus).Methods(http.MethodPatch)
	api.HandleFunc("/patients/{id}/history", r.patientHandler.GetPatientHistory).Methods(http.MethodGet)

	// Appointments
	api.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{action:complete|cancel|missed}/{patientId}/{doctorId}/{date}/{shift}",
		r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPut)
	api.HandleFunc("/patients/{patientId}/doctors/{doctorId}/appointment", r.appointmentHandler.GetAppointmentByParticipants).Methods(http.MethodGet)
	api.HandleFunc("/patients/{patientId}/doctors/{doctorId}/appointment", r.appointmentHandler.DeleteAppointmentByParticipants).Methods(http.MethodDelete)

	// Treatments
	api.HandleFunc("/treatments", r.treatmentHandler.CreateTreatment).Methods(http.MethodPost)

	// Audit logs
	api.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	api.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	// mux skips middleware for unmatched requests and resolves method
	// mismatches inside the subrouter, so both routers carry CORS-wrapped
	// fallbacks. OPTIONS preflights land in MethodNotAllowedHandler.
	notFoundHandler := r.corsMiddleware.Handle(http.HandlerFunc(routeNotFound))
	methodHandler := r.corsMiddleware.Handle(http.HandlerFunc(methodNotAllowed))
	for _, router := range []*mux.Router{r.router, api} {
		router.NotFoundHandler = notFoundHandler
		router.MethodNotAllowedHandler = methodHandler
	}

	return r.router
}

func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	response.NotFound(w, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	response.MethodNotAllowed(w, "")
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
