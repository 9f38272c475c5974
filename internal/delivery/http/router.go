package http

import (
	"net/http"

	"telemed-platform/internal/delivery/http/handler"
	"telemed-platform/internal/delivery/http/middleware"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/infrastructure/storage"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	profileHandler       *handler.ProfileHandler
	appointmentHandler   *handler.AppointmentHandler
	medicalRecordHandler *handler.MedicalRecordHandler
	consultationHandler  *handler.ConsultationHandler
	chatHandler          *handler.ChatHandler
	diagnosisHandler     *handler.DiagnosisHandler
	prescriptionHandler  *handler.PrescriptionHandler
	notificationHandler  *handler.NotificationHandler
	adminHandler         *handler.AdminHandler
	realtimeHandler      *handler.RealtimeHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
	fileStore            *storage.LocalStore
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	appointmentHandler *handler.AppointmentHandler,
	medicalRecordHandler *handler.MedicalRecordHandler,
	consultationHandler *handler.ConsultationHandler,
	chatHandler *handler.ChatHandler,
	diagnosisHandler *handler.DiagnosisHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	notificationHandler *handler.NotificationHandler,
	adminHandler *handler.AdminHandler,
	realtimeHandler *handler.RealtimeHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	fileStore *storage.LocalStore,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		profileHandler:       profileHandler,
		appointmentHandler:   appointmentHandler,
		medicalRecordHandler: medicalRecordHandler,
		consultationHandler:  consultationHandler,
		chatHandler:          chatHandler,
		diagnosisHandler:     diagnosisHandler,
		prescriptionHandler:  prescriptionHandler,
		notificationHandler:  notificationHandler,
		adminHandler:         adminHandler,
		realtimeHandler:      realtimeHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
		fileStore:            fileStore,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", r.authHandler.ResetPassword).Methods(http.MethodPost)
	auth.HandleFunc("/verify-email", r.authHandler.VerifyEmail).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Protected application routes
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Profile
	protected.HandleFunc("/profile", r.profileHandler.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/profile/avatar", r.profileHandler.UploadAvatar).Methods(http.MethodPost)
	protected.HandleFunc("/doctors", r.profileHandler.ListDoctors).Methods(http.MethodGet)

	// Appointments
	protected.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", r.appointmentHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/confirm", r.appointmentHandler.Confirm).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)

	// Medical records (writes are clinician-only)
	records := protected.PathPrefix("/records").Subrouter()
	records.HandleFunc("", r.medicalRecordHandler.List).Methods(http.MethodGet)
	records.HandleFunc("/{id}", r.medicalRecordHandler.Get).Methods(http.MethodGet)

	recordWrites := api.PathPrefix("/records").Subrouter()
	recordWrites.Use(r.authMiddleware.Authenticate)
	recordWrites.Use(middleware.RequireRole(entity.RoleDoctor, entity.RoleAdmin))
	recordWrites.HandleFunc("", r.medicalRecordHandler.Create).Methods(http.MethodPost)
	recordWrites.HandleFunc("/{id}", r.medicalRecordHandler.Update).Methods(http.MethodPut)
	recordWrites.HandleFunc("/{id}", r.medicalRecordHandler.Delete).Methods(http.MethodDelete)
	recordWrites.HandleFunc("/{id}/attachments", r.medicalRecordHandler.AddAttachment).Methods(http.MethodPost)

	// Consultations (creation and lifecycle moves are doctor-only)
	protected.HandleFunc("/consultations", r.consultationHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/consultations/{id}", r.consultationHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/consultations/{id}/join", r.consultationHandler.Join).Methods(http.MethodPost)

	consultationWrites := api.PathPrefix("/consultations").Subrouter()
	consultationWrites.Use(r.authMiddleware.Authenticate)
	consultationWrites.Use(middleware.RequireDoctor)
	consultationWrites.HandleFunc("", r.consultationHandler.Create).Methods(http.MethodPost)
	consultationWrites.HandleFunc("/{id}/start", r.consultationHandler.Start).Methods(http.MethodPost)
	consultationWrites.HandleFunc("/{id}/end", r.consultationHandler.End).Methods(http.MethodPost)

	// Chat
	protected.HandleFunc("/chat/channels", r.chatHandler.OpenChannel).Methods(http.MethodPost)
	protected.HandleFunc("/chat/channels", r.chatHandler.ListChannels).Methods(http.MethodGet)
	protected.HandleFunc("/chat/channels/{id}/messages", r.chatHandler.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/chat/channels/{id}/messages", r.chatHandler.ListMessages).Methods(http.MethodGet)

	// Symptom checker (patients)
	diagnosis := api.PathPrefix("/diagnosis").Subrouter()
	diagnosis.Use(r.authMiddleware.Authenticate)
	diagnosis.Use(middleware.RequirePatient)
	diagnosis.HandleFunc("/sessions", r.diagnosisHandler.Start).Methods(http.MethodPost)
	diagnosis.HandleFunc("/sessions", r.diagnosisHandler.List).Methods(http.MethodGet)
	diagnosis.HandleFunc("/sessions/{id}", r.diagnosisHandler.Get).Methods(http.MethodGet)
	diagnosis.HandleFunc("/sessions/{id}/messages", r.diagnosisHandler.SendSymptoms).Methods(http.MethodPost)
	diagnosis.HandleFunc("/sessions/{id}/close", r.diagnosisHandler.Close).Methods(http.MethodPost)

	// Prescriptions (issuing and editing are doctor-only)
	protected.HandleFunc("/prescriptions", r.prescriptionHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.Get).Methods(http.MethodGet)

	prescriptionWrites := api.PathPrefix("/prescriptions").Subrouter()
	prescriptionWrites.Use(r.authMiddleware.Authenticate)
	prescriptionWrites.Use(middleware.RequireDoctor)
	prescriptionWrites.HandleFunc("", r.prescriptionHandler.Create).Methods(http.MethodPost)
	prescriptionWrites.HandleFunc("/{id}", r.prescriptionHandler.Update).Methods(http.MethodPut)

	// Notifications
	protected.HandleFunc("/notifications", r.notificationHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", r.notificationHandler.MarkAllRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}/read", r.notificationHandler.MarkRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}", r.notificationHandler.Delete).Methods(http.MethodDelete)

	// Realtime subscription websocket
	protected.HandleFunc("/realtime", r.realtimeHandler.Subscribe).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", r.adminHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", r.adminHandler.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/role", r.adminHandler.SetUserRole).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}/status", r.adminHandler.SetUserActive).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", r.adminHandler.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.adminHandler.ListAuditLogs).Methods(http.MethodGet)

	// Stored objects (avatars, attachments)
	r.router.PathPrefix("/files/").Handler(r.fileStore.Handler()).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
