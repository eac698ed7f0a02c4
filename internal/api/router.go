// Package api provides the http routing of the myclinic facade.
package api

import (
	"log/slog"
	"myclinic-backend/internal/api/handlers"
	"myclinic-backend/internal/api/middleware"
	"myclinic-backend/internal/components/assert"
	"myclinic-backend/internal/components/chrono"
	"myclinic-backend/internal/components/telemetry"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter routes the facade endpoints to `clinic`. `logger` receives the
// access log, slog.Default() when nil.
func NewRouter(clinic handlers.Clinic, clock chrono.API, tel telemetry.API, logger *slog.Logger) *mux.Router {
	assert.NotNil("clinic", clinic)
	assert.NotNil("clock", clock)
	assert.NotNil("telemetry", tel)

	tel = telemetry.NewScopedAPI("http_api", tel)

	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))
	r.Use(middleware.ErrorRecovery(tel))

	r.HandleFunc("/", handlers.HealthCheck(clock)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", handlers.Login(clinic, tel)).Methods(http.MethodPost)
	api.HandleFunc("/auth/status", handlers.Status(clinic)).Methods(http.MethodGet)

	guard := middleware.RequireAuth(clinic)
	api.Handle("/agenda", guard(handlers.Agenda(clinic, tel))).Methods(http.MethodGet)
	api.Handle("/agenda/date/{date}", guard(handlers.AgendaByDate(clinic, tel))).Methods(http.MethodGet)
	api.Handle("/relatorios/aniversariantes", guard(handlers.Birthdays(clinic, tel))).Methods(http.MethodGet)

	return r
}
