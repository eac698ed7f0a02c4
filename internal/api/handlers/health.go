package handlers

import (
	"myclinic-backend/internal/api/middleware"
	"myclinic-backend/internal/components/chrono"
	"net/http"
)

const ServiceName = "Myclinic API Wrapper"

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func HealthCheck(clock chrono.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Service:   ServiceName,
			Timestamp: clock.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		})
	}
}
