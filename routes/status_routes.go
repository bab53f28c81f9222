// routes/status_routes.go
package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// HealthResponse estructura de respuesta del endpoint de salud
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// RunsResponse estructura de respuesta del API para el historial de ejecuciones
type RunsResponse struct {
	Runs []models.ETLRunLog `json:"runs"`
}

// SetupRoutes configura las rutas del API de monitoreo del ETL
func SetupRoutes(router *mux.Router, repo models.ETLLogRepository, logger *utils.ETLLogger) {
	router.HandleFunc("/health", HealthHandler()).Methods("GET")
	router.HandleFunc("/api/runs", GetRunsHandler(repo, logger)).Methods("GET")
	router.HandleFunc("/api/runs/last", GetLastRunHandler(repo, logger)).Methods("GET")
}

// HealthHandler responde con el estado del servicio
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status: "ok",
			Time:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// GetRunsHandler maneja las solicitudes del historial de ejecuciones
func GetRunsHandler(repo models.ETLLogRepository, logger *utils.ETLLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 200 {
				http.Error(w, "Parámetro limit inválido (1-200)", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		runs, err := repo.GetRecentRuns(limit)
		if err != nil {
			logger.Error("Error consultando el historial de ejecuciones: %v", err)
			http.Error(w, "Error consultando el historial de ejecuciones", http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []models.ETLRunLog{}
		}

		writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
	}
}

// GetLastRunHandler maneja las solicitudes de la última ejecución exitosa
func GetLastRunHandler(repo models.ETLLogRepository, logger *utils.ETLLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := repo.GetLastSuccessfulRun()
		if err != nil {
			logger.Error("Error consultando la última ejecución exitosa: %v", err)
			http.Error(w, "Error consultando la última ejecución exitosa", http.StatusInternalServerError)
			return
		}
		if run == nil {
			http.Error(w, "Aún no hay ejecuciones exitosas registradas", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, run)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
