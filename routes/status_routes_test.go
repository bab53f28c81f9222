// routes/status_routes_test.go
package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

type fakeRepo struct {
	runs     []models.ETLRunLog
	last     *models.ETLRunLog
	err      error
	gotLimit int
}

func (f *fakeRepo) CreateETLLogTable() error { return nil }

func (f *fakeRepo) CreateLogEntry(string, time.Time) (int, error) { return 0, nil }

func (f *fakeRepo) UpdateLogEntrySuccess(int, time.Time, models.RunCounts) error { return nil }

func (f *fakeRepo) UpdateLogEntryFailure(int, time.Time, string) error { return nil }

func (f *fakeRepo) GetLastSuccessfulRun() (*models.ETLRunLog, error) { return f.last, f.err }

func (f *fakeRepo) GetRecentRuns(limit int) ([]models.ETLRunLog, error) {
	f.gotLimit = limit
	return f.runs, f.err
}

// chdirTemp reemplaza a t.Chdir (Go 1.24) para toolchains anteriores.
func chdirTemp(t *testing.T) {
	t.Helper()
	previo, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(previo) })
}

func testRouter(t *testing.T, repo models.ETLLogRepository) *mux.Router {
	t.Helper()
	chdirTemp(t)

	router := mux.NewRouter()
	SetupRoutes(router, repo, utils.NewETLLogger(false))
	return router
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t, &fakeRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
}

func TestGetRunsEndpoint(t *testing.T) {
	repo := &fakeRepo{runs: []models.ETLRunLog{
		{ID: 2, RunID: "b2c3", Status: models.RunStatusSuccess},
		{ID: 1, RunID: "a1b2", Status: models.RunStatusFailed},
	}}
	router := testRouter(t, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, repo.gotLimit)

	var resp RunsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 2)
	require.Equal(t, "b2c3", resp.Runs[0].RunID)
}

func TestGetRunsLimiteInvalido(t *testing.T) {
	router := testRouter(t, &fakeRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=cero", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunsErrorDeRepositorio(t *testing.T) {
	router := testRouter(t, &fakeRepo{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetLastRunEndpoint(t *testing.T) {
	t.Run("con ejecuciones", func(t *testing.T) {
		repo := &fakeRepo{last: &models.ETLRunLog{ID: 9, RunID: "c3d4", Status: models.RunStatusSuccess}}
		router := testRouter(t, repo)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/last", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var run models.ETLRunLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
		require.Equal(t, "c3d4", run.RunID)
	})

	t.Run("sin ejecuciones", func(t *testing.T) {
		router := testRouter(t, &fakeRepo{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/last", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
