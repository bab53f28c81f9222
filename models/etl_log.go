package models

import "time"

// Estados posibles de una ejecución del ETL
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusFailed     = "failed"
)

// ETLRunLog representa una entrada del journal de ejecuciones del ETL.
// Se crea exactamente una por invocación y se actualiza al finalizar.
type ETLRunLog struct {
	ID                 int        `json:"id"`
	RunID              string     `json:"run_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	Status             string     `json:"status"`
	FacturasProcesadas int        `json:"facturas_procesadas"`
	ComprasProcesadas  int        `json:"compras_procesadas"`
	ItemsProcesados    int        `json:"items_procesados"`
	RegistrosReporte   int        `json:"registros_reporte"`
	LastInvoiceID      int        `json:"last_invoice_id"`
	ErrorMessage       string     `json:"error_message,omitempty"`
	ExecutionSeconds   float64    `json:"execution_time_seconds"`
}

// RunCounts agrupa los contadores de una ejecución exitosa
type RunCounts struct {
	Facturas         int
	Compras          int
	Items            int
	RegistrosReporte int
	LastInvoiceID    int
}

// ETLLogRepository define las operaciones sobre el journal de ejecuciones
type ETLLogRepository interface {
	// CreateETLLogTable crea la tabla etl_run_log si no existe
	CreateETLLogTable() error

	// CreateLogEntry registra el inicio de una ejecución y devuelve su id
	CreateLogEntry(runID string, startTime time.Time) (int, error)

	// UpdateLogEntrySuccess marca la ejecución como exitosa con sus contadores
	UpdateLogEntrySuccess(id int, endTime time.Time, counts RunCounts) error

	// UpdateLogEntryFailure marca la ejecución como fallida con el mensaje de error
	UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun devuelve la última ejecución exitosa, o nil si no hay
	GetLastSuccessfulRun() (*ETLRunLog, error)

	// GetRecentRuns devuelve las últimas ejecuciones, más recientes primero
	GetRecentRuns(limit int) ([]ETLRunLog, error)
}
