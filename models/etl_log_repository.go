package models

import (
	"database/sql"
	"fmt"
	"time"
)

// PostgresETLLogRepository implementa ETLLogRepository sobre PostgreSQL
type PostgresETLLogRepository struct {
	db *sql.DB
}

// NewPostgresETLLogRepository crea una nueva instancia de PostgresETLLogRepository
func NewPostgresETLLogRepository(db *sql.DB) *PostgresETLLogRepository {
	return &PostgresETLLogRepository{
		db: db,
	}
}

// CreateETLLogTable crea la tabla del journal de ejecuciones si no existe
func (r *PostgresETLLogRepository) CreateETLLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS etl_run_log (
		id SERIAL PRIMARY KEY,
		run_id UUID NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'in_progress',
		facturas_procesadas INT DEFAULT 0,
		compras_procesadas INT DEFAULT 0,
		items_procesados INT DEFAULT 0,
		registros_reporte INT DEFAULT 0,
		last_invoice_id INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds DOUBLE PRECISION
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("error creando la tabla etl_run_log: %w", err)
	}

	return nil
}

// CreateLogEntry crea la entrada del journal para una nueva ejecución
func (r *PostgresETLLogRepository) CreateLogEntry(runID string, startTime time.Time) (int, error) {
	query := `
	INSERT INTO etl_run_log (run_id, start_time, status)
	VALUES ($1, $2, 'in_progress')
	RETURNING id
	`

	var id int
	if err := r.db.QueryRow(query, runID, startTime).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creando la entrada del journal de ejecuciones: %w", err)
	}

	return id, nil
}

// UpdateLogEntrySuccess actualiza la entrada al finalizar con éxito
func (r *PostgresETLLogRepository) UpdateLogEntrySuccess(id int, endTime time.Time, counts RunCounts) error {
	// Calculamos la duración a partir del inicio registrado
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM etl_run_log WHERE id = $1", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("error obteniendo la hora de inicio de la ejecución: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	query := `
	UPDATE etl_run_log
	SET
		end_time = $1,
		status = 'success',
		facturas_procesadas = $2,
		compras_procesadas = $3,
		items_procesados = $4,
		registros_reporte = $5,
		last_invoice_id = $6,
		execution_time_seconds = $7
	WHERE id = $8
	`

	_, err = r.db.Exec(
		query,
		endTime,
		counts.Facturas,
		counts.Compras,
		counts.Items,
		counts.RegistrosReporte,
		counts.LastInvoiceID,
		executionTime,
		id,
	)

	if err != nil {
		return fmt.Errorf("error actualizando la entrada del journal de ejecuciones: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure actualiza la entrada al finalizar con error
func (r *PostgresETLLogRepository) UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error {
	// Calculamos la duración a partir del inicio registrado
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM etl_run_log WHERE id = $1", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("error obteniendo la hora de inicio de la ejecución: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	query := `
	UPDATE etl_run_log
	SET
		end_time = $1,
		status = 'failed',
		error_message = $2,
		execution_time_seconds = $3
	WHERE id = $4
	`

	_, err = r.db.Exec(query, endTime, errorMessage, executionTime, id)
	if err != nil {
		return fmt.Errorf("error actualizando la entrada del journal de ejecuciones: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun obtiene la última ejecución exitosa del journal
func (r *PostgresETLLogRepository) GetLastSuccessfulRun() (*ETLRunLog, error) {
	query := `
	SELECT id, run_id, start_time, end_time, status,
	       facturas_procesadas, compras_procesadas, items_procesados,
	       registros_reporte, last_invoice_id,
	       COALESCE(error_message, ''), COALESCE(execution_time_seconds, 0)
	FROM etl_run_log
	WHERE status = 'success'
	ORDER BY end_time DESC
	LIMIT 1
	`

	runLog, err := scanRunLog(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error obteniendo la última ejecución exitosa: %w", err)
	}

	return runLog, nil
}

// GetRecentRuns obtiene las últimas ejecuciones registradas en el journal
func (r *PostgresETLLogRepository) GetRecentRuns(limit int) ([]ETLRunLog, error) {
	query := `
	SELECT id, run_id, start_time, end_time, status,
	       facturas_procesadas, compras_procesadas, items_procesados,
	       registros_reporte, last_invoice_id,
	       COALESCE(error_message, ''), COALESCE(execution_time_seconds, 0)
	FROM etl_run_log
	ORDER BY start_time DESC
	LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("error consultando el journal de ejecuciones: %w", err)
	}
	defer rows.Close()

	var runs []ETLRunLog
	for rows.Next() {
		runLog, err := scanRunLog(rows)
		if err != nil {
			return nil, fmt.Errorf("error procesando una entrada del journal: %w", err)
		}
		runs = append(runs, *runLog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error tras iterar el journal de ejecuciones: %w", err)
	}

	return runs, nil
}

// rowScanner abstrae sql.Row y sql.Rows para reutilizar el escaneo
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRunLog(row rowScanner) (*ETLRunLog, error) {
	var runLog ETLRunLog
	var endTime sql.NullTime

	err := row.Scan(
		&runLog.ID,
		&runLog.RunID,
		&runLog.StartTime,
		&endTime,
		&runLog.Status,
		&runLog.FacturasProcesadas,
		&runLog.ComprasProcesadas,
		&runLog.ItemsProcesados,
		&runLog.RegistrosReporte,
		&runLog.LastInvoiceID,
		&runLog.ErrorMessage,
		&runLog.ExecutionSeconds,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		runLog.EndTime = &endTime.Time
	}

	return &runLog, nil
}
