package load

import (
	"database/sql"
	"fmt"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// FacturaLoader carga líneas de facturas de venta en la tabla facturas.
// La idempotencia viene del cursor incremental: solo llegan aquí facturas
// con id posterior al último cargado.
type FacturaLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewFacturaLoader crea una nueva instancia de FacturaLoader
func NewFacturaLoader(db *sql.DB, logger *utils.ETLLogger) *FacturaLoader {
	return &FacturaLoader{
		db:     db,
		logger: logger,
	}
}

// Load inserta las líneas dentro de una única transacción
func (l *FacturaLoader) Load(rows []models.FacturaRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return models.NewStageError(models.StageLoad, models.DestinationConnectionError,
			fmt.Errorf("error iniciando la transacción de facturas: %w", err))
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO facturas
			(id, item_id, fecha, hora, nombre, precio, cantidad, total, cliente, totalfact, metodo, vendedor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`)
	if err != nil {
		return models.NewStageError(models.StageLoad, models.LoadError,
			fmt.Errorf("error preparando la inserción de facturas: %w", err))
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(
			row.ID,
			row.ItemID,
			row.Fecha,
			row.Hora,
			row.Nombre,
			row.Precio,
			row.Cantidad,
			row.Total,
			row.Cliente,
			row.TotalFact,
			row.Metodo,
			row.Vendedor,
		)
		if err != nil {
			return models.NewStageError(models.StageLoad, models.LoadError,
				fmt.Errorf("error insertando la línea de la factura %d: %w", row.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return models.NewStageError(models.StageLoad, models.LoadError,
			fmt.Errorf("error confirmando la transacción de facturas: %w", err))
	}

	l.logger.Debug("Insertadas %d líneas en facturas", len(rows))
	return nil
}
