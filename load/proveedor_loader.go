package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// ProveedorLoader carga líneas de compras en la tabla facturas_proveedor.
// El borrado del día revalidado y la inserción ocurren en la misma
// transacción: o el día queda completo con los datos nuevos, o intacto.
type ProveedorLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewProveedorLoader crea una nueva instancia de ProveedorLoader
func NewProveedorLoader(db *sql.DB, logger *utils.ETLLogger) *ProveedorLoader {
	return &ProveedorLoader{
		db:     db,
		logger: logger,
	}
}

// Load borra el día revalidado (si lo hay) e inserta las líneas nuevas
func (l *ProveedorLoader) Load(rows []models.FacturaProveedorRow, revalidatedDay *time.Time) error {
	tx, err := l.db.Begin()
	if err != nil {
		return models.NewStageError(models.StageLoad, models.DestinationConnectionError,
			fmt.Errorf("error iniciando la transacción de compras: %w", err))
	}
	defer tx.Rollback()

	if revalidatedDay != nil {
		result, err := tx.Exec("DELETE FROM facturas_proveedor WHERE fecha = $1", *revalidatedDay)
		if err != nil {
			return models.NewStageError(models.StageLoad, models.LoadError,
				fmt.Errorf("error borrando el día %s de facturas_proveedor: %w",
					revalidatedDay.Format("2006-01-02"), err))
		}
		deleted, _ := result.RowsAffected()
		l.logger.Info("Eliminados %d registros del %s en facturas_proveedor",
			deleted, revalidatedDay.Format("2006-01-02"))
	}

	if len(rows) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO facturas_proveedor
				(id, fecha, nombre, precio, cantidad, total, total_fact, proveedor)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`)
		if err != nil {
			return models.NewStageError(models.StageLoad, models.LoadError,
				fmt.Errorf("error preparando la inserción de compras: %w", err))
		}
		defer stmt.Close()

		for _, row := range rows {
			_, err := stmt.Exec(
				row.ID,
				row.Fecha,
				row.Nombre,
				row.Precio,
				row.Cantidad,
				row.Total,
				row.TotalFact,
				row.Proveedor,
			)
			if err != nil {
				return models.NewStageError(models.StageLoad, models.LoadError,
					fmt.Errorf("error insertando la línea de compra %q: %w", row.Nombre, err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.NewStageError(models.StageLoad, models.LoadError,
			fmt.Errorf("error confirmando la transacción de compras: %w", err))
	}

	l.logger.Debug("Insertadas %d líneas en facturas_proveedor", len(rows))
	return nil
}
