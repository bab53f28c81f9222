package load

import (
	"database/sql"
	"fmt"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// ItemLoader reemplaza el catálogo completo en la tabla items. TRUNCATE e
// inserción dentro de una única transacción: repetir la carga con el mismo
// catálogo deja la tabla en el mismo estado.
type ItemLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewItemLoader crea una nueva instancia de ItemLoader
func NewItemLoader(db *sql.DB, logger *utils.ETLLogger) *ItemLoader {
	return &ItemLoader{
		db:     db,
		logger: logger,
	}
}

// Replace vacía la tabla e inserta el catálogo nuevo
func (l *ItemLoader) Replace(rows []models.ItemRow) error {
	tx, err := l.db.Begin()
	if err != nil {
		return models.NewStageError(models.StageLoad, models.DestinationConnectionError,
			fmt.Errorf("error iniciando la transacción de items: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.Exec("TRUNCATE TABLE items"); err != nil {
		return models.NewStageError(models.StageLoad, models.LoadError,
			fmt.Errorf("error truncando la tabla items: %w", err))
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items
			(id, nombre, codigo_barras, familia, precio, fecha_inicial, cantidad_disponible)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return models.NewStageError(models.StageLoad, models.LoadError,
			fmt.Errorf("error preparando la inserción de items: %w", err))
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(
			row.ID,
			row.Nombre,
			row.CodigoBarras,
			row.Familia,
			row.Precio,
			row.FechaInicial,
			row.CantidadDisponible,
		)
		if err != nil {
			return models.NewStageError(models.StageLoad, models.LoadError,
				fmt.Errorf("error insertando el item %d: %w", row.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return models.NewStageError(models.StageLoad, models.LoadError,
			fmt.Errorf("error confirmando la transacción de items: %w", err))
	}

	l.logger.Debug("Catálogo reemplazado con %d items", len(rows))
	return nil
}
