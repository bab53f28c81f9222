package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// LoadManager coordina la fase de carga en la base de datos de destino.
// Cada tabla se carga dentro de su propia transacción: un lector nunca
// observa un estado parcial de la tabla afectada.
type LoadManager struct {
	db     *sql.DB
	logger *utils.ETLLogger
	loader Loader
}

// NewLoadManager crea una nueva instancia de LoadManager
func NewLoadManager(db *sql.DB, logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		db:     db,
		logger: logger,
		loader: NewPostgresLoader(db, logger),
	}
}

// Load ejecuta la fase de carga con los datos transformados
func (m *LoadManager) Load(transformedData *models.TransformedData, revalidatedDay *time.Time) error {
	startTime := time.Now()
	m.logger.Info("Inicio de la fase Load (carga de datos)")

	// 1. Líneas de facturas de venta
	if len(transformedData.Facturas) > 0 {
		m.logger.Info("Cargando %d líneas de facturas...", len(transformedData.Facturas))
		if err := m.loader.LoadFacturas(transformedData.Facturas); err != nil {
			m.logger.Error("Error cargando líneas de facturas: %v", err)
			return fmt.Errorf("error cargando líneas de facturas: %w", err)
		}
	}

	// 2. Líneas de facturas de proveedor (incluye el borrado del día
	// revalidado cuando la extracción detectó una inconsistencia)
	if len(transformedData.Proveedor) > 0 || revalidatedDay != nil {
		m.logger.Info("Cargando %d líneas de compras...", len(transformedData.Proveedor))
		if err := m.loader.LoadFacturasProveedor(transformedData.Proveedor, revalidatedDay); err != nil {
			m.logger.Error("Error cargando líneas de compras: %v", err)
			return fmt.Errorf("error cargando líneas de compras: %w", err)
		}
	}

	// 3. Catálogo de items (reemplazo completo)
	if len(transformedData.Items) > 0 {
		m.logger.Info("Reemplazando catálogo de items (%d items)...", len(transformedData.Items))
		if err := m.loader.ReplaceItems(transformedData.Items); err != nil {
			m.logger.Error("Error reemplazando el catálogo de items: %v", err)
			return fmt.Errorf("error reemplazando el catálogo de items: %w", err)
		}
	}

	m.logger.Info("Fase Load finalizada. Duración: %v", time.Since(startTime))
	return nil
}
