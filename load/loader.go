package load

import (
	"database/sql"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// Loader define las operaciones de carga sobre las tablas base del destino
type Loader interface {
	// LoadFacturas agrega las líneas de facturas nuevas
	LoadFacturas(rows []models.FacturaRow) error

	// LoadFacturasProveedor agrega las líneas de compras nuevas, borrando
	// antes el día revalidado si lo hay (misma transacción)
	LoadFacturasProveedor(rows []models.FacturaProveedorRow, revalidatedDay *time.Time) error

	// ReplaceItems reemplaza el catálogo completo de items
	ReplaceItems(rows []models.ItemRow) error
}

// PostgresLoader implementa Loader sobre la base de datos PostgreSQL de destino
type PostgresLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger

	facturaLoader   *FacturaLoader
	proveedorLoader *ProveedorLoader
	itemLoader      *ItemLoader
}

// NewPostgresLoader crea una nueva instancia de PostgresLoader
func NewPostgresLoader(db *sql.DB, logger *utils.ETLLogger) *PostgresLoader {
	return &PostgresLoader{
		db:              db,
		logger:          logger,
		facturaLoader:   NewFacturaLoader(db, logger),
		proveedorLoader: NewProveedorLoader(db, logger),
		itemLoader:      NewItemLoader(db, logger),
	}
}

// LoadFacturas agrega las líneas de facturas nuevas
func (l *PostgresLoader) LoadFacturas(rows []models.FacturaRow) error {
	return l.facturaLoader.Load(rows)
}

// LoadFacturasProveedor agrega las líneas de compras nuevas
func (l *PostgresLoader) LoadFacturasProveedor(rows []models.FacturaProveedorRow, revalidatedDay *time.Time) error {
	return l.proveedorLoader.Load(rows, revalidatedDay)
}

// ReplaceItems reemplaza el catálogo completo de items
func (l *PostgresLoader) ReplaceItems(rows []models.ItemRow) error {
	return l.itemLoader.Replace(rows)
}
