package load

import (
	"database/sql"
	"fmt"

	"github.com/jupabego97/nanotronics-etl/utils"
)

// DDL de las tablas base del destino. Las tablas de reporte crean las suyas
// en el paquete reports; el journal de ejecuciones en models.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS facturas (
		indx SERIAL PRIMARY KEY,
		id INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		fecha DATE NOT NULL,
		hora TIMESTAMP NOT NULL,
		nombre VARCHAR(200) NOT NULL,
		precio DOUBLE PRECISION NOT NULL,
		cantidad INTEGER NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		cliente VARCHAR(200) NOT NULL,
		totalfact DOUBLE PRECISION NOT NULL,
		metodo VARCHAR(50) NOT NULL,
		vendedor VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_facturas_id ON facturas(id)`,
	`CREATE INDEX IF NOT EXISTS idx_facturas_fecha ON facturas(fecha)`,
	`CREATE INDEX IF NOT EXISTS idx_facturas_item_id ON facturas(item_id)`,

	`CREATE TABLE IF NOT EXISTS facturas_proveedor (
		registro_id SERIAL PRIMARY KEY,
		id INTEGER,
		fecha DATE NOT NULL,
		nombre VARCHAR(300),
		precio DOUBLE PRECISION,
		cantidad DOUBLE PRECISION,
		total DOUBLE PRECISION,
		total_fact DOUBLE PRECISION,
		proveedor VARCHAR(300),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_facturas_proveedor_fecha ON facturas_proveedor(fecha)`,
	`CREATE INDEX IF NOT EXISTS idx_facturas_proveedor_nombre ON facturas_proveedor(nombre)`,

	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER NOT NULL,
		nombre VARCHAR(300),
		codigo_barras VARCHAR(50),
		familia VARCHAR(100),
		precio NUMERIC(12,2),
		fecha_inicial DATE,
		cantidad_disponible NUMERIC(10,2)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_id ON items(id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_nombre ON items(nombre)`,
}

// EnsureSchema crea las tablas base y sus índices si no existen
func EnsureSchema(db *sql.DB, logger *utils.ETLLogger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error creando/verificando el esquema de destino: %w", err)
		}
	}
	logger.Debug("Esquema de destino verificado")
	return nil
}
